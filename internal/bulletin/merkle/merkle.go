// Package merkle builds the bulletin board tree: a binary SHA-256 tree over hex
// encoded leaves in append order. Adjacent nodes are hashed as sha256(left || right)
// over their raw bytes. A level with an odd count pairs its last node with itself.
package merkle

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// EmptyRoot is the root of an election with no leaves.
var EmptyRoot = strings.Repeat("0", 64)

var ErrInvalidLeaf = errors.New("leaf is not a 32 byte hex digest")

// Root computes the tree root over leaves. Leaves must be hex encoded digests.
func Root(leaves []string) (string, error) {
	if len(leaves) == 0 {
		return EmptyRoot, nil
	}
	level, err := decode(leaves)
	if err != nil {
		return "", err
	}
	for len(level) > 1 {
		level = parents(level)
	}
	return hex.EncodeToString(level[0]), nil
}

// Proof returns the sibling hashes needed to recompute the root from leaves[index],
// ordered from the leaf level up. An out of range index yields an empty proof.
func Proof(leaves []string, index int) ([]string, error) {
	if index < 0 || index >= len(leaves) {
		return []string{}, nil
	}
	level, err := decode(leaves)
	if err != nil {
		return nil, err
	}
	proof := make([]string, 0, depth(len(leaves)))
	for idx := index; len(level) > 1; idx /= 2 {
		sibling := idx ^ 1
		if sibling >= len(level) {
			sibling = idx
		}
		proof = append(proof, hex.EncodeToString(level[sibling]))
		level = parents(level)
	}
	return proof, nil
}

// RootFromProof folds a proof into the root implied by leaf at index.
func RootFromProof(leaf string, index int, proof []string) (string, error) {
	if index < 0 {
		return "", fmt.Errorf("negative index %d", index)
	}
	node, err := decodeLeaf(leaf)
	if err != nil {
		return "", err
	}
	idx := index
	for _, s := range proof {
		sibling, err := decodeLeaf(s)
		if err != nil {
			return "", err
		}
		if idx%2 == 0 {
			node = hashPair(node, sibling)
		} else {
			node = hashPair(sibling, node)
		}
		idx /= 2
	}
	return hex.EncodeToString(node), nil
}

// Verify reports whether proof places leaf at index under root.
func Verify(leaf string, index int, proof []string, root string) bool {
	got, err := RootFromProof(leaf, index, proof)
	if err != nil {
		return false
	}
	return strings.EqualFold(got, root)
}

func parents(level [][]byte) [][]byte {
	next := make([][]byte, 0, (len(level)+1)/2)
	for i := 0; i < len(level); i += 2 {
		right := level[i]
		if i+1 < len(level) {
			right = level[i+1]
		}
		next = append(next, hashPair(level[i], right))
	}
	return next
}

func hashPair(a, b []byte) []byte {
	h := sha256.New()
	h.Write(a)
	h.Write(b)
	return h.Sum(nil)
}

func depth(n int) int {
	d := 0
	for n > 1 {
		n = (n + 1) / 2
		d++
	}
	return d
}

func decode(leaves []string) ([][]byte, error) {
	out := make([][]byte, len(leaves))
	for i, l := range leaves {
		b, err := decodeLeaf(l)
		if err != nil {
			return nil, fmt.Errorf("leaf %d: %w", i, err)
		}
		out[i] = b
	}
	return out, nil
}

func decodeLeaf(s string) ([]byte, error) {
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != sha256.Size {
		return nil, ErrInvalidLeaf
	}
	return b, nil
}
