package merkle

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"

	qt "github.com/frankban/quicktest"
)

func leaf(i int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("leaf-%d", i)))
	return hex.EncodeToString(sum[:])
}

func leaves(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = leaf(i)
	}
	return out
}

func pair(t *testing.T, a, b string) string {
	ab, err := hex.DecodeString(a + b)
	if err != nil {
		t.Fatal(err)
	}
	sum := sha256.Sum256(ab)
	return hex.EncodeToString(sum[:])
}

func TestEmptyRoot(t *testing.T) {
	c := qt.New(t)
	root, err := Root(nil)
	c.Assert(err, qt.IsNil)
	c.Assert(root, qt.Equals, "0000000000000000000000000000000000000000000000000000000000000000")

	proof, err := Proof(nil, 0)
	c.Assert(err, qt.IsNil)
	c.Assert(proof, qt.HasLen, 0)
}

func TestSingleLeafIsRoot(t *testing.T) {
	c := qt.New(t)
	l := leaves(1)
	root, err := Root(l)
	c.Assert(err, qt.IsNil)
	c.Assert(root, qt.Equals, l[0])

	proof, err := Proof(l, 0)
	c.Assert(err, qt.IsNil)
	c.Assert(proof, qt.HasLen, 0)
}

func TestOddNodeIsDuplicated(t *testing.T) {
	c := qt.New(t)
	l := leaves(3)
	want := pair(t, pair(t, l[0], l[1]), pair(t, l[2], l[2]))

	root, err := Root(l)
	c.Assert(err, qt.IsNil)
	c.Assert(root, qt.Equals, want)

	proof, err := Proof(l, 2)
	c.Assert(err, qt.IsNil)
	c.Assert(proof, qt.DeepEquals, []string{l[2], pair(t, l[0], l[1])})
}

func TestProofRoundTrip(t *testing.T) {
	c := qt.New(t)
	for n := 1; n <= 17; n++ {
		l := leaves(n)
		root, err := Root(l)
		c.Assert(err, qt.IsNil)
		for i := 0; i < n; i++ {
			proof, err := Proof(l, i)
			c.Assert(err, qt.IsNil)
			got, err := RootFromProof(l[i], i, proof)
			c.Assert(err, qt.IsNil)
			c.Assert(got, qt.Equals, root, qt.Commentf("n=%d i=%d", n, i))
			c.Assert(Verify(l[i], i, proof, root), qt.IsTrue)
		}
	}
}

func TestProofRejectsWrongLeafOrIndex(t *testing.T) {
	c := qt.New(t)
	l := leaves(5)
	root, err := Root(l)
	c.Assert(err, qt.IsNil)
	proof, err := Proof(l, 1)
	c.Assert(err, qt.IsNil)

	c.Assert(Verify(l[2], 1, proof, root), qt.IsFalse)
	c.Assert(Verify(l[1], 0, proof, root), qt.IsFalse)
	c.Assert(Verify("zz", 1, proof, root), qt.IsFalse)
}

func TestOutOfRangeIndex(t *testing.T) {
	c := qt.New(t)
	l := leaves(4)
	for _, i := range []int{-1, 4, 100} {
		proof, err := Proof(l, i)
		c.Assert(err, qt.IsNil)
		c.Assert(proof, qt.HasLen, 0)
	}
}

func TestInvalidLeaf(t *testing.T) {
	c := qt.New(t)
	_, err := Root([]string{leaf(0), "abcd"})
	c.Assert(err, qt.ErrorIs, ErrInvalidLeaf)
}
