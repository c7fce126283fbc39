package keys

import (
	"crypto/sha256"
	"encoding/hex"
	"math/big"
)

const fingerprintHexLen = 12

// Fingerprint derives the public key identifier "<alg>-<12 hex>" from the modulus.
// The hash input is "<alg>|<modulus in decimal>" so the id is independent of any
// encoding of the key and stable across key stores.
func Fingerprint(alg Algorithm, modulus *big.Int) string {
	sum := sha256.Sum256([]byte(string(alg) + "|" + modulus.String()))
	return string(alg) + "-" + hex.EncodeToString(sum[:])[:fingerprintHexLen]
}
