package tally

import (
	"math/big"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/suite"

	"evote/internal/tally/phe"
)

var (
	engineKeyOnce sync.Once
	engineKey     *phe.PrivateKey
)

func paillierKey(t *testing.T) *phe.PrivateKey {
	engineKeyOnce.Do(func() {
		k, err := phe.GenerateKey(nil, 512)
		if err != nil {
			t.Fatalf("generate paillier key: %v", err)
		}
		engineKey = k
	})
	return engineKey
}

type countingDecrypter struct {
	inner Decrypter
	calls atomic.Int32
}

func (d *countingDecrypter) Decrypt(c *big.Int) (*big.Int, error) {
	d.calls.Add(1)
	return d.inner.Decrypt(c)
}

// =============================================================================
// Engine Test Suite
// =============================================================================
// Covers one-hot encryption, structural ballot validation and the
// aggregate-then-decrypt property of the tally.

type EngineSuite struct {
	suite.Suite
	priv *phe.PrivateKey
	ids  []string
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupSuite() {
	s.priv = paillierKey(s.T())
	s.ids = []string{"A", "B"}
}

func (s *EngineSuite) ballot(choice string) []CiphertextEntry {
	b, err := EncryptChoice(s.ids, choice, &s.priv.PublicKey)
	s.Require().NoError(err)
	return b
}

func (s *EngineSuite) wire(entries []CiphertextEntry) []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = Entry{CandidateID: e.CandidateID, Ciphertext: e.Ciphertext.String()}
	}
	return out
}

// =============================================================================
// EncryptChoice
// =============================================================================

func (s *EngineSuite) TestEncryptChoice() {
	s.Run("one ciphertext per candidate in order", func() {
		b := s.ballot("B")
		s.Require().Len(b, 2)
		for i, e := range b {
			s.Equal(s.ids[i], e.CandidateID)
			s.True(phe.InRange(&s.priv.PublicKey, e.Ciphertext))
		}
		a, err := s.priv.Decrypt(b[0].Ciphertext)
		s.Require().NoError(err)
		bb, err := s.priv.Decrypt(b[1].Ciphertext)
		s.Require().NoError(err)
		s.Equal(int64(0), a.Int64())
		s.Equal(int64(1), bb.Int64())
	})

	s.Run("fresh randomness per encryption", func() {
		s.NotEqual(0, s.ballot("A")[0].Ciphertext.Cmp(s.ballot("A")[0].Ciphertext))
	})

	s.Run("unknown candidate", func() {
		_, err := EncryptChoice(s.ids, "Z", &s.priv.PublicKey)
		s.ErrorIs(err, ErrUnknownCandidate)
	})
}

// =============================================================================
// Aggregate and decrypt
// =============================================================================

func (s *EngineSuite) TestAggregateDecryptsOncePerCandidate() {
	ballots := [][]CiphertextEntry{s.ballot("A"), s.ballot("A"), s.ballot("B")}

	combined, err := Aggregate(&s.priv.PublicKey, s.ids, ballots)
	s.Require().NoError(err)

	dec := &countingDecrypter{inner: s.priv}
	totals := map[string]int64{}
	for _, id := range s.ids {
		v, err := DecryptAggregate(combined[id], dec)
		s.Require().NoError(err)
		totals[id] = v.Int64()
	}

	s.Equal(map[string]int64{"A": 2, "B": 1}, totals)
	s.Equal(int32(2), dec.calls.Load())
}

func (s *EngineSuite) TestAggregateIsOrderIndependent() {
	ballots := [][]CiphertextEntry{s.ballot("A"), s.ballot("B"), s.ballot("B"), s.ballot("A"), s.ballot("B")}
	reversed := make([][]CiphertextEntry, len(ballots))
	for i, b := range ballots {
		reversed[len(ballots)-1-i] = b
	}

	x, err := Aggregate(&s.priv.PublicKey, s.ids, ballots)
	s.Require().NoError(err)
	y, err := Aggregate(&s.priv.PublicKey, s.ids, reversed)
	s.Require().NoError(err)

	for _, id := range s.ids {
		vx, err := s.priv.Decrypt(x[id])
		s.Require().NoError(err)
		vy, err := s.priv.Decrypt(y[id])
		s.Require().NoError(err)
		s.Equal(0, vx.Cmp(vy), id)
	}
}

func (s *EngineSuite) TestAggregateWithoutBallots() {
	combined, err := Aggregate(&s.priv.PublicKey, s.ids, nil)
	s.Require().NoError(err)
	for _, id := range s.ids {
		v, err := s.priv.Decrypt(combined[id])
		s.Require().NoError(err)
		s.Equal(int64(0), v.Int64())
	}
}

func (s *EngineSuite) TestDecryptAggregateRejectsGarbage() {
	_, err := DecryptAggregate(nil, s.priv)
	s.Error(err)
	_, err = DecryptAggregate(new(big.Int).Set(s.priv.NSquared), s.priv)
	s.ErrorIs(err, phe.ErrCiphertextRange)
}

// =============================================================================
// ValidateBallotShape
// =============================================================================

func (s *EngineSuite) TestValidateBallotShape() {
	pub := &s.priv.PublicKey
	good := s.wire(s.ballot("A"))

	s.Run("accepts and reorders a valid ballot", func() {
		swapped := []Entry{good[1], good[0]}
		out, err := ValidateBallotShape(swapped, s.ids, "k1", "k1", pub)
		s.Require().NoError(err)
		s.Equal("A", out[0].CandidateID)
		s.Equal(good[0].Ciphertext, out[0].Ciphertext.String())
	})

	s.Run("wrong key", func() {
		_, err := ValidateBallotShape(good, s.ids, "k2", "k1", pub)
		s.ErrorIs(err, ErrKeyMismatch)
	})

	s.Run("length mismatch", func() {
		_, err := ValidateBallotShape(good[:1], s.ids, "k1", "k1", pub)
		s.ErrorIs(err, ErrLengthMismatch)
	})

	s.Run("duplicate candidate", func() {
		_, err := ValidateBallotShape([]Entry{good[0], good[0]}, s.ids, "k1", "k1", pub)
		s.ErrorIs(err, ErrDuplicateCandidate)
	})

	s.Run("unknown candidate", func() {
		bad := []Entry{good[0], {CandidateID: "Z", Ciphertext: good[1].Ciphertext}}
		_, err := ValidateBallotShape(bad, s.ids, "k1", "k1", pub)
		s.ErrorIs(err, ErrUnknownCandidate)
	})

	s.Run("ciphertext at n squared", func() {
		bad := []Entry{{CandidateID: "A", Ciphertext: pub.NSquared.String()}, good[1]}
		_, err := ValidateBallotShape(bad, s.ids, "k1", "k1", pub)
		s.ErrorIs(err, ErrOutOfRange)
	})

	s.Run("zero ciphertext", func() {
		bad := []Entry{{CandidateID: "A", Ciphertext: "0"}, good[1]}
		_, err := ValidateBallotShape(bad, s.ids, "k1", "k1", pub)
		s.ErrorIs(err, ErrOutOfRange)
	})

	s.Run("ciphertext sharing a factor with n", func() {
		bad := []Entry{{CandidateID: "A", Ciphertext: pub.N.String()}, good[1]}
		_, err := ValidateBallotShape(bad, s.ids, "k1", "k1", pub)
		s.ErrorIs(err, ErrOutOfRange)
	})

	s.Run("not an integer", func() {
		bad := []Entry{{CandidateID: "A", Ciphertext: "not-an-int"}, good[1]}
		_, err := ValidateBallotShape(bad, s.ids, "k1", "k1", pub)
		s.ErrorIs(err, ErrNotAnInteger)
	})

	s.Run("explicit zero exponent is carried through", func() {
		zero := []Entry{good[0], {CandidateID: good[1].CandidateID, Ciphertext: good[1].Ciphertext, Exponent: 0}}
		out, err := ValidateBallotShape(zero, s.ids, "k1", "k1", pub)
		s.Require().NoError(err)
		for _, e := range out {
			s.Equal(0, e.Exponent)
		}
	})

	s.Run("non-zero exponent", func() {
		bad := []Entry{{CandidateID: "A", Ciphertext: good[0].Ciphertext, Exponent: -3}, good[1]}
		_, err := ValidateBallotShape(bad, s.ids, "k1", "k1", pub)
		s.ErrorIs(err, ErrExponent)
	})
}
