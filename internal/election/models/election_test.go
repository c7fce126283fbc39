package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	dErrors "evote/pkg/domain-errors"
)

type ElectionSuite struct {
	suite.Suite
	election *Election
}

func TestElectionSuite(t *testing.T) {
	suite.Run(t, new(ElectionSuite))
}

func (s *ElectionSuite) SetupTest() {
	s.election = &Election{
		ID:            "E1",
		Candidates:    []Candidate{{ID: "c1", Name: "Ada"}, {ID: "c2", Name: "Brin"}},
		RSAKeyID:      "rsa-demo",
		PaillierKeyID: "paillier-demo",
	}
}

func (s *ElectionSuite) TestValidate() {
	s.Run("valid election", func() {
		s.NoError(s.election.Validate())
	})
	s.Run("duplicate candidate", func() {
		e := *s.election
		e.Candidates = []Candidate{{ID: "c1"}, {ID: "c1"}}
		s.True(dErrors.HasCode(e.Validate(), dErrors.CodeValidation))
	})
	s.Run("missing key binding", func() {
		e := *s.election
		e.PaillierKeyID = ""
		s.True(dErrors.HasCode(e.Validate(), dErrors.CodeValidation))
	})
}

func (s *ElectionSuite) TestLifecycle() {
	now := time.Now()

	s.True(dErrors.HasCode(s.election.CanEnd(), dErrors.CodeElectionNotOpen))
	s.False(s.election.IsOpen())

	s.Require().NoError(s.election.CanStart())
	s.election.ApplyStart(now)
	s.True(s.election.IsOpen())
	s.Error(s.election.CanStart())

	s.True(dErrors.HasCode(s.election.CanTally(), dErrors.CodeElectionNotEnded))

	s.Require().NoError(s.election.CanEnd())
	s.election.ApplyEnd(now)
	s.False(s.election.IsOpen())

	s.Require().NoError(s.election.CanTally())
	s.election.ApplyTally()
	s.True(dErrors.HasCode(s.election.CanTally(), dErrors.CodeTallyAlreadyGenerated))
}

func (s *ElectionSuite) TestCandidateLookups() {
	s.Equal([]string{"c1", "c2"}, s.election.CandidateIDs())
	s.True(s.election.HasCandidate("c2"))
	s.False(s.election.HasCandidate("c9"))
	s.Equal("Ada", s.election.CandidateNames()["c1"])
}
