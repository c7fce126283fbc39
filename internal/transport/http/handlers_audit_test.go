package httptransport

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"evote/internal/auditchain"
	"evote/internal/transport/http/mocks"
	"evote/pkg/platform/audit"
)

type AuditHandlerSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	chain     *mocks.MockAuditChainService
	checker   *mocks.MockChainChecker
	anomalies *mocks.MockAnomalyReader
	router    chi.Router
}

func (s *AuditHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.chain = mocks.NewMockAuditChainService(s.ctrl)
	s.checker = mocks.NewMockChainChecker(s.ctrl)
	s.anomalies = mocks.NewMockAnomalyReader(s.ctrl)
	s.router = chi.NewRouter()
	NewAuditHandler(s.chain, s.checker, s.anomalies, discardLogger).Register(s.router)
}

func TestAuditHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuditHandlerSuite))
}

func (s *AuditHandlerSuite) get(path string) (int, map[string]any) {
	return serve(s.T(), s.router, testRequest{method: http.MethodGet, path: path})
}

// =============================================================================
// Audit log
// =============================================================================

func (s *AuditHandlerSuite) TestList() {
	s.Run("passes paging through", func() {
		s.chain.EXPECT().List(gomock.Any(), int64(10), 5).Return([]auditchain.Entry{{ID: 11, Action: "START_ELECTION"}}, nil)
		status, body := s.get("/internal/audit-log?after=10&limit=5")
		s.Equal(http.StatusOK, status)
		s.Len(body["entries"], 1)
	})

	s.Run("rejects negative paging", func() {
		s.chain.EXPECT().List(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
		status, _ := s.get("/internal/audit-log?after=-1")
		s.Equal(http.StatusBadRequest, status)
	})
}

// =============================================================================
// Chain audit
// =============================================================================

func (s *AuditHandlerSuite) TestChainAudit() {
	s.Run("broken chain reports breaks and the alert", func() {
		s.checker.EXPECT().Check(gomock.Any()).Return(true, nil)
		s.checker.EXPECT().LastReport().Return(&auditchain.Report{
			Intact:    false,
			Count:     3,
			Breaks:    []auditchain.Break{{ID: 3, StoredPrev: "aa", ExpectedPrev: "bb"}},
			CheckedAt: time.Now(),
		})

		status, body := s.get("/internal/chain-audit")

		s.Equal(http.StatusOK, status)
		s.Equal(false, body["intact"])
		s.Equal(true, body["alert_sent"])
		s.Len(body["breaks"], 1)
	})

	s.Run("verification error", func() {
		s.checker.EXPECT().Check(gomock.Any()).Return(false, errors.New("db down"))
		status, _ := s.get("/internal/chain-audit")
		s.Equal(http.StatusInternalServerError, status)
	})
}

// =============================================================================
// Anomalies
// =============================================================================

func (s *AuditHandlerSuite) TestAnomalies() {
	s.Run("recent", func() {
		s.anomalies.EXPECT().ListRecent(gomock.Any(), 100).Return(nil, nil)
		status, body := s.get("/internal/anomalies")
		s.Equal(http.StatusOK, status)
		s.Empty(body["events"])
	})

	s.Run("by action", func() {
		s.anomalies.EXPECT().ListByAction(gomock.Any(), audit.ActionReplayRejected).
			Return([]audit.SecurityEvent{{Action: audit.ActionReplayRejected, ElectionID: "e1"}}, nil)
		status, body := s.get("/internal/anomalies?action=replay_rejected")
		s.Equal(http.StatusOK, status)
		s.Len(body["events"], 1)
	})
}
