package httptransport

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"evote/internal/tally"
	"evote/internal/transport/http/mocks"
	dErrors "evote/pkg/domain-errors"
)

type TallyHandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *mocks.MockTallyService
	router  chi.Router
}

func (s *TallyHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = mocks.NewMockTallyService(s.ctrl)
	s.router = chi.NewRouter()
	h := NewTallyHandler(s.service, discardLogger)
	h.Register(s.router)
	h.RegisterAdmin(s.router)
}

func TestTallyHandlerSuite(t *testing.T) {
	suite.Run(t, new(TallyHandlerSuite))
}

func (s *TallyHandlerSuite) TestTally() {
	s.Run("returns rows and winners", func() {
		s.service.EXPECT().Tally(gomock.Any(), "e1").Return(&tally.Result{
			ElectionID: "e1",
			WinnerIDs:  []string{"c2"},
			Final:      true,
		}, nil)

		status, body := serve(s.T(), s.router, testRequest{method: http.MethodPost, path: "/elections/e1/tally"})

		s.Equal(http.StatusOK, status)
		s.Equal([]any{"c2"}, body["winner_ids"])
	})

	s.Run("second tally conflicts", func() {
		s.service.EXPECT().Tally(gomock.Any(), "e1").
			Return(nil, dErrors.New(dErrors.CodeTallyAlreadyGenerated, "tally already generated"))

		status, body := serve(s.T(), s.router, testRequest{method: http.MethodPost, path: "/elections/e1/tally"})

		s.Equal(http.StatusConflict, status)
		s.Equal(string(dErrors.CodeTallyAlreadyGenerated), body["error"])
	})
}

func (s *TallyHandlerSuite) TestPreviewAndResults() {
	s.service.EXPECT().Preview(gomock.Any(), "e1").Return(&tally.Result{ElectionID: "e1"}, nil)
	s.service.EXPECT().Results(gomock.Any(), "e1").Return(&tally.Results{ElectionID: "e1", Status: tally.ResultPending}, nil)

	status, body := serve(s.T(), s.router, testRequest{method: http.MethodGet, path: "/elections/e1/tally/preview"})
	s.Equal(http.StatusOK, status)
	s.Equal(false, body["final"])

	status, body = serve(s.T(), s.router, testRequest{method: http.MethodGet, path: "/elections/e1/results"})
	s.Equal(http.StatusOK, status)
	s.Equal("pending", body["status"])
}

func (s *TallyHandlerSuite) TestInternalErrorHidesMessage() {
	s.service.EXPECT().Results(gomock.Any(), "e1").Return(nil, dErrors.New(dErrors.CodeInternal, "db password wrong"))

	status, body := serve(s.T(), s.router, testRequest{method: http.MethodGet, path: "/elections/e1/results"})

	s.Equal(http.StatusInternalServerError, status)
	s.NotContains(body, "error_description")
}
