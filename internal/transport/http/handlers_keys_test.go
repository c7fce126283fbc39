package httptransport

import (
	"math/big"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"evote/internal/keys"
	"evote/internal/transport/http/mocks"
)

type KeyHandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *mocks.MockKeyService
	router  chi.Router
}

func (s *KeyHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = mocks.NewMockKeyService(s.ctrl)
	s.router = chi.NewRouter()
	h := NewKeyHandler(s.service, 2048, 1024, discardLogger)
	h.Register(s.router)
	h.RegisterAdmin(s.router)
}

func TestKeyHandlerSuite(t *testing.T) {
	suite.Run(t, new(KeyHandlerSuite))
}

func (s *KeyHandlerSuite) TestListPublic() {
	s.service.EXPECT().ListPublic(gomock.Any()).Return([]keys.Record{
		{ID: "rsa-abc", Algorithm: keys.AlgorithmRSA, Modulus: big.NewInt(3233), PublicExponent: 65537},
	}, nil)

	status, body := serve(s.T(), s.router, testRequest{method: http.MethodGet, path: "/public-keys"})

	s.Equal(http.StatusOK, status)
	list := body["keys"].([]any)
	s.Require().Len(list, 1)
	s.Equal("3233", list[0].(map[string]any)["modulus"])
}

func (s *KeyHandlerSuite) TestGenerate() {
	s.Run("default bits", func() {
		s.service.EXPECT().Generate(gomock.Any(), keys.GenerateRequest{Algorithm: keys.AlgorithmPaillier, Bits: 1024}).
			Return(&keys.Record{ID: "paillier-1", Algorithm: keys.AlgorithmPaillier, Modulus: big.NewInt(15)}, nil)

		status, body := serve(s.T(), s.router, testRequest{method: http.MethodPost, path: "/keys", body: `{"algorithm":"Paillier"}`})

		s.Equal(http.StatusCreated, status)
		s.Equal("paillier-1", body["key_id"])
	})

	s.Run("unknown algorithm", func() {
		s.service.EXPECT().Generate(gomock.Any(), gomock.Any()).Times(0)
		status, _ := serve(s.T(), s.router, testRequest{method: http.MethodPost, path: "/keys", body: `{"algorithm":"ecdsa"}`})
		s.Equal(http.StatusBadRequest, status)
	})

	s.Run("rsa below its floor", func() {
		s.service.EXPECT().Generate(gomock.Any(), gomock.Any()).Times(0)
		status, _ := serve(s.T(), s.router, testRequest{method: http.MethodPost, path: "/keys", body: `{"algorithm":"rsa","bits":512}`})
		s.Equal(http.StatusBadRequest, status)
	})
}
