package identity

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "evote/pkg/domain-errors"
)

var svc = NewJWTService("test-signing-key", "test-issuer", "test-audience")

func TestIssueAndValidate(t *testing.T) {
	token, err := svc.Issue("voter-42", RoleVoter, "v@example.org", time.Hour)
	require.NoError(t, err)

	s, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "voter-42", s.Subject)
	assert.Equal(t, RoleVoter, s.Role)
	assert.Equal(t, "v@example.org", s.Actor())
	assert.NotEmpty(t, s.TokenID)
}

func TestValidateRejects(t *testing.T) {
	t.Run("garbage", func(t *testing.T) {
		_, err := svc.Validate("not-a-token")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("expired", func(t *testing.T) {
		token, err := svc.Issue("voter-42", RoleVoter, "", -time.Hour)
		require.NoError(t, err)
		_, err = svc.Validate(token)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expired")
	})

	t.Run("other audience", func(t *testing.T) {
		other := NewJWTService("test-signing-key", "test-issuer", "someone-else")
		token, err := other.Issue("voter-42", RoleVoter, "", time.Hour)
		require.NoError(t, err)
		_, err = svc.Validate(token)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("other signing key", func(t *testing.T) {
		other := NewJWTService("another-key", "test-issuer", "test-audience")
		token, err := other.Issue("voter-42", RoleVoter, "", time.Hour)
		require.NoError(t, err)
		_, err = svc.Validate(token)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("none algorithm", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
			Role:             RoleAdmin,
			RegisteredClaims: jwt.RegisteredClaims{Subject: "x", Issuer: "test-issuer", Audience: []string{"test-audience"}},
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = svc.Validate(token)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("unknown role", func(t *testing.T) {
		_, err := svc.Issue("x", Role("root"), "", time.Hour)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}
