// Package identity validates session tokens minted by the external identity
// service. It only answers who the caller is and in which role; it never sees
// credentials or ballots.
package identity

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "evote/pkg/domain-errors"
)

type Role string

const (
	RoleVoter Role = "voter"
	RoleAdmin Role = "admin"
)

func (r Role) IsValid() bool {
	return r == RoleVoter || r == RoleAdmin
}

// Claims are the session claims. Subject is the voter or admin id.
type Claims struct {
	Role  Role   `json:"role"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Session is the validated caller.
type Session struct {
	Subject string
	Role    Role
	Email   string
	TokenID string
}

// Actor is the identifier recorded in the audit chain: the email when present.
func (s Session) Actor() string {
	if s.Email != "" {
		return s.Email
	}
	return s.Subject
}

type JWTService struct {
	signingKey []byte
	issuer     string
	audience   string
	now        func() time.Time
}

func NewJWTService(signingKey, issuer, audience string) *JWTService {
	return &JWTService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
		now:        time.Now,
	}
}

// Issue mints a session token. The server only validates; Issue backs the operator
// CLI and tests.
func (s *JWTService) Issue(subject string, role Role, email string, expiresIn time.Duration) (string, error) {
	if subject == "" || !role.IsValid() {
		return "", dErrors.New(dErrors.CodeValidation, "subject and a valid role are required")
	}
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role:  role,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Audience:  []string{s.audience},
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(s.signingKey)
}

// Validate checks signature, issuer, audience and expiry.
func (s *JWTService) Validate(tokenString string) (*Session, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	if claims.Subject == "" || !claims.Role.IsValid() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token is missing subject or role")
	}
	return &Session{
		Subject: claims.Subject,
		Role:    claims.Role,
		Email:   claims.Email,
		TokenID: claims.ID,
	}, nil
}
