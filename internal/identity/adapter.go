package identity

import "evote/pkg/platform/middleware/auth"

// MiddlewareAdapter lets auth.RequireAuth validate session tokens.
type MiddlewareAdapter struct {
	svc *JWTService
}

func NewMiddlewareAdapter(svc *JWTService) *MiddlewareAdapter {
	return &MiddlewareAdapter{svc: svc}
}

func (a *MiddlewareAdapter) ValidateToken(token string) (*auth.Claims, error) {
	s, err := a.svc.Validate(token)
	if err != nil {
		return nil, err
	}
	return &auth.Claims{
		Subject: s.Subject,
		Role:    string(s.Role),
		Actor:   s.Actor(),
		TokenID: s.TokenID,
	}, nil
}
