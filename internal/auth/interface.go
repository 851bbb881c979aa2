package auth

import "studyplan/internal/domain/models"

// JWTVerifier validates bearer tokens. The middleware only depends on this,
// so JWKS and shared-secret verification are interchangeable.
type JWTVerifier interface {
	// VerifyToken returns the claims of a valid token, or an error wrapping
	// domain.ErrUnauthorized.
	VerifyToken(tokenString string) (*models.Claims, error)

	// Close releases any resources held by the verifier.
	Close() error
}
