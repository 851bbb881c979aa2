package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	"studyplan/internal/domain"
	"studyplan/internal/domain/models"
)

// JWKSVerifier checks asymmetric tokens against a JWKS endpoint.
type JWKSVerifier struct {
	jwks   keyfunc.Keyfunc
	logger *slog.Logger
}

// NewJWTVerifier creates a verifier that fetches public keys from jwksURL.
// keyfunc caches the key set and refreshes it on unknown key ids.
func NewJWTVerifier(ctx context.Context, jwksURL string, logger *slog.Logger) (JWTVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}

	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS client: %w", err)
	}

	logger.Info("JWT verifier initialized", "jwks_url", jwksURL)
	return &JWKSVerifier{jwks: jwks, logger: logger}, nil
}

// VerifyToken validates the signature (RS256 or ES256 only) and the claims.
func (v *JWKSVerifier) VerifyToken(tokenString string) (*models.Claims, error) {
	claims := &models.Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, v.jwks.Keyfunc,
		jwt.WithValidMethods([]string{"RS256", "ES256"}),
	)
	if err != nil {
		v.logger.Debug("token rejected", "error", err)
		return nil, domain.Unauthenticated("invalid token")
	}
	return checkClaims(claims, v.logger)
}

// Close is a no-op; keyfunc owns its refresh goroutine via the init context.
func (v *JWKSVerifier) Close() error {
	return nil
}

// checkClaims applies the checks shared by every verifier.
func checkClaims(claims *models.Claims, logger *slog.Logger) (*models.Claims, error) {
	if claims.Subject == "" {
		logger.Debug("token missing subject claim")
		return nil, domain.Unauthenticated("invalid token")
	}
	if claims.Role != models.RoleAuthenticated || claims.IsAnonymous {
		logger.Debug("token has wrong role",
			"role", claims.Role,
			"anonymous", claims.IsAnonymous,
			"user_id", claims.Subject,
		)
		return nil, domain.Unauthenticated("sign in required")
	}
	return claims, nil
}
