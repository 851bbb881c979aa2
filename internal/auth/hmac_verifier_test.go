package auth

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"studyplan/internal/domain"
	"studyplan/internal/domain/models"
)

const testSecret = "test-secret"

func newTestVerifier(t *testing.T) JWTVerifier {
	t.Helper()
	v, err := NewHMACVerifier(testSecret, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func sign(t *testing.T, method jwt.SigningMethod, key any, claims *models.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func claimsFor(sub, role string, exp time.Time) *models.Claims {
	return &models.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Role: role,
	}
}

func TestHMACVerifier_AcceptsSignedToken(t *testing.T) {
	v := newTestVerifier(t)

	token, err := SignToken(testSecret, "user-42", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	claims, err := v.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken() error = %v", err)
	}
	if claims.GetUserID() != "user-42" {
		t.Errorf("user = %q", claims.GetUserID())
	}
}

func TestHMACVerifier_Rejects(t *testing.T) {
	later := time.Now().Add(time.Hour)
	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong secret", sign(t, jwt.SigningMethodHS256, []byte("other"), claimsFor("u", "authenticated", later))},
		{"expired", sign(t, jwt.SigningMethodHS256, []byte(testSecret), claimsFor("u", "authenticated", time.Now().Add(-time.Minute)))},
		{"anon role", sign(t, jwt.SigningMethodHS256, []byte(testSecret), claimsFor("u", "anon", later))},
		{"no subject", sign(t, jwt.SigningMethodHS256, []byte(testSecret), claimsFor("", "authenticated", later))},
		{"other algorithm", sign(t, jwt.SigningMethodHS512, []byte(testSecret), claimsFor("u", "authenticated", later))},
	}

	v := newTestVerifier(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.VerifyToken(tt.token)
			if !errors.Is(err, domain.ErrUnauthorized) {
				t.Errorf("error = %v, want ErrUnauthorized", err)
			}
		})
	}
}

func TestNewHMACVerifier_RequiresSecret(t *testing.T) {
	if _, err := NewHMACVerifier("", slog.Default()); err == nil {
		t.Error("expected error for empty secret")
	}
}
