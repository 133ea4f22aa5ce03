package supabase

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	testSecret   = "super-secret-jwt-token-with-at-least-32-characters"
	testAudience = "authenticated"
	testIssuer   = "https://abc.supabase.co/auth/v1"
	testSubject  = "2b7c5d0e-6a43-4b8e-9c6f-5c1f3a1e9d20"
)

func signToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("falha ao assinar token: %v", err)
	}
	return signed
}

func validClaims(subject string, exp time.Time) Claims {
	return Claims{
		Email: "entregador@loja.com.br",
		Role:  "authenticated",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    testIssuer,
			Audience:  jwt.ClaimStrings{testAudience},
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(exp.Add(-time.Hour)),
		},
	}
}
