package token

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ajling/tokenward/internal/model"
)

// Claims is the wire shape of an issued token's claim set.
type Claims struct {
	jwt.RegisteredClaims
	Scope    []string               `json:"scope,omitempty"`
	Provider model.ProviderIdentity `json:"provider"`
	Subject  model.Subject          `json:"subject"`
}

// JWT implements model.TokenSigner backed by symmetric HMAC.
type JWT struct {
	secretKey string
}

// NewJWT creates a new JWT signer/verifier with the provided secret key.
func NewJWT(secretKey string) model.TokenSigner {
	return &JWT{secretKey: secretKey}
}

// Sign serializes the claim set into a signed HS256 token string.
func (j *JWT) Sign(c model.TokenClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        c.ID,
			Issuer:    c.Issuer,
			IssuedAt:  jwt.NewNumericDate(c.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(c.ExpiresAt),
		},
		Scope:    c.Scope,
		Provider: c.Provider,
		Subject:  c.Subject,
	})

	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Verify validates the signature and registered claims of a token string
// and maps it back to the domain claim set. Expired, malformed, or
// tampered tokens come back as errors.
func (j *JWT) Verify(tokenString string) (model.TokenClaims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return model.TokenClaims{}, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return model.TokenClaims{}, fmt.Errorf("token is invalid")
	}
	if claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return model.TokenClaims{}, fmt.Errorf("token missing iat or exp claim")
	}

	return model.TokenClaims{
		ID:        claims.ID,
		Issuer:    claims.Issuer,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
		Scope:     claims.Scope,
		Provider:  claims.Provider,
		Subject:   claims.Subject,
	}, nil
}
