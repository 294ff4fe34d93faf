package model

// TokenSigner turns a claim set into an opaque signed string and back.
// A successful Verify guarantees the claims were produced by this
// process's own Sign and have not been tampered with.
type TokenSigner interface {
	Sign(claims TokenClaims) (string, error)
	Verify(tokenString string) (TokenClaims, error)
}
