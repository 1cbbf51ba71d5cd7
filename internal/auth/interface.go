package auth

import "snippetnav/internal/domain/models"

// JWTVerifier validates bearer tokens for the auth middleware
type JWTVerifier interface {
	// VerifyToken returns the claims of a valid token. Expired, unsigned or
	// anonymous tokens are rejected.
	VerifyToken(tokenString string) (*models.Claims, error)

	// Close stops background JWKS refreshes
	Close() error
}
