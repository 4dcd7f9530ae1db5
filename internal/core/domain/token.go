package domain

import "time"

// TokenClaims is the verified content of a bearer token.
type TokenClaims struct {
	SubjectID string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
