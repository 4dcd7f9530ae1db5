package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/taskforge/task-api/internal/core/domain"
)

// DefaultTokenTTL is the token lifetime used when none is configured.
const DefaultTokenTTL = 24 * time.Hour

type tokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// JWTCodec implements ports.TokenCodec with HS256-signed JWTs. The secret and
// lifetime are read-only after construction.
type JWTCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// CodecOption customises a JWTCodec.
type CodecOption func(*JWTCodec)

// WithClock overrides the time source used for issuing and verifying.
func WithClock(now func() time.Time) CodecOption {
	return func(c *JWTCodec) { c.now = now }
}

// NewJWTCodec returns a codec signing with secret. A non-positive ttl selects
// DefaultTokenTTL.
func NewJWTCodec(secret string, ttl time.Duration, opts ...CodecOption) (*JWTCodec, error) {
	if secret == "" {
		return nil, errors.New("jwt secret must not be empty")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	c := &JWTCodec{secret: []byte(secret), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Issue signs a token binding subjectID and email until now+ttl.
func (c *JWTCodec) Issue(subjectID, email string) (string, error) {
	now := c.now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
			ID:        uuid.NewString(),
		},
		Email: email,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm and expiry.
func (c *JWTCodec) Verify(token string) (*domain.TokenClaims, error) {
	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrTokenInvalid, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", domain.ErrTokenInvalid)
	}

	out := &domain.TokenClaims{
		SubjectID: claims.Subject,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}
