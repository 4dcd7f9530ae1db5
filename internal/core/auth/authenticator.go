package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/taskforge/task-api/internal/core/domain"
	"github.com/taskforge/task-api/internal/core/ports"
)

var (
	errMissingToken    = domain.Unauthenticated("missing token")
	errInvalidToken    = domain.Unauthenticated("invalid or expired token")
	errUnknownIdentity = domain.Unauthenticated("identity no longer exists")
)

// Authenticator turns a raw bearer token into the current identity. It is the
// only place an unauthenticated request becomes an authenticated principal.
type Authenticator struct {
	codec      ports.TokenCodec
	identities ports.IdentityStore
	log        zerolog.Logger
}

func NewAuthenticator(codec ports.TokenCodec, identities ports.IdentityStore, log zerolog.Logger) *Authenticator {
	return &Authenticator{codec: codec, identities: identities, log: log}
}

// Authenticate verifies rawToken and re-resolves its subject against the
// identity store, so a token outliving its identity is rejected.
//
// Rejections unwrap to domain.ErrUnauthenticated. Token-level rejections also
// unwrap to domain.ErrTokenInvalid or domain.ErrTokenExpired.
func (a *Authenticator) Authenticate(ctx context.Context, rawToken string) (*domain.Identity, error) {
	if rawToken == "" {
		return nil, errMissingToken
	}

	claims, err := a.codec.Verify(rawToken)
	if err != nil {
		a.log.Debug().Err(err).Bool("expired", errors.Is(err, domain.ErrTokenExpired)).Msg("token rejected")
		return nil, fmt.Errorf("%w: %w", errInvalidToken, err)
	}

	identity, err := a.identities.FindByID(ctx, claims.SubjectID)
	if err != nil {
		if errors.Is(err, domain.ErrIdentityNotFound) {
			a.log.Debug().Str("subject", claims.SubjectID).Msg("token subject no longer resolves")
			return nil, errUnknownIdentity
		}
		return nil, fmt.Errorf("resolve identity: %w", err)
	}

	return identity, nil
}
