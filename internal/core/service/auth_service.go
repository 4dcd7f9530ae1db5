package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskforge/task-api/internal/core/domain"
	"github.com/taskforge/task-api/internal/core/ports"
)

// errInvalidCredentials is returned for both an unknown email and a wrong
// password so the two cannot be told apart.
var errInvalidCredentials = domain.Unauthenticated("invalid credentials")

// AuthService implements signup and login.
type AuthService struct {
	identities ports.IdentityStore
	hasher     ports.CredentialHasher
	codec      ports.TokenCodec
	throttle   ports.LoginThrottle
	audit      ports.AuditRecorder
	log        zerolog.Logger

	// dummyHash is compared against on the unknown-email path so that it
	// costs the same as a wrong password.
	dummyHash string
}

// AuthOption customises an AuthService.
type AuthOption func(*AuthService)

// WithLoginThrottle enables failed-login limiting.
func WithLoginThrottle(t ports.LoginThrottle) AuthOption {
	return func(s *AuthService) { s.throttle = t }
}

// WithAuditRecorder sends signup and login events to r.
func WithAuditRecorder(r ports.AuditRecorder) AuthOption {
	return func(s *AuthService) { s.audit = r }
}

func NewAuthService(
	identities ports.IdentityStore,
	hasher ports.CredentialHasher,
	codec ports.TokenCodec,
	log zerolog.Logger,
	opts ...AuthOption,
) (*AuthService, error) {
	dummy, err := hasher.Hash("timing-equaliser-" + strconv.FormatInt(time.Now().UnixNano(), 36))
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}

	s := &AuthService{
		identities: identities,
		hasher:     hasher,
		codec:      codec,
		log:        log,
		dummyHash:  dummy,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Signup registers a new identity and returns a token bound to it. An empty
// role defaults to domain.RoleUser.
func (s *AuthService) Signup(ctx context.Context, email, password string, role domain.Role) (*ports.AuthResult, error) {
	email = domain.NormalizeEmail(email)
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return nil, domain.Invalid(fmt.Sprintf("unknown role %q", role))
	}

	_, err := s.identities.FindByEmail(ctx, email, false)
	switch {
	case err == nil:
		return nil, domain.ErrEmailTaken
	case !errors.Is(err, domain.ErrIdentityNotFound):
		return nil, fmt.Errorf("signup: lookup: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}

	identity, err := s.identities.Create(ctx, email, hash, role)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("signup: create: %w", err)
	}

	token, err := s.codec.Issue(identity.ID, identity.Email)
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}

	s.record(domain.AuditEvent{Kind: domain.AuditSignup, IdentityID: identity.ID, Email: identity.Email})
	s.log.Info().Str("identity_id", identity.ID).Str("role", string(identity.Role)).Msg("identity registered")

	return &ports.AuthResult{Token: token, Identity: identity.Summary()}, nil
}

// Login verifies credentials and issues a token. Unknown email and wrong
// password return the same error after the same amount of hashing work.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = domain.NormalizeEmail(email)

	if s.throttle != nil {
		ok, retryAfter, err := s.throttle.Allow(ctx, email)
		if err != nil {
			s.log.Warn().Err(err).Msg("login throttle check failed, continuing")
		} else if !ok {
			s.record(domain.AuditEvent{Kind: domain.AuditLoginThrottled, Email: email})
			return nil, &ThrottledError{RetryAfter: retryAfter}
		}
	}

	identity, err := s.identities.FindByEmail(ctx, email, true)
	if err != nil {
		if !errors.Is(err, domain.ErrIdentityNotFound) {
			return nil, fmt.Errorf("login: lookup: %w", err)
		}
		s.hasher.Verify(password, s.dummyHash)
		return nil, s.loginFailed(ctx, email)
	}

	if !s.hasher.Verify(password, identity.CredentialHash) {
		return nil, s.loginFailed(ctx, email)
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, email); err != nil {
			s.log.Warn().Err(err).Msg("failed to reset login throttle")
		}
	}

	token, err := s.codec.Issue(identity.ID, identity.Email)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	s.record(domain.AuditEvent{Kind: domain.AuditLoginSucceeded, IdentityID: identity.ID, Email: identity.Email})
	return &ports.AuthResult{Token: token, Identity: identity.Summary()}, nil
}

func (s *AuthService) loginFailed(ctx context.Context, email string) error {
	if s.throttle != nil {
		if err := s.throttle.Fail(ctx, email); err != nil {
			s.log.Warn().Err(err).Msg("failed to record login failure")
		}
	}
	s.record(domain.AuditEvent{Kind: domain.AuditLoginFailed, Email: email})
	return errInvalidCredentials
}

func (s *AuthService) record(e domain.AuditEvent) {
	if s.audit == nil {
		return
	}
	e.At = time.Now().UTC()
	s.audit.Record(e)
}

// ThrottledError is returned when login attempts for an email are exhausted.
type ThrottledError struct {
	RetryAfter time.Duration
}

func (e *ThrottledError) Error() string { return "too many failed login attempts, try again later" }

func (e *ThrottledError) Unwrap() error { return domain.ErrTooManyAttempts }
