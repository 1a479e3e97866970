package adminauth

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

// Auther ties the identity store and token service into the login,
// refresh, and verification flows.
type Auther struct {
	identities   *IdentityStore
	tokens       *TokenServiceImpl
	logger       Logger
	activitySink ActivitySink
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(identities *IdentityStore, tokens *TokenServiceImpl) *Auther {
	return &Auther{
		identities:   identities,
		tokens:       tokens,
		logger:       defLogger{},
		activitySink: noopActivitySink{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithActivitySink configures an ActivitySink for emitting auth events.
func (s *Auther) WithActivitySink(sink ActivitySink) *Auther {
	s.activitySink = normalizeActivitySink(sink)
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokens
}

// Login verifies the credential and issues a token pair. Every failure
// mode collapses into ErrAuthenticationFailed so callers cannot probe
// which usernames exist.
func (s *Auther) Login(ctx context.Context, username, password string) (*TokenPair, Identity, error) {
	identity, err := s.identities.VerifyIdentity(ctx, username, password)
	if err != nil {
		s.logger.Error("Login verify identity error", "error", err)
		s.emitAuthEvent(ctx, ActivityEventLoginFailure, ActorRef{}, map[string]any{
			"username": username,
			"error":    err.Error(),
		})
		if goerrors.Is(err, ErrStoreUnavailable) {
			return nil, nil, err
		}
		return nil, nil, ErrAuthenticationFailed
	}

	pair, err := s.tokens.IssuePair(identity)
	if err != nil {
		s.logger.Error("Login token issuance error", "error", err)
		return nil, nil, err
	}

	s.touchLastLogin(ctx, identity.Username())

	s.emitAuthEvent(ctx, ActivityEventLoginSuccess, ActorRef{Username: identity.Username()}, map[string]any{
		"role": identity.Role(),
	})

	return pair, identity, nil
}

// Refresh verifies a refresh token and issues a brand-new pair for the
// identity it names. The presented token keeps its own expiry; nothing
// is revoked. Any verification failure surfaces one uniform error and
// the sub-reason only reaches the log.
func (s *Auther) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.Validate(refreshToken, TokenKindRefresh)
	if err != nil {
		s.logger.Warn("Refresh rejected token", "error", err)
		return nil, ErrInvalidRefreshToken
	}

	identity := NewIdentity(claims.Username(), claims.Role())

	pair, err := s.tokens.IssuePair(identity)
	if err != nil {
		s.logger.Error("Refresh token issuance error", "error", err)
		return nil, err
	}

	s.emitAuthEvent(ctx, ActivityEventTokenRefreshed, ActorRef{Username: identity.Username()}, map[string]any{
		"role": identity.Role(),
	})

	return pair, nil
}

// VerifyAccess validates an access token and returns its claims.
func (s *Auther) VerifyAccess(tokenString string) (AuthClaims, error) {
	return s.tokens.Validate(tokenString, TokenKindAccess)
}

// touchLastLogin is best effort: losing the timestamp never fails a
// successful login.
func (s *Auther) touchLastLogin(ctx context.Context, username string) {
	user, err := s.identities.GetUser(ctx, username)
	if err != nil {
		s.logger.Warn("Login could not load record for lastLogin update", "username", username, "error", err)
		return
	}

	if err := s.identities.TouchLastLogin(ctx, user, timeNow().UTC()); err != nil {
		s.logger.Warn("Login could not persist lastLogin", "username", username, "error", err)
	}
}

func (s *Auther) emitAuthEvent(ctx context.Context, eventType ActivityEventType, actor ActorRef, metadata map[string]any) {
	event := ActivityEvent{
		EventType:  eventType,
		Actor:      actor,
		Username:   actor.Username,
		Metadata:   metadata,
		OccurredAt: timeNow(),
	}
	if err := s.activitySink.Record(ctx, event); err != nil {
		s.logger.Warn("Authenticator failed to record activity", "event", eventType, "error", err)
	}
}
