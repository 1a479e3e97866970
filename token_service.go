package adminauth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

const (
	// DefaultAccessTTL is the lifetime of access tokens.
	DefaultAccessTTL = time.Hour
	// DefaultRefreshTTL is the lifetime of refresh tokens.
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// TokenServiceImpl implements the TokenService and TokenValidator
// interfaces. Access and refresh tokens sign with distinct keys and
// distinct issuer tags; neither key validates the other kind.
type TokenServiceImpl struct {
	accessKey  []byte
	refreshKey []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	logger     Logger
}

// NewTokenService creates a new TokenService instance
func NewTokenService(accessKey, refreshKey []byte, logger Logger) *TokenServiceImpl {
	if logger == nil {
		logger = defLogger{}
	}
	return &TokenServiceImpl{
		accessKey:  accessKey,
		refreshKey: refreshKey,
		accessTTL:  DefaultAccessTTL,
		refreshTTL: DefaultRefreshTTL,
		logger:     logger,
	}
}

// WithTTLs overrides the default token lifetimes.
func (ts *TokenServiceImpl) WithTTLs(accessTTL, refreshTTL time.Duration) *TokenServiceImpl {
	if accessTTL > 0 {
		ts.accessTTL = accessTTL
	}
	if refreshTTL > 0 {
		ts.refreshTTL = refreshTTL
	}
	return ts
}

// AccessTTL returns the configured access token lifetime.
func (ts *TokenServiceImpl) AccessTTL() time.Duration {
	return ts.accessTTL
}

// IssueAccessToken creates a signed access token for an identity
func (ts *TokenServiceImpl) IssueAccessToken(identity Identity) (string, error) {
	return ts.issue(identity, TokenKindAccess, ts.accessTTL)
}

// IssueRefreshToken creates a signed refresh token for an identity
func (ts *TokenServiceImpl) IssueRefreshToken(identity Identity) (string, error) {
	return ts.issue(identity, TokenKindRefresh, ts.refreshTTL)
}

// IssuePair creates an access/refresh token pair for an identity
func (ts *TokenServiceImpl) IssuePair(identity Identity) (*TokenPair, error) {
	access, err := ts.IssueAccessToken(identity)
	if err != nil {
		return nil, err
	}

	refresh, err := ts.IssueRefreshToken(identity)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(ts.accessTTL / time.Second),
		TokenType:    "Bearer",
	}, nil
}

func (ts *TokenServiceImpl) issue(identity Identity, kind TokenKind, ttl time.Duration) (string, error) {
	if identity == nil {
		return "", goerrors.New("identity must not be nil", goerrors.CategoryInternal)
	}

	now := timeNow()
	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    kind.Issuer(),
			Subject:   identity.Username(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserName: identity.Username(),
		UserRole: identity.Role(),
	}

	return ts.SignClaims(claims, kind)
}

// SignClaims signs arbitrary JWT claims with the key for the given kind.
func (ts *TokenServiceImpl) SignClaims(claims *JWTClaims, kind TokenKind) (string, error) {
	if claims == nil {
		return "", goerrors.New("claims must not be nil", goerrors.CategoryInternal)
	}

	key, err := ts.keyFor(kind)
	if err != nil {
		return "", err
	}

	ensureTokenID(&claims.RegisteredClaims)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(key)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}

// Validate parses and validates a token string of the given kind,
// returning structured claims. Failures map onto the tagged sentinel
// errors so callers can tell malformed input from a stale token.
func (ts *TokenServiceImpl) Validate(tokenString string, kind TokenKind) (AuthClaims, error) {
	key, err := ts.keyFor(kind)
	if err != nil {
		return nil, err
	}

	if _, err := SplitToken(tokenString); err != nil {
		return nil, err
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("TokenService validate encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return key, nil
	}, jwt.WithIssuer(kind.Issuer()), jwt.WithPaddingAllowed())

	if err != nil {
		return nil, ts.mapParseError(err)
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	ts.logger.Error("TokenService validate could not decode or validate claims")
	return nil, ErrTokenMalformed
}

func (ts *TokenServiceImpl) keyFor(kind TokenKind) ([]byte, error) {
	switch kind {
	case TokenKindAccess:
		return ts.accessKey, nil
	case TokenKindRefresh:
		return ts.refreshKey, nil
	default:
		return nil, goerrors.New("unknown token kind: "+string(kind), goerrors.CategoryInternal)
	}
}

func (ts *TokenServiceImpl) mapParseError(err error) error {
	switch {
	case goerrors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrBadSignature
	case goerrors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case goerrors.Is(err, jwt.ErrTokenInvalidIssuer):
		return ErrWrongIssuer
	default:
		return ErrTokenMalformed
	}
}
