package adminauth

import (
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// ErrMissingAuthHeader is returned when a request carries no usable
// Authorization header.
var ErrMissingAuthHeader = goerrors.New("missing or malformed authorization header", goerrors.CategoryAuth).
	WithTextCode("MISSING_AUTH_HEADER").
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenMalformed is returned when a token is not a well formed
// three segment JWT or its payload cannot be decoded.
var ErrTokenMalformed = goerrors.New("token is malformed", goerrors.CategoryAuth).
	WithTextCode("MALFORMED_TOKEN").
	WithCode(goerrors.CodeUnauthorized)

// ErrBadSignature is returned when the token signature does not verify
// against the expected signing key.
var ErrBadSignature = goerrors.New("token signature is invalid", goerrors.CategoryAuth).
	WithTextCode("BAD_SIGNATURE").
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenExpired is returned when the exp claim is in the past.
var ErrTokenExpired = goerrors.New("token is expired", goerrors.CategoryAuth).
	WithTextCode("TOKEN_EXPIRED").
	WithCode(goerrors.CodeUnauthorized)

// ErrWrongIssuer is returned when the iss claim does not match the
// expected issuer tag for the token kind being validated.
var ErrWrongIssuer = goerrors.New("token issuer mismatch", goerrors.CategoryAuth).
	WithTextCode("WRONG_ISSUER").
	WithCode(goerrors.CodeUnauthorized)

// ErrAuthenticationFailed is the single error surfaced for any login
// failure. Unknown user and wrong password are deliberately
// indistinguishable to the caller.
var ErrAuthenticationFailed = goerrors.New("invalid username or password", goerrors.CategoryAuth).
	WithTextCode("AUTHENTICATION_FAILED").
	WithCode(goerrors.CodeUnauthorized)

// ErrInvalidRefreshToken is the single error surfaced for any refresh
// failure; the underlying reason is logged, never echoed.
var ErrInvalidRefreshToken = goerrors.New("invalid or expired refresh token", goerrors.CategoryAuth).
	WithTextCode("INVALID_REFRESH_TOKEN").
	WithCode(goerrors.CodeUnauthorized)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = goerrors.New("identity not found", goerrors.CategoryNotFound).
	WithTextCode("IDENTITY_NOT_FOUND").
	WithCode(goerrors.CodeNotFound)

// ErrUsernameTaken is returned when registering a username that already
// exists, compared case insensitively.
var ErrUsernameTaken = goerrors.New("username is already taken", goerrors.CategoryConflict).
	WithTextCode("USERNAME_TAKEN").
	WithCode(goerrors.CodeConflict)

// ErrStoreUnavailable is returned when no record store has been
// configured for the identity adapter.
var ErrStoreUnavailable = goerrors.New("record store is not configured", goerrors.CategoryOperation).
	WithTextCode("STORE_UNAVAILABLE").
	WithCode(503)

// ErrMismatchedHashAndPassword is returned when a password does not
// match the stored hash.
var ErrMismatchedHashAndPassword = goerrors.New("password does not match", goerrors.CategoryAuth).
	WithTextCode("PASSWORD_MISMATCH").
	WithCode(goerrors.CodeUnauthorized)

// ErrNoEmptyPassword is returned when hashing an empty password.
var ErrNoEmptyPassword = goerrors.New("password must not be empty", goerrors.CategoryValidation).
	WithTextCode("EMPTY_PASSWORD").
	WithCode(goerrors.CodeBadRequest)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return goerrors.Is(err, ErrTokenExpired) ||
		strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return goerrors.Is(err, ErrTokenMalformed) ||
		strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
