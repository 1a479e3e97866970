package adminauth

// KindValidator validates tokens of a single fixed kind, so callers
// like route middleware never pick keys or issuers themselves.
type KindValidator interface {
	Validate(tokenString string) (AuthClaims, error)
}

// KindValidatorFunc adapts a function into a KindValidator.
type KindValidatorFunc func(tokenString string) (AuthClaims, error)

// Validate satisfies the KindValidator interface.
func (f KindValidatorFunc) Validate(tokenString string) (AuthClaims, error) {
	if f == nil {
		return nil, ErrTokenMalformed
	}
	return f(tokenString)
}

// AccessGate binds a validator to the access kind. Protected routes
// mount this so a refresh token can never pass as an access token.
func AccessGate(tokens TokenValidator) KindValidator {
	return KindValidatorFunc(func(tokenString string) (AuthClaims, error) {
		return tokens.Validate(tokenString, TokenKindAccess)
	})
}

// RefreshGate binds a validator to the refresh kind.
func RefreshGate(tokens TokenValidator) KindValidator {
	return KindValidatorFunc(func(tokenString string) (AuthClaims, error) {
		return tokens.Validate(tokenString, TokenKindRefresh)
	})
}
