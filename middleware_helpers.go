package adminauth

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/kalamiro/go-adminauth/middleware/jwtware"
)

type accessTokenValidator struct {
	gate KindValidator
}

func (v accessTokenValidator) Validate(tokenString string) (jwtware.AuthClaims, error) {
	claims, err := v.gate.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// NewMiddlewareValidator adapts the access gate to the middleware's
// validator interface.
func NewMiddlewareValidator(tokens TokenValidator) jwtware.TokenValidator {
	return accessTokenValidator{gate: AccessGate(tokens)}
}

// ContextEnricherAdapter adapts jwtware.AuthClaims to adminauth.AuthClaims and
// stores claims in the standard context for downstream usage.
func ContextEnricherAdapter(c context.Context, claims jwtware.AuthClaims) context.Context {
	authClaims, ok := claims.(AuthClaims)
	if !ok {
		return c
	}
	return WithClaimsContext(c, authClaims)
}

// ProtectedRoute builds the route middleware guarding endpoints with a
// valid access token. Pass a Config to layer role requirements on top.
func ProtectedRoute(tokens TokenValidator, config ...jwtware.Config) fiber.Handler {
	cfg := jwtware.Config{}
	if len(config) > 0 {
		cfg = config[0]
	}

	cfg.TokenValidator = NewMiddlewareValidator(tokens)

	if cfg.ContextEnricher == nil {
		cfg.ContextEnricher = ContextEnricherAdapter
	}

	return jwtware.New(cfg)
}
