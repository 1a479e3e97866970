package adminauth_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adminauth "github.com/kalamiro/go-adminauth"
)

type testApp struct {
	app        *fiber.App
	identities *adminauth.IdentityStore
	tokens     *adminauth.TokenServiceImpl
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	identities := adminauth.NewIdentityStore(adminauth.NewMemoryStore()).
		WithLogger(quietLogger{}).
		WithAdminAllowlist(adminauth.NewAdminAllowlist("root"))

	tokens := adminauth.NewTokenService(testAccessKey, testRefreshKey, quietLogger{})

	auther := adminauth.NewAuthenticator(identities, tokens).WithLogger(quietLogger{})
	registerUser := adminauth.NewRegisterUserHandler(identities).WithLogger(quietLogger{})

	app := fiber.New()

	adminauth.RegisterAuthRoutes(app, adminauth.ProtectedRoute(tokens),
		adminauth.WithControllerLogger(quietLogger{}),
		adminauth.WithAuther(auther),
		adminauth.WithRegisterHandler(registerUser),
	)

	return &testApp{app: app, identities: identities, tokens: tokens}
}

func (ta *testApp) request(t *testing.T, method, path string, body any, headers map[string]string) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	res, err := ta.app.Test(req)
	require.NoError(t, err)

	decoded := map[string]any{}
	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}

	return res, decoded
}

func TestAuthController_Register(t *testing.T) {
	t.Run("creates an account", func(t *testing.T) {
		ta := newTestApp(t)

		res, body := ta.request(t, "POST", "/register", map[string]any{
			"username": "alice",
			"password": "s3cret-pass",
			"role":     "editor",
		}, nil)

		assert.Equal(t, fiber.StatusCreated, res.StatusCode)

		user := body["user"].(map[string]any)
		assert.Equal(t, "alice", user["username"])
		assert.Equal(t, "editor", user["role"])
		assert.NotContains(t, user, "hashedPassword")
	})

	t.Run("rejects invalid payloads", func(t *testing.T) {
		ta := newTestApp(t)

		tests := []map[string]any{
			{"username": "ab", "password": "s3cret-pass"},
			{"username": "alice", "password": "short"},
			{"username": "bad name!", "password": "s3cret-pass"},
			{"username": "alice", "password": "s3cret-pass", "role": "owner"},
		}

		for _, payload := range tests {
			res, body := ta.request(t, "POST", "/register", payload, nil)
			assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
			assert.Equal(t, "INVALID_PAYLOAD", body["text_code"])
		}
	})

	t.Run("duplicate username conflicts", func(t *testing.T) {
		ta := newTestApp(t)

		res, _ := ta.request(t, "POST", "/register", map[string]any{
			"username": "alice", "password": "s3cret-pass",
		}, nil)
		require.Equal(t, fiber.StatusCreated, res.StatusCode)

		res, body := ta.request(t, "POST", "/register", map[string]any{
			"username": "ALICE", "password": "other-pass",
		}, nil)
		assert.Equal(t, fiber.StatusConflict, res.StatusCode)
		assert.Equal(t, "USERNAME_TAKEN", body["text_code"])
	})

	t.Run("admin request downgraded unless allow-listed", func(t *testing.T) {
		ta := newTestApp(t)

		_, body := ta.request(t, "POST", "/register", map[string]any{
			"username": "mallory", "password": "s3cret-pass", "role": "admin",
		}, nil)
		assert.Equal(t, "editor", body["user"].(map[string]any)["role"])

		_, body = ta.request(t, "POST", "/register", map[string]any{
			"username": "root", "password": "s3cret-pass", "role": "admin",
		}, nil)
		assert.Equal(t, "admin", body["user"].(map[string]any)["role"])
	})
}

func TestAuthController_Login(t *testing.T) {
	ta := newTestApp(t)

	res, _ := ta.request(t, "POST", "/register", map[string]any{
		"username": "alice", "password": "s3cret-pass",
	}, nil)
	require.Equal(t, fiber.StatusCreated, res.StatusCode)

	t.Run("returns tokens for valid credentials", func(t *testing.T) {
		res, body := ta.request(t, "POST", "/login", map[string]any{
			"username": "alice", "password": "s3cret-pass",
		}, nil)

		assert.Equal(t, fiber.StatusOK, res.StatusCode)
		assert.NotEmpty(t, body["access_token"])
		assert.NotEmpty(t, body["refresh_token"])
		assert.Equal(t, float64(3600), body["expires_in"])
		assert.Equal(t, "Bearer", body["token_type"])
		assert.Equal(t, "alice", body["user"].(map[string]any)["username"])
	})

	t.Run("wrong password", func(t *testing.T) {
		res, body := ta.request(t, "POST", "/login", map[string]any{
			"username": "alice", "password": "wrong-pass",
		}, nil)

		assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
		assert.Equal(t, "AUTHENTICATION_FAILED", body["text_code"])
	})

	t.Run("unknown user yields the identical error body", func(t *testing.T) {
		_, wrongPass := ta.request(t, "POST", "/login", map[string]any{
			"username": "alice", "password": "wrong-pass",
		}, nil)
		_, unknown := ta.request(t, "POST", "/login", map[string]any{
			"username": "nobody", "password": "whatever",
		}, nil)

		assert.Equal(t, wrongPass, unknown)
	})

	t.Run("missing fields", func(t *testing.T) {
		res, body := ta.request(t, "POST", "/login", map[string]any{
			"username": "alice",
		}, nil)

		assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
		assert.Equal(t, "INVALID_PAYLOAD", body["text_code"])
	})
}

func TestAuthController_Refresh(t *testing.T) {
	ta := newTestApp(t)

	res, _ := ta.request(t, "POST", "/register", map[string]any{
		"username": "alice", "password": "s3cret-pass",
	}, nil)
	require.Equal(t, fiber.StatusCreated, res.StatusCode)

	_, login := ta.request(t, "POST", "/login", map[string]any{
		"username": "alice", "password": "s3cret-pass",
	}, nil)

	t.Run("rotates the pair", func(t *testing.T) {
		res, body := ta.request(t, "POST", "/refresh", map[string]any{
			"refresh_token": login["refresh_token"],
		}, nil)

		assert.Equal(t, fiber.StatusOK, res.StatusCode)
		assert.NotEmpty(t, body["access_token"])
		assert.NotEqual(t, login["access_token"], body["access_token"])
		assert.NotEqual(t, login["refresh_token"], body["refresh_token"])
	})

	t.Run("access token is rejected", func(t *testing.T) {
		res, body := ta.request(t, "POST", "/refresh", map[string]any{
			"refresh_token": login["access_token"],
		}, nil)

		assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
		assert.Equal(t, "INVALID_REFRESH_TOKEN", body["text_code"])
	})

	t.Run("garbage token", func(t *testing.T) {
		res, body := ta.request(t, "POST", "/refresh", map[string]any{
			"refresh_token": "garbage",
		}, nil)

		assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
		assert.Equal(t, "INVALID_REFRESH_TOKEN", body["text_code"])
	})

	t.Run("missing token", func(t *testing.T) {
		res, _ := ta.request(t, "POST", "/refresh", map[string]any{}, nil)
		assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
	})
}

func TestAuthController_Me(t *testing.T) {
	ta := newTestApp(t)

	res, _ := ta.request(t, "POST", "/register", map[string]any{
		"username": "alice", "password": "s3cret-pass",
	}, nil)
	require.Equal(t, fiber.StatusCreated, res.StatusCode)

	_, login := ta.request(t, "POST", "/login", map[string]any{
		"username": "alice", "password": "s3cret-pass",
	}, nil)

	t.Run("returns claims for a bearer access token", func(t *testing.T) {
		res, body := ta.request(t, "GET", "/me", nil, map[string]string{
			"Authorization": "Bearer " + login["access_token"].(string),
		})

		assert.Equal(t, fiber.StatusOK, res.StatusCode)
		assert.Equal(t, "alice", body["username"])
		assert.Equal(t, "editor", body["role"])
		assert.Greater(t, body["exp"], body["iat"])
	})

	t.Run("missing header", func(t *testing.T) {
		res, _ := ta.request(t, "GET", "/me", nil, nil)
		assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
	})

	t.Run("refresh token is not an access token", func(t *testing.T) {
		res, _ := ta.request(t, "GET", "/me", nil, map[string]string{
			"Authorization": "Bearer " + login["refresh_token"].(string),
		})
		assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
	})

	t.Run("mangled token", func(t *testing.T) {
		res, _ := ta.request(t, "GET", "/me", nil, map[string]string{
			"Authorization": "Bearer not.a.token",
		})
		assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
	})
}

func TestAuthController_FullScenario(t *testing.T) {
	ta := newTestApp(t)
	ctx := context.Background()

	// register, login, refresh, hit the protected endpoint with the
	// rotated access token
	res, _ := ta.request(t, "POST", "/register", map[string]any{
		"username": "carol", "password": "s3cret-pass",
	}, nil)
	require.Equal(t, fiber.StatusCreated, res.StatusCode)

	_, login := ta.request(t, "POST", "/login", map[string]any{
		"username": "carol", "password": "s3cret-pass",
	}, nil)

	_, rotated := ta.request(t, "POST", "/refresh", map[string]any{
		"refresh_token": login["refresh_token"],
	}, nil)

	res, body := ta.request(t, "GET", "/me", nil, map[string]string{
		"Authorization": "Bearer " + rotated["access_token"].(string),
	})

	assert.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.Equal(t, "carol", body["username"])

	user, err := ta.identities.GetUser(ctx, "carol")
	require.NoError(t, err)
	assert.NotNil(t, user.LastLogin)
}
