package adminauth

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

// AuthControllerRoutes configures the endpoint paths.
type AuthControllerRoutes struct {
	Register string
	Login    string
	Refresh  string
	Me       string
}

// AuthController exposes the JSON authentication endpoints.
type AuthController struct {
	Debug    bool
	Logger   Logger
	Routes   *AuthControllerRoutes
	Auther   *Auther
	Register *RegisterUserHandler
}

type AuthControllerOption func(*AuthController) *AuthController

// WithControllerLogger sets the controller logger.
func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

// WithControllerDebug toggles debug payload dumps.
func WithControllerDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

// WithAuther sets the authenticator.
func WithAuther(auther *Auther) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

// WithRegisterHandler sets the registration handler.
func WithRegisterHandler(handler *RegisterUserHandler) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Register = handler
		return c
	}
}

// WithControllerRoutes overrides the default endpoint paths.
func WithControllerRoutes(routes *AuthControllerRoutes) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if routes != nil {
			c.Routes = routes
		}
		return c
	}
}

// NewAuthController builds the controller and panics on missing
// collaborators, since running without them is a wiring bug.
func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Routes: &AuthControllerRoutes{
			Register: "/register",
			Login:    "/login",
			Refresh:  "/refresh",
			Me:       "/me",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auther == nil {
		panic("Missing Authenticator in auth controller...")
	}

	if c.Register == nil {
		panic("Missing RegisterUserHandler in auth controller...")
	}

	return c
}

// RegisterAuthRoutes mounts the auth endpoints on a fiber router. The
// /me route is guarded by the provided access gate middleware.
func RegisterAuthRoutes(app fiber.Router, accessGuard fiber.Handler, opts ...AuthControllerOption) *AuthController {
	controller := NewAuthController(opts...)

	app.Post(controller.Routes.Register, controller.RegisterPost)
	app.Post(controller.Routes.Login, controller.LoginPost)
	app.Post(controller.Routes.Refresh, controller.RefreshPost)
	app.Get(controller.Routes.Me, accessGuard, controller.MeGet)

	return controller
}

// LoginRequest payload
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RefreshRequest payload
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (a *AuthController) RegisterPost(c *fiber.Ctx) error {
	payload := RegisterUserMessage{}

	if err := c.BodyParser(&payload); err != nil {
		a.Logger.Error("register parse payload", "error", err)
		return a.writeError(c, goerrors.Wrap(err, goerrors.CategoryValidation, "could not parse request body").
			WithTextCode("INVALID_PAYLOAD").
			WithCode(goerrors.CodeBadRequest))
	}

	if a.Debug {
		fmt.Println("======= AUTH REGISTER ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("============================")
	}

	user, err := a.Register.Execute(c.UserContext(), payload)
	if err != nil {
		a.Logger.Error("register execute", "error", err)
		return a.writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "user registered",
		"user": fiber.Map{
			"username": user.Username,
			"role":     user.Role,
		},
	})
}

func (a *AuthController) LoginPost(c *fiber.Ctx) error {
	payload := LoginRequest{}

	if err := c.BodyParser(&payload); err != nil {
		a.Logger.Error("login parse payload", "error", err)
		return a.writeError(c, goerrors.Wrap(err, goerrors.CategoryValidation, "could not parse request body").
			WithTextCode("INVALID_PAYLOAD").
			WithCode(goerrors.CodeBadRequest))
	}

	if payload.Username == "" || payload.Password == "" {
		return a.writeError(c, goerrors.New("username and password are required", goerrors.CategoryValidation).
			WithTextCode("INVALID_PAYLOAD").
			WithCode(goerrors.CodeBadRequest))
	}

	pair, identity, err := a.Auther.Login(c.UserContext(), payload.Username, payload.Password)
	if err != nil {
		return a.writeError(c, err)
	}

	return c.JSON(fiber.Map{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"expires_in":    pair.ExpiresIn,
		"token_type":    pair.TokenType,
		"user": fiber.Map{
			"username": identity.Username(),
			"role":     identity.Role(),
		},
	})
}

func (a *AuthController) RefreshPost(c *fiber.Ctx) error {
	payload := RefreshRequest{}

	if err := c.BodyParser(&payload); err != nil {
		a.Logger.Error("refresh parse payload", "error", err)
		return a.writeError(c, goerrors.Wrap(err, goerrors.CategoryValidation, "could not parse request body").
			WithTextCode("INVALID_PAYLOAD").
			WithCode(goerrors.CodeBadRequest))
	}

	if payload.RefreshToken == "" {
		return a.writeError(c, goerrors.New("refresh_token is required", goerrors.CategoryValidation).
			WithTextCode("INVALID_PAYLOAD").
			WithCode(goerrors.CodeBadRequest))
	}

	pair, err := a.Auther.Refresh(c.UserContext(), payload.RefreshToken)
	if err != nil {
		return a.writeError(c, err)
	}

	return c.JSON(fiber.Map{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"expires_in":    pair.ExpiresIn,
		"token_type":    pair.TokenType,
	})
}

func (a *AuthController) MeGet(c *fiber.Ctx) error {
	claims, ok := GetFiberClaims(c, "")
	if !ok {
		return a.writeError(c, ErrMissingAuthHeader)
	}

	return c.JSON(fiber.Map{
		"username": claims.Username(),
		"role":     claims.Role(),
		"iat":      claims.IssuedAt().Unix(),
		"exp":      claims.Expires().Unix(),
	})
}

// writeError converts errors at the boundary into the JSON error
// shape. Rich error details stay in the log; 5xx responses carry a
// generic message so no internal text reaches the wire.
func (a *AuthController) writeError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	textCode := "INTERNAL_ERROR"
	message := "internal server error"

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		if richErr.Code > 0 {
			status = richErr.Code
		} else {
			status = statusFromCategory(richErr.Category)
		}
		if richErr.TextCode != "" {
			textCode = richErr.TextCode
		}
		if status < fiber.StatusInternalServerError {
			message = richErr.Message
		}
	}

	if status >= fiber.StatusInternalServerError {
		a.Logger.Error("auth controller internal error", "error", err)
	}

	return c.Status(status).JSON(fiber.Map{
		"status":    status,
		"text_code": textCode,
		"message":   message,
	})
}

func statusFromCategory(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryValidation, goerrors.CategoryBadInput:
		return fiber.StatusBadRequest
	case goerrors.CategoryAuth:
		return fiber.StatusUnauthorized
	case goerrors.CategoryNotFound:
		return fiber.StatusNotFound
	case goerrors.CategoryConflict:
		return fiber.StatusConflict
	case goerrors.CategoryOperation:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
