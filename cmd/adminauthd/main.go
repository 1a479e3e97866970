package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/joho/godotenv"

	adminauth "github.com/kalamiro/go-adminauth"
	"github.com/kalamiro/go-adminauth/config"
	"github.com/kalamiro/go-adminauth/middleware/jwtware"
	"github.com/kalamiro/go-adminauth/store/bunstore"
)

func main() {
	godotenv.Load()

	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(logLevel()),
		glog.WithName("adminauthd"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(goerrors.ToSlogAttributes),
	)

	ctx := context.Background()

	store, err := bunstore.Open(config.GetDBPath())
	if err != nil {
		panic(err)
	}
	defer store.Close()

	if err := store.Init(ctx); err != nil {
		panic(err)
	}

	identities := adminauth.NewIdentityStore(store).
		WithLogger(lgr.GetLogger("identity")).
		WithAdminAllowlist(adminauth.NewAdminAllowlist(config.GetAdminAllowlist()...))

	if password := config.GetBootstrapPassword(); password != "" {
		seeded, err := identities.SeedBootstrapUser(ctx, config.GetBootstrapUsername(), password, adminauth.RoleAdmin)
		if err != nil {
			panic(err)
		}
		if !seeded {
			lgr.GetLogger("boot").Debug("bootstrap user already present", "username", config.GetBootstrapUsername())
		}
	}

	accessKey := []byte(config.GetAccessSigningKey())
	refreshKey := []byte(config.GetRefreshSigningKey())
	if len(accessKey) == 0 || len(refreshKey) == 0 {
		panic("ADMINAUTH_ACCESS_KEY and ADMINAUTH_REFRESH_KEY are required")
	}

	tokens := adminauth.NewTokenService(accessKey, refreshKey, lgr.GetLogger("tokens"))

	auther := adminauth.NewAuthenticator(identities, tokens).
		WithLogger(lgr.GetLogger("auth")).
		WithActivitySink(activityLogger(lgr.GetLogger("activity")))

	registerUser := adminauth.NewRegisterUserHandler(identities).
		WithLogger(lgr.GetLogger("register"))

	app := fiber.New(fiber.Config{
		AppName:               "adminauthd",
		DisableStartupMessage: !config.IsDebug(),
	})

	accessGuard := adminauth.ProtectedRoute(tokens)

	adminauth.RegisterAuthRoutes(app, accessGuard,
		adminauth.WithControllerLogger(lgr.GetLogger("http")),
		adminauth.WithControllerDebug(config.IsDebug()),
		adminauth.WithAuther(auther),
		adminauth.WithRegisterHandler(registerUser),
	)

	adminOnly := adminauth.ProtectedRoute(tokens, jwtware.Config{
		MinimumRole: adminauth.RoleAdmin,
	})

	app.Get("/admin/ping", adminOnly, func(c *fiber.Ctx) error {
		claims, _ := adminauth.GetFiberClaims(c, "")
		return c.JSON(fiber.Map{
			"message":  "pong",
			"username": claims.Username(),
		})
	})

	go func() {
		if err := app.Listen(config.GetListenAddr()); err != nil {
			lgr.GetLogger("http").Error("server stopped", "error", err)
		}
	}()

	waitExitSignal()

	if err := app.Shutdown(); err != nil {
		lgr.GetLogger("http").Error("shutdown error", "error", err)
	}
}

func logLevel() string {
	switch config.GetLogLevel() {
	case config.Debug:
		return glog.Trace
	case config.Warn:
		return glog.Warn
	case config.Error:
		return glog.Error
	default:
		return glog.Info
	}
}

// activityLogger turns audit events into log lines. A real deployment
// would forward these to its audit pipeline.
func activityLogger(lgr glog.Logger) adminauth.ActivitySink {
	return adminauth.ActivitySinkFunc(func(_ context.Context, event adminauth.ActivityEvent) error {
		lgr.Info("activity", "event", string(event.EventType), "username", event.Username)
		return nil
	})
}

func waitExitSignal() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
}
