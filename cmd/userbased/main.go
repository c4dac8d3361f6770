package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/gofiber/fiber/v2"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/calposa/userbase"
	"github.com/calposa/userbase/middleware/authware"
)

// AppConfig is loaded from the environment and satisfies
// userbase.Config.
type AppConfig struct {
	Port            int      `env:"PORT" envDefault:"3000"`
	DatabaseDSN     string   `env:"DATABASE_DSN" envDefault:"file:userbase.db?cache=shared&mode=rwc"`
	SigningKey      string   `env:"JWT_SECRET,required"`
	TokenExpiration int      `env:"TOKEN_EXPIRATION" envDefault:"24"`
	Issuer          string   `env:"TOKEN_ISSUER" envDefault:"userbase"`
	Audience        []string `env:"TOKEN_AUDIENCE" envSeparator:","`
	CookieName      string   `env:"AUTH_COOKIE_NAME" envDefault:"authToken"`
	Environment     string   `env:"APP_ENV" envDefault:"development"`
}

func (c AppConfig) GetSigningKey() string   { return c.SigningKey }
func (c AppConfig) GetTokenExpiration() int { return c.TokenExpiration }
func (c AppConfig) GetIssuer() string       { return c.Issuer }
func (c AppConfig) GetAudience() []string   { return c.Audience }
func (c AppConfig) GetCookieName() string   { return c.CookieName }
func (c AppConfig) IsProduction() bool      { return c.Environment == "production" }

func main() {
	cfg := AppConfig{}
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("parse env: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openDatabase(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	app, err := buildServer(cfg, db)
	if err != nil {
		log.Fatalf("build server: %v", err)
	}

	go func() {
		if err := app.Listen(fmt.Sprintf(":%d", cfg.Port)); err != nil {
			log.Printf("server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("shutdown: %v", err)
		os.Exit(1)
	}
}

func openDatabase(ctx context.Context, dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, err
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	if _, err := db.NewCreateTable().
		Model((*userbase.User)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return nil, err
	}

	return db, nil
}

func buildServer(cfg AppConfig, db *bun.DB) (*fiber.App, error) {
	logger := userbase.DefaultLogger()

	repo := userbase.NewRepositoryManager(db)
	if err := repo.Validate(); err != nil {
		return nil, err
	}

	tokens := userbase.NewTokenService(
		[]byte(cfg.GetSigningKey()),
		cfg.GetTokenExpiration(),
		cfg.GetIssuer(),
		cfg.GetAudience(),
		logger,
	)

	app := fiber.New(fiber.Config{
		AppName:      "userbase",
		ErrorHandler: userbase.NewErrorHandler(logger, cfg.IsProduction()),
	})

	protected := authware.New(authware.Config{
		Validator:       userbase.NewTokenValidator(tokens),
		CookieName:      cfg.GetCookieName(),
		ContextEnricher: userbase.ContextEnricherAdapter,
		Logger:          logger,
	})

	authCtrl := userbase.NewAuthController(cfg, repo.Users(), tokens, userbase.WithAuthLogger(logger))
	usersCtrl := userbase.NewUsersController(repo.Users(), userbase.WithUsersLogger(logger))

	api := app.Group("/api")
	userbase.RegisterAuthRoutes(api.Group("/auth"), authCtrl, protected)
	userbase.RegisterUserRoutes(api, usersCtrl, protected)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	return app, nil
}
