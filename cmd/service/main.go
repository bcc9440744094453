package main

import (
	"context"
	"log/slog"
	"os"

	"gitlab.com/dirk.krummacker/contact-book/internal/auth"
	"gitlab.com/dirk.krummacker/contact-book/internal/config"
	"gitlab.com/dirk.krummacker/contact-book/internal/contacts"
	"gitlab.com/dirk.krummacker/contact-book/internal/geocode"
	"gitlab.com/dirk.krummacker/contact-book/internal/logging"
	"gitlab.com/dirk.krummacker/contact-book/internal/migrations"
	"gitlab.com/dirk.krummacker/contact-book/internal/service"
	"gitlab.com/dirk.krummacker/contact-book/internal/session"
	"gitlab.com/dirk.krummacker/contact-book/internal/store"
)

// Usage example on the command line:
// > PORT=8080 DBUSER=dirk DBPWD=bullo92 GIN_MODE=release GIN_LOGGING=OFF go run ./cmd/service
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("could not load configuration", "error", err)
		os.Exit(1)
	}
	logger, err := logging.New(os.Stdout, cfg.LogLevel, cfg.LogPretty)
	if err != nil {
		slog.Error("could not create logger", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)
	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error("contact book stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	db, err := store.CreateDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrations.Up(ctx, db.DB, store.Dialect(db)); err != nil {
		return err
	}
	contactRepo, err := store.NewContactRepository(db)
	if err != nil {
		return err
	}
	userRepo, err := store.NewUserRepository(db)
	if err != nil {
		return err
	}

	authService := auth.NewService(userRepo, auth.NewBcryptHasher(cfg.BcryptCost))
	created, err := authService.EnsureDefaultUser(ctx, auth.DefaultUser{
		FirstName: "Default",
		LastName:  "Profile",
		Username:  cfg.DefaultUsername,
		Password:  cfg.DefaultPassword,
	})
	if err != nil {
		return err
	}
	if created {
		logger.Info("created default user", "username", cfg.DefaultUsername)
	}

	router, err := service.SetupHttpRouter(service.Dependencies{
		Auth:       authService,
		Contacts:   contacts.NewService(contactRepo, newGeocoder(cfg)),
		Sessions:   session.NewManager(newSessionStore(cfg), cfg.SessionSecret, cfg.SessionTTL),
		Logger:     logger,
		GinLogging: cfg.GinLogging,
	})
	if err != nil {
		return err
	}
	logger.Info("contact book listening", "addr", cfg.Addr(), "db", cfg.DBDriver, "sessions", cfg.SessionStore)
	return router.Run(cfg.Addr())
}

func newGeocoder(cfg config.Config) geocode.Geocoder {
	if cfg.GeocoderProvider == "static" {
		return geocode.NewStatic(cfg.GeocoderStaticLat, cfg.GeocoderStaticLon)
	}
	return geocode.NewNominatim(cfg.GeocoderURL, cfg.GeocoderUserAgent, nil)
}

func newSessionStore(cfg config.Config) session.Store {
	if cfg.SessionStore == "redis" {
		return session.NewRedisStore(session.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB))
	}
	return session.NewMemoryStore()
}
