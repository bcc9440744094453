package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"gitlab.com/dirk.krummacker/contact-book/internal/config"
	"gitlab.com/dirk.krummacker/contact-book/internal/logging"
	"gitlab.com/dirk.krummacker/contact-book/internal/migrations"
	"gitlab.com/dirk.krummacker/contact-book/internal/store"
)

// Usage example on the command line:
// > DBHOST=localhost:3306 DBUSER=dirk DBPWD=bullo92 go run ./cmd/migration -command=status
func main() {
	commandPtr := flag.String("command", "up", "the migration command: up, down or status")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("could not load configuration", "error", err)
		os.Exit(1)
	}
	logger, err := logging.New(os.Stderr, cfg.LogLevel, true)
	if err != nil {
		slog.Error("could not create logger", "error", err)
		os.Exit(1)
	}

	db, err := store.CreateDatabase(cfg)
	if err != nil {
		logger.Error("could not open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()
	dialect := store.Dialect(db)
	switch *commandPtr {
	case "up":
		err = migrations.Up(ctx, db.DB, dialect)
	case "down":
		err = migrations.Down(ctx, db.DB, dialect)
	case "status":
		err = migrations.Status(ctx, db.DB, dialect)
	default:
		logger.Error("unknown command", "command", *commandPtr)
		os.Exit(2)
	}
	if err != nil {
		logger.Error("migration failed", "command", *commandPtr, "error", err)
		db.Close()
		os.Exit(1)
	}
	logger.Info("migration done", "command", *commandPtr, "dialect", dialect)
}
