// Command migrate applies the Postgres schema with goose.
//
//	migrate -cmd up
//	migrate -cmd down
//	migrate -cmd status -dsn postgres://...
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"

	"dispatch/cmd"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/pkg/logging"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	command := flag.String("cmd", "up", "goose command: up, down, status, redo, version")
	dsn := flag.String("dsn", "", "postgres DSN; defaults to the DISPATCH_DB_* settings")
	flag.Parse()

	logger := logging.NewLogger("info")
	if err := migrate(*command, *dsn, flag.Args()); err != nil {
		logger.Error("migration failed", "command", *command, "error", err)
		os.Exit(1)
	}
	logger.Info("migration finished", "command", *command)
}

func migrate(command, dsn string, args []string) error {
	if dsn == "" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}
		cfg, err := cmd.LoadConfig()
		if err != nil {
			return err
		}
		dsn = cfg.PostgresDSN()
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	return postgres.Migrate(ctx, db, command, args...)
}
