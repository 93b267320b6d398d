// Command admintoken logs an admin account in against the configured store and
// prints a bearer token for it.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Skotchmaster/rbac_api/internal/config"
	"github.com/Skotchmaster/rbac_api/internal/db"
	"github.com/Skotchmaster/rbac_api/internal/logging"
	"github.com/Skotchmaster/rbac_api/internal/repo"
	"github.com/Skotchmaster/rbac_api/internal/service"
	"github.com/Skotchmaster/rbac_api/internal/tokens"
)

func main() {
	username := flag.String("username", "admin", "admin account name")
	password := flag.String("password", "", "admin account password")
	flag.Parse()

	config.LoadDotEnv()
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel).With("cmd", "admintoken")

	if *password == "" {
		fmt.Fprintln(os.Stderr, "-password is required")
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("config_invalid", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	ctx = logging.IntoContext(ctx, logger)

	res, err := issue(ctx, cfg, *username, *password)
	if err != nil {
		if errors.Is(err, service.ErrNotAdmin) || errors.Is(err, service.ErrInvalidCredentials) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		logger.Error("admin_token_failed", "error", err)
		os.Exit(1)
	}

	fmt.Println(res.Token)
	fmt.Fprintf(os.Stderr, "expires at %s\n", res.ExpiresAt.Format(time.RFC3339))
}

func issue(ctx context.Context, cfg config.Config, username, password string) (*service.LoginResult, error) {
	gdb, err := db.Open(ctx, db.Options{Driver: cfg.DBDriver, DSN: cfg.DatabaseURL, SQLDriver: cfg.PGSQLDriver})
	if err != nil {
		return nil, err
	}
	defer db.Close(gdb)

	store := repo.New(gdb)
	if err := store.Migrate(ctx); err != nil {
		return nil, err
	}
	// an in-memory store is empty until seeded
	if cfg.SeedDefaults {
		if err := service.SeedDefaults(ctx, store); err != nil {
			return nil, err
		}
	}

	ts, err := tokens.NewService(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return nil, err
	}
	auth := &service.AuthService{Users: store, Roles: store, Tokens: ts}
	return auth.AdminToken(ctx, username, password)
}
