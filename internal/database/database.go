package database

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"pharmalocator/m/internal/config"
)

const pingTimeout = 10 * time.Second

// Connect opens the pharmacy store described by storeURL and verifies it is
// reachable. postgres:// URLs use the pgx driver with key as the password;
// sqlite://<dsn> opens a local SQLite database and ignores key.
// Every failure is returned as a *config.ConfigurationError.
func Connect(ctx context.Context, storeURL, key string) (*sqlx.DB, error) {
	if storeURL == "" || key == "" {
		return nil, &config.ConfigurationError{Reason: "store credentials not found in environment"}
	}

	driver, dsn, err := resolve(storeURL, key)
	if err != nil {
		return nil, &config.ConfigurationError{Reason: "failed to initialize store client", Err: err}
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, &config.ConfigurationError{Reason: "failed to initialize store client", Err: err}
	}
	if driver == "sqlite" {
		db.SetMaxOpenConns(1)
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, &config.ConfigurationError{Reason: "failed to initialize store client", Err: err}
	}
	return db, nil
}

func resolve(storeURL, key string) (driver, dsn string, err error) {
	if rest, ok := strings.CutPrefix(storeURL, "sqlite://"); ok {
		if rest == "" {
			return "", "", fmt.Errorf("empty sqlite path")
		}
		return "sqlite", rest, nil
	}

	u, err := url.Parse(storeURL)
	if err != nil {
		return "", "", fmt.Errorf("parse store url: %w", err)
	}
	switch u.Scheme {
	case "postgres", "postgresql":
		user := "postgres"
		if u.User != nil && u.User.Username() != "" {
			user = u.User.Username()
		}
		u.User = url.UserPassword(user, key)
		return "pgx", u.String(), nil
	default:
		return "", "", fmt.Errorf("unsupported store scheme %q", u.Scheme)
	}
}
