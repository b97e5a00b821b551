// Package database opens the SQL result store. Postgres is reached through
// lib/pq and local runs use a pure-Go SQLite file via glebarez/sqlite.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/glebarez/sqlite"
	_ "github.com/lib/pq"

	"github.com/Adithya-Monish-Kumar-K/smart-weighting-eval/pkg/config"
)

type Client struct {
	DB     *sql.DB
	driver string
}

// Open connects with the configured driver and verifies the connection.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Client, error) {
	var name string
	switch cfg.Driver {
	case "postgres":
		name = "postgres"
	case "sqlite":
		name = "sqlite"
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	db, err := sql.Open(name, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("opening %s connection: %w", cfg.Driver, err)
	}

	if cfg.Driver == "sqlite" {
		// SQLite allows a single writer.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging %s: %w", cfg.Driver, err)
	}
	return &Client{DB: db, driver: cfg.Driver}, nil
}

func (c *Client) Driver() string { return c.driver }

// Rebind rewrites "?" placeholders into "$1, $2, ..." for postgres.
func (c *Client) Rebind(query string) string {
	if c.driver != "postgres" {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (c *Client) Close() error {
	return c.DB.Close()
}

func (c *Client) InTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rolling back transaction after error %v: %w", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}
