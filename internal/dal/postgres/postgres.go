package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spf13/viper"
)

// Client represents a Postgres client.
type Client struct {
	pool *pgxpool.Pool
}

// Pool returns the underlying connection pool.
func (p *Client) Pool() *pgxpool.Pool {
	return p.pool
}

// Close closes the database connection for graceful shutdown.
func (p *Client) Close() {
	p.pool.Close()
}

// Ping reports whether the database is reachable.
func (p *Client) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

// MustNewClient creates a new Postgres client and applies pending migrations.
func MustNewClient() *Client {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		getenv("TICKET_PG_HOST", "localhost"),
		getenv("TICKET_PG_PORT", "5432"),
		os.Getenv("TICKET_PG_USER"),
		os.Getenv("TICKET_PG_PASSWORD"),
		os.Getenv("TICKET_PG_DB"),
		getenv("TICKET_PG_SSLMODE", "disable"),
	)

	config, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		panic(err)
	}

	if maxConns := viper.GetInt32("postgres.max_conns"); maxConns > 0 {
		config.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		panic(err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		panic(err)
	}

	if err := goose.SetDialect("postgres"); err != nil {
		panic(err)
	}

	migrationsPath := viper.GetString("postgres.migrations_path")
	if migrationsPath == "" {
		migrationsPath = "./migrations"
	}

	db := stdlib.OpenDBFromPool(pool)
	if err := goose.Up(db, migrationsPath); err != nil && !errors.Is(err, goose.ErrNoNextVersion) {
		panic(err)
	}

	return &Client{
		pool: pool,
	}
}
