package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	supabase "github.com/supabase-community/supabase-go"
)

// SupabaseConfig holds what is needed to reach a Supabase project, either
// through its Postgres port, its REST API, or both.
type SupabaseConfig struct {
	// SupabaseURL is the project URL, e.g. "https://[project-ref].supabase.co".
	SupabaseURL string

	// SupabaseKey is the API key (service_role for server-side use).
	SupabaseKey string

	// Password is the database password, used to build a direct Postgres
	// connection string. Leave empty for REST-only mode.
	Password string
}

// SupabaseClient is a DBProvider backed by a Supabase project. When only URL
// and key are given it runs in REST API mode and DB() returns nil.
type SupabaseClient struct {
	db  *sql.DB
	sdk *supabase.Client
	cfg SupabaseConfig
}

// NewSupabaseClient constructs a Supabase client; Connect establishes the
// connections.
func NewSupabaseClient(cfg SupabaseConfig) *SupabaseClient {
	return &SupabaseClient{cfg: cfg}
}

// Connect initializes the SDK client and, when a password is configured, the
// direct Postgres connection.
func (c *SupabaseClient) Connect(ctx context.Context) error {
	if c.cfg.SupabaseURL == "" || c.cfg.SupabaseKey == "" {
		return fmt.Errorf("supabase URL and key are required")
	}

	sdkClient, err := supabase.NewClient(c.cfg.SupabaseURL, c.cfg.SupabaseKey, nil)
	if err != nil {
		return fmt.Errorf("initialize supabase SDK: %w", err)
	}
	c.sdk = sdkClient

	if c.cfg.Password == "" {
		return nil // REST API mode only
	}

	connStr, err := c.buildConnectionString()
	if err != nil {
		return fmt.Errorf("build connection string: %w", err)
	}

	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return fmt.Errorf("open supabase postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("ping supabase postgres: %w", err)
	}

	c.db = db
	return nil
}

// Close closes the direct database connection, if any.
func (c *SupabaseClient) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// DB exposes the direct Postgres handle; nil in REST-only mode.
func (c *SupabaseClient) DB() *sql.DB {
	return c.db
}

// SDK returns the Supabase SDK client for storage and auth features.
func (c *SupabaseClient) SDK() *supabase.Client {
	return c.sdk
}

// buildConnectionString derives the direct Postgres DSN from the project URL
// and database password. The prepared statement cache is disabled to avoid
// conflicts when multiple tools share the pooled connection.
func (c *SupabaseClient) buildConnectionString() (string, error) {
	parsedURL, err := url.Parse(c.cfg.SupabaseURL)
	if err != nil {
		return "", fmt.Errorf("parse supabase URL: %w", err)
	}

	parts := strings.Split(parsedURL.Host, ".")
	if len(parts) < 2 {
		return "", fmt.Errorf("invalid supabase URL format: expected [project-ref].supabase.co")
	}
	projectRef := parts[0]

	encodedPassword := url.QueryEscape(c.cfg.Password)
	return fmt.Sprintf(
		"postgresql://postgres:%s@db.%s.supabase.co:5432/postgres?sslmode=require&statement_cache_capacity=0",
		encodedPassword, projectRef), nil
}
