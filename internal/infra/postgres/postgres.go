package postgres

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/keremkk/kisalink/config"
)

const connectTimeout = 5 * time.Second

// NewPool opens the pgx pool used for raw aggregate queries and verifies
// connectivity before handing it out.
func NewPool(ctx context.Context, cfg config.PostgresConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(ConnString(cfg))
	if err != nil {
		return nil, fmt.Errorf("postgres: parse config: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	applyDuration(&poolCfg.MaxConnLifetime, cfg.MaxConnLifetime)
	applyDuration(&poolCfg.MaxConnIdleTime, cfg.MaxConnIdleTime)
	applyDuration(&poolCfg.HealthCheckPeriod, cfg.HealthCheckPeriod)

	dialCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	pool, err := pgxpool.NewWithConfig(dialCtx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: create pool: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, connectTimeout)
	defer pingCancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return pool, nil
}

// applyDuration overwrites dst when raw parses; malformed values keep the
// pgx default rather than failing startup.
func applyDuration(dst *time.Duration, raw string) {
	if raw == "" {
		return
	}
	if d, err := time.ParseDuration(raw); err == nil {
		*dst = d
	}
}

// ConnString renders the postgres:// URL shared by the pgx pool and GORM.
func ConnString(cfg config.PostgresConfig) string {
	host, port := cfg.Host, cfg.Port
	if host == "" {
		host = "localhost"
	}
	if port == 0 {
		port = 5432
	}
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	credentials := url.PathEscape(cfg.User)
	if cfg.Password != "" {
		credentials += ":" + url.PathEscape(cfg.Password)
	}

	return fmt.Sprintf("postgres://%s@%s:%d/%s?sslmode=%s",
		credentials, host, port, url.PathEscape(cfg.Database), sslMode)
}
