package probe

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

// PostgresChecker opens a fresh connection and pings the server. No pool is
// kept between probes so every run exercises the full connect path.
type PostgresChecker struct {
	// CloseTimeout bounds the graceful close after the probe.
	CloseTimeout time.Duration
}

func NewPostgresChecker() *PostgresChecker {
	return &PostgresChecker{CloseTimeout: time.Second}
}

func (p *PostgresChecker) Check(ctx context.Context, dsn string) error {
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return err
	}
	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		cctx, cancel := context.WithTimeout(context.Background(), p.CloseTimeout)
		defer cancel()
		_ = conn.Close(cctx)
	}()
	return conn.Ping(ctx)
}
