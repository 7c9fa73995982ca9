package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const (
	connectAttempts = 10
	connectBackoff  = 500 * time.Millisecond
)

// ConnectPostgres opens the lib/pq pool, retrying while the database starts up.
func ConnectPostgres(ctx context.Context, dsn string) (*sqlx.DB, error) {
	var (
		conn *sqlx.DB
		err  error
	)

	for i := 0; i < connectAttempts; i++ {
		conn, err = sqlx.ConnectContext(ctx, "postgres", dsn)
		if err == nil {
			return conn, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(connectBackoff):
		}
	}
	return nil, fmt.Errorf("failed to connect to postgres after %d attempts: %w", connectAttempts, err)
}
