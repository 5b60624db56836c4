package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/Alias1177/CryptoAlert/internal/model"
)

// PostgresRecorder stores history in PostgreSQL.
type PostgresRecorder struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewPostgresRecorder connects using a lib/pq connection string and creates
// the tables if they don't exist.
func NewPostgresRecorder(dsn string) (*PostgresRecorder, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	// Check connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return &PostgresRecorder{db: db, now: time.Now}, nil
}

func createTables(db *sqlx.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS alert_history (
			id            UUID PRIMARY KEY,
			cycle_id      TEXT NOT NULL,
			symbol        TEXT NOT NULL,
			timeframe     TEXT NOT NULL,
			lines         TEXT NOT NULL,
			confirmations INTEGER NOT NULL,
			strength      TEXT NOT NULL,
			candle_time   TIMESTAMPTZ NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_alert_history_pair
		ON alert_history (symbol, timeframe, created_at DESC)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS digest_history (
			id           UUID PRIMARY KEY,
			cycle_id     TEXT NOT NULL,
			symbol       TEXT NOT NULL,
			timeframe    TEXT NOT NULL,
			signal_count INTEGER NOT NULL,
			payload      JSONB NOT NULL,
			created_at   TIMESTAMPTZ NOT NULL
		)
	`)
	return err
}

// RecordAlert stores a sent primary alert.
func (r *PostgresRecorder) RecordAlert(ctx context.Context, cycleID string, alert model.Alert) error {
	rec := newAlertRecord(cycleID, alert, r.now())
	_, err := sqlx.NamedExecContext(ctx, r.db, `
		INSERT INTO alert_history (
			id, cycle_id, symbol, timeframe, lines, confirmations, strength, candle_time, created_at
		) VALUES (
			:id, :cycle_id, :symbol, :timeframe, :lines, :confirmations, :strength, :candle_time, :created_at
		)
	`, rec)
	if err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

// RecordDigest stores a sent digest.
func (r *PostgresRecorder) RecordDigest(ctx context.Context, cycleID string, digest model.Digest) error {
	rec, err := newDigestRecord(cycleID, digest, r.now())
	if err != nil {
		return err
	}
	_, err = sqlx.NamedExecContext(ctx, r.db, `
		INSERT INTO digest_history (
			id, cycle_id, symbol, timeframe, signal_count, payload, created_at
		) VALUES (
			:id, :cycle_id, :symbol, :timeframe, :signal_count, :payload, :created_at
		)
	`, rec)
	if err != nil {
		return fmt.Errorf("insert digest: %w", err)
	}
	return nil
}

// RecentAlerts returns the newest alerts for a pair, newest first.
func (r *PostgresRecorder) RecentAlerts(ctx context.Context, symbol, timeframe string, limit int) ([]AlertRecord, error) {
	var records []AlertRecord
	err := r.db.SelectContext(ctx, &records, `
		SELECT id, cycle_id, symbol, timeframe, lines, confirmations, strength, candle_time, created_at
		FROM alert_history
		WHERE symbol = $1 AND timeframe = $2
		ORDER BY created_at DESC
		LIMIT $3
	`, symbol, timeframe, limit)
	if err != nil {
		return nil, fmt.Errorf("select alerts: %w", err)
	}
	return records, nil
}

func (r *PostgresRecorder) Close() error {
	return r.db.Close()
}
