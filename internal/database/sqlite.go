package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/Alias1177/CryptoAlert/internal/model"
)

// SQLiteRecorder stores history in a local SQLite file.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	now func() time.Time
}

// NewSQLiteRecorder opens (or creates) the database at path and runs migrations.
func NewSQLiteRecorder(path string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, now: time.Now}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("component", "recorder").Str("path", path).Msg("SQLite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS alert_history (
			id            TEXT PRIMARY KEY,
			cycle_id      TEXT NOT NULL,
			symbol        TEXT NOT NULL,
			timeframe     TEXT NOT NULL,
			lines         TEXT NOT NULL,
			confirmations INTEGER NOT NULL,
			strength      TEXT NOT NULL,
			candle_time   INTEGER NOT NULL,
			created_at    INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_alert_history_pair ON alert_history(symbol, timeframe, created_at)`,
		`CREATE TABLE IF NOT EXISTS digest_history (
			id           TEXT PRIMARY KEY,
			cycle_id     TEXT NOT NULL,
			symbol       TEXT NOT NULL,
			timeframe    TEXT NOT NULL,
			signal_count INTEGER NOT NULL,
			payload      TEXT NOT NULL,
			created_at   INTEGER NOT NULL
		)`,
	}
	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", firstLine(s), err)
		}
	}
	return nil
}

// RecordAlert stores a sent primary alert.
func (r *SQLiteRecorder) RecordAlert(ctx context.Context, cycleID string, alert model.Alert) error {
	rec := newAlertRecord(cycleID, alert, r.now())

	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO alert_history (id, cycle_id, symbol, timeframe, lines, confirmations, strength, candle_time, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.CycleID, rec.Symbol, rec.Timeframe, rec.Lines, rec.Confirmations, rec.Strength,
		rec.CandleTime.UnixMilli(), rec.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}
	return nil
}

// RecordDigest stores a sent digest.
func (r *SQLiteRecorder) RecordDigest(ctx context.Context, cycleID string, digest model.Digest) error {
	rec, err := newDigestRecord(cycleID, digest, r.now())
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO digest_history (id, cycle_id, symbol, timeframe, signal_count, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.CycleID, rec.Symbol, rec.Timeframe, rec.SignalCount, rec.Payload, rec.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert digest: %w", err)
	}
	return nil
}

// RecentAlerts returns the newest alerts for a pair, newest first.
func (r *SQLiteRecorder) RecentAlerts(ctx context.Context, symbol, timeframe string, limit int) ([]AlertRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, cycle_id, symbol, timeframe, lines, confirmations, strength, candle_time, created_at
		FROM alert_history WHERE symbol = ? AND timeframe = ?
		ORDER BY created_at DESC LIMIT ?`,
		symbol, timeframe, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("select alerts: %w", err)
	}
	defer rows.Close()

	var records []AlertRecord
	for rows.Next() {
		var rec AlertRecord
		var candleMs, createdMs int64
		if err := rows.Scan(&rec.ID, &rec.CycleID, &rec.Symbol, &rec.Timeframe, &rec.Lines,
			&rec.Confirmations, &rec.Strength, &candleMs, &createdMs); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		rec.CandleTime = time.UnixMilli(candleMs).UTC()
		rec.CreatedAt = time.UnixMilli(createdMs).UTC()
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
