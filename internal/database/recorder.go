// Package database keeps a history of sent alerts and digests.
package database

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Alias1177/CryptoAlert/internal/model"
)

// AlertRecord is one primary alert as stored.
type AlertRecord struct {
	ID            string    `db:"id"`
	CycleID       string    `db:"cycle_id"`
	Symbol        string    `db:"symbol"`
	Timeframe     string    `db:"timeframe"`
	Lines         string    `db:"lines"`
	Confirmations int       `db:"confirmations"`
	Strength      string    `db:"strength"`
	CandleTime    time.Time `db:"candle_time"`
	CreatedAt     time.Time `db:"created_at"`
}

// DigestRecord is one advanced-signal digest as stored. Payload is the JSON digest.
type DigestRecord struct {
	ID          string    `db:"id"`
	CycleID     string    `db:"cycle_id"`
	Symbol      string    `db:"symbol"`
	Timeframe   string    `db:"timeframe"`
	SignalCount int       `db:"signal_count"`
	Payload     string    `db:"payload"`
	CreatedAt   time.Time `db:"created_at"`
}

// Recorder persists what the cycle sends.
type Recorder interface {
	RecordAlert(ctx context.Context, cycleID string, alert model.Alert) error
	RecordDigest(ctx context.Context, cycleID string, digest model.Digest) error
	RecentAlerts(ctx context.Context, symbol, timeframe string, limit int) ([]AlertRecord, error)
	Close() error
}

// Open picks the recorder for driver. An empty driver disables recording.
func Open(driver, url string) (Recorder, error) {
	switch driver {
	case "":
		return NewNoopRecorder(), nil
	case "postgres":
		return NewPostgresRecorder(url)
	case "sqlite":
		return NewSQLiteRecorder(url)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func newAlertRecord(cycleID string, alert model.Alert, now time.Time) AlertRecord {
	return AlertRecord{
		ID:            uuid.NewString(),
		CycleID:       cycleID,
		Symbol:        alert.Symbol,
		Timeframe:     alert.Timeframe,
		Lines:         strings.Join(alert.Lines, "\n"),
		Confirmations: alert.ConfirmationCount,
		Strength:      alert.Strength.String(),
		CandleTime:    alert.Timestamp.UTC(),
		CreatedAt:     now.UTC(),
	}
}

func newDigestRecord(cycleID string, digest model.Digest, now time.Time) (DigestRecord, error) {
	payload, err := json.Marshal(digest)
	if err != nil {
		return DigestRecord{}, fmt.Errorf("encode digest: %w", err)
	}
	return DigestRecord{
		ID:          uuid.NewString(),
		CycleID:     cycleID,
		Symbol:      digest.Symbol,
		Timeframe:   digest.Timeframe,
		SignalCount: len(digest.Signals) + len(digest.Momentum),
		Payload:     string(payload),
		CreatedAt:   now.UTC(),
	}, nil
}
