package database

import (
	"context"

	"github.com/Alias1177/CryptoAlert/internal/model"
)

// NoopRecorder is used when no database is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordAlert(context.Context, string, model.Alert) error   { return nil }
func (n *NoopRecorder) RecordDigest(context.Context, string, model.Digest) error { return nil }
func (n *NoopRecorder) RecentAlerts(context.Context, string, string, int) ([]AlertRecord, error) {
	return nil, nil
}
func (n *NoopRecorder) Close() error { return nil }
