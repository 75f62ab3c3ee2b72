// Package session persists per-browser session records. One record lives
// under one session ID; saves are shallow merges (last write wins per field)
// and records never expire locally — the backend re-checks credential
// validity on every call it receives.
package session

import (
	"context"
	"encoding/json"
	"log/slog"

	"amumal/internal/middleware"
	"amumal/internal/models"
	"amumal/internal/observability"
)

// Store reads and writes session records keyed by session ID.
type Store interface {
	// Save merges partial into the stored record and persists the result.
	Save(ctx context.Context, sid string, partial map[string]any) error
	// Load returns the stored record, or nil when absent or unparsable.
	Load(ctx context.Context, sid string) (*models.SessionRecord, error)
	// Clear removes the record.
	Clear(ctx context.Context, sid string) error
}

// mergeRaw overlays partial onto the stored JSON blob and returns the new
// serialized record. A corrupt stored value is treated as absent.
func mergeRaw(ctx context.Context, stored []byte, partial map[string]any) ([]byte, error) {
	prev := map[string]any{}
	if len(stored) > 0 {
		if err := json.Unmarshal(stored, &prev); err != nil {
			middleware.Logger.WarnContext(ctx, "session record corrupt, starting fresh",
				slog.String("error", err.Error()))
			prev = map[string]any{}
		}
	}
	for k, v := range partial {
		prev[k] = v
	}
	return json.Marshal(prev)
}

// decodeRecord parses a stored blob; corrupt data is logged and reported as
// absent rather than failing the caller.
func decodeRecord(ctx context.Context, raw []byte) *models.SessionRecord {
	if len(raw) == 0 {
		return nil
	}
	var rec models.SessionRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		middleware.Logger.WarnContext(ctx, "session record unparsable, treating as absent",
			slog.String("error", err.Error()))
		observability.SessionOps.WithLabelValues("load", "corrupt").Inc()
		return nil
	}
	return &rec
}
