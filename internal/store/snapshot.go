// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// SnapshotKey is the fixed key under which the canvas state snapshot is
// stored.
const SnapshotKey = "canvas-state"

// SnapshotVersion is the current snapshot schema version. A stored
// snapshot with any other version loads as absent state.
const SnapshotVersion = 1

// snapshotPayload is the persisted snapshot body.
type snapshotPayload struct {
	Version int           `json:"version"`
	Blocks  []SnapshotBlock `json:"blocks"`
}

// SnapshotBlock mirrors types.Block for the snapshot payload so schema
// drift in Block stays visible here.
type SnapshotBlock struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	X         float64         `json:"x"`
	Y         float64         `json:"y"`
	Width     float64         `json:"width"`
	Height    float64         `json:"height,omitempty"`
	Text      string          `json:"text,omitempty"`
	Src       string          `json:"src,omitempty"`
	Caption   string          `json:"caption,omitempty"`
	Label     string          `json:"label,omitempty"`
	URL       string          `json:"url,omitempty"`
	Summary   json.RawMessage `json:"summary,omitempty"`
	CreatedAt string          `json:"created_at,omitempty"`
	UpdatedAt string          `json:"updated_at,omitempty"`
}

// SaveSnapshot copies the current block table into the snapshot row
// under SnapshotKey. It returns the number of blocks captured.
func (s *Store) SaveSnapshot(ctx context.Context) (int, error) {
	blocks, err := s.List(ctx, ListOptions{MaxResults: exportLimit})
	if err != nil {
		return 0, fmt.Errorf("reading blocks for snapshot: %w", err)
	}

	payload := snapshotPayload{Version: SnapshotVersion}
	for _, b := range blocks {
		rec := SnapshotBlock{
			ID: b.ID, Type: string(b.Type),
			X: b.X, Y: b.Y, Width: b.Width, Height: b.Height,
			Text: b.Text, Src: b.Src, Caption: b.Caption,
			Label: b.Label, URL: b.URL,
			CreatedAt: b.CreatedAt.Format(time.RFC3339Nano),
			UpdatedAt: b.UpdatedAt.Format(time.RFC3339Nano),
		}
		if b.Summary != nil {
			if data, err := json.Marshal(b.Summary); err == nil {
				rec.Summary = data
			}
		}
		payload.Blocks = append(payload.Blocks, rec)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("marshaling snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO snapshots (key, version, payload, saved_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
			version=excluded.version, payload=excluded.payload, saved_at=excluded.saved_at`,
		SnapshotKey, SnapshotVersion, string(data),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("writing snapshot: %w", err)
	}
	return len(blocks), nil
}

// LoadSnapshot reads the stored snapshot. A missing row, a version
// mismatch, or a payload that fails to parse all yield ok=false with a
// nil error: corrupt or incompatible state degrades to absent state,
// never to a failure. Only database errors are reported.
func (s *Store) LoadSnapshot(ctx context.Context) ([]SnapshotBlock, bool, error) {
	var version int
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT version, payload FROM snapshots WHERE key = ?`, SnapshotKey,
	).Scan(&version, &payload)

	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading snapshot: %w", err)
	}

	if version != SnapshotVersion {
		return nil, false, nil
	}

	var snap snapshotPayload
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return nil, false, nil
	}
	if snap.Version != SnapshotVersion {
		return nil, false, nil
	}

	return snap.Blocks, true, nil
}

// RestoreSnapshot replaces the block table with the stored snapshot.
// It returns the number of blocks restored and whether a usable
// snapshot existed.
func (s *Store) RestoreSnapshot(ctx context.Context) (int, bool, error) {
	records, ok, err := s.LoadSnapshot(ctx)
	if err != nil || !ok {
		return 0, ok, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, true, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM blocks`); err != nil {
		return 0, true, fmt.Errorf("clearing blocks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO blocks (id, type, x, y, width, height, text, src, caption, label, url, summary, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, true, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		var summary sql.NullString
		if len(rec.Summary) > 0 {
			summary = sql.NullString{String: string(rec.Summary), Valid: true}
		}
		_, err := stmt.ExecContext(ctx,
			rec.ID, rec.Type, rec.X, rec.Y, rec.Width, nullFloat(rec.Height),
			rec.Text, rec.Src, rec.Caption, rec.Label, rec.URL, summary,
			rec.CreatedAt, rec.UpdatedAt,
		)
		if err != nil {
			return 0, true, fmt.Errorf("restoring block %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, true, fmt.Errorf("committing restore: %w", err)
	}
	return len(records), true, nil
}
