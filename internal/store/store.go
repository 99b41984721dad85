// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists canvas blocks in a local SQLite database and
// keeps a versioned snapshot of the canvas state.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/canvas-engine/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "canvas.db"
)

// Store manages the canvas SQLite database.
type Store struct {
	db         *sql.DB
	dataDir    string
	maxResults int
}

// NewStore opens or creates the canvas database at dataDir/index/canvas.db,
// creating the schema if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.DataDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 50
	}

	s := &Store{
		db:         db,
		dataDir:    cfg.DataDir,
		maxResults: maxResults,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS blocks (
			id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			x REAL NOT NULL DEFAULT 0,
			y REAL NOT NULL DEFAULT 0,
			width REAL NOT NULL DEFAULT 0,
			height REAL,
			text TEXT,
			src TEXT,
			caption TEXT,
			label TEXT,
			url TEXT,
			summary TEXT,
			created_at TEXT,
			updated_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_blocks_type ON blocks(type)`,
		`CREATE TABLE IF NOT EXISTS snapshots (
			key TEXT PRIMARY KEY,
			version INTEGER NOT NULL,
			payload TEXT NOT NULL,
			saved_at TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Put inserts or updates a block. The block ID is immutable: an update
// replaces every field except the identifier. CreatedAt is set on first
// write when zero; UpdatedAt is always refreshed.
func (s *Store) Put(ctx context.Context, b types.Block) error {
	if b.ID == "" {
		return fmt.Errorf("block ID required")
	}
	if !types.ValidBlockTypes[b.Type] {
		return fmt.Errorf("invalid block type %q", b.Type)
	}

	now := time.Now().UTC()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now

	var summaryJSON sql.NullString
	if b.Summary != nil {
		data, err := json.Marshal(b.Summary)
		if err != nil {
			return fmt.Errorf("marshaling summary for block %s: %w", b.ID, err)
		}
		summaryJSON = sql.NullString{String: string(data), Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO blocks (id, type, x, y, width, height, text, src, caption, label, url, summary, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			type=excluded.type, x=excluded.x, y=excluded.y,
			width=excluded.width, height=excluded.height,
			text=excluded.text, src=excluded.src, caption=excluded.caption,
			label=excluded.label, url=excluded.url, summary=excluded.summary,
			updated_at=excluded.updated_at`,
		b.ID, string(b.Type), b.X, b.Y, b.Width, nullFloat(b.Height),
		b.Text, b.Src, b.Caption, b.Label, b.URL, summaryJSON,
		b.CreatedAt.Format(time.RFC3339Nano), b.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upserting block %s: %w", b.ID, err)
	}
	return nil
}

// Get returns the block with the given ID.
func (s *Store) Get(ctx context.Context, id string) (*types.Block, error) {
	row := s.db.QueryRowContext(ctx, selectBlocks+` WHERE id = ?`, id)
	b, err := scanBlock(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("block %s not found", id)
		}
		return nil, fmt.Errorf("querying block %s: %w", id, err)
	}
	return b, nil
}

// Delete removes the block with the given ID. Deleting a missing block
// is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM blocks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting block %s: %w", id, err)
	}
	return nil
}

// ListOptions filters block listings.
type ListOptions struct {
	// Type filters by block variant. Empty matches all variants.
	Type types.BlockType

	// IDs restricts the listing to specific blocks, in stored order.
	IDs []string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// List returns blocks ordered by creation time then ID.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]types.Block, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	query := selectBlocks + ` WHERE 1=1`
	var args []any

	if opts.Type != "" {
		query += ` AND type = ?`
		args = append(args, string(opts.Type))
	}
	if len(opts.IDs) > 0 {
		query += ` AND id IN (?` + strings.Repeat(",?", len(opts.IDs)-1) + `)`
		for _, id := range opts.IDs {
			args = append(args, id)
		}
	}

	query += ` ORDER BY created_at, id LIMIT ?`
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying blocks: %w", err)
	}
	defer rows.Close()

	var blocks []types.Block
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning block row: %w", err)
		}
		blocks = append(blocks, *b)
	}
	return blocks, rows.Err()
}

const selectBlocks = `SELECT id, type, x, y, width, height, text, src, caption, label, url, summary, created_at, updated_at FROM blocks`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanBlock(row rowScanner) (*types.Block, error) {
	var (
		b           types.Block
		blockType   string
		height      sql.NullFloat64
		text        sql.NullString
		src         sql.NullString
		caption     sql.NullString
		label       sql.NullString
		u           sql.NullString
		summaryJSON sql.NullString
		createdAt   sql.NullString
		updatedAt   sql.NullString
	)

	if err := row.Scan(
		&b.ID, &blockType, &b.X, &b.Y, &b.Width, &height,
		&text, &src, &caption, &label, &u, &summaryJSON,
		&createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	b.Type = types.BlockType(blockType)
	if height.Valid {
		b.Height = height.Float64
	}
	b.Text = text.String
	b.Src = src.String
	b.Caption = caption.String
	b.Label = label.String
	b.URL = u.String

	if summaryJSON.Valid && summaryJSON.String != "" {
		var sum types.Summary
		if err := json.Unmarshal([]byte(summaryJSON.String), &sum); err == nil {
			b.Summary = &sum
		}
	}
	if createdAt.Valid {
		b.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt.String)
	}
	if updatedAt.Valid {
		b.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt.String)
	}

	return &b, nil
}

func nullFloat(f float64) sql.NullFloat64 {
	if f == 0 {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}
