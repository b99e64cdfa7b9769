// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog indexes extracted vibration patterns in SQLite so they can
// be browsed by sensation, emotion, metaphor, and usage tags.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/pdiddy/vibration-engine/internal/extract"
	"github.com/pdiddy/vibration-engine/pkg/types"
)

const (
	dbFile            = "patterns.db"
	defaultMaxResults = 20
)

// Store manages the pattern catalog database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int
	log        *zap.Logger
}

// NewStore opens or creates the catalog database at cfg.CatalogDir/patterns.db
// and creates the schema if it does not exist.
func NewStore(cfg types.CatalogConfig, log *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(cfg.CatalogDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	dbPath := filepath.Join(cfg.CatalogDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	if log == nil {
		log = zap.NewNop()
	}

	s := &Store{
		db:         db,
		dir:        cfg.CatalogDir,
		maxResults: maxResults,
		log:        log,
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
		// Pattern ids are not unique: the same id may appear twice in a
		// source and both copies are kept.
		`CREATE TABLE IF NOT EXISTS patterns (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL,
			source TEXT NOT NULL,
			position INTEGER NOT NULL,
			timings TEXT NOT NULL,
			amplitudes TEXT NOT NULL,
			sensation_tags TEXT NOT NULL,
			emotion_tags TEXT NOT NULL,
			metaphors TEXT NOT NULL,
			usage_examples TEXT NOT NULL,
			image_path TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_patterns_id ON patterns(id)`,
		`CREATE INDEX IF NOT EXISTS idx_patterns_source ON patterns(source)`,
		`CREATE TABLE IF NOT EXISTS ingest_status (
			source TEXT PRIMARY KEY,
			file_mod_time TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// IngestResult reports what Ingest did with one pattern file.
type IngestResult string

const (
	IngestIndexed IngestResult = "indexed"
	IngestUpdated IngestResult = "updated"
	IngestSkipped IngestResult = "skipped"
)

// Ingest loads the pattern document at path (JSON, or YAML by extension) into
// the catalog. Rows from an earlier ingest of the same file are replaced. A
// file whose modification time matches the last ingest is skipped.
func (s *Store) Ingest(ctx context.Context, path string, w io.Writer) (IngestResult, error) {
	source, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}

	info, err := os.Stat(source)
	if err != nil {
		return "", fmt.Errorf("reading patterns %s: %w", path, err)
	}
	modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

	var storedModTime string
	err = s.db.QueryRowContext(ctx,
		`SELECT file_mod_time FROM ingest_status WHERE source = ?`, source,
	).Scan(&storedModTime)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("checking ingest status: %w", err)
	}
	isUpdate := err == nil

	if isUpdate && storedModTime == modTime {
		fmt.Fprintf(w, "skipped %s\n", path)
		return IngestSkipped, nil
	}

	patterns, err := extract.ReadPatterns(source)
	if err != nil {
		return "", err
	}

	if err := s.ingestPatterns(ctx, source, patterns, modTime); err != nil {
		return "", err
	}
	s.log.Debug("ingested patterns",
		zap.String("source", source),
		zap.Int("patterns", len(patterns)),
		zap.Bool("update", isUpdate))

	if isUpdate {
		fmt.Fprintf(w, "updated %s (%d patterns)\n", path, len(patterns))
		return IngestUpdated, nil
	}
	fmt.Fprintf(w, "indexed %s (%d patterns)\n", path, len(patterns))
	return IngestIndexed, nil
}

func (s *Store) ingestPatterns(ctx context.Context, source string, patterns []types.Pattern, modTime string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM patterns WHERE source = ?`, source); err != nil {
		return fmt.Errorf("deleting old patterns: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO patterns (id, source, position, timings, amplitudes,
			sensation_tags, emotion_tags, metaphors, usage_examples, image_path)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range patterns {
		var image sql.NullString
		if p.ImagePath != nil {
			image = sql.NullString{String: *p.ImagePath, Valid: true}
		}
		_, err := stmt.ExecContext(ctx,
			p.ID, source, i,
			jsonText(p.Timings), jsonText(p.Amplitudes),
			jsonText(p.SensationTags), jsonText(p.EmotionTags),
			jsonText(p.Metaphors), jsonText(p.UsageExamples),
			image,
		)
		if err != nil {
			return fmt.Errorf("inserting pattern %s: %w", p.ID, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO ingest_status (source, file_mod_time) VALUES (?, ?)
		 ON CONFLICT(source) DO UPDATE SET file_mod_time=excluded.file_mod_time`,
		source, modTime,
	)
	if err != nil {
		return fmt.Errorf("updating ingest status: %w", err)
	}

	return tx.Commit()
}

// jsonText encodes a list column. Nil lists are stored as [].
func jsonText[T any](v []T) string {
	if v == nil {
		return "[]"
	}
	data, _ := json.Marshal(v)
	return string(data)
}
