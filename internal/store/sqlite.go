package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/bethropolis/composer/internal/logger"
)

var _ Store = (*SQLiteStore)(nil)

// SQLiteStore implements Store on a SQLite database.
type SQLiteStore struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewSQLiteStore opens (or creates) the database at dbPath, enables WAL
// mode and runs pending migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	// A single connection keeps ":memory:" databases shared.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db, now: time.Now}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	logger.DebugTagf("store", "opened draft store %s", dbPath)
	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}
	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}
	return nil
}

// SaveDraft inserts d, or updates the draft with the same id. A draft
// without an id gets a new one.
func (s *SQLiteStore) SaveDraft(ctx context.Context, d *Draft) error {
	now := s.now().UTC()
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	d.UpdatedAt = now

	const query = `
		INSERT INTO drafts (id, subject, html, text, created_at, updated_at)
		VALUES (:id, :subject, :html, :text, :created_at, :updated_at)
		ON CONFLICT(id) DO UPDATE SET
			subject = excluded.subject,
			html = excluded.html,
			text = excluded.text,
			updated_at = excluded.updated_at`
	if _, err := s.db.NamedExecContext(ctx, query, d); err != nil {
		return fmt.Errorf("saving draft %s: %w", d.ID, err)
	}
	logger.DebugTagf("store", "saved draft %s (%d bytes)", d.ID, len(d.HTML))
	return nil
}

// GetDraft loads the draft with the given id.
func (s *SQLiteStore) GetDraft(ctx context.Context, id string) (*Draft, error) {
	var d Draft
	err := s.db.GetContext(ctx, &d, "SELECT * FROM drafts WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting draft %s: %w", id, err)
	}
	return &d, nil
}

// LatestDraft loads the most recently saved draft.
func (s *SQLiteStore) LatestDraft(ctx context.Context) (*Draft, error) {
	var d Draft
	err := s.db.GetContext(ctx, &d, "SELECT * FROM drafts ORDER BY updated_at DESC, rowid DESC LIMIT 1")
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting latest draft: %w", err)
	}
	return &d, nil
}

// ListDrafts returns every draft, newest first.
func (s *SQLiteStore) ListDrafts(ctx context.Context) ([]Draft, error) {
	var drafts []Draft
	err := s.db.SelectContext(ctx, &drafts, "SELECT * FROM drafts ORDER BY updated_at DESC, rowid DESC")
	if err != nil {
		return nil, fmt.Errorf("listing drafts: %w", err)
	}
	return drafts, nil
}

// DeleteDraft removes the draft with the given id.
func (s *SQLiteStore) DeleteDraft(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM drafts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting draft %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrDraftNotFound
	}
	return nil
}
