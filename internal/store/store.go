// Package store keeps composer drafts in a local SQLite database.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrDraftNotFound is returned when no draft has the requested id.
var ErrDraftNotFound = errors.New("store: draft not found")

// Draft is a saved copy of the composed document.
type Draft struct {
	ID        string    `db:"id"`
	Subject   string    `db:"subject"`
	HTML      string    `db:"html"`
	Text      string    `db:"text"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Store is what the composer needs from draft persistence.
type Store interface {
	SaveDraft(ctx context.Context, d *Draft) error
	GetDraft(ctx context.Context, id string) (*Draft, error)
	LatestDraft(ctx context.Context) (*Draft, error)
	ListDrafts(ctx context.Context) ([]Draft, error)
	DeleteDraft(ctx context.Context, id string) error
	Close() error
}
