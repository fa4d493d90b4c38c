package repository

import (
	"context"

	"voicescribe/internal/app/model"
)

// TranscriptDAO persists transcript records in the document store.
// Implementations are safe for concurrent use by in-flight requests.
type TranscriptDAO interface {
	// Save writes a single immutable record for a successful pipeline run.
	// It generates the record id and captures the UTC timestamp at save time,
	// returning the generated id.
	Save(ctx context.Context, transcript, language, audioRef string) (string, error)

	// GetByID returns a record by its id, or nil when no record matches.
	GetByID(ctx context.Context, id string) (*model.TranscriptRecord, error)

	// GetAll returns every stored record, newest first.
	GetAll(ctx context.Context) ([]model.TranscriptRecord, error)

	Close() error
}
