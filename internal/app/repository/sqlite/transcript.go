package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"voicescribe/internal/app/errors"
	"voicescribe/internal/app/model"
	"voicescribe/internal/app/repository"
)

// Ensure SQLiteDB implements TranscriptDAO
var _ repository.TranscriptDAO = (*SQLiteDB)(nil)

// SQLiteDB is the sqlite-backed transcript repository.
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB wraps an opened sqlite connection.
func NewSQLiteDB(db *sql.DB) *SQLiteDB {
	return &SQLiteDB{db: db}
}

// Save inserts a transcript record with a generated id and a UTC timestamp
// captured at save time.
func (sdb *SQLiteDB) Save(ctx context.Context, transcript, language, audioRef string) (string, error) {
	id := uuid.New().String()
	createdAt := time.Now().UTC()

	insertSQL := `
		INSERT INTO transcripts (id, transcript, language, audio_ref, created_at)
		VALUES (?, ?, ?, ?, ?)`

	_, err := sdb.db.ExecContext(ctx, insertSQL, id, transcript, language, audioRef, createdAt)
	if err != nil {
		return "", errors.Stage(errors.ErrPersistence,
			fmt.Errorf("failed to insert transcript: %w", err))
	}
	return id, nil
}

// GetByID retrieves a single record, or nil when it does not exist.
func (sdb *SQLiteDB) GetByID(ctx context.Context, id string) (*model.TranscriptRecord, error) {
	query := `
		SELECT id, transcript, language, audio_ref, created_at
		FROM transcripts
		WHERE id = ?
		LIMIT 1`

	var rec model.TranscriptRecord
	err := sdb.db.QueryRowContext(ctx, query, id).Scan(
		&rec.ID, &rec.Transcript, &rec.Language, &rec.AudioRef, &rec.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return &rec, nil
}

// GetAll retrieves every stored record, newest first.
func (sdb *SQLiteDB) GetAll(ctx context.Context) ([]model.TranscriptRecord, error) {
	query := `
		SELECT id, transcript, language, audio_ref, created_at
		FROM transcripts
		ORDER BY created_at DESC`

	rows, err := sdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var records []model.TranscriptRecord
	for rows.Next() {
		var rec model.TranscriptRecord
		if err := rows.Scan(&rec.ID, &rec.Transcript, &rec.Language, &rec.AudioRef, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close closes the underlying connection.
func (sdb *SQLiteDB) Close() error {
	return sdb.db.Close()
}
