package pg

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"voicescribe/internal/app/errors"
	"voicescribe/internal/app/model"
	"voicescribe/internal/app/repository"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS transcripts (
	id UUID PRIMARY KEY,
	transcript TEXT NOT NULL,
	language TEXT NOT NULL,
	audio_ref TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_transcripts_created_at ON transcripts (created_at);
`

// Ensure PostgresDB implements TranscriptDAO
var _ repository.TranscriptDAO = (*PostgresDB)(nil)

// PostgresDB is the Postgres-backed transcript repository.
type PostgresDB struct {
	db *sql.DB
}

// Open connects to Postgres with the given DSN and ensures the schema exists.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	return db, nil
}

// NewPostgresDB wraps an opened Postgres connection.
func NewPostgresDB(db *sql.DB) *PostgresDB {
	return &PostgresDB{db: db}
}

// Save inserts a transcript record with a generated id and a UTC timestamp
// captured at save time.
func (pdb *PostgresDB) Save(ctx context.Context, transcript, language, audioRef string) (string, error) {
	id := uuid.New().String()
	createdAt := time.Now().UTC()

	insertSQL := `
		INSERT INTO transcripts (id, transcript, language, audio_ref, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := pdb.db.ExecContext(ctx, insertSQL, id, transcript, language, audioRef, createdAt)
	if err != nil {
		return "", errors.Stage(errors.ErrPersistence,
			fmt.Errorf("failed to insert transcript: %w", err))
	}
	return id, nil
}

// GetByID retrieves a single record, or nil when it does not exist.
func (pdb *PostgresDB) GetByID(ctx context.Context, id string) (*model.TranscriptRecord, error) {
	query := `
		SELECT id, transcript, language, audio_ref, created_at
		FROM transcripts
		WHERE id = $1
		LIMIT 1`

	var rec model.TranscriptRecord
	err := pdb.db.QueryRowContext(ctx, query, id).Scan(
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
func (pdb *PostgresDB) GetAll(ctx context.Context) ([]model.TranscriptRecord, error) {
	query := `
		SELECT id, transcript, language, audio_ref, created_at
		FROM transcripts
		ORDER BY created_at DESC`

	rows, err := pdb.db.QueryContext(ctx, query)
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
func (pdb *PostgresDB) Close() error {
	return pdb.db.Close()
}
