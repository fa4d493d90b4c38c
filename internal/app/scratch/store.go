package scratch

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	apperrors "voicescribe/internal/app/errors"
)

// Store manages per-request temporary files on local disk. Each request owns
// its own uniquely named files, so concurrent requests never contend for the
// same path.
type Store struct {
	dir    string
	logger *slog.Logger
}

// NewStore creates a scratch store rooted at dir. The directory is created
// lazily on the first write.
func NewStore(dir string, logger *slog.Logger) *Store {
	return &Store{dir: dir, logger: logger}
}

// Write stores data in a new uniquely named file and returns its path.
// The name combines the arrival timestamp with a UUID fragment so that
// concurrent requests within the same nanosecond cannot collide.
func (s *Store) Write(data []byte, ext string) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", apperrors.Stage(apperrors.ErrStorageWrite,
			fmt.Errorf("failed to create scratch dir %s: %w", s.dir, err))
	}

	name := fmt.Sprintf("%d-%s%s", time.Now().UnixNano(), uuid.New().String()[:8], normalizeExt(ext))
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", apperrors.Stage(apperrors.ErrStorageWrite,
			fmt.Errorf("failed to write scratch file %s: %w", path, err))
	}
	return path, nil
}

// Remove deletes a scratch file. Removal is best-effort: a missing file is a
// no-op and any other failure is logged but never propagated, so cleanup can
// never mask the primary pipeline outcome.
func (s *Store) Remove(path string) {
	if path == "" {
		return
	}
	err := os.Remove(path)
	switch {
	case err == nil:
	case os.IsNotExist(err):
		s.logger.Debug("scratch file already removed", "path", path)
	default:
		s.logger.Warn("failed to remove scratch file", "path", path, "error", err)
	}
}

// Dir returns the scratch directory root.
func (s *Store) Dir() string {
	return s.dir
}

func normalizeExt(ext string) string {
	if ext == "" {
		return ".bin"
	}
	if ext[0] != '.' {
		return "." + ext
	}
	return ext
}
