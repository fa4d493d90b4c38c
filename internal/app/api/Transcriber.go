package api

import "context"

// Transcriber defines a transcription interface for converting audio files to text.
type Transcriber interface {
	Transcript(ctx context.Context, inputFilePath string, language string) (string, error)
}
