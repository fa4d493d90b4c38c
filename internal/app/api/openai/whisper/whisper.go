package whisper

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/sashabaranov/go-openai"

	"voicescribe/internal/app/errors"
	"voicescribe/internal/app/metrics"
)

// RemoteTranscriber implements remote transcription using the OpenAI API
// with bounded, stateless retry.
type RemoteTranscriber struct {
	client         *openai.Client
	maxAttempts    int
	attemptTimeout time.Duration
	logger         *slog.Logger
	metrics        *metrics.Metrics
}

// NewRemoteTranscriber creates a new RemoteTranscriber instance.
func NewRemoteTranscriber(client *openai.Client, maxAttempts int, attemptTimeout time.Duration, logger *slog.Logger, m *metrics.Metrics) *RemoteTranscriber {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &RemoteTranscriber{
		client:         client,
		maxAttempts:    maxAttempts,
		attemptTimeout: attemptTimeout,
		logger:         logger,
		metrics:        m,
	}
}

// Transcript uses the OpenAI API for remote transcription. It performs up to
// maxAttempts independent calls back to back, with no backoff. The audio file
// is re-opened for every attempt so a failed read can never leave a later
// attempt with an exhausted stream. After exhaustion the last provider error
// is returned wrapped in ErrTranscription.
func (rt *RemoteTranscriber) Transcript(ctx context.Context, inputFilePath string, language string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= rt.maxAttempts; attempt++ {
		text, err := rt.transcribeOnce(ctx, inputFilePath, language)
		if err == nil {
			return text, nil
		}
		lastErr = err
		rt.logger.Warn("transcription attempt failed",
			"attempt", attempt,
			"max_attempts", rt.maxAttempts,
			"file", filepath.Base(inputFilePath),
			"error", err,
		)
		if rt.metrics != nil && attempt < rt.maxAttempts {
			rt.metrics.RecordTranscriptionRetry()
		}
		// Request-level cancellation is not retryable.
		if ctx.Err() != nil {
			break
		}
	}
	return "", errors.Stage(errors.ErrTranscription, lastErr)
}

func (rt *RemoteTranscriber) transcribeOnce(ctx context.Context, inputFilePath string, language string) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, rt.attemptTimeout)
	defer cancel()

	// Fresh reader per attempt.
	file, err := os.Open(inputFilePath)
	if err != nil {
		return "", fmt.Errorf("failed to open audio file: %w", err)
	}
	defer file.Close()

	req := openai.AudioRequest{
		Model:    openai.Whisper1,
		Reader:   file,
		FilePath: inputFilePath,
		Language: language,
	}
	resp, err := rt.client.CreateTranscription(attemptCtx, req)
	if err != nil {
		return "", fmt.Errorf("createTranscription failed: %w", err)
	}
	return resp.Text, nil
}
