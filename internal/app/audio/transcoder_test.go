package audio

import (
	"context"
	"io"
	"log/slog"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voicescribe/internal/app/errors"
	"voicescribe/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewFFmpegTranscoderOffMode(t *testing.T) {
	assert.Nil(t, NewFFmpegTranscoder(config.TranscodeOff, testLogger()))
	assert.NotNil(t, NewFFmpegTranscoder(config.TranscodeMP3, testLogger()))
	assert.NotNil(t, NewFFmpegTranscoder(config.TranscodeWav16k, testLogger()))
}

func TestConvertUnsupportedMode(t *testing.T) {
	tr := &FFmpegTranscoder{mode: "flac", logger: testLogger()}

	_, err := tr.Convert(context.Background(), "/tmp/in.webm")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConversion))
}

func TestConvertFailureWrapsConversionError(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not installed")
	}

	tr := NewFFmpegTranscoder(config.TranscodeMP3, testLogger())
	missing := filepath.Join(t.TempDir(), "absent.webm")

	_, err := tr.Convert(context.Background(), missing)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConversion))
}
