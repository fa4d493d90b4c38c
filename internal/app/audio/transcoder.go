package audio

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"

	"voicescribe/internal/app/errors"
	"voicescribe/internal/config"
)

// Transcoder normalizes uploaded audio into a canonical format accepted by
// the transcription provider. A nil *FFmpegTranscoder is valid and means the
// conversion step is disabled for this deployment.
type Transcoder interface {
	// Convert produces a new file next to inputPath in the target format and
	// returns its path. The input file is left untouched.
	Convert(ctx context.Context, inputPath string) (string, error)
}

// FFmpegTranscoder shells out to ffmpeg for conversion.
type FFmpegTranscoder struct {
	mode   string
	logger *slog.Logger
}

// NewFFmpegTranscoder returns a transcoder for the configured mode, or nil
// when the mode is off. Callers treat a nil transcoder as "no conversion".
func NewFFmpegTranscoder(mode string, logger *slog.Logger) *FFmpegTranscoder {
	if mode == config.TranscodeOff {
		return nil
	}
	return &FFmpegTranscoder{mode: mode, logger: logger}
}

// Convert runs ffmpeg and blocks until the process completes or ctx is done.
func (t *FFmpegTranscoder) Convert(ctx context.Context, inputPath string) (string, error) {
	base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))

	var outputPath string
	var args []string
	switch t.mode {
	case config.TranscodeMP3:
		outputPath = base + ".mp3"
		args = []string{"-i", inputPath, "-vn", "-acodec", "libmp3lame", outputPath}
	case config.TranscodeWav16k:
		outputPath = base + "_16khz.wav"
		args = []string{"-i", inputPath, "-vn", "-acodec", "pcm_s16le", "-ar", "16000", "-ac", "1", outputPath}
	default:
		return "", errors.Stage(errors.ErrConversion, fmt.Errorf("unsupported transcode mode: %s", t.mode))
	}

	t.logger.Info("converting audio", "input", inputPath, "mode", t.mode)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", errors.Stage(errors.ErrConversion,
			fmt.Errorf("FFmpeg error: %v, stderr: %s", err, stderr.String()))
	}

	t.logger.Info("audio conversion completed", "output", outputPath)
	return outputPath, nil
}
