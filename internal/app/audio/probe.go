package audio

import (
	"context"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

// Duration returns the length of the audio file in seconds, rounded to the
// nearest integer, using ffprobe. Best-effort: callers use this for
// observability only and tolerate errors.
func Duration(ctx context.Context, filePath string) (int, error) {
	cmd := exec.CommandContext(ctx, "ffprobe", "-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1", filePath)
	output, err := cmd.Output()
	if err != nil {
		return 0, err
	}
	durationFloat, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, err
	}
	return int(math.Round(durationFloat)), nil
}
