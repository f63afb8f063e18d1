package piper

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// ConvertToMP3 pipes a WAV payload through ffmpeg. The process is killed
// when ctx ends.
func ConvertToMP3(ctx context.Context, wav []byte) ([]byte, error) {
	if len(wav) == 0 {
		return nil, fmt.Errorf("received empty WAV data")
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", "-hide_banner", "-loglevel", "error",
		"-f", "wav",
		"-i", "pipe:0",
		"-f", "mp3",
		"pipe:1",
	)

	var out, stderr bytes.Buffer
	cmd.Stdin = bytes.NewReader(wav)
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("conversion to mp3 error: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return out.Bytes(), nil
}
