package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xpanvictor/voxrelay/pkg/io/audio"
)

func newProcessCmd(w *wiring) *cobra.Command {
	var (
		output      string
		contentType string
	)
	cmd := &cobra.Command{
		Use:   "process <session-key> <audio-file>",
		Short: "Run one turn locally and write the reply audio",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sessionKey, path := args[0], args[1]
			body, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			if contentType == "" {
				contentType = contentTypeFor(path)
			}

			a, err := w.app(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			payload, _, err := audio.Normalize(body, contentType, a.Config.Audio.DefaultSampleRate)
			if err != nil {
				return err
			}

			res, err := a.Orchestrator.Process(cmd.Context(), sessionKey, payload)
			if err != nil {
				return err
			}

			if output == "" {
				output = "reply" + extensionFor(res.ContentType)
			}
			if err := os.WriteFile(output, res.Audio, 0o644); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "request:    %s\n", res.RequestID)
			fmt.Fprintf(out, "outcome:    %s\n", res.Outcome)
			if res.FailureKind != "" {
				fmt.Fprintf(out, "failure:    %s\n", res.FailureKind)
			}
			if res.Transcript != "" {
				fmt.Fprintf(out, "transcript: %s\n", res.Transcript)
			}
			if res.Reply != "" {
				fmt.Fprintf(out, "reply:      %s\n", res.Reply)
			}
			_, err = fmt.Fprintf(out, "audio:      %s (%d bytes, %s) in %v\n", output, len(res.Audio), res.ContentType, res.Elapsed)
			return err
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "reply audio path (default reply.mp3 or reply.wav)")
	cmd.Flags().StringVar(&contentType, "content-type", "", "input content type (default from the file extension)")
	return cmd
}

func contentTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return "audio/wav"
	case ".ulaw", ".mulaw":
		return "audio/basic"
	case ".alaw":
		return "audio/x-alaw"
	case ".pcm", ".raw":
		return "audio/pcm"
	case ".mp3":
		return "audio/mpeg"
	default:
		return "application/octet-stream"
	}
}

func extensionFor(contentType string) string {
	switch contentType {
	case "audio/wav":
		return ".wav"
	case "audio/mpeg":
		return ".mp3"
	default:
		return ".bin"
	}
}
