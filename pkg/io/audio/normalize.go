// Package audio turns device payloads into something the recognizers accept.
// Containers pass through untouched; raw telephony codecs and bare PCM are
// wrapped as WAV.
package audio

import (
	"errors"
	"fmt"
	"mime"
	"strconv"
	"strings"

	"github.com/zaf/g711"
)

const g711Rate = 8000

var (
	ErrEmptyAudio           = errors.New("audio payload is empty")
	ErrMalformedContentType = errors.New("malformed content type")
)

// CheckContentType fails when contentType is set but does not parse as a
// media type. Normalize treats such payloads as opaque bytes.
func CheckContentType(contentType string) error {
	if contentType == "" {
		return nil
	}
	if _, _, err := mime.ParseMediaType(contentType); err != nil {
		return fmt.Errorf("%w %q: %v", ErrMalformedContentType, contentType, err)
	}
	return nil
}

// Normalize returns body ready for transcription along with the content type
// that now describes it.
func Normalize(body []byte, contentType string, defaultRate int) ([]byte, string, error) {
	if len(body) == 0 {
		return nil, "", ErrEmptyAudio
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || contentType == "" {
		// unknown payloads are sniffed only for WAV
		if IsWAV(body) {
			return body, "audio/wav", nil
		}
		return body, "application/octet-stream", nil
	}

	channels := 1
	if c, err := strconv.Atoi(params["channels"]); err == nil && c > 0 {
		channels = c
	}

	switch strings.ToLower(mediaType) {
	case "audio/basic", "audio/pcmu", "audio/x-mulaw", "audio/mulaw":
		return EncodeWAV(g711.DecodeUlaw(body), rateOr(params, g711Rate), channels), "audio/wav", nil
	case "audio/pcma", "audio/x-alaw", "audio/alaw":
		return EncodeWAV(g711.DecodeAlaw(body), rateOr(params, g711Rate), channels), "audio/wav", nil
	case "audio/l16":
		// network byte order; WAV wants little-endian
		return EncodeWAV(swap16(body), rateOr(params, defaultRate), channels), "audio/wav", nil
	case "audio/pcm", "audio/x-pcm":
		return EncodeWAV(body, rateOr(params, defaultRate), channels), "audio/wav", nil
	default:
		return body, mediaType, nil
	}
}

// swap16 returns a copy of pcm with the bytes of every 16-bit sample
// swapped. A trailing odd byte is copied as is.
func swap16(pcm []byte) []byte {
	out := make([]byte, len(pcm))
	copy(out, pcm)
	for i := 0; i+1 < len(out); i += 2 {
		out[i], out[i+1] = out[i+1], out[i]
	}
	return out
}

func rateOr(params map[string]string, fallback int) int {
	if r, err := strconv.Atoi(params["rate"]); err == nil && r > 0 {
		return r
	}
	return fallback
}
