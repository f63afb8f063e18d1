package session

import (
	"github.com/xpanvictor/voxrelay/internal/types"
)

// DefaultWindow is the number of conversational messages kept after the
// system message.
const DefaultWindow = 20

// RefreshSystemPrompt returns a copy of history whose index 0 is sys.
// An existing system message at index 0 is overwritten; otherwise sys is
// inserted in front.
func RefreshSystemPrompt(history []types.Message, sys types.Message) []types.Message {
	out := make([]types.Message, 0, len(history)+3)
	out = append(out, sys)
	if len(history) > 0 && history[0].IsSystem() {
		return append(out, history[1:]...)
	}
	return append(out, history...)
}

// Truncate keeps index 0 plus the newest window messages once history grows
// past window+1 entries. The input is never modified.
func Truncate(history []types.Message, window int) []types.Message {
	if window < 1 {
		window = DefaultWindow
	}
	if len(history) <= window+1 {
		return history
	}
	out := make([]types.Message, 0, window+1)
	out = append(out, history[0])
	return append(out, history[len(history)-window:]...)
}
