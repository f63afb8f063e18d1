package prompts

import (
	"strings"

	"github.com/xpanvictor/voxrelay/internal/types"
)

const (
	PlaceholderUserName   = "{user_name}"
	PlaceholderLocation   = "{location}"
	PlaceholderDeviceName = "{device_name}"
	PlaceholderAIAlias    = "{ai_alias}"
)

// Build derives the system instruction for a turn.
//
// A profile template wins when set. Otherwise the current default template is
// used, with the raw custom prompt (if any) appended as a trailing paragraph.
// Substitution is a single literal pass: values are never re-expanded and
// unknown {tokens} are left as they are.
func Build(p types.Profile) string {
	tmpl := p.PromptTemplate
	if strings.TrimSpace(tmpl) == "" {
		tmpl = DEFAULT_PROMPT.GetCurrentPrompt().Content
		if custom := strings.TrimSpace(p.CustomPrompt); custom != "" {
			tmpl += "\n" + custom
		}
	}

	return strings.NewReplacer(
		PlaceholderUserName, p.UserName,
		PlaceholderLocation, p.Location,
		PlaceholderDeviceName, p.DeviceName,
		PlaceholderAIAlias, p.AIAlias,
	).Replace(tmpl)
}

// BuildMessage wraps Build as the system message for index 0.
func BuildMessage(p types.Profile) types.Message {
	return types.SystemMessage(Build(p))
}
