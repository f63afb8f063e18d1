package types

const (
	DefaultUserName = "usuario"
	DefaultLocation = "esta ubicación"
	DefaultAIAlias  = "Asistente"
)

// Profile is the personalization consulted when building a system prompt.
type Profile struct {
	UserName       string `json:"user_name"`
	Location       string `json:"location"`
	DeviceName     string `json:"device_name"`
	AIAlias        string `json:"ai_alias"`
	PromptTemplate string `json:"prompt_template,omitempty"`
	CustomPrompt   string `json:"custom_prompt,omitempty"`
}

// DefaultProfile is used when a session has no registered device or owner.
func DefaultProfile(sessionKey string) Profile {
	return Profile{
		UserName:   DefaultUserName,
		Location:   DefaultLocation,
		DeviceName: sessionKey,
		AIAlias:    DefaultAIAlias,
	}
}

// WithDefaults fills every empty field from DefaultProfile.
func (p Profile) WithDefaults(sessionKey string) Profile {
	d := DefaultProfile(sessionKey)
	if p.UserName == "" {
		p.UserName = d.UserName
	}
	if p.Location == "" {
		p.Location = d.Location
	}
	if p.DeviceName == "" {
		p.DeviceName = d.DeviceName
	}
	if p.AIAlias == "" {
		p.AIAlias = d.AIAlias
	}
	return p
}
