package models

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role" jsonschema:"enum=user,enum=assistant"`
	Content string `json:"content"`
	HTML    string `json:"html,omitempty"`
}

type ChatRequest struct {
	APIKey  string `json:"api_key" jsonschema:"description=Hosted model API key; changing it starts a new conversation"`
	Mode    string `json:"mode" jsonschema:"description=Study mode label"`
	Message string `json:"message"`
}

type ChatResponse struct {
	Message  Message   `json:"message"`
	Messages []Message `json:"messages"`
}

type SessionResponse struct {
	Messages []Message `json:"messages"`
}

type ModeInfo struct {
	Label   string `json:"label"`
	Prompt  string `json:"prompt"`
	Default bool   `json:"default,omitempty"`
}
