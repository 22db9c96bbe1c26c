package models

import "context"

// Agent is a model client bound to one API key and one system prompt.
type Agent interface {
	Invoke(ctx context.Context, messages []Message) (*AgentResponse, error)
}

type AgentResponse struct {
	Messages []Message `json:"messages"`
}
