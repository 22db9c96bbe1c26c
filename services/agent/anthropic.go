package agent

import (
	"context"
	"fmt"
	"log"
	"strings"

	"studybuddy/models"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const anthropicMaxTokens = 4096

type AnthropicAgent struct {
	client       *anthropic.Client
	model        string
	systemPrompt string
	temperature  float64
}

func NewAnthropicAgent(apiKey, model, systemPrompt string, temperature float64, opts ...option.RequestOption) *AnthropicAgent {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	client := anthropic.NewClient(opts...)

	return &AnthropicAgent{
		client:       &client,
		model:        model,
		systemPrompt: systemPrompt,
		temperature:  temperature,
	}
}

func (a *AnthropicAgent) Invoke(ctx context.Context, messages []models.Message) (*models.AgentResponse, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(a.model),
		MaxTokens:   anthropicMaxTokens,
		Messages:    a.convertToAnthropicMessages(messages),
		Temperature: anthropic.Float(a.temperature),
	}
	if a.systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: a.systemPrompt}}
	}

	log.Printf("[INFO] Calling Anthropic API with %d messages", len(params.Messages))
	response, err := a.client.Messages.New(ctx, params)
	if err != nil {
		log.Printf("[ERROR] Failed to call Anthropic API: %v", err)
		return nil, fmt.Errorf("failed to call Anthropic API: %w", err)
	}

	log.Printf("[INFO] Anthropic response: model=%s stop_reason=%s blocks=%d", response.Model, response.StopReason, len(response.Content))

	var text strings.Builder
	for _, block := range response.Content {
		switch block := block.AsAny().(type) {
		case anthropic.TextBlock:
			text.WriteString(block.Text)
		}
	}

	result := &models.AgentResponse{Messages: []models.Message{}}
	if strings.TrimSpace(text.String()) != "" {
		result.Messages = append(result.Messages, models.Message{
			Role:    models.RoleAssistant,
			Content: text.String(),
		})
	}

	return result, nil
}

func (a *AnthropicAgent) convertToAnthropicMessages(messages []models.Message) []anthropic.MessageParam {
	var anthropicMessages []anthropic.MessageParam

	for _, msg := range messages {
		switch msg.Role {
		case models.RoleUser:
			anthropicMessages = append(anthropicMessages, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		case models.RoleAssistant:
			anthropicMessages = append(anthropicMessages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}

	return anthropicMessages
}
