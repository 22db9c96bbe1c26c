package agent

import (
	"context"
	"fmt"
	"log"
	"strings"

	"studybuddy/models"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

// LLMAgent drives any langchaingo chat model with a fixed system prompt and
// no tools.
type LLMAgent struct {
	llm          llms.Model
	systemPrompt string
	temperature  float64
}

func NewLLMAgent(llm llms.Model, systemPrompt string, temperature float64) *LLMAgent {
	return &LLMAgent{
		llm:          llm,
		systemPrompt: systemPrompt,
		temperature:  temperature,
	}
}

// Invoke returns only the messages the model produced; the list is empty when
// the model returned no usable choice.
func (a *LLMAgent) Invoke(ctx context.Context, messages []models.Message) (*models.AgentResponse, error) {
	messageHistory := make([]llms.MessageContent, 0, len(messages)+1)
	if a.systemPrompt != "" {
		messageHistory = append(messageHistory, llms.TextParts(schema.ChatMessageTypeSystem, a.systemPrompt))
	}

	for _, msg := range messages {
		var msgType schema.ChatMessageType
		if msg.Role == models.RoleUser {
			msgType = schema.ChatMessageTypeHuman
		} else {
			msgType = schema.ChatMessageTypeAI
		}
		messageHistory = append(messageHistory, llms.TextParts(msgType, msg.Content))
	}

	log.Printf("[INFO] Calling LLM with %d messages", len(messageHistory))
	resp, err := a.llm.GenerateContent(ctx, messageHistory, llms.WithTemperature(a.temperature))
	if err != nil {
		log.Printf("[ERROR] Failed to generate LLM response: %v", err)
		return nil, fmt.Errorf("failed to generate LLM response: %w", err)
	}

	result := &models.AgentResponse{Messages: []models.Message{}}
	if resp == nil {
		return result, nil
	}

	for _, choice := range resp.Choices {
		if choice == nil || strings.TrimSpace(choice.Content) == "" {
			continue
		}
		result.Messages = append(result.Messages, models.Message{
			Role:    models.RoleAssistant,
			Content: choice.Content,
		})
	}

	log.Printf("[INFO] LLM returned %d choices, %d usable", len(resp.Choices), len(result.Messages))
	return result, nil
}
