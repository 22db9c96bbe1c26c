package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"studybuddy/db"
	"studybuddy/models"
	"studybuddy/services/agent"
	"studybuddy/services/prompt"
)

const (
	FallbackAnswer     = "Maaf, aku tidak bisa menjawab sekarang."
	errorAnswerFormat  = "Terjadi error: %v"
	MissingAPIKeyInfo  = "Please add your Google AI API key in the sidebar to start chatting."
	agentConfigMessage = "Invalid API Key or configuration error"

	UnknownModeLabel = "other"
)

var (
	ErrMissingAPIKey = errors.New(MissingAPIKeyInfo)
	ErrEmptyMessage  = errors.New("message cannot be empty")
	ErrAgentConfig   = errors.New(agentConfigMessage)
)

type ChatService struct {
	sessions db.SessionRepository
	turns    db.TurnRepository
	newAgent agent.Factory

	// Provider, Model and Temperature are copied into every agent build; the
	// key and system prompt come from the request.
	agentDefaults agent.Options
	defaultAPIKey string
}

func NewChatService(sessions db.SessionRepository, turns db.TurnRepository, newAgent agent.Factory, defaults agent.Options, defaultAPIKey string) *ChatService {
	return &ChatService{
		sessions:      sessions,
		turns:         turns,
		newAgent:      newAgent,
		agentDefaults: defaults,
		defaultAPIKey: defaultAPIKey,
	}
}

// Session resolves the caller's session, creating one when id is empty or
// unknown.
func (s *ChatService) Session(id string) (*models.Session, bool) {
	session, created := s.sessions.GetOrCreate(id)
	if created {
		log.Printf("[INFO] Created chat session %s", session.ID)
	}
	return session, created
}

// SendMessage runs one turn: it (re)builds the session's agent if needed,
// then asks it the mode-prefixed question. Upstream failures become the
// assistant's answer; only missing keys, agent build failures and empty
// messages are returned as errors.
func (s *ChatService) SendMessage(ctx context.Context, sessionID string, req *models.ChatRequest) (*models.ChatResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("request cannot be nil")
	}

	session, _ := s.Session(sessionID)
	session.Lock()
	defer session.Unlock()

	apiKey := strings.TrimSpace(req.APIKey)
	if apiKey == "" {
		apiKey = s.defaultAPIKey
	}
	if apiKey == "" {
		log.Printf("[WARN] Session %s sent a message without an API key", session.ID)
		return nil, ErrMissingAPIKey
	}

	if err := s.ensureAgent(ctx, session, apiKey, req.Mode); err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Message) == "" {
		return nil, ErrEmptyMessage
	}
	question := req.Message

	log.Printf("[INFO] Starting turn for session %s in mode %q", session.ID, req.Mode)

	session.Messages = append(session.Messages, models.Message{
		Role:    models.RoleUser,
		Content: question,
	})

	start := time.Now()
	answer, status := s.ask(ctx, session.Agent, req.Mode, question)
	duration := time.Since(start)

	assistantMsg := models.Message{
		Role:    models.RoleAssistant,
		Content: answer,
	}
	session.Messages = append(session.Messages, assistantMsg)

	s.recordTurn(ctx, &models.TurnRecord{
		SessionID:  session.ID,
		Mode:       statsMode(req.Mode),
		Status:     status,
		DurationMS: duration.Milliseconds(),
	})

	log.Printf("[INFO] Turn completed for session %s with status %s in %v", session.ID, status, duration)

	return &models.ChatResponse{
		Message:  assistantMsg,
		Messages: copyMessages(session.Messages),
	}, nil
}

// ensureAgent builds a new agent on first use or when apiKey differs from the
// stored key, clearing the transcript. The caller holds the session lock.
func (s *ChatService) ensureAgent(ctx context.Context, session *models.Session, apiKey, mode string) error {
	if session.Agent != nil && session.LastAPIKey == apiKey {
		return nil
	}

	log.Printf("[INFO] Building agent for session %s", session.ID)

	opts := s.agentDefaults
	opts.APIKey = apiKey
	opts.SystemPrompt = prompt.BasePrompt(mode)

	a, err := s.newAgent(ctx, opts)
	if err != nil {
		log.Printf("[ERROR] Failed to build agent for session %s: %v", session.ID, err)
		return fmt.Errorf("%w: %v", ErrAgentConfig, err)
	}

	session.Agent = a
	session.LastAPIKey = apiKey
	session.Messages = []models.Message{}
	return nil
}

func (s *ChatService) ask(ctx context.Context, a models.Agent, mode, question string) (string, string) {
	fullPrompt := prompt.FullPrompt(mode, question)

	resp, err := a.Invoke(ctx, []models.Message{{Role: models.RoleUser, Content: fullPrompt}})
	if err != nil {
		log.Printf("[ERROR] Agent invocation failed: %v", err)
		return fmt.Sprintf(errorAnswerFormat, err), models.TurnStatusError
	}

	if resp == nil || len(resp.Messages) == 0 {
		log.Printf("[WARN] Agent returned no messages, using fallback answer")
		return FallbackAnswer, models.TurnStatusEmpty
	}

	return resp.Messages[len(resp.Messages)-1].Content, models.TurnStatusOK
}

func (s *ChatService) recordTurn(ctx context.Context, turn *models.TurnRecord) {
	if s.turns == nil {
		return
	}
	if err := s.turns.RecordTurn(ctx, turn); err != nil {
		log.Printf("[ERROR] Failed to record turn for session %s: %v", turn.SessionID, err)
	}
}

// Reset discards the session's agent, key and transcript. The next message
// builds a fresh agent.
func (s *ChatService) Reset(sessionID string) error {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		if errors.Is(err, db.ErrSessionNotFound) {
			log.Printf("[INFO] Reset requested for unknown session, nothing to clear")
			return nil
		}
		return fmt.Errorf("failed to get session: %w", err)
	}

	session.Lock()
	defer session.Unlock()

	session.Agent = nil
	session.LastAPIKey = ""
	session.Messages = []models.Message{}

	log.Printf("[INFO] Reset session %s", session.ID)
	return nil
}

func (s *ChatService) Transcript(sessionID string) ([]models.Message, error) {
	session, err := s.sessions.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	session.Lock()
	defer session.Unlock()

	return copyMessages(session.Messages), nil
}

func (s *ChatService) Stats(ctx context.Context) (*models.TurnStats, error) {
	if s.turns == nil {
		return &models.TurnStats{ByMode: map[string]int{}, ByStatus: map[string]int{}}, nil
	}

	stats, err := s.turns.GetStats(ctx)
	if err != nil {
		log.Printf("[ERROR] Failed to get turn stats: %v", err)
		return nil, fmt.Errorf("failed to get turn stats: %w", err)
	}
	return stats, nil
}

// RunSessionJanitor drops sessions idle for longer than ttl until ctx ends.
func (s *ChatService) RunSessionJanitor(ctx context.Context, ttl time.Duration) {
	interval := ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if removed := s.sessions.SweepIdle(now.Add(-ttl)); removed > 0 {
				log.Printf("[INFO] Removed %d idle sessions, %d remain", removed, s.sessions.Count())
			}
		}
	}
}

// statsMode folds labels outside the mode table into UnknownModeLabel.
func statsMode(mode string) string {
	if prompt.IsKnown(mode) {
		return mode
	}
	return UnknownModeLabel
}

func copyMessages(messages []models.Message) []models.Message {
	out := make([]models.Message, len(messages))
	copy(out, messages)
	return out
}
