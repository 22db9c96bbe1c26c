package models

import (
	"sync"
	"time"
)

// Session is the per-browser chat state. Callers hold the embedded lock
// while reading or mutating Agent, LastAPIKey or Messages.
type Session struct {
	sync.Mutex

	ID         string
	Agent      Agent
	LastAPIKey string
	Messages   []Message
	CreatedAt  time.Time
	LastSeen   time.Time
}
