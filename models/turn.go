package models

import "time"

const (
	TurnStatusOK    = "ok"
	TurnStatusEmpty = "empty"
	TurnStatusError = "error"
)

type TurnRecord struct {
	ID         int       `json:"id" db:"id"`
	SessionID  string    `json:"session_id" db:"session_id"`
	Mode       string    `json:"mode" db:"mode"`
	Status     string    `json:"status" db:"status"`
	DurationMS int64     `json:"duration_ms" db:"duration_ms"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

type TurnStats struct {
	Total    int            `json:"total"`
	ByMode   map[string]int `json:"by_mode"`
	ByStatus map[string]int `json:"by_status"`
}
