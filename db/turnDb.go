package db

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"studybuddy/models"

	_ "github.com/lib/pq"
)

// TurnRepository records per-turn outcomes. Message text is never stored.
type TurnRepository interface {
	RecordTurn(ctx context.Context, turn *models.TurnRecord) error
	GetStats(ctx context.Context) (*models.TurnStats, error)
	Close() error
}

type InMemoryTurnRepository struct {
	mu     sync.Mutex
	nextID int
	stats  models.TurnStats
}

func NewInMemoryTurnRepository() *InMemoryTurnRepository {
	return &InMemoryTurnRepository{
		nextID: 1,
		stats: models.TurnStats{
			ByMode:   map[string]int{},
			ByStatus: map[string]int{},
		},
	}
}

func (r *InMemoryTurnRepository) RecordTurn(_ context.Context, turn *models.TurnRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	turn.ID = r.nextID
	r.nextID++
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now()
	}

	r.stats.Total++
	r.stats.ByMode[turn.Mode]++
	r.stats.ByStatus[turn.Status]++
	return nil
}

func (r *InMemoryTurnRepository) GetStats(_ context.Context) (*models.TurnStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := &models.TurnStats{
		Total:    r.stats.Total,
		ByMode:   make(map[string]int, len(r.stats.ByMode)),
		ByStatus: make(map[string]int, len(r.stats.ByStatus)),
	}
	for k, v := range r.stats.ByMode {
		stats.ByMode[k] = v
	}
	for k, v := range r.stats.ByStatus {
		stats.ByStatus[k] = v
	}
	return stats, nil
}

func (r *InMemoryTurnRepository) Close() error {
	return nil
}

type PostgresTurnRepository struct {
	db *sql.DB
}

func NewPostgresTurnRepository(databaseURL string) (*PostgresTurnRepository, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresTurnRepository{db: db}, nil
}

func (r *PostgresTurnRepository) RecordTurn(ctx context.Context, turn *models.TurnRecord) error {
	query := `
		INSERT INTO studybuddy.chat_turns (session_id, mode, status, duration_ms) 
		VALUES ($1, $2, $3, $4) 
		RETURNING id, created_at`

	row := r.db.QueryRowContext(ctx, query, turn.SessionID, turn.Mode, turn.Status, turn.DurationMS)

	if err := row.Scan(&turn.ID, &turn.CreatedAt); err != nil {
		return fmt.Errorf("failed to record turn: %w", err)
	}

	return nil
}

func (r *PostgresTurnRepository) GetStats(ctx context.Context) (*models.TurnStats, error) {
	stats := &models.TurnStats{
		ByMode:   map[string]int{},
		ByStatus: map[string]int{},
	}

	query := `
		SELECT mode, status, COUNT(*) 
		FROM studybuddy.chat_turns 
		GROUP BY mode, status`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query turn stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var mode, status string
		var count int
		if err := rows.Scan(&mode, &status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan turn stats: %w", err)
		}
		stats.Total += count
		stats.ByMode[mode] += count
		stats.ByStatus[status] += count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over turn stats: %w", err)
	}

	return stats, nil
}

func (r *PostgresTurnRepository) Close() error {
	return r.db.Close()
}
