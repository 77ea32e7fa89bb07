package models

import "time"

// QuizResult is a completed quiz session.
type QuizResult struct {
	ID          int64     `json:"id"`
	SessionID   string    `json:"session_id"`
	Mode        string    `json:"mode"`
	Score       int       `json:"score"`
	Total       int       `json:"total"`
	CompletedAt time.Time `json:"completed_at"`
}

type ResultFilter struct {
	Mode   string
	Since  *time.Time
	Limit  int
	Offset int
}

// TabEntry is a value held in tab storage.
type TabEntry struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
