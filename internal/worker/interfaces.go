package worker

import (
	"context"
	"time"

	"github.com/vytor/eduplay/internal/models"
)

// ResultRecorder stores completed quiz results.
type ResultRecorder interface {
	Insert(ctx context.Context, result models.QuizResult) (int64, error)
}

// TabPurger removes stale tab storage entries.
type TabPurger interface {
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// SessionPurger discards quiz sessions idle since cutoff.
type SessionPurger interface {
	PurgeIdleSessions(ctx context.Context, cutoff time.Time) int
}

// VisitTracker reports a visitor to the backend.
type VisitTracker interface {
	TrackVisitor(ctx context.Context, privateIP string)
}
