package jobs

import (
	"time"

	"github.com/vytor/eduplay/internal/models"
	"github.com/vytor/eduplay/internal/worker"
)

// JobQueue provides an abstraction for enqueueing background jobs
type JobQueue interface {
	EnqueueResult(result models.QuizResult) error
	EnqueuePurge() error
	EnqueueSessionPurge(purger worker.SessionPurger, ttl time.Duration) error
	EnqueueVisit(privateIP string) error
}
