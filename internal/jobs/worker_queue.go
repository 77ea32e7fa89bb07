package jobs

import (
	"errors"
	"time"

	"github.com/vytor/eduplay/internal/models"
	"github.com/vytor/eduplay/internal/worker"
)

// WorkerQueue implements JobQueue using a worker pool
type WorkerQueue struct {
	pool     *worker.Pool
	recorder worker.ResultRecorder
	purger   worker.TabPurger
	tracker  worker.VisitTracker
	ttl      time.Duration
}

// NewWorkerQueue creates a new WorkerQueue implementation. purger may be nil
// when the storage backend expires entries by itself, and tracker may be nil
// when visits are not forwarded.
func NewWorkerQueue(pool *worker.Pool, recorder worker.ResultRecorder, purger worker.TabPurger, tracker worker.VisitTracker, ttl time.Duration) JobQueue {
	return &WorkerQueue{
		pool:     pool,
		recorder: recorder,
		purger:   purger,
		tracker:  tracker,
		ttl:      ttl,
	}
}

func (q *WorkerQueue) EnqueueResult(result models.QuizResult) error {
	return q.pool.Submit(&worker.RecordResultJob{
		Recorder: q.recorder,
		Result:   result,
	})
}

var errNoPurger = errors.New("tab storage backend does not need purging")

func (q *WorkerQueue) EnqueuePurge() error {
	if q.purger == nil {
		return errNoPurger
	}
	return q.pool.Submit(&worker.PurgeTabStorageJob{
		Purger: q.purger,
		TTL:    q.ttl,
	})
}

func (q *WorkerQueue) EnqueueSessionPurge(purger worker.SessionPurger, ttl time.Duration) error {
	return q.pool.Submit(&worker.PurgeSessionsJob{
		Purger: purger,
		TTL:    ttl,
	})
}

var errNoTracker = errors.New("visitor tracking is not configured")

func (q *WorkerQueue) EnqueueVisit(privateIP string) error {
	if q.tracker == nil {
		return errNoTracker
	}
	return q.pool.Submit(&worker.TrackVisitorJob{
		Tracker:   q.tracker,
		PrivateIP: privateIP,
	})
}
