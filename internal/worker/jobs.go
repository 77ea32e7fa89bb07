package worker

import (
	"context"
	"time"

	"github.com/vytor/eduplay/internal/logger"
	"github.com/vytor/eduplay/internal/models"
)

// RecordResultJob stores the result of a completed quiz session.
type RecordResultJob struct {
	Recorder ResultRecorder
	Result   models.QuizResult
}

func (j *RecordResultJob) Name() string { return "record_result" }

func (j *RecordResultJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"session_id": j.Result.SessionID,
		"mode":       j.Result.Mode,
	})

	id, err := j.Recorder.Insert(ctx, j.Result)
	if err != nil {
		log.Error("failed to record result: %v", err)
		return err
	}
	log.Debug("recorded result %d: %d/%d", id, j.Result.Score, j.Result.Total)
	return nil
}

// PurgeTabStorageJob deletes tab storage entries older than TTL. Closed tabs
// never delete their own entries, so this is what bounds the table.
type PurgeTabStorageJob struct {
	Purger TabPurger
	TTL    time.Duration
	Now    func() time.Time
}

func (j *PurgeTabStorageJob) Name() string { return "purge_tab_storage" }

func (j *PurgeTabStorageJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)

	now := time.Now
	if j.Now != nil {
		now = j.Now
	}
	cutoff := now().Add(-j.TTL)

	n, err := j.Purger.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		log.Error("failed to purge tab storage: %v", err)
		return err
	}
	if n > 0 {
		log.Info("purged %d stale tab storage entries", n)
	}
	return nil
}

// PurgeSessionsJob discards quiz sessions idle for longer than TTL.
type PurgeSessionsJob struct {
	Purger SessionPurger
	TTL    time.Duration
	Now    func() time.Time
}

func (j *PurgeSessionsJob) Name() string { return "purge_sessions" }

func (j *PurgeSessionsJob) Run(ctx context.Context) error {
	now := time.Now
	if j.Now != nil {
		now = j.Now
	}
	j.Purger.PurgeIdleSessions(ctx, now().Add(-j.TTL))
	return nil
}

// DefaultVisitTimeout bounds a visitor tracking call when no Timeout is set.
const DefaultVisitTimeout = 10 * time.Second

// TrackVisitorJob forwards one visit to the backend.
type TrackVisitorJob struct {
	Tracker   VisitTracker
	PrivateIP string
	Timeout   time.Duration
}

func (j *TrackVisitorJob) Name() string { return "track_visitor" }

func (j *TrackVisitorJob) Run(ctx context.Context) error {
	timeout := j.Timeout
	if timeout <= 0 {
		timeout = DefaultVisitTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	j.Tracker.TrackVisitor(ctx, j.PrivateIP)
	return nil
}
