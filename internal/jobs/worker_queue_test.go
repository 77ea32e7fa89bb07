package jobs_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/eduplay/internal/jobs"
	"github.com/vytor/eduplay/internal/models"
	"github.com/vytor/eduplay/internal/worker"
)

type recorderFunc func(models.QuizResult)

func (f recorderFunc) Insert(_ context.Context, r models.QuizResult) (int64, error) {
	f(r)
	return 1, nil
}

type sessionPurgerFunc func(time.Time)

func (f sessionPurgerFunc) PurgeIdleSessions(_ context.Context, cutoff time.Time) int {
	f(cutoff)
	return 0
}

type trackerFunc func(ctx context.Context, ip string)

func (f trackerFunc) TrackVisitor(ctx context.Context, ip string) { f(ctx, ip) }

type purgerFunc func(time.Time)

func (f purgerFunc) PurgeOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	f(cutoff)
	return 0, nil
}

func TestWorkerQueue_EnqueueResult(t *testing.T) {
	pool := worker.NewPool(1, 4)
	pool.Start(context.Background())
	defer pool.Stop()

	got := make(chan models.QuizResult, 1)
	q := jobs.NewWorkerQueue(pool, recorderFunc(func(r models.QuizResult) { got <- r }), nil, nil, time.Hour)

	require.NoError(t, q.EnqueueResult(models.QuizResult{SessionID: "s1", Score: 2, Total: 5}))
	select {
	case r := <-got:
		assert.Equal(t, "s1", r.SessionID)
	case <-time.After(2 * time.Second):
		t.Fatal("result was not recorded")
	}
}

func TestWorkerQueue_EnqueuePurge(t *testing.T) {
	pool := worker.NewPool(1, 4)
	pool.Start(context.Background())
	defer pool.Stop()

	noPurger := jobs.NewWorkerQueue(pool, recorderFunc(func(models.QuizResult) {}), nil, nil, time.Hour)
	assert.Error(t, noPurger.EnqueuePurge())

	cutoffs := make(chan time.Time, 1)
	q := jobs.NewWorkerQueue(pool, recorderFunc(func(models.QuizResult) {}), purgerFunc(func(c time.Time) { cutoffs <- c }), nil, time.Hour)
	require.NoError(t, q.EnqueuePurge())

	select {
	case c := <-cutoffs:
		assert.WithinDuration(t, time.Now().Add(-time.Hour), c, time.Minute)
	case <-time.After(2 * time.Second):
		t.Fatal("purge did not run")
	}
}

func TestWorkerQueue_EnqueueSessionPurge(t *testing.T) {
	pool := worker.NewPool(1, 4)
	pool.Start(context.Background())
	defer pool.Stop()

	q := jobs.NewWorkerQueue(pool, recorderFunc(func(models.QuizResult) {}), nil, nil, time.Hour)

	cutoffs := make(chan time.Time, 1)
	require.NoError(t, q.EnqueueSessionPurge(sessionPurgerFunc(func(c time.Time) { cutoffs <- c }), 30*time.Minute))

	select {
	case c := <-cutoffs:
		assert.WithinDuration(t, time.Now().Add(-30*time.Minute), c, time.Minute)
	case <-time.After(2 * time.Second):
		t.Fatal("session purge did not run")
	}
}

func TestWorkerQueue_EnqueueVisit(t *testing.T) {
	pool := worker.NewPool(1, 4)
	pool.Start(context.Background())
	defer pool.Stop()

	untracked := jobs.NewWorkerQueue(pool, recorderFunc(func(models.QuizResult) {}), nil, nil, time.Hour)
	assert.Error(t, untracked.EnqueueVisit("10.0.0.1"))

	type visit struct {
		ip          string
		hasDeadline bool
	}
	visits := make(chan visit, 1)
	tracker := trackerFunc(func(ctx context.Context, ip string) {
		_, ok := ctx.Deadline()
		visits <- visit{ip: ip, hasDeadline: ok}
	})
	q := jobs.NewWorkerQueue(pool, recorderFunc(func(models.QuizResult) {}), nil, tracker, time.Hour)
	require.NoError(t, q.EnqueueVisit("10.0.0.1"))

	select {
	case v := <-visits:
		assert.Equal(t, "10.0.0.1", v.ip)
		assert.True(t, v.hasDeadline, "tracking runs with a deadline")
	case <-time.After(2 * time.Second):
		t.Fatal("visit was not tracked")
	}
}
