package services

import (
	"context"
	stderrors "errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/eduplay/internal/errors"
	"github.com/vytor/eduplay/internal/jobs"
	"github.com/vytor/eduplay/internal/logger"
	"github.com/vytor/eduplay/internal/models"
	"github.com/vytor/eduplay/internal/quiz"
)

// MaxQuestionsPerSession bounds the size of a requested quiz.
const MaxQuestionsPerSession = 50

// SessionView is the state of one quiz session as returned to clients.
type SessionView struct {
	ID string `json:"id"`
	quiz.State
}

// QuizService hosts interactive quiz sessions, one per quiz view.
type QuizService interface {
	StartSession(ctx context.Context, mode quiz.Mode, questions int) (*SessionView, error)
	GetSession(ctx context.Context, id string) (*SessionView, error)
	DeleteSession(ctx context.Context, id string) error
	SelectAnswer(ctx context.Context, id string, questionID int, value string) (*SessionView, error)
	CheckAnswer(ctx context.Context, id string, questionID int) (*SessionView, error)
	Advance(ctx context.Context, id string) (*SessionView, error)
	Retreat(ctx context.Context, id string) (*SessionView, error)
	Finish(ctx context.Context, id string) (*SessionView, error)
	Reset(ctx context.Context, id string) (*SessionView, error)
	Questions(ctx context.Context, id string) ([]quiz.Question, error)
	ActiveSessions() int
	PurgeIdleSessions(ctx context.Context, cutoff time.Time) int
}

type sessionEntry struct {
	mu      sync.Mutex
	session *quiz.Session
	touched time.Time
}

type quizService struct {
	genMu     sync.Mutex
	generator *quiz.Generator
	defaultN  int
	jobQueue  jobs.JobQueue
	now       func() time.Time

	mu       sync.RWMutex
	sessions map[string]*sessionEntry
}

// NewQuizService creates a new QuizService. jobQueue may be nil, in which
// case completed sessions are not recorded.
func NewQuizService(generator *quiz.Generator, defaultQuestions int, jobQueue jobs.JobQueue) QuizService {
	return &quizService{
		generator: generator,
		defaultN:  defaultQuestions,
		jobQueue:  jobQueue,
		now:       time.Now,
		sessions:  make(map[string]*sessionEntry),
	}
}

func (s *quizService) StartSession(ctx context.Context, mode quiz.Mode, questions int) (*SessionView, error) {
	log := logger.FromContext(ctx)

	if questions == 0 {
		questions = s.defaultN
	}
	if questions < 1 || questions > MaxQuestionsPerSession {
		return nil, errors.NewValidationError("questions", "must be between 1 and 50")
	}
	if mode != quiz.SingleShot && mode != quiz.Reanswerable {
		return nil, errors.NewValidationError("mode", "unknown mode "+string(mode))
	}

	s.genMu.Lock()
	qs := s.generator.Generate(questions)
	s.genMu.Unlock()

	id := uuid.NewString()
	entry := &sessionEntry{session: quiz.NewSession(qs, mode), touched: s.now()}

	s.mu.Lock()
	s.sessions[id] = entry
	s.mu.Unlock()

	log.Info("started quiz session: id=%s, mode=%s, questions=%d", id, mode, len(qs))
	return &SessionView{ID: id, State: entry.session.State()}, nil
}

func (s *quizService) GetSession(ctx context.Context, id string) (*SessionView, error) {
	return s.withSession(ctx, id, func(*quiz.Session) error { return nil })
}

func (s *quizService) DeleteSession(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return errors.NewNotFoundError("session", id)
	}
	log.Debug("discarded quiz session: id=%s", id)
	return nil
}

// SelectAnswer accepts only one of the question's options. Anything else is
// rejected before it reaches the session, so it cannot lock a question.
func (s *quizService) SelectAnswer(ctx context.Context, id string, questionID int, value string) (*SessionView, error) {
	return s.withSession(ctx, id, func(sess *quiz.Session) error {
		q, err := sess.Question(questionID)
		if err != nil {
			return err
		}
		v, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || !q.HasOption(v) {
			return errors.NewValidationError("value", "must be one of the question's options")
		}
		_, err = sess.SelectAnswer(questionID, strconv.Itoa(v))
		return err
	})
}

func (s *quizService) CheckAnswer(ctx context.Context, id string, questionID int) (*SessionView, error) {
	return s.withSession(ctx, id, func(sess *quiz.Session) error {
		_, err := sess.Check(questionID)
		return err
	})
}

func (s *quizService) Advance(ctx context.Context, id string) (*SessionView, error) {
	return s.withSession(ctx, id, func(sess *quiz.Session) error {
		sess.Advance()
		return nil
	})
}

func (s *quizService) Retreat(ctx context.Context, id string) (*SessionView, error) {
	return s.withSession(ctx, id, func(sess *quiz.Session) error {
		sess.Retreat()
		return nil
	})
}

func (s *quizService) Finish(ctx context.Context, id string) (*SessionView, error) {
	return s.withSession(ctx, id, func(sess *quiz.Session) error {
		sess.FinishAll()
		return nil
	})
}

func (s *quizService) Reset(ctx context.Context, id string) (*SessionView, error) {
	return s.withSession(ctx, id, func(sess *quiz.Session) error {
		sess.Reset()
		return nil
	})
}

func (s *quizService) Questions(ctx context.Context, id string) ([]quiz.Question, error) {
	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.touched = s.now()
	return entry.session.Questions(), nil
}

func (s *quizService) ActiveSessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// PurgeIdleSessions discards sessions not used since cutoff and returns how
// many were removed. Views that are closed without a DELETE end up here.
func (s *quizService) PurgeIdleSessions(ctx context.Context, cutoff time.Time) int {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, entry := range s.sessions {
		entry.mu.Lock()
		idle := entry.touched.Before(cutoff)
		entry.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			n++
		}
	}
	if n > 0 {
		log.Info("purged %d idle quiz sessions, %d remain", n, len(s.sessions))
	}
	return n
}

func (s *quizService) entry(id string) (*sessionEntry, error) {
	s.mu.RLock()
	entry, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.NewNotFoundError("session", id)
	}
	return entry, nil
}

// withSession runs fn on the session under its lock and records the result
// if fn completed the session.
func (s *quizService) withSession(ctx context.Context, id string, fn func(*quiz.Session) error) (*SessionView, error) {
	log := logger.FromContext(ctx).WithField("session_id", id)

	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.touched = s.now()

	wasCompleted := entry.session.Completed()
	if err := fn(entry.session); err != nil {
		var appErr *errors.AppError
		switch {
		case stderrors.Is(err, quiz.ErrQuestionNotFound):
			return nil, errors.NewNotFoundError("question", "in session "+id)
		case stderrors.As(err, &appErr):
			return nil, appErr
		}
		log.Error("session operation failed: %v", err)
		return nil, errors.NewInternalError(err)
	}

	state := entry.session.State()
	if !wasCompleted && state.Completed {
		log.Info("quiz session completed: score=%d/%d", state.Score, state.Total)
		s.recordResult(ctx, id, state)
	}
	return &SessionView{ID: id, State: state}, nil
}

func (s *quizService) recordResult(ctx context.Context, id string, state quiz.State) {
	if s.jobQueue == nil {
		return
	}
	result := models.QuizResult{
		SessionID:   id,
		Mode:        string(state.Mode),
		Score:       state.Score,
		Total:       state.Total,
		CompletedAt: time.Now(),
	}
	if err := s.jobQueue.EnqueueResult(result); err != nil {
		logger.FromContext(ctx).Warn("failed to enqueue result for session %s: %v", id, err)
	}
}
