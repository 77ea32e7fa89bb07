package quiz

import (
	"errors"
	"fmt"
	"strings"
)

// Mode selects how a session treats repeated answers.
type Mode string

const (
	// SingleShot evaluates an answer on selection and locks the question.
	SingleShot Mode = "single_shot"
	// Reanswerable lets the learner overwrite an answer until it is checked
	// again or the quiz is finished.
	Reanswerable Mode = "reanswerable"
)

// ParseMode maps a mode name to a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case SingleShot, "":
		return SingleShot, nil
	case Reanswerable:
		return Reanswerable, nil
	default:
		return "", fmt.Errorf("unknown quiz mode %q", s)
	}
}

// Status is the state machine position of a session.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// ErrQuestionNotFound is returned for a question id outside the session.
var ErrQuestionNotFound = errors.New("question not found")

// Answer is the per-question answer state. An empty Selected and a nil
// Correct both mean "unset".
type Answer struct {
	Selected string `json:"selected,omitempty"`
	Correct  *bool  `json:"correct,omitempty"`
}

func (a Answer) evaluated() bool { return a.Correct != nil }

// State is a read-only snapshot of a session.
type State struct {
	Mode         Mode           `json:"mode"`
	Status       Status         `json:"status"`
	Questions    []Question     `json:"questions"`
	CurrentIndex int            `json:"current_index"`
	Answers      map[int]Answer `json:"answers"`
	Score        int            `json:"score"`
	Total        int            `json:"total"`
	Completed    bool           `json:"completed"`
}

// Session is the quiz state machine for one quiz view. It is not safe for
// concurrent use; callers serialize access.
type Session struct {
	mode      Mode
	questions []Question
	index     map[int]int

	current   int
	answers   map[int]Answer
	awarded   map[int]bool
	score     int
	completed bool
}

// NewSession starts an active session over questions. The question set is
// fixed for the lifetime of the session.
func NewSession(questions []Question, mode Mode) *Session {
	if mode == "" {
		mode = SingleShot
	}
	qs := make([]Question, len(questions))
	index := make(map[int]int, len(questions))
	for i, q := range questions {
		q.Options = append([]int(nil), q.Options...)
		qs[i] = q
		index[q.ID] = i
	}
	s := &Session{mode: mode, questions: qs, index: index}
	s.Reset()
	return s
}

// Mode returns the answering variant of the session.
func (s *Session) Mode() Mode { return s.mode }

// Questions returns a copy of the session's question set.
func (s *Session) Questions() []Question {
	out := make([]Question, len(s.questions))
	for i, q := range s.questions {
		q.Options = append([]int(nil), q.Options...)
		out[i] = q
	}
	return out
}

// Score returns the running score.
func (s *Session) Score() int { return s.score }

// Completed reports whether the session reached its terminal state.
func (s *Session) Completed() bool { return s.completed }

// CurrentIndex returns the position of the displayed question.
func (s *Session) CurrentIndex() int { return s.current }

// Question returns a copy of the question with the given id.
func (s *Session) Question(questionID int) (Question, error) {
	i, ok := s.index[questionID]
	if !ok {
		return Question{}, ErrQuestionNotFound
	}
	q := s.questions[i]
	q.Options = append([]int(nil), q.Options...)
	return q, nil
}

// Answer returns the answer state for a question.
func (s *Session) Answer(questionID int) (Answer, error) {
	if _, ok := s.index[questionID]; !ok {
		return Answer{}, ErrQuestionNotFound
	}
	return copyAnswer(s.answers[questionID]), nil
}

// SelectAnswer records value for the question. In SingleShot mode the answer
// is scored immediately and the question locks; later selections are ignored.
// In Reanswerable mode the value replaces any previous one and the question's
// correctness goes back to unset, but a point already awarded is kept.
// Selections after completion are ignored.
func (s *Session) SelectAnswer(questionID int, value string) (Answer, error) {
	i, ok := s.index[questionID]
	if !ok {
		return Answer{}, ErrQuestionNotFound
	}
	if s.completed {
		return copyAnswer(s.answers[questionID]), nil
	}

	switch s.mode {
	case Reanswerable:
		s.answers[questionID] = Answer{Selected: value}
	default:
		if s.answers[questionID].evaluated() {
			return copyAnswer(s.answers[questionID]), nil
		}
		s.answers[questionID] = Answer{Selected: value}
		s.evaluate(s.questions[i])
		s.completeIfAllEvaluated()
	}
	return copyAnswer(s.answers[questionID]), nil
}

// Check scores the currently selected value of a question. It does nothing
// when nothing is selected or the session is completed.
func (s *Session) Check(questionID int) (Answer, error) {
	i, ok := s.index[questionID]
	if !ok {
		return Answer{}, ErrQuestionNotFound
	}
	if s.completed || s.answers[questionID].Selected == "" {
		return copyAnswer(s.answers[questionID]), nil
	}
	if s.mode == SingleShot && s.answers[questionID].evaluated() {
		return copyAnswer(s.answers[questionID]), nil
	}
	s.evaluate(s.questions[i])
	s.completeIfAllEvaluated()
	return copyAnswer(s.answers[questionID]), nil
}

// Advance moves to the next question once the current one is answered.
func (s *Session) Advance() int {
	if len(s.questions) == 0 || s.current >= len(s.questions)-1 {
		return s.current
	}
	if !s.answered(s.questions[s.current].ID) {
		return s.current
	}
	s.current++
	return s.current
}

// Retreat moves to the previous question.
func (s *Session) Retreat() int {
	if s.current > 0 {
		s.current--
	}
	return s.current
}

// FinishAll scores every question that has a selected value and completes
// the session. Unattempted questions keep an unset marker and count against
// the total only.
func (s *Session) FinishAll() State {
	if !s.completed {
		for _, q := range s.questions {
			a := s.answers[q.ID]
			if a.Selected == "" {
				continue
			}
			if s.mode == SingleShot && a.evaluated() {
				continue
			}
			s.evaluate(q)
		}
		s.completed = true
	}
	return s.State()
}

// Reset returns to the initial active state, keeping the same questions.
func (s *Session) Reset() {
	s.current = 0
	s.answers = make(map[int]Answer, len(s.questions))
	s.awarded = make(map[int]bool, len(s.questions))
	s.score = 0
	s.completed = false
}

// State returns a deep copy of the session state.
func (s *Session) State() State {
	answers := make(map[int]Answer, len(s.answers))
	for id, a := range s.answers {
		answers[id] = copyAnswer(a)
	}
	status := StatusActive
	if s.completed {
		status = StatusCompleted
	}
	return State{
		Mode:         s.mode,
		Status:       status,
		Questions:    s.Questions(),
		CurrentIndex: s.current,
		Answers:      answers,
		Score:        s.score,
		Total:        len(s.questions),
		Completed:    s.completed,
	}
}

// evaluate marks the question and awards a point on its first transition to
// correct. Points are never taken back.
func (s *Session) evaluate(q Question) {
	a := s.answers[q.ID]
	correct := Score(q, a.Selected)
	a.Correct = &correct
	s.answers[q.ID] = a
	if correct && !s.awarded[q.ID] {
		s.awarded[q.ID] = true
		s.score++
	}
}

func (s *Session) answered(questionID int) bool {
	a := s.answers[questionID]
	if s.mode == Reanswerable {
		return a.Selected != ""
	}
	return a.evaluated()
}

func (s *Session) completeIfAllEvaluated() {
	if len(s.questions) == 0 {
		return
	}
	for _, q := range s.questions {
		if !s.answers[q.ID].evaluated() {
			return
		}
	}
	s.completed = true
}

func copyAnswer(a Answer) Answer {
	if a.Correct != nil {
		c := *a.Correct
		a.Correct = &c
	}
	return a
}
