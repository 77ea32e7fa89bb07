// Package storage keeps a generated question set in per-tab ephemeral storage
// so a reload shows the same questions.
package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vytor/eduplay/internal/logger"
	"github.com/vytor/eduplay/internal/quiz"
)

// QuizRowsKey is the fixed key of the printable quiz.
const QuizRowsKey = "quiz_rows_v1"

// Store is a string key/value store scoped to one browsing tab. Values may
// disappear at any time.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// GenerateFunc produces a fresh question set.
type GenerateFunc func() []quiz.Question

// TabKey scopes key to a tab.
func TabKey(tabID, key string) string {
	if tabID == "" {
		return key
	}
	return tabID + "/" + key
}

// LoadOrCreate returns the question set stored under key. An absent,
// unreadable or malformed value is replaced with a freshly generated set.
// The returned questions are usable even when err is non-nil; err only
// reports that the fresh set could not be stored.
func LoadOrCreate(ctx context.Context, store Store, key string, generate GenerateFunc) ([]quiz.Question, error) {
	log := logger.FromContext(ctx).WithPrefix("storage").WithField("key", key)

	raw, ok, err := store.Get(ctx, key)
	switch {
	case err != nil:
		log.Warn("read failed, regenerating: %v", err)
	case !ok:
		log.Debug("no stored questions, generating")
	default:
		qs, perr := decode(raw)
		if perr == nil {
			log.Debug("loaded %d stored questions", len(qs))
			return qs, nil
		}
		log.Debug("discarding stored questions: %v", perr)
	}

	return Regenerate(ctx, store, key, generate)
}

// Regenerate unconditionally generates a new set and overwrites key.
func Regenerate(ctx context.Context, store Store, key string, generate GenerateFunc) ([]quiz.Question, error) {
	log := logger.FromContext(ctx).WithPrefix("storage").WithField("key", key)

	qs := generate()
	raw, err := json.Marshal(qs)
	if err != nil {
		return qs, fmt.Errorf("encode questions: %w", err)
	}
	if err := store.Set(ctx, key, string(raw)); err != nil {
		log.Warn("failed to store questions: %v", err)
		return qs, fmt.Errorf("store questions: %w", err)
	}
	log.Debug("stored %d questions", len(qs))
	return qs, nil
}

func decode(raw string) ([]quiz.Question, error) {
	var qs []quiz.Question
	if err := json.Unmarshal([]byte(raw), &qs); err != nil {
		return nil, err
	}
	if len(qs) == 0 {
		return nil, fmt.Errorf("empty question set")
	}
	seen := make(map[int]bool, len(qs))
	for _, q := range qs {
		if !q.Valid() {
			return nil, fmt.Errorf("invalid question %d", q.ID)
		}
		if seen[q.ID] {
			return nil, fmt.Errorf("duplicate question id %d", q.ID)
		}
		seen[q.ID] = true
	}
	return qs, nil
}
