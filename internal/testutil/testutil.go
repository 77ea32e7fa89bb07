package testutil

import (
	"database/sql"
	"embed"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/vytor/eduplay/internal/quiz"
)

//go:embed migrations/*.sql
var testMigrationsFS embed.FS

// NewTestDB creates an in-memory SQLite database with all migrations applied.
func NewTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)

	// Every pooled connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	entries, err := testMigrationsFS.ReadDir("migrations")
	require.NoError(t, err)

	for _, entry := range entries {
		migration := "migrations/" + entry.Name()
		sqlBytes, err := testMigrationsFS.ReadFile(migration)
		require.NoError(t, err, "failed to read migration %s", migration)

		_, err = db.Exec(string(sqlBytes))
		require.NoError(t, err, "failed to apply migration %s", migration)
	}

	return db
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// SampleQuestions returns n valid questions with counts 2, 3, 4, ...
func SampleQuestions(n int) []quiz.Question {
	qs := make([]quiz.Question, 0, n)
	for i := 1; i <= n; i++ {
		count := i + 1
		qs = append(qs, quiz.Question{
			ID:            i,
			Title:         quiz.Football.Label,
			Prompt:        "How many footballs do you see?",
			ItemCount:     count,
			Label:         quiz.Football.Label,
			ImageURL:      quiz.Football.ImageURL,
			Options:       []int{count - 1, count, count + 1, count + 2},
			CorrectAnswer: count,
		})
	}
	return qs
}

// StaticGenerator returns a generate function that always yields qs.
func StaticGenerator(qs []quiz.Question) func() []quiz.Question {
	return func() []quiz.Question {
		out := make([]quiz.Question, len(qs))
		copy(out, qs)
		return out
	}
}
