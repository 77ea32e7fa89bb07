package quiz

import (
	"strconv"
	"strings"
)

// Score compares a submitted answer with the question's correct answer.
// Input that does not parse as an integer is simply wrong.
func Score(q Question, submitted string) bool {
	v, err := strconv.Atoi(strings.TrimSpace(submitted))
	if err != nil {
		return false
	}
	return v == q.CorrectAnswer
}
