package quiz

import (
	"fmt"
	"strings"
)

// OptionCount is the number of multiple-choice options offered per question.
const OptionCount = 4

// Question is a single counting question. Questions are immutable once generated.
type Question struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	Prompt        string `json:"question"`
	ItemCount     int    `json:"count"`
	Label         string `json:"label"`
	ImageURL      string `json:"imageUrl"`
	Options       []int  `json:"options"`
	CorrectAnswer int    `json:"correctAnswer"`
	Explanation   string `json:"explanation"`
}

// Item is a countable picture offered by a generator.
type Item struct {
	Label    string `json:"label"`
	ImageURL string `json:"imageUrl"`
}

// Football is the item used by the nursery quiz.
var Football = Item{Label: "Footballs", ImageURL: "/assets/football.png"}

// PrintableCatalog lists the items of the printable worksheet.
var PrintableCatalog = []Item{
	{Label: "Footballs", ImageURL: "/assets/quiz_img/football.png"},
	{Label: "Cats", ImageURL: "/assets/quiz_img/cat.png"},
	{Label: "Cakes", ImageURL: "/assets/quiz_img/cake.png"},
	{Label: "Trees", ImageURL: "/assets/quiz_img/tree.png"},
	{Label: "Lions", ImageURL: "/assets/quiz_img/lion.png"},
	{Label: "Chocolates", ImageURL: "/assets/quiz_img/chocolate.png"},
}

func promptFor(item Item) string {
	return fmt.Sprintf("How many %s do you see?", strings.ToLower(item.Label))
}

func titleFor(id int, item Item) string {
	if item.Label == Football.Label {
		return fmt.Sprintf("Football Question %d ⚽", id)
	}
	return fmt.Sprintf("%s Question %d", strings.TrimSuffix(item.Label, "s"), id)
}

// explanationFor is a pure function of the count and item.
func explanationFor(count int, item Item) string {
	return fmt.Sprintf("Great job! There are %d %s!", count, strings.ToLower(item.Label))
}

// HasOption reports whether v is one of the question's options.
func (q Question) HasOption(v int) bool {
	for _, o := range q.Options {
		if o == v {
			return true
		}
	}
	return false
}

// Valid checks the structural invariants of a question: a positive id and
// count, exactly OptionCount distinct options, and the correct answer present once.
func (q Question) Valid() bool {
	if q.ID < 1 || q.ItemCount < 1 || q.CorrectAnswer != q.ItemCount {
		return false
	}
	if len(q.Options) != OptionCount {
		return false
	}
	seen := make(map[int]struct{}, len(q.Options))
	for _, o := range q.Options {
		if _, dup := seen[o]; dup {
			return false
		}
		seen[o] = struct{}{}
	}
	_, ok := seen[q.CorrectAnswer]
	return ok
}
