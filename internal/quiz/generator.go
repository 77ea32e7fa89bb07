package quiz

import (
	"math/rand/v2"
	"time"
)

// Rand is the random source a Generator draws from. *rand.Rand satisfies it.
type Rand interface {
	// IntN returns a value in [0, n).
	IntN(n int) int
}

// Count ranges used by the two quiz variants.
const (
	DefaultMinCount   = 2
	DefaultMaxCount   = 9
	PrintableMinCount = 2
	PrintableMaxCount = 6
)

// Generator produces batches of counting questions.
type Generator struct {
	Rand Rand
	Min  int
	Max  int
	// Catalog is cycled through to pick the counted item of each question.
	// An empty catalog means footballs.
	Catalog []Item
	// ShuffleCatalog permutes the catalog once per batch before assignment.
	ShuffleCatalog bool
}

// NewSeededRand returns a PCG-backed source. A zero seed uses the clock.
func NewSeededRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewGenerator returns the nursery quiz generator: footballs, counts 2..9.
func NewGenerator(r Rand) *Generator {
	return &Generator{Rand: r, Min: DefaultMinCount, Max: DefaultMaxCount}
}

// NewPrintableGenerator returns the worksheet generator: a shuffled item
// catalog with counts 2..6.
func NewPrintableGenerator(r Rand) *Generator {
	return &Generator{
		Rand:           r,
		Min:            PrintableMinCount,
		Max:            PrintableMaxCount,
		Catalog:        PrintableCatalog,
		ShuffleCatalog: true,
	}
}

// Generate returns n questions with ids 1..n in display order.
func (g *Generator) Generate(n int) []Question {
	if n <= 0 {
		return []Question{}
	}

	catalog := g.Catalog
	if len(catalog) == 0 {
		catalog = []Item{Football}
	}
	if g.ShuffleCatalog {
		catalog = append([]Item(nil), catalog...)
		shuffle(g.Rand, len(catalog), func(i, j int) { catalog[i], catalog[j] = catalog[j], catalog[i] })
	}

	lo, hi := g.Min, g.Max
	if hi < lo {
		lo, hi = hi, lo
	}

	questions := make([]Question, 0, n)
	for i := 1; i <= n; i++ {
		item := catalog[(i-1)%len(catalog)]
		count := lo + g.Rand.IntN(hi-lo+1)

		// c-1 may drop to 0 or 1; it is still a valid distractor.
		options := []int{count - 1, count, count + 1, count + 2}
		shuffle(g.Rand, len(options), func(a, b int) { options[a], options[b] = options[b], options[a] })

		questions = append(questions, Question{
			ID:            i,
			Title:         titleFor(i, item),
			Prompt:        promptFor(item),
			ItemCount:     count,
			Label:         item.Label,
			ImageURL:      item.ImageURL,
			Options:       options,
			CorrectAnswer: count,
			Explanation:   explanationFor(count, item),
		})
	}
	return questions
}

// shuffle is a Fisher-Yates permutation: for i from n-1 down to 1 it draws
// j = IntN(i+1) and swaps i and j.
func shuffle(r Rand, n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		swap(i, j)
	}
}
