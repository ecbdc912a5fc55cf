package engine

import (
	"math/rand/v2"
	"sync"

	"github.com/surveyforge/surveyforge_backend/internal/models"
)

// RandomizeOptions selects which orderings Apply shuffles
type RandomizeOptions struct {
	Questions bool
	Options   bool
}

// Randomizer shuffles question and option order with an unbiased Fisher-Yates pass.
// It is safe for concurrent use.
type Randomizer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomizer creates a randomizer over src. A nil src seeds from the runtime.
func NewRandomizer(src rand.Source) *Randomizer {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Randomizer{rng: rand.New(src)}
}

// Apply returns a reordered copy of questions; the input is never modified.
// Each question's options are shuffled independently. Matrix options encode
// rows and columns positionally and are left in place.
func (r *Randomizer) Apply(questions []models.Question, opts RandomizeOptions) []models.Question {
	out := make([]models.Question, len(questions))
	copy(out, questions)
	for i := range out {
		out[i].Options = append(make([]string, 0, len(questions[i].Options)), questions[i].Options...)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if opts.Options {
		for i := range out {
			if out[i].Type == models.QuestionTypeMatrix {
				continue
			}
			options := out[i].Options
			r.rng.Shuffle(len(options), func(a, b int) {
				options[a], options[b] = options[b], options[a]
			})
		}
	}
	if opts.Questions {
		r.rng.Shuffle(len(out), func(a, b int) {
			out[a], out[b] = out[b], out[a]
		})
	}
	return out
}
