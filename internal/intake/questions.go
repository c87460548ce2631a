// Package intake implements the intake assessment: the question bank,
// catalog validation, and the weighted scoring that recommends a persona.
package intake

import (
	"errors"
	"fmt"

	"github.com/berth-dev/bread/internal/persona"
)

// Kind is the answer shape a question expects.
type Kind string

const (
	KindChoice   Kind = "choice"
	KindFreeText Kind = "free_text"
)

// Option is one selectable answer of a choice question.
type Option struct {
	Text    string
	Weights map[persona.ID]int
}

// Question is one entry of the assessment.
type Question struct {
	ID          string
	Prompt      string
	Kind        Kind
	Options     []Option
	Placeholder string // free text only
}

// ErrInvalidCatalog wraps every catalog validation failure.
var ErrInvalidCatalog = errors.New("invalid intake catalog")

// GoalsQuestionID is the free-text question whose answer seeds the goal list.
const GoalsQuestionID = "goals"

// DefaultQuestions is the built-in assessment.
var DefaultQuestions = []Question{
	{
		ID:     "primary_concern",
		Prompt: "What brings you to therapy today?",
		Kind:   KindChoice,
		Options: []Option{
			{"Anxiety, worry, or racing thoughts", map[persona.ID]int{persona.Sourdough: 3, persona.Naan: 2}},
			{"Depression or feeling stuck", map[persona.ID]int{persona.Brioche: 2, persona.Ciabatta: 2}},
			{"Relationship or communication issues", map[persona.ID]int{persona.Pumpernickel: 3, persona.Ciabatta: 2}},
			{"Life transitions or finding purpose", map[persona.ID]int{persona.Rye: 3, persona.Focaccia: 2}},
			{"Emotional regulation difficulties", map[persona.ID]int{persona.Pumpernickel: 3, persona.WholeWheat: 2}},
			{"Trauma or past experiences affecting me", map[persona.ID]int{persona.Brioche: 3}},
			{"Stress management and mindfulness", map[persona.ID]int{persona.Naan: 3, persona.WholeWheat: 2}},
			{"Specific problem I want to solve quickly", map[persona.ID]int{persona.Focaccia: 3, persona.Sourdough: 2}},
		},
	},
	{
		ID:     "therapy_preference",
		Prompt: "What approach appeals to you most?",
		Kind:   KindChoice,
		Options: []Option{
			{"Practical tools and strategies", map[persona.ID]int{persona.Sourdough: 3, persona.Pumpernickel: 2}},
			{"Understanding my past and unconscious patterns", map[persona.ID]int{persona.Brioche: 3}},
			{"Accepting myself and living according to my values", map[persona.ID]int{persona.WholeWheat: 3}},
			{"Being heard and understood without judgment", map[persona.ID]int{persona.Ciabatta: 3}},
			{"Finding solutions and focusing on the future", map[persona.ID]int{persona.Focaccia: 3}},
			{"Exploring meaning and authenticity", map[persona.ID]int{persona.Rye: 3}},
			{"Mindfulness and present-moment awareness", map[persona.ID]int{persona.Naan: 3}},
		},
	},
	{
		ID:     "emotional_style",
		Prompt: "How would you describe your emotional experience?",
		Kind:   KindChoice,
		Options: []Option{
			{"Intense emotions that feel overwhelming", map[persona.ID]int{persona.Pumpernickel: 3, persona.Naan: 2}},
			{"Stuck in negative thought patterns", map[persona.ID]int{persona.Sourdough: 3}},
			{"Disconnected from my feelings", map[persona.ID]int{persona.Brioche: 2, persona.Naan: 2}},
			{"Avoiding difficult emotions", map[persona.ID]int{persona.WholeWheat: 3}},
			{"Generally balanced, just need direction", map[persona.ID]int{persona.Focaccia: 2, persona.Ciabatta: 2}},
		},
	},
	{
		ID:     "timeline",
		Prompt: "What's your therapy timeline preference?",
		Kind:   KindChoice,
		Options: []Option{
			{"Short-term, focused on specific goals", map[persona.ID]int{persona.Focaccia: 3, persona.Sourdough: 2}},
			{"Medium-term, learning new skills", map[persona.ID]int{persona.Pumpernickel: 2, persona.WholeWheat: 2}},
			{"Long-term, deep exploration", map[persona.ID]int{persona.Brioche: 3, persona.Rye: 2}},
			{"Flexible, whatever it takes", map[persona.ID]int{persona.Ciabatta: 2, persona.Naan: 2}},
		},
	},
	{
		ID:          GoalsQuestionID,
		Prompt:      "What are you hoping to achieve?",
		Kind:        KindFreeText,
		Placeholder: "Describe your therapy goals in 1-2 sentences...",
	},
}

// Validate checks that the question bank is well formed: unique ids,
// known kinds, at least one option per choice question, and positive
// weights that reference catalog personas only.
func Validate(questions []Question) error {
	if len(questions) == 0 {
		return fmt.Errorf("%w: no questions", ErrInvalidCatalog)
	}
	seen := make(map[string]struct{}, len(questions))
	for i, q := range questions {
		if q.ID == "" {
			return fmt.Errorf("%w: question %d has no id", ErrInvalidCatalog, i)
		}
		if _, dup := seen[q.ID]; dup {
			return fmt.Errorf("%w: duplicate question id %q", ErrInvalidCatalog, q.ID)
		}
		seen[q.ID] = struct{}{}

		switch q.Kind {
		case KindFreeText:
			if len(q.Options) > 0 {
				return fmt.Errorf("%w: free text question %q has options", ErrInvalidCatalog, q.ID)
			}
		case KindChoice:
			if len(q.Options) == 0 {
				return fmt.Errorf("%w: choice question %q has no options", ErrInvalidCatalog, q.ID)
			}
			for j, opt := range q.Options {
				for id, w := range opt.Weights {
					if !id.Valid() {
						return fmt.Errorf("%w: question %q option %d references unknown persona %q", ErrInvalidCatalog, q.ID, j, id)
					}
					if w <= 0 {
						return fmt.Errorf("%w: question %q option %d has non-positive weight %d for %q", ErrInvalidCatalog, q.ID, j, w, id)
					}
				}
			}
		default:
			return fmt.Errorf("%w: question %q has unknown kind %q", ErrInvalidCatalog, q.ID, q.Kind)
		}
	}
	return nil
}

// MustDefault validates DefaultQuestions and returns them. A malformed
// built-in catalog is a programming error, so it panics.
func MustDefault() []Question {
	if err := Validate(DefaultQuestions); err != nil {
		panic(err)
	}
	return DefaultQuestions
}

// Find returns the question with the given id.
func Find(questions []Question, id string) (Question, bool) {
	for _, q := range questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}
