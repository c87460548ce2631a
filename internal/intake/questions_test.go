package intake

import (
	"errors"
	"testing"

	"github.com/berth-dev/bread/internal/persona"
)

func TestValidateRejectsMalformedCatalogs(t *testing.T) {
	tests := []struct {
		name      string
		questions []Question
	}{
		{"empty", nil},
		{"missing id", []Question{{Kind: KindFreeText}}},
		{"duplicate id", []Question{{ID: "a", Kind: KindFreeText}, {ID: "a", Kind: KindFreeText}}},
		{"unknown kind", []Question{{ID: "a", Kind: "slider"}}},
		{"choice without options", []Question{{ID: "a", Kind: KindChoice}}},
		{"free text with options", []Question{{ID: "a", Kind: KindFreeText, Options: []Option{{Text: "x"}}}}},
		{"unknown persona", []Question{{ID: "a", Kind: KindChoice, Options: []Option{
			{Text: "x", Weights: map[persona.ID]int{"baguette": 1}},
		}}}},
		{"negative weight", []Question{{ID: "a", Kind: KindChoice, Options: []Option{
			{Text: "x", Weights: map[persona.ID]int{persona.Rye: -1}},
		}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.questions)
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !errors.Is(err, ErrInvalidCatalog) {
				t.Errorf("Validate() error = %v, want ErrInvalidCatalog", err)
			}
		})
	}
}

func TestValidateAllowsOptionWithoutWeights(t *testing.T) {
	qs := []Question{{ID: "a", Kind: KindChoice, Options: []Option{{Text: "none of these"}}}}
	if err := Validate(qs); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestAssessmentNavigation(t *testing.T) {
	a := NewAssessment(MustDefault())

	if a.Previous() {
		t.Error("Previous() on first question should return false")
	}
	if a.Current().ID != "primary_concern" {
		t.Errorf("Current().ID = %q, want primary_concern", a.Current().ID)
	}

	a.Answer("primary_concern", Choice(0))
	steps := 0
	for a.Next() {
		steps++
	}
	if steps != a.Total()-1 {
		t.Errorf("advanced %d times, want %d", steps, a.Total()-1)
	}
	if !a.IsLast() {
		t.Error("IsLast() = false after walking to the end")
	}
	if a.Progress() != 1 {
		t.Errorf("Progress() = %v, want 1", a.Progress())
	}

	a.Answer(GoalsQuestionID, FreeText("  sleep better  "))
	if got := a.GoalText(); got != "sleep better" {
		t.Errorf("GoalText() = %q, want %q", got, "sleep better")
	}
	if !a.Answered("primary_concern") || a.Answered("timeline") {
		t.Error("Answered() does not reflect recorded answers")
	}

	res := a.Result()
	if res.Winner != persona.Sourdough {
		t.Errorf("Result().Winner = %q, want sourdough", res.Winner)
	}
}

func TestAssessmentResponsesIsCopy(t *testing.T) {
	a := NewAssessment(MustDefault())
	a.Answer("timeline", Choice(2))

	rs := a.Responses()
	rs["timeline"] = Choice(0)

	if a.Responses()["timeline"].Option != 2 {
		t.Error("mutating Responses() result changed the assessment")
	}
}

func TestAssessmentComplete(t *testing.T) {
	qs := MustDefault()
	a := NewAssessment(qs)
	if a.Complete() {
		t.Fatal("Complete() = true with no answers")
	}
	for _, q := range qs {
		if q.Kind == KindChoice {
			a.Answer(q.ID, Choice(0))
		}
	}
	if !a.Complete() {
		t.Error("Complete() = false with every choice question answered")
	}
	a.Answer("timeline", Choice(99))
	if a.Complete() {
		t.Error("Complete() = true with an out-of-range answer")
	}
}
