package reply

import (
	"strings"
	"testing"

	"github.com/berth-dev/bread/internal/persona"
)

func TestEveryPersonaHasTable(t *testing.T) {
	for _, id := range persona.IDs() {
		tbl, ok := tables[id]
		if !ok {
			t.Errorf("no reply table for %q", id)
			continue
		}
		if tbl.fallback == "" || len(tbl.rules) == 0 {
			t.Errorf("reply table for %q is incomplete", id)
		}
	}
	if len(tables) != len(persona.IDs()) {
		t.Errorf("tables has %d entries, catalog has %d", len(tables), len(persona.IDs()))
	}
}

func TestAnalyze(t *testing.T) {
	s := Analyze("Hello, I keep worrying about my partner and I think it's my fault?")
	if !s.Greeting || !s.Anxiety || !s.Relationship || !s.Thoughts || !s.Question {
		t.Errorf("Analyze missed signals: %+v", s)
	}
	if s.Short {
		t.Error("long message flagged short")
	}
	if !Analyze("not great").Short {
		t.Error("two-word message should be short")
	}
	if Analyze("say hello").Greeting {
		t.Error("greeting must be at the start of the message")
	}
}

func TestGenerateGreeting(t *testing.T) {
	got := Generate(persona.Rye, "hey there")
	want := "Hello! I'm Dr. Rye. I'm here to support you through Existential Therapy."
	if !strings.HasPrefix(got, want) {
		t.Errorf("Generate greeting = %q, want prefix %q", got, want)
	}
}

func TestGenerateRulePriority(t *testing.T) {
	tests := []struct {
		name    string
		id      persona.ID
		message string
		want    string
	}{
		{"cbt anxious thoughts", persona.Sourdough, "my anxious thoughts won't stop at night", "I hear that you're experiencing anxious thoughts."},
		{"cbt anxiety only", persona.Sourdough, "so much stress at work lately", "Anxiety can be challenging."},
		{"psychodynamic past", persona.Brioche, "my childhood was complicated for me", "You're touching on something from your past."},
		{"dbt anger", persona.Pumpernickel, "I get so angry with my coworkers", "I hear the intensity"},
		{"person-centered short", persona.Ciabatta, "meh", "I sense there's more beneath the surface."},
		{"solution goals", persona.Focaccia, "I want to finally sleep through the night", "I love that you're thinking about what you want."},
		{"mindfulness fallback", persona.Naan, "the weather was nice today at the park", "What you're sharing is important."},
		{"generic question", "baguette", "what should I do about this?", "That's an important question."},
		{"generic fallback", "baguette", "it was a long day at the office today", "Thank you for sharing that with me."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate(tt.id, tt.message)
			if !strings.HasPrefix(got, tt.want) {
				t.Errorf("Generate(%q, %q) = %q, want prefix %q", tt.id, tt.message, got, tt.want)
			}
		})
	}
}

func TestGenerateDeterministic(t *testing.T) {
	msg := "I feel empty and hopeless lately, nothing seems to help"
	first := Generate(persona.WholeWheat, msg)
	for i := 0; i < 10; i++ {
		if got := Generate(persona.WholeWheat, msg); got != first {
			t.Fatalf("Generate not deterministic: %q vs %q", got, first)
		}
	}
}
