// Package persona defines the fixed catalog of bread therapists.
// The set is closed: adding or removing a persona means editing the
// ID constants and the table below, and every switch over ID is
// checked by the exhaustive test in persona_test.go.
package persona

import "fmt"

// ID identifies a persona. The zero value means "no persona".
type ID string

// Persona IDs in catalog declaration order.
const (
	Sourdough    ID = "sourdough"
	Brioche      ID = "brioche"
	WholeWheat   ID = "wholewheat"
	Pumpernickel ID = "pumpernickel"
	Ciabatta     ID = "ciabatta"
	Focaccia     ID = "focaccia"
	Rye          ID = "rye"
	Naan         ID = "naan"
)

// Default is recommended when the intake produces no signal.
const Default = Ciabatta

// Persona is one catalog entry.
type Persona struct {
	ID           ID
	Emoji        string
	Name         string
	FullName     string
	Approach     string
	Description  string
	SystemPrompt string
}

// Label returns "emoji name", used in headers and transcripts.
func (p Persona) Label() string {
	return p.Emoji + " " + p.Name
}

var catalog = []Persona{
	{
		ID:          Sourdough,
		Emoji:       "🥖",
		Name:        "Dr. Sourdough",
		FullName:    "Sourdough (Cognitive Behavioral Therapy)",
		Approach:    "Cognitive Behavioral Therapy",
		Description: "Specializes in CBT, excellent for addressing thought patterns, anxiety, and developing practical coping strategies.",
		SystemPrompt: "You are Dr. Sourdough, a warm and supportive Cognitive Behavioral Therapist who helps clients identify and challenge " +
			"unhelpful thought patterns. You're practical, structured, and focus on teaching coping strategies.",
	},
	{
		ID:          Brioche,
		Emoji:       "🥐",
		Name:        "Dr. Brioche",
		FullName:    "Brioche (Psychodynamic Therapy)",
		Approach:    "Psychodynamic Therapy",
		Description: "Offers psychodynamic therapy to explore how past experiences and unconscious patterns influence your present.",
		SystemPrompt: "You are Dr. Brioche, a compassionate Psychodynamic Therapist who helps clients explore their unconscious patterns " +
			"and how past experiences shape the present.",
	},
	{
		ID:          WholeWheat,
		Emoji:       "🌾",
		Name:        "Dr. Whole Wheat",
		FullName:    "Whole Wheat (Acceptance and Commitment Therapy)",
		Approach:    "Acceptance and Commitment Therapy",
		Description: "Practices ACT, helping you accept difficult emotions while committing to actions aligned with your values.",
		SystemPrompt: "You are Dr. Whole Wheat, an empowering ACT therapist who helps clients accept difficult emotions and commit to " +
			"value-driven actions.",
	},
	{
		ID:          Pumpernickel,
		Emoji:       "🍞",
		Name:        "Dr. Pumpernickel",
		FullName:    "Pumpernickel (Dialectical Behavior Therapy)",
		Approach:    "Dialectical Behavior Therapy",
		Description: "Specializes in DBT, offering skills training in mindfulness, distress tolerance, and emotion regulation.",
		SystemPrompt: "You are Dr. Pumpernickel, a skillful DBT therapist who teaches mindfulness, distress tolerance, emotion regulation, " +
			"and interpersonal effectiveness.",
	},
	{
		ID:          Ciabatta,
		Emoji:       "🥖",
		Name:        "Dr. Ciabatta",
		FullName:    "Ciabatta (Person-Centered Therapy)",
		Approach:    "Person-Centered Therapy",
		Description: "Provides person-centered therapy with unconditional positive regard, creating a safe space for self-discovery.",
		SystemPrompt: "You are Dr. Ciabatta, a person-centered therapist who offers unconditional positive regard, empathy, and genuine " +
			"presence.",
	},
	{
		ID:          Focaccia,
		Emoji:       "🫓",
		Name:        "Dr. Focaccia",
		FullName:    "Focaccia (Solution-Focused Brief Therapy)",
		Approach:    "Solution-Focused Brief Therapy",
		Description: "Uses solution-focused therapy to help you identify what's already working and build on your strengths.",
		SystemPrompt: "You are Dr. Focaccia, a solution-focused brief therapist who helps clients identify their strengths and what's " +
			"already working.",
	},
	{
		ID:          Rye,
		Emoji:       "🍞",
		Name:        "Dr. Rye",
		FullName:    "Rye (Existential Therapy)",
		Approach:    "Existential Therapy",
		Description: "Offers existential therapy to explore questions of meaning, freedom, and authenticity.",
		SystemPrompt: "You are Dr. Rye, an existential therapist who helps clients explore questions of meaning, purpose, freedom, and " +
			"authenticity.",
	},
	{
		ID:          Naan,
		Emoji:       "🫓",
		Name:        "Dr. Naan",
		FullName:    "Naan (Mindfulness-Based Therapy)",
		Approach:    "Mindfulness-Based Therapy",
		Description: "Teaches mindfulness-based therapy, cultivating present-moment awareness and self-compassion.",
		SystemPrompt: "You are Dr. Naan, a mindfulness-based therapist who teaches present-moment awareness, non-judgment, and " +
			"self-compassion.",
	},
}

var index = func() map[ID]int {
	m := make(map[ID]int, len(catalog))
	for i, p := range catalog {
		m[p.ID] = i
	}
	return m
}()

// All returns the catalog in declaration order. The slice is a copy.
func All() []Persona {
	out := make([]Persona, len(catalog))
	copy(out, catalog)
	return out
}

// IDs returns the persona IDs in declaration order.
func IDs() []ID {
	ids := make([]ID, len(catalog))
	for i, p := range catalog {
		ids[i] = p.ID
	}
	return ids
}

// Lookup returns the persona for id.
func Lookup(id ID) (Persona, bool) {
	i, ok := index[id]
	if !ok {
		return Persona{}, false
	}
	return catalog[i], true
}

// MustLookup is Lookup for ids already known to be valid.
func MustLookup(id ID) Persona {
	p, ok := Lookup(id)
	if !ok {
		panic(fmt.Sprintf("persona: unknown id %q", id))
	}
	return p
}

// Valid reports whether id belongs to the catalog.
func (id ID) Valid() bool {
	_, ok := index[id]
	return ok
}

// Order returns the declaration position of id, or -1 when unknown.
func (id ID) Order() int {
	i, ok := index[id]
	if !ok {
		return -1
	}
	return i
}

// Parse accepts an id, a short name ("Dr. Rye", "rye", "whole wheat")
// and returns the matching persona ID.
func Parse(s string) (ID, error) {
	norm := normalize(s)
	for _, p := range catalog {
		if norm == string(p.ID) || norm == normalize(p.Name) {
			return p.ID, nil
		}
	}
	return "", fmt.Errorf("unknown therapist %q", s)
}

func normalize(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		case r >= 'a' && r <= 'z':
			out = append(out, r)
		}
	}
	norm := string(out)
	if len(norm) > 2 && norm[:2] == "dr" {
		norm = norm[2:]
	}
	return norm
}
