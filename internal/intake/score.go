package intake

import (
	"fmt"
	"sort"
	"strings"

	"github.com/berth-dev/bread/internal/persona"
)

// Answer is a respondent's answer to one question. Choice answers carry
// the selected option index; free-text answers carry Text and Option -1.
type Answer struct {
	Option int    `json:"option"`
	Text   string `json:"text,omitempty"`
}

// Choice builds an answer selecting option index i.
func Choice(i int) Answer { return Answer{Option: i} }

// FreeText builds a free-text answer.
func FreeText(s string) Answer { return Answer{Option: -1, Text: s} }

// ResponseSet maps question id to answer.
type ResponseSet map[string]Answer

// ScoreTable maps every persona to its accumulated score.
type ScoreTable map[persona.ID]int

// Ranked is one entry of a recommendation's ranking.
type Ranked struct {
	Persona persona.ID `json:"persona"`
	Score   int        `json:"score"`
}

// Result is the outcome of a completed assessment.
type Result struct {
	Winner    persona.ID `json:"winner"`
	Ranked    []Ranked   `json:"ranked"`
	AllScores ScoreTable `json:"all_scores"`
}

// TopN is the length of Result.Ranked.
const TopN = 3

// Score tallies option weights for every answered choice question.
// Free-text questions, unanswered questions and out-of-range option
// indices contribute nothing.
func Score(responses ResponseSet, questions []Question) ScoreTable {
	scores := make(ScoreTable, len(persona.IDs()))
	for _, id := range persona.IDs() {
		scores[id] = 0
	}

	for _, q := range questions {
		if q.Kind != KindChoice {
			continue
		}
		ans, ok := responses[q.ID]
		if !ok || ans.Option < 0 || ans.Option >= len(q.Options) {
			continue
		}
		for id, w := range q.Options[ans.Option].Weights {
			if _, known := scores[id]; !known || w <= 0 {
				continue
			}
			scores[id] += w
		}
	}
	return scores
}

// Recommend picks the winner and the top matches from a score table.
// Personas are visited in catalog order and only a strictly greater
// score replaces the current winner, so the earliest of tied personas
// wins. An all-zero table yields persona.Default.
func Recommend(scores ScoreTable) Result {
	order := persona.IDs()

	winner := persona.Default
	best := 0
	for _, id := range order {
		if s := scores[id]; s > best {
			best = s
			winner = id
		}
	}

	ranked := make([]Ranked, 0, len(order))
	all := make(ScoreTable, len(order))
	for _, id := range order {
		ranked = append(ranked, Ranked{Persona: id, Score: scores[id]})
		all[id] = scores[id]
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	if len(ranked) > TopN {
		ranked = ranked[:TopN]
	}

	return Result{Winner: winner, Ranked: ranked, AllScores: all}
}

// Analyze is Score followed by Recommend.
func Analyze(responses ResponseSet, questions []Question) Result {
	return Recommend(Score(responses, questions))
}

// Explain renders the recommendation text shown after the assessment.
func Explain(r Result) string {
	p := persona.MustLookup(r.Winner)

	var b strings.Builder
	fmt.Fprintf(&b, "Based on your responses, we recommend %s (%s). %s\n", p.Name, p.Approach, p.Description)

	if len(r.Ranked) > 1 {
		b.WriteString("\nYour top matches:\n")
		for i, rk := range r.Ranked {
			rp := persona.MustLookup(rk.Persona)
			fmt.Fprintf(&b, "%d. %s %s (match score: %d)\n", i+1, rp.Emoji, rp.FullName, rk.Score)
		}
	}
	return b.String()
}
