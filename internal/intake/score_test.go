package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berth-dev/bread/internal/persona"
)

func twoQuestionCatalog() []Question {
	return []Question{
		{
			ID:   "q1",
			Kind: KindChoice,
			Options: []Option{
				{Text: "a", Weights: map[persona.ID]int{persona.Sourdough: 3, persona.Naan: 2}},
				{Text: "b", Weights: map[persona.ID]int{persona.Rye: 1}},
			},
		},
		{
			ID:   "q2",
			Kind: KindChoice,
			Options: []Option{
				{Text: "a", Weights: map[persona.ID]int{persona.Sourdough: 3}},
			},
		},
		{ID: "notes", Kind: KindFreeText},
	}
}

func TestDefaultCatalogIsValid(t *testing.T) {
	require.NoError(t, Validate(DefaultQuestions))
	assert.NotPanics(t, func() { MustDefault() })
}

func TestScoreConcreteScenario(t *testing.T) {
	scores := Score(ResponseSet{"q1": Choice(0), "q2": Choice(0)}, twoQuestionCatalog())

	require.Len(t, scores, len(persona.IDs()))
	for _, id := range persona.IDs() {
		switch id {
		case persona.Sourdough:
			assert.Equal(t, 6, scores[id])
		case persona.Naan:
			assert.Equal(t, 2, scores[id])
		default:
			assert.Equal(t, 0, scores[id], "persona %s", id)
		}
	}
	assert.Equal(t, persona.Sourdough, Recommend(scores).Winner)
}

func TestScoreIgnoresBadAnswers(t *testing.T) {
	cases := map[string]ResponseSet{
		"empty":           {},
		"out of range":    {"q1": Choice(7), "q2": Choice(1)},
		"negative index":  {"q1": Choice(-3)},
		"free text on q1": {"q1": FreeText("hello")},
		"unknown id":      {"nope": Choice(0)},
		"free text":       {"notes": FreeText("be calmer")},
	}
	for name, rs := range cases {
		t.Run(name, func(t *testing.T) {
			scores := Score(rs, twoQuestionCatalog())
			require.Len(t, scores, len(persona.IDs()))
			for id, s := range scores {
				assert.Zero(t, s, "persona %s", id)
			}
		})
	}
}

func TestScoreOrderIndependent(t *testing.T) {
	qs := MustDefault()
	rs := ResponseSet{"primary_concern": Choice(2), "therapy_preference": Choice(0), "emotional_style": Choice(4), "timeline": Choice(1)}

	reversed := make([]Question, len(qs))
	for i, q := range qs {
		reversed[len(qs)-1-i] = q
	}
	assert.Equal(t, Score(rs, qs), Score(rs, reversed))
}

func TestScoreNeverNegative(t *testing.T) {
	qs := MustDefault()
	for _, q := range qs {
		for i := range q.Options {
			scores := Score(ResponseSet{q.ID: Choice(i)}, qs)
			require.Len(t, scores, len(persona.IDs()))
			for id, s := range scores {
				assert.GreaterOrEqual(t, s, 0, "%s option %d persona %s", q.ID, i, id)
			}
		}
	}
}

func TestRecommendAllZeroUsesDefault(t *testing.T) {
	r := Recommend(Score(ResponseSet{}, MustDefault()))
	assert.Equal(t, persona.Default, r.Winner)
	assert.Len(t, r.Ranked, TopN)
}

func TestRecommendTieKeepsFirstDeclared(t *testing.T) {
	scores := ScoreTable{persona.Sourdough: 3, persona.Brioche: 3, persona.WholeWheat: 1}
	r := Recommend(scores)

	assert.Equal(t, persona.Sourdough, r.Winner)
	require.Len(t, r.Ranked, TopN)
	assert.Equal(t, []Ranked{
		{persona.Sourdough, 3},
		{persona.Brioche, 3},
		{persona.WholeWheat, 1},
	}, r.Ranked)
	assert.Len(t, r.AllScores, len(persona.IDs()))
}

func TestRecommendLaterHigherScoreWins(t *testing.T) {
	r := Recommend(ScoreTable{persona.Sourdough: 2, persona.Naan: 5})
	assert.Equal(t, persona.Naan, r.Winner)
	assert.Equal(t, Ranked{persona.Naan, 5}, r.Ranked[0])
}

func TestRecommendDeterministic(t *testing.T) {
	rs := ResponseSet{"primary_concern": Choice(1), "emotional_style": Choice(4), "timeline": Choice(3)}
	first := Analyze(rs, MustDefault())
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Analyze(rs, MustDefault()))
	}
}

func TestExplainListsTopMatches(t *testing.T) {
	r := Recommend(ScoreTable{persona.Rye: 5, persona.Focaccia: 2})
	text := Explain(r)

	assert.Contains(t, text, "we recommend Dr. Rye (Existential Therapy)")
	assert.Contains(t, text, "1. 🍞 Rye (Existential Therapy) (match score: 5)")
	assert.Contains(t, text, "2. 🫓 Focaccia (Solution-Focused Brief Therapy) (match score: 2)")
}
