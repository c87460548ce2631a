package intake

import "strings"

// Assessment tracks one respondent's walk through the question bank.
// It is owned by a single screen or command and is not safe for
// concurrent use.
type Assessment struct {
	questions []Question
	current   int
	responses ResponseSet
}

// NewAssessment starts an assessment over questions, which must have
// passed Validate.
func NewAssessment(questions []Question) *Assessment {
	return &Assessment{
		questions: questions,
		responses: make(ResponseSet, len(questions)),
	}
}

// Current returns the question being asked.
func (a *Assessment) Current() Question {
	return a.questions[a.current]
}

// Index is the zero-based position of the current question.
func (a *Assessment) Index() int { return a.current }

// Total is the number of questions.
func (a *Assessment) Total() int { return len(a.questions) }

// Progress returns the completed fraction in [0, 1].
func (a *Assessment) Progress() float64 {
	return float64(a.current+1) / float64(len(a.questions))
}

// Answer records the answer for question id, replacing any earlier one.
func (a *Assessment) Answer(id string, ans Answer) {
	a.responses[id] = ans
}

// Next advances to the following question. It returns false on the last one.
func (a *Assessment) Next() bool {
	if a.current < len(a.questions)-1 {
		a.current++
		return true
	}
	return false
}

// Previous steps back one question. It returns false on the first one.
func (a *Assessment) Previous() bool {
	if a.current > 0 {
		a.current--
		return true
	}
	return false
}

// IsLast reports whether the current question is the final one.
func (a *Assessment) IsLast() bool {
	return a.current == len(a.questions)-1
}

// Answered reports whether question id has an answer.
func (a *Assessment) Answered(id string) bool {
	_, ok := a.responses[id]
	return ok
}

// Responses returns a copy of the answers collected so far.
func (a *Assessment) Responses() ResponseSet {
	out := make(ResponseSet, len(a.responses))
	for k, v := range a.responses {
		out[k] = v
	}
	return out
}

// Result scores the collected answers.
func (a *Assessment) Result() Result {
	return Analyze(a.responses, a.questions)
}

// GoalText returns the trimmed free-text answer to the goals question.
func (a *Assessment) GoalText() string {
	ans, ok := a.responses[GoalsQuestionID]
	if !ok {
		return ""
	}
	return strings.TrimSpace(ans.Text)
}

// Complete reports whether every choice question has a valid answer.
// Free-text questions are optional.
func (a *Assessment) Complete() bool {
	for _, q := range a.questions {
		if q.Kind != KindChoice {
			continue
		}
		ans, ok := a.responses[q.ID]
		if !ok || ans.Option < 0 || ans.Option >= len(q.Options) {
			return false
		}
	}
	return true
}
