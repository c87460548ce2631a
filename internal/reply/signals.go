// Package reply produces the canned therapist replies used in chat.
// Replies are picked from fixed per-persona rule tables by matching
// keywords in the user's message; there is no language model involved.
package reply

import (
	"regexp"
	"strings"
)

// Signals are the keyword features detected in a message.
type Signals struct {
	Greeting     bool
	Anxiety      bool
	Depression   bool
	Anger        bool
	Relationship bool
	Past         bool
	Thoughts     bool
	Feelings     bool
	Question     bool
	Short        bool
	Change       bool
	Goals        bool
}

var (
	greetingRe     = regexp.MustCompile(`^(hi|hello|hey|good morning|good evening)`)
	anxietyRe      = regexp.MustCompile(`(anxious|anxiety|worried|worry|nervous|panic|stress|overwhelm)`)
	depressionRe   = regexp.MustCompile(`(depressed|depression|sad|hopeless|empty|numb|down)`)
	angerRe        = regexp.MustCompile(`(angry|anger|mad|frustrated|irritated|rage)`)
	relationshipRe = regexp.MustCompile(`(relationship|partner|spouse|family|friend|people)`)
	pastRe         = regexp.MustCompile(`(past|childhood|before|used to|history|remember)`)
	thoughtsRe     = regexp.MustCompile(`(think|thought|believe|mind|racing thoughts)`)
	feelingsRe     = regexp.MustCompile(`(feel|feeling|emotion|emotional)`)
	changeRe       = regexp.MustCompile(`(change|different|better|improve|help)`)
	goalsRe        = regexp.MustCompile(`(goal|want|wish|hope|need)`)
)

// shortWords is the word count below which a message counts as short.
const shortWords = 5

// Analyze extracts Signals from a message. Matching is substring based
// and case-insensitive, so "sadness" counts as sad.
func Analyze(message string) Signals {
	m := strings.ToLower(strings.TrimSpace(message))
	return Signals{
		Greeting:     greetingRe.MatchString(m),
		Anxiety:      anxietyRe.MatchString(m),
		Depression:   depressionRe.MatchString(m),
		Anger:        angerRe.MatchString(m),
		Relationship: relationshipRe.MatchString(m),
		Past:         pastRe.MatchString(m),
		Thoughts:     thoughtsRe.MatchString(m),
		Feelings:     feelingsRe.MatchString(m),
		Question:     strings.Contains(m, "?"),
		Short:        len(strings.Split(m, " ")) < shortWords,
		Change:       changeRe.MatchString(m),
		Goals:        goalsRe.MatchString(m),
	}
}
