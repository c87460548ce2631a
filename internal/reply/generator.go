package reply

import (
	"fmt"

	"github.com/berth-dev/bread/internal/persona"
)

// rule pairs a predicate over Signals with the reply it selects.
type rule struct {
	when  func(Signals) bool
	reply string
}

// table is a persona's ordered rules plus the reply used when none match.
type table struct {
	rules    []rule
	fallback string
}

func (t table) pick(s Signals) string {
	for _, r := range t.rules {
		if r.when(s) {
			return r.reply
		}
	}
	return t.fallback
}

var tables = map[persona.ID]table{
	persona.Sourdough: {
		rules: []rule{
			{func(s Signals) bool { return s.Thoughts && s.Anxiety },
				"I hear that you're experiencing anxious thoughts. In CBT, we explore how our thoughts influence our feelings. What specific thoughts are going through your mind when you feel this anxiety? Are there patterns you notice?"},
			{func(s Signals) bool { return s.Anxiety },
				"Anxiety can be challenging. Let's look at this through a CBT lens. When you notice these anxious feelings, what situation triggers them? And what thoughts come up for you in those moments?"},
			{func(s Signals) bool { return s.Depression && s.Thoughts },
				"Thank you for sharing that with me. Depression often involves negative thought patterns. Can you help me understand the thoughts that accompany these feelings? What are you telling yourself?"},
			{func(s Signals) bool { return s.Anger },
				"Anger is a valid emotion, and it often signals something important. In CBT, we look at the thoughts behind the anger. What goes through your mind in these situations? What meaning are you giving to what happened?"},
			{func(s Signals) bool { return s.Change || s.Goals },
				"I appreciate you wanting to make changes. In CBT, we work on identifying and challenging unhelpful thought patterns. What would be most helpful to work on first? What thoughts or behaviors would you like to change?"},
		},
		fallback: "I'm listening carefully to what you're sharing. In CBT, we focus on the connection between thoughts, feelings, and behaviors. Can you tell me more about what thoughts arise in this situation?",
	},
	persona.Brioche: {
		rules: []rule{
			{func(s Signals) bool { return s.Past },
				"You're touching on something from your past. These earlier experiences often shape how we relate to situations today. What feelings come up as you reflect on this? How might this be connected to what you're experiencing now?"},
			{func(s Signals) bool { return s.Relationship },
				"Relationships are a window into our inner world. As we explore this, I'm curious about the patterns you notice. How does this relationship remind you of earlier relationships in your life?"},
			{func(s Signals) bool { return s.Anxiety || s.Depression },
				"These feelings you're describing are significant. Sometimes our current emotions are connected to unresolved experiences. What comes to mind when you sit with these feelings? Are there memories or earlier experiences that surface?"},
		},
		fallback: "I'm noticing what you're sharing, and I wonder about the deeper meaning here. What associations come to mind? Sometimes our unconscious guides us toward understanding. What might your feelings be trying to tell you?",
	},
	persona.WholeWheat: {
		rules: []rule{
			{func(s Signals) bool { return s.Anxiety || s.Feelings },
				"Thank you for sharing these difficult feelings. In ACT, we don't try to eliminate uncomfortable emotions; we learn to make room for them. What would it be like to simply observe this feeling without trying to change it? What values matter to you in this situation?"},
			{func(s Signals) bool { return s.Change },
				"Change is about moving toward what matters to you. Instead of focusing on eliminating discomfort, let's explore your values. When you imagine a meaningful life, what does that look like? What actions align with those values?"},
			{func(s Signals) bool { return s.Thoughts },
				"I hear you getting caught up in these thoughts. In ACT, we practice defusion: observing thoughts without getting tangled in them. Can you notice these thoughts as mental events, rather than absolute truths? What happens if you hold them more lightly?"},
		},
		fallback: "What I'm hearing is important. In ACT, we ask: even with these difficult experiences, what matters to you? What would you do if this feeling weren't an obstacle? How can you move toward your values, even in small ways?",
	},
	persona.Pumpernickel: {
		rules: []rule{
			{func(s Signals) bool { return s.Anger || (s.Feelings && s.Relationship) },
				"I hear the intensity in what you're sharing. DBT teaches us that all emotions are valid, even the difficult ones. Let's practice dialectics: validating your feelings AND looking at skills that might help. What emotion are you experiencing most strongly right now?"},
			{func(s Signals) bool { return s.Anxiety },
				"Anxiety in the moment can be overwhelming. Let's use some DBT skills. First, I want to validate that this is genuinely difficult. Now, what might help you tolerate this distress? Have you tried any grounding techniques like the 5-4-3-2-1 method?"},
			{func(s Signals) bool { return s.Relationship },
				"Relationships can bring up intense emotions. DBT's interpersonal effectiveness skills can help here. What do you need from this relationship? How can we balance asking for what you need with maintaining the relationship and your self-respect?"},
		},
		fallback: "Thank you for being open with me. DBT is about balancing acceptance and change. I want to validate what you're experiencing; it makes sense given your situation. At the same time, what skills might help you in this moment?",
	},
	persona.Ciabatta: {
		rules: []rule{
			{func(s Signals) bool { return s.Short },
				"I sense there's more beneath the surface. I'm here, fully present with you. Take your time. What would you like to explore?"},
			{func(s Signals) bool { return s.Feelings },
				"I hear the emotion in what you're sharing, and I want you to know it's safe to feel this here. You know yourself best. What do these feelings mean to you? What are they telling you about what you need?"},
			{func(s Signals) bool { return s.Change },
				"Your desire for change is meaningful. I trust in your capacity to find your own answers. What feels right to you? What does your inner wisdom tell you about the direction you want to go?"},
		},
		fallback: "I'm here with you, hearing not just your words but what's beneath them. You're the expert on your own experience. What else would you like me to understand about this? What feels most important to explore?",
	},
	persona.Focaccia: {
		rules: []rule{
			{func(s Signals) bool { return s.Goals },
				"I love that you're thinking about what you want. Let's get really specific. What would be different if this problem were solved? On a scale of 1-10, where are you now, and what would a 10 look like?"},
			{func(s Signals) bool { return s.Change },
				"Change is already happening just by you being here. Let's focus on what's working. When is this problem less intense or not present at all? What are you doing differently in those moments? Those are your resources!"},
			{func(s Signals) bool { return s.Depression || s.Anxiety },
				"I hear this is difficult. Let me ask you something: despite this challenge, what's still going okay in your life? Even small things count. When this feeling is less intense, even slightly, what's different? Let's build on that."},
		},
		fallback: "Thank you for sharing that. I want to focus on solutions and strengths. Tell me about a time when you handled something similar successfully. What did you do? What strengths did you use? How can we apply that here?",
	},
	persona.Rye: {
		rules: []rule{
			{func(s Signals) bool { return s.Goals || s.Change },
				"You're grappling with questions of meaning and purpose, and that's deeply human. What gives your life meaning? When you imagine looking back on your life, what would make it feel worthwhile?"},
			{func(s Signals) bool { return s.Anxiety },
				"Anxiety often arises when we confront our freedom and responsibility. You're facing the reality that you must choose, and with choice comes uncertainty. What are you anxious about choosing? What would it mean to take responsibility for this decision?"},
			{func(s Signals) bool { return s.Depression },
				"What you're experiencing touches on existential questions of meaning, purpose, perhaps feelings of emptiness. These are profound concerns. What matters to you? When do you feel most alive, most authentic?"},
		},
		fallback: "You're touching on something fundamental about the human experience. We all face questions of freedom, meaning, death, and isolation. How does this connect to your sense of purpose? What would it mean to live more authentically in relation to this concern?",
	},
	persona.Naan: {
		rules: []rule{
			{func(s Signals) bool { return s.Thoughts },
				"I hear your mind is quite active. Let's practice mindfulness together. Can you notice these thoughts without judgment, like clouds passing in the sky? What happens when you simply observe them, rather than getting caught up in their content?"},
			{func(s Signals) bool { return s.Anxiety },
				"Anxiety pulls us into the future. Let's practice coming back to this present moment. Right now, as you sit here, what do you notice? What physical sensations are present? Can you bring gentle awareness to your breath, just for a few moments?"},
			{func(s Signals) bool { return s.Feelings },
				"Thank you for noticing and naming this feeling. Mindfulness invites us to be with our emotions without pushing them away or getting overwhelmed. Can you locate this feeling in your body? What happens if you bring kind, curious attention to it?"},
		},
		fallback: "What you're sharing is important. Let's bring mindful awareness to this experience. Can you notice what's happening right now, in this moment, without judgment? What physical sensations are present? Let's practice being with what is.",
	},
}

var generic = table{
	rules: []rule{
		{func(s Signals) bool { return s.Question },
			"That's an important question. Rather than me providing answers, I'm curious what you think. What feels true for you? What does your intuition tell you?"},
	},
	fallback: "Thank you for sharing that with me. I want to make sure I'm understanding fully. Can you tell me more about what this means for you? How does this affect you?",
}

// Generate returns the reply persona id gives to message. Greetings get
// the persona's introduction; an unknown persona gets a generic reply.
func Generate(id persona.ID, message string) string {
	s := Analyze(message)

	p, known := persona.Lookup(id)
	if known && s.Greeting {
		return Greeting(p)
	}
	t, ok := tables[id]
	if !ok {
		return generic.pick(s)
	}
	return t.pick(s)
}

// Greeting is the persona's opening line.
func Greeting(p persona.Persona) string {
	return fmt.Sprintf("Hello! I'm %s. I'm here to support you through %s. What brings you to therapy today?", p.Name, p.Approach)
}
