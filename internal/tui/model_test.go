package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/berth-dev/bread/internal/persona"
	"github.com/berth-dev/bread/internal/state"
)

func TestInitialState(t *testing.T) {
	st := state.NewAppState()
	assert.Equal(t, StateAuth, InitialState(st))

	st.User = &state.UserRecord{Username: "ada"}
	assert.Equal(t, StateIntake, InitialState(st))

	st.User.IntakeCompleted = true
	assert.Equal(t, StateRecommendation, InitialState(st))

	st.Persona = persona.Rye
	assert.Equal(t, StateChat, InitialState(st))
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, ProgressBar(0, 4), ProgressBar(-1, 4))
	assert.Equal(t, ProgressBar(1, 4), ProgressBar(2, 4))
}
