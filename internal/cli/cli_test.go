package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berth-dev/bread/internal/app"
	"github.com/berth-dev/bread/internal/intake"
)

func run(t *testing.T, root string, args ...string) (string, error) {
	t.Helper()
	return runWithInput(t, root, "", args...)
}

func runWithInput(t *testing.T, root, input string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetArgs(append([]string{"--root", root}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCommandJourney(t *testing.T) {
	root := t.TempDir()
	t.Setenv("BREAD_LOG_MODE", "production")

	out, err := run(t, root, "init", "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "Bread initialized")
	assert.FileExists(t, filepath.Join(root, ".bread", "config.yaml"))

	_, err = run(t, root, "whoami")
	require.ErrorIs(t, err, app.ErrNotLoggedIn)

	out, err = run(t, root, "signup", "ada", "--password", "s3cret")
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome, ada")

	out, err = run(t, root, "intake",
		"--answer", "primary_concern=1",
		"--answer", "therapy_preference=1",
		"--answer", "emotional_style=1",
		"--answer", "timeline=1",
		"--goal", "sleep better")
	require.NoError(t, err)
	assert.Contains(t, out, "Based on your responses, we recommend")
	assert.Contains(t, out, "Your top matches:")

	out, err = run(t, root, "select", "dr. sourdough")
	require.NoError(t, err)
	assert.Contains(t, out, "Now chatting with")

	out, err = run(t, root, "chat", "I", "feel", "anxious")
	require.NoError(t, err)
	assert.Contains(t, out, "Dr. Sourdough:")

	out, err = run(t, root, "session", "save")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved session")

	out, err = run(t, root, "session", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "2 messages")

	out, err = run(t, root, "session", "prune", "--keep", "5", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "No sessions to prune.")
	out, err = run(t, root, "session", "prune", "--keep", "0", "--older-than", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "No sessions to prune.")

	out, err = run(t, root, "goal", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "[ ] sleep better")

	_, err = run(t, root, "note", "add", "felt", "calmer")
	require.NoError(t, err)
	out, err = run(t, root, "note", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "felt calmer")

	out, err = run(t, root, "report")
	require.NoError(t, err)
	assert.Contains(t, out, "Bread Progress Report")
	assert.FileExists(t, filepath.Join(root, ".bread", "report.md"))

	out, err = run(t, root, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out.")

	_, err = run(t, root, "goal", "list")
	assert.ErrorIs(t, err, app.ErrNotLoggedIn)

	_, err = run(t, root, "login", "ada", "--password", "wrong")
	assert.Error(t, err)
}

func TestInteractiveIntakeKeepsGoalFlag(t *testing.T) {
	root := t.TempDir()
	t.Setenv("BREAD_LOG_MODE", "production")
	answerFlags, goalFlag = nil, ""
	t.Cleanup(func() { answerFlags, goalFlag = nil, "" })

	_, err := run(t, root, "init", "--force")
	require.NoError(t, err)
	_, err = run(t, root, "signup", "grace", "--password", "pw")
	require.NoError(t, err)

	out, err := runWithInput(t, root, "1\n1\n1\n1\n", "intake", "--goal", "sleep better")
	require.NoError(t, err)
	assert.Contains(t, out, "Based on your responses, we recommend")
	assert.NotContains(t, out, "Question 5 of 5")

	out, err = run(t, root, "goal", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "[ ] sleep better")
}

func TestSelectRejectsUnknownTherapist(t *testing.T) {
	_, err := run(t, t.TempDir(), "select", "baguette")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bread therapists")
}

func TestApplyAnswerFlagsValidates(t *testing.T) {
	qs := intake.MustDefault()

	for _, bad := range []string{"timeline", "nope=1", "timeline=0", "timeline=x", "timeline=99"} {
		err := applyAnswerFlags(intake.NewAssessment(qs), qs, []string{bad})
		assert.Error(t, err, bad)
	}

	as := intake.NewAssessment(qs)
	require.NoError(t, applyAnswerFlags(as, qs, []string{"timeline=2", "goals=run a 5k"}))
	assert.Equal(t, 1, as.Responses()["timeline"].Option)
	assert.Equal(t, "run a 5k", as.GoalText())
}

func TestEnsureGitignoreAppendsOnce(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("node_modules/"), 0644))

	_, err := run(t, dir, "init", "--force")
	require.NoError(t, err)
	_, err = run(t, dir, "init", "--force")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), ".bread/data/"))
	assert.True(t, strings.HasPrefix(string(data), "node_modules/\n"))
}
