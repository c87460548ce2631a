package tui

import (
	"fmt"
	"io"
)

// FallbackRunner handles non-TTY execution by guiding users to CLI commands.
type FallbackRunner struct {
	w io.Writer
}

// NewFallbackRunner creates a new FallbackRunner writing to w.
func NewFallbackRunner(w io.Writer) *FallbackRunner {
	return &FallbackRunner{w: w}
}

// Run prints the commands that replace each screen.
func (f *FallbackRunner) Run() error {
	fmt.Fprintln(f.w, "Non-TTY environment detected.")
	fmt.Fprintln(f.w, "Use the commands instead of the interactive screens:")
	for _, line := range []string{
		"  bread signup <username>      create an account",
		"  bread intake --answer ...    take the assessment",
		"  bread select <therapist>     choose who to talk to",
		"  bread chat <message>         send a message",
		"  bread goal list              review goals",
		"  bread session list           review saved sessions",
	} {
		fmt.Fprintln(f.w, line)
	}
	return nil
}
