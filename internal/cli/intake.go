// intake.go implements the intake assessment and the question listing.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/berth-dev/bread/internal/app"
	"github.com/berth-dev/bread/internal/intake"
	"github.com/berth-dev/bread/internal/persona"
	"github.com/berth-dev/bread/internal/reply"
)

var (
	answerFlags []string
	goalFlag    string
)

var intakeCmd = &cobra.Command{
	Use:   "intake",
	Short: "Take the intake assessment and get a therapist recommendation",
	Long: `Answer the intake questions and get matched with a therapist.

Answers can be given as flags, using the option numbers shown by
"bread questions":

  bread intake --answer primary_concern=1 --answer therapy_preference=3 \
               --answer emotional_style=2 --answer timeline=4 --goal "sleep better"

Without --answer flags the questions are asked one by one. A --goal
flag still applies and its question is not asked again.`,
	RunE: runIntake,
}

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "List the intake questions and their option numbers",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for i, q := range intake.MustDefault() {
			fmt.Fprintf(out, "%d. %s [%s]\n", i+1, q.Prompt, q.ID)
			if q.Kind == intake.KindFreeText {
				fmt.Fprintf(out, "   (free text, optional) %s\n", q.Placeholder)
			}
			for j, o := range q.Options {
				fmt.Fprintf(out, "   %d) %s\n", j+1, o.Text)
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

func init() {
	intakeCmd.Flags().StringArrayVar(&answerFlags, "answer", nil, "Answer as question_id=option_number (repeatable)")
	intakeCmd.Flags().StringVar(&goalFlag, "goal", "", "What you hope to achieve (recorded as a goal)")
}

func runIntake(cmd *cobra.Command, args []string) error {
	return withUser(cmd, func(a *app.App) error {
		as := intake.NewAssessment(a.Questions)
		if strings.TrimSpace(goalFlag) != "" {
			as.Answer(intake.GoalsQuestionID, intake.FreeText(strings.TrimSpace(goalFlag)))
		}

		if len(answerFlags) > 0 {
			if err := applyAnswerFlags(as, a.Questions, answerFlags); err != nil {
				return err
			}
		} else if err := askQuestions(cmd.InOrStdin(), cmd.OutOrStdout(), as); err != nil {
			return err
		}

		if !as.Complete() {
			return fmt.Errorf("intake incomplete: answer every question (see: bread questions)")
		}

		res, err := a.CompleteIntake(cmd.Context(), as)
		if err := warn(cmd.ErrOrStderr(), err); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, intake.Explain(res))
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Start chatting: bread select %s\n", res.Winner)
		return nil
	})
}

// applyAnswerFlags parses id=number pairs. Numbers are 1-based as printed
// by "bread questions".
func applyAnswerFlags(as *intake.Assessment, questions []intake.Question, pairs []string) error {
	for _, pair := range pairs {
		id, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("invalid --answer %q: want question_id=option_number", pair)
		}
		q, found := intake.Find(questions, strings.TrimSpace(id))
		if !found {
			return fmt.Errorf("unknown question %q", id)
		}
		if q.Kind == intake.KindFreeText {
			as.Answer(q.ID, intake.FreeText(raw))
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || n < 1 || n > len(q.Options) {
			return fmt.Errorf("answer for %s must be a number from 1 to %d", q.ID, len(q.Options))
		}
		as.Answer(q.ID, intake.Choice(n-1))
	}
	return nil
}

// askQuestions walks the assessment on a line-oriented terminal. Free-text
// questions that already have an answer are skipped.
func askQuestions(in io.Reader, out io.Writer, as *intake.Assessment) error {
	reader := bufio.NewReader(in)
	for {
		q := as.Current()
		if q.Kind == intake.KindFreeText && as.Answered(q.ID) {
			if !as.Next() {
				return nil
			}
			continue
		}
		fmt.Fprintf(out, "\nQuestion %d of %d\n%s\n", as.Index()+1, as.Total(), q.Prompt)

		if q.Kind == intake.KindFreeText {
			fmt.Fprintf(out, "(optional) %s\n> ", q.Placeholder)
			line, err := reader.ReadString('\n')
			if strings.TrimSpace(line) != "" {
				as.Answer(q.ID, intake.FreeText(strings.TrimSpace(line)))
			}
			if err != nil && err != io.EOF {
				return fmt.Errorf("reading answer: %w", err)
			}
		} else {
			for j, o := range q.Options {
				fmt.Fprintf(out, "  %d) %s\n", j+1, o.Text)
			}
			for {
				fmt.Fprint(out, "> ")
				line, err := reader.ReadString('\n')
				n, convErr := strconv.Atoi(strings.TrimSpace(line))
				if convErr == nil && n >= 1 && n <= len(q.Options) {
					as.Answer(q.ID, intake.Choice(n-1))
					break
				}
				if err != nil {
					return fmt.Errorf("intake aborted before %s was answered", q.ID)
				}
				fmt.Fprintf(out, "Enter a number from 1 to %d.\n", len(q.Options))
			}
		}

		if !as.Next() {
			return nil
		}
	}
}

var therapistsCmd = &cobra.Command{
	Use:   "therapists",
	Short: "List the therapist personas",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, p := range persona.All() {
			fmt.Fprintf(out, "%-13s %s\n", p.ID, p.Label())
			fmt.Fprintf(out, "%-13s %s\n", "", p.Approach)
			fmt.Fprintf(out, "%-13s %s\n\n", "", p.Description)
		}
		return nil
	},
}

var selectCmd = &cobra.Command{
	Use:   "select <therapist>",
	Short: "Choose the therapist to chat with",
	Long: `Choose the therapist to chat with. Switching therapists starts a new
conversation; use "bread session save" first to keep the current one.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := persona.Parse(args[0])
		if err != nil {
			return fmt.Errorf("%w (see: bread therapists)", err)
		}
		return withUser(cmd, func(a *app.App) error {
			if err := warn(cmd.ErrOrStderr(), a.SelectPersona(cmd.Context(), id)); err != nil {
				return err
			}
			p := persona.MustLookup(id)
			fmt.Fprintf(cmd.OutOrStdout(), "Now chatting with %s.\n\n%s: %s\n", bold(p.Label()), cyan(p.Name), reply.Greeting(p))
			return nil
		})
	},
}
