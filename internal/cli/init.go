// init.go implements the "bread init" command.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/berth-dev/bread/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize bread in the current directory",
	Long: `Create the .bread/ directory with a default config.yaml and make sure
private data (database, logs) is listed in .gitignore.`,
	RunE: runInit,
}

var forceFlag bool

func init() {
	initCmd.Flags().BoolVar(&forceFlag, "force", false, "Overwrite an existing config without asking")
}

func runInit(cmd *cobra.Command, args []string) error {
	dir, err := projectRoot()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	// Check for existing .bread/ directory.
	if info, statErr := os.Stat(config.Dir(dir)); statErr == nil && info.IsDir() && !forceFlag {
		fmt.Fprintln(out, "Warning: .bread/ directory already exists.")
		fmt.Fprint(out, "Reinitialize? [y/N]: ")
		reader := bufio.NewReader(cmd.InOrStdin())
		answer, _ := reader.ReadString('\n')
		answer = strings.TrimSpace(strings.ToLower(answer))
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	cfg, err := config.Load(dir)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if err := config.WriteConfig(dir, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath(dir)), 0700); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	// Ensure .gitignore keeps private data out of version control.
	if err := ensureGitignore(dir, cfg); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s failed to set up .gitignore: %v\n", yellow("Warning:"), err)
	}

	fmt.Fprintln(out, "Bread initialized")
	fmt.Fprintln(out, "Configuration written to .bread/config.yaml")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  1. Create an account: bread signup <username>")
	fmt.Fprintln(out, "  2. Take the intake:   bread intake, or just run bread")

	return nil
}

// ensureGitignore appends the data directory entries to .gitignore when
// missing. Entries already present are left alone.
func ensureGitignore(dir string, cfg *config.Config) error {
	gitignorePath := filepath.Join(dir, ".gitignore")

	requiredEntries := []string{".bread/report.md"}
	if rel, err := filepath.Rel(dir, filepath.Dir(cfg.DatabasePath(dir))); err == nil && !strings.HasPrefix(rel, "..") {
		requiredEntries = append(requiredEntries, filepath.ToSlash(rel)+"/")
	}

	// Read existing content.
	existing := ""
	if data, err := os.ReadFile(gitignorePath); err == nil {
		existing = string(data)
	}

	// Find entries that are missing.
	var missing []string
	for _, entry := range requiredEntries {
		if !strings.Contains(existing, entry) {
			missing = append(missing, entry)
		}
	}

	if len(missing) == 0 {
		return nil
	}

	// Build the content to append.
	var toAppend strings.Builder
	if existing != "" && !strings.HasSuffix(existing, "\n") {
		toAppend.WriteString("\n")
	}
	if existing != "" {
		toAppend.WriteString("\n# Added by bread init\n")
	}
	for _, entry := range missing {
		toAppend.WriteString(entry + "\n")
	}

	f, err := os.OpenFile(gitignorePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening .gitignore: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(toAppend.String()); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	return nil
}
