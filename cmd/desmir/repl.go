package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"desmir/internal/lower"
	"desmir/internal/project"
	"desmir/internal/ui"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Compile statements interactively",
	Long: `Repl reads one statement per line and prints its compiled chunk. When run
inside a project, the manifest's argument types are in scope. Definitions
stay in scope for later lines.`,
	Args: cobra.NoArgs,
	RunE: runRepl,
}

func runRepl(cmd *cobra.Command, args []string) error {
	if !isTerminal(os.Stdin) {
		return fmt.Errorf("repl needs a terminal")
	}

	var env lower.Env
	if path, ok, err := project.FindManifest("."); err != nil {
		return err
	} else if ok {
		manifest, err := project.LoadManifest(path)
		if err != nil {
			return err
		}
		if env, err = manifest.Env(); err != nil {
			return err
		}
	}

	program := tea.NewProgram(ui.NewReplModel(env), tea.WithOutput(os.Stdout))
	_, err := program.Run()
	return err
}
