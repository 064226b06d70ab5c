package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"desmir/internal/driver"
	"desmir/internal/lower"
	"desmir/internal/project"
	"desmir/internal/ui"
)

var compileCmd = &cobra.Command{
	Use:   "compile [path]",
	Short: "Compile graph source files to instruction chunks",
	Long: `Compile lowers every statement of the given file, or of every source file
in the project, into a typed instruction chunk. Argument types come from the
project's graph.toml manifest; undeclared identifiers default to number.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCompile,
}

func init() {
	compileCmd.Flags().Bool("dump", false, "print the full chunk listings")
	compileCmd.Flags().Bool("no-cache", false, "skip the disk cache")
	compileCmd.Flags().String("ui", "auto", "progress display (auto|on|off)")
}

func runCompile(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) > 0 {
		target = args[0]
	}

	info, err := os.Stat(target)
	if err != nil {
		return err
	}

	dump, _ := cmd.Flags().GetBool("dump")
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")

	env, manifest, err := loadEnv(target)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		res, err := driver.Compile(target, env)
		if err != nil {
			return err
		}
		return reportResults(cmd, []*driver.FileResult{res}, dump)
	}

	opts := driver.BatchOptions{}
	opts.Jobs, _ = cmd.Root().PersistentFlags().GetInt("jobs")
	if manifest != nil {
		opts.Files = manifest.SourcePaths()
		opts.EnvHash = project.HashEnv(manifest.Args)
	}
	if noCache, _ := cmd.Flags().GetBool("no-cache"); !noCache {
		if cache, err := driver.OpenDiskCache("desmir"); err == nil {
			opts.Cache = cache
		}
	}

	uiFlag, _ := cmd.Flags().GetString("ui")
	useTUI, err := shouldUseTUI(uiFlag, quiet)
	if err != nil {
		return err
	}

	var results []*driver.FileResult
	if useTUI {
		results, err = compileDirWithUI(cmd.Context(), target, env, opts)
	} else {
		_, results, err = driver.CompileDir(cmd.Context(), target, env, opts)
	}
	if err != nil {
		return err
	}
	return reportResults(cmd, results, dump)
}

// loadEnv resolves the manifest governing target, if any, and its argument
// environment.
func loadEnv(target string) (lower.Env, *project.Manifest, error) {
	start := target
	if info, err := os.Stat(target); err == nil && !info.IsDir() {
		start = filepath.Dir(target)
	}
	path, ok, err := project.FindManifest(start)
	if err != nil || !ok {
		return nil, nil, err
	}
	manifest, err := project.LoadManifest(path)
	if err != nil {
		return nil, nil, err
	}
	env, err := manifest.Env()
	if err != nil {
		return nil, nil, err
	}
	return env, manifest, nil
}

func compileDirWithUI(ctx context.Context, dir string, env lower.Env, opts driver.BatchOptions) ([]*driver.FileResult, error) {
	files := opts.Files
	if files == nil {
		var err error
		files, err = driver.ListSourceFiles(dir)
		if err != nil {
			return nil, err
		}
		opts.Files = files
	}

	type outcome struct {
		results []*driver.FileResult
		err     error
	}
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan outcome, 1)

	go func() {
		runOpts := opts
		runOpts.Sink = driver.ChannelSink{Ch: events}
		_, results, err := driver.CompileDir(ctx, dir, env, runOpts)
		outcomeCh <- outcome{results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel("compiling "+dir, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	res := <-outcomeCh
	if uiErr != nil {
		return res.results, uiErr
	}
	return res.results, res.err
}

func reportResults(cmd *cobra.Command, results []*driver.FileResult, dump bool) error {
	out := cmd.OutOrStdout()
	failed := false
	for _, res := range results {
		for _, unit := range res.Units {
			if dump {
				fmt.Fprintln(out, strings.TrimRight(unit.Dump, "\n"))
				fmt.Fprintln(out)
			} else {
				fmt.Fprintf(out, "%s:%d: %s: %s\n", res.Path, unit.Line, unit.Name, unit.Type)
			}
		}
		for _, e := range res.Errs {
			failed = true
			fmt.Fprintln(os.Stderr, e)
		}
	}
	if failed {
		return errors.New("compilation finished with errors")
	}
	return nil
}

func shouldUseTUI(mode string, quiet bool) (bool, error) {
	switch strings.TrimSpace(strings.ToLower(mode)) {
	case "", "auto":
		return !quiet && isTerminal(os.Stdout), nil
	case "on":
		return true, nil
	case "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid --ui value %q (expected auto|on|off)", mode)
	}
}
