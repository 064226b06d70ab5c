package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"desmir/internal/ast"
	"desmir/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse file.dsm",
	Short: "Parse a graph source file",
	Long:  `Parse builds and prints the expression tree of every statement in a file`,
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	stmts, errs, err := driver.Parse(args[0])
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	out := cmd.OutOrStdout()
	for _, stmt := range stmts {
		ast.DumpStatement(out, stmt)
	}
	for _, e := range errs {
		fmt.Fprintln(os.Stderr, e)
	}
	if len(errs) > 0 {
		return errors.New("parsing finished with errors")
	}
	return nil
}
