package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"desmir/internal/driver"
	"desmir/internal/token"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize file.dsm",
	Short: "Tokenize a graph source file",
	Long:  `Tokenize breaks a graph source file into its constituent tokens`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func runTokenize(cmd *cobra.Command, args []string) error {
	fileSet, toks, err := driver.Tokenize(args[0])
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	out := cmd.OutOrStdout()
	for _, tok := range toks {
		if tok.Kind == token.EOF {
			break
		}
		pos, ok := fileSet.Position(tok.Span)
		if !ok {
			fmt.Fprintln(os.Stderr, "token with a foreign span, skipping")
			continue
		}
		fmt.Fprintf(out, "%4d:%-3d %-10s %q\n", pos.Line, pos.Col, tok.Kind, tok.Text)
	}
	return nil
}
