// Package driver runs the compile pipeline over files and directories:
// tokenize, parse, lower, validate, with an optional disk cache keyed by
// content and argument environment.
package driver

import (
	"errors"
	"fmt"

	"desmir/internal/ast"
	"desmir/internal/ir"
	"desmir/internal/lexer"
	"desmir/internal/lower"
	"desmir/internal/parser"
	"desmir/internal/source"
	"desmir/internal/token"
)

// Unit is one compiled statement.
type Unit struct {
	Name string
	Line int    // 1-based source line of the statement
	Type string // result value type spelling
	Dump string // chunk listing

	// Chunk is the compiled form. Nil when the unit was restored from the
	// disk cache, which keeps only the rendered listing.
	Chunk *ir.Chunk
}

// FileResult collects the units and errors of one source file. A file keeps
// compiling past a bad statement; later lines still produce units.
type FileResult struct {
	Path  string
	Units []Unit
	Errs  []error
}

// Err joins the file's statement errors, nil when the file compiled clean.
func (r *FileResult) Err() error {
	return errors.Join(r.Errs...)
}

// Tokenize loads a file and returns its full token stream.
func Tokenize(path string) (*source.FileSet, []token.Token, error) {
	fileSet := source.NewFileSet()
	id, err := fileSet.Load(path)
	if err != nil {
		return nil, nil, err
	}
	return fileSet, lexer.Tokenize(fileSet.Get(id)), nil
}

// Parse loads a file and parses every statement line without lowering.
// Parse errors come back per line alongside the statements that did parse.
func Parse(path string) ([]*ast.Statement, []error, error) {
	fileSet := source.NewFileSet()
	id, err := fileSet.Load(path)
	if err != nil {
		return nil, nil, err
	}
	file := fileSet.Get(id)

	var stmts []*ast.Statement
	var errs []error
	for _, stmtToks := range splitStatements(file, lexer.Tokenize(file)) {
		stmt, err := parser.New(fileSet, stmtToks).ParseStatement()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		stmts = append(stmts, stmt)
	}
	return stmts, errs, nil
}

// CompileFile compiles every statement line of an already-loaded file.
func CompileFile(fileSet *source.FileSet, id source.FileID, env lower.Env) *FileResult {
	file := fileSet.Get(id)
	res := &FileResult{Path: file.Path}

	toks := lexer.Tokenize(file)
	for _, stmtToks := range splitStatements(file, toks) {
		line := int(file.Position(stmtToks[0].Span.Start).Line)

		stmt, err := parser.New(fileSet, stmtToks).ParseStatement()
		if err != nil {
			res.Errs = append(res.Errs, err)
			continue
		}
		chunk, err := lower.Statement(stmt, env)
		if err != nil {
			res.Errs = append(res.Errs, fmt.Errorf("%s:%d: %w", file.Path, line, err))
			continue
		}
		if err := ir.ValidateChunk(chunk); err != nil {
			res.Errs = append(res.Errs, fmt.Errorf("%s:%d: internal: %w", file.Path, line, err))
			continue
		}
		res.Units = append(res.Units, Unit{
			Name:  chunk.Name,
			Line:  line,
			Type:  chunk.Ret.Type().String(),
			Dump:  ir.ChunkString(chunk),
			Chunk: chunk,
		})
	}
	return res
}

// CompileSource compiles in-memory content under the given path, for the
// REPL and tests.
func CompileSource(path string, content []byte, env lower.Env) *FileResult {
	fileSet := source.NewFileSet()
	id := fileSet.Add(path, content)
	return CompileFile(fileSet, id, env)
}

// Compile loads and compiles one file from disk.
func Compile(path string, env lower.Env) (*FileResult, error) {
	fileSet := source.NewFileSet()
	id, err := fileSet.Load(path)
	if err != nil {
		return nil, err
	}
	return CompileFile(fileSet, id, env), nil
}

// splitStatements groups a file's token stream into per-line statement
// streams, each terminated with its own EOF token. Statements are one per
// line; blank lines contribute no tokens and vanish here.
func splitStatements(file *source.File, toks []token.Token) [][]token.Token {
	var groups [][]token.Token
	var cur []token.Token
	curLine := uint32(0)

	flush := func() {
		if len(cur) == 0 {
			return
		}
		end := cur[len(cur)-1].Span.End
		cur = append(cur, token.Token{
			Kind: token.EOF,
			Span: source.Span{File: file.ID, Start: end, End: end},
		})
		groups = append(groups, cur)
		cur = nil
	}

	for _, tok := range toks {
		if tok.Kind == token.EOF {
			break
		}
		line := file.Position(tok.Span.Start).Line
		if line != curLine {
			flush()
			curLine = line
		}
		cur = append(cur, tok)
	}
	flush()
	return groups
}
