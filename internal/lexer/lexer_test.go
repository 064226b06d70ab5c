package lexer_test

import (
	"testing"

	"desmir/internal/lexer"
	"desmir/internal/source"
	"desmir/internal/token"
)

func tokenize(t *testing.T, src string) []token.Token {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.Add("test.dsm", []byte(src))
	return lexer.Tokenize(fs.Get(id))
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(toks))
	for _, tok := range toks {
		out = append(out, tok.Kind)
	}
	return out
}

func TestLexer_Kinds(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []token.Kind
	}{
		{
			name: "simple_definition",
			src:  "a = 1 + 2",
			want: []token.Kind{token.Ident, token.Eq, token.IntLit, token.Plus, token.IntLit, token.EOF},
		},
		{
			name: "float_and_power",
			src:  "3.5 ^ x",
			want: []token.Kind{token.FloatLit, token.Caret, token.Ident, token.EOF},
		},
		{
			name: "leading_dot_float",
			src:  ".5",
			want: []token.Kind{token.FloatLit, token.EOF},
		},
		{
			name: "coordinate_access",
			src:  "p.x",
			want: []token.Kind{token.Ident, token.Dot, token.Ident, token.EOF},
		},
		{
			name: "comparators",
			src:  "a < b <= c > d >= e",
			want: []token.Kind{
				token.Ident, token.Lt, token.Ident, token.LtEq, token.Ident,
				token.Gt, token.Ident, token.GtEq, token.Ident, token.EOF,
			},
		},
		{
			name: "piecewise_braces",
			src:  "{x > 0: 1, 2}",
			want: []token.Kind{
				token.LBrace, token.Ident, token.Gt, token.IntLit, token.Colon,
				token.IntLit, token.Comma, token.IntLit, token.RBrace, token.EOF,
			},
		},
		{
			name: "list_literal",
			src:  "[1, 2, 3]",
			want: []token.Kind{
				token.LBracket, token.IntLit, token.Comma, token.IntLit,
				token.Comma, token.IntLit, token.RBracket, token.EOF,
			},
		},
		{
			name: "ellipsis_range",
			src:  "[1...9]",
			want: []token.Kind{
				token.LBracket, token.IntLit, token.Ellipsis, token.IntLit,
				token.RBracket, token.EOF,
			},
		},
		{
			name: "function_call",
			src:  "f(x, y)",
			want: []token.Kind{
				token.Ident, token.LParen, token.Ident, token.Comma,
				token.Ident, token.RParen, token.EOF,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks := tokenize(t, tt.src)
			got := kinds(toks)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d tokens %v, want %d", len(got), got, len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("token %d: got %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLexer_SpansMatchText(t *testing.T) {
	src := "ab = 12.5 + cd"
	toks := tokenize(t, src)
	for _, tok := range toks {
		if tok.Kind == token.EOF {
			continue
		}
		if got := src[tok.Span.Start:tok.Span.End]; got != tok.Text {
			t.Errorf("span %v yields %q, token text is %q", tok.Span, got, tok.Text)
		}
	}
}

func TestLexer_UnicodeIdentNormalized(t *testing.T) {
	// U+0065 U+0301 (e + combining acute) must normalize to U+00E9.
	toks := tokenize(t, "é")
	if toks[0].Kind != token.Ident {
		t.Fatalf("kind = %v, want ident", toks[0].Kind)
	}
	if toks[0].Text != "é" {
		t.Errorf("text = %q, want %q", toks[0].Text, "é")
	}
}

func TestLexer_Peek(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.Add("test.dsm", []byte("x + y"))
	lx := lexer.New(fs.Get(id))
	if lx.Peek().Kind != token.Ident {
		t.Fatal("peek should see the first token")
	}
	if lx.Next().Kind != token.Ident {
		t.Fatal("next after peek should return the same token")
	}
	if lx.Next().Kind != token.Plus {
		t.Fatal("stream should continue past peeked token")
	}
}
