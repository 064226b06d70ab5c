package lexer

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"desmir/internal/source"
	"desmir/internal/token"
)

// Lexer produces the token stream for one expression file.
type Lexer struct {
	file   *source.File
	cursor Cursor
	look   *token.Token // 1-element lookahead buffer
}

// New creates a lexer over the provided file.
func New(file *source.File) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
	}
}

// Next returns the next significant token. After EOF it always returns EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.skipSpace()

	if lx.cursor.EOF() {
		return token.Token{
			Kind: token.EOF,
			Span: source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off},
		}
	}

	ch := lx.cursor.Peek()
	switch {
	case isIdentStartByte(ch) || ch >= utf8.RuneSelf:
		return lx.scanIdent()
	case isDec(ch):
		return lx.scanNumber()
	case ch == '.' && isDec(lx.cursor.PeekAt(1)):
		return lx.scanNumber()
	default:
		return lx.scanOperator()
	}
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	if lx.look == nil {
		tok := lx.Next()
		lx.look = &tok
	}
	return *lx.look
}

// Tokenize drains the lexer into a slice, including the trailing EOF token.
func Tokenize(file *source.File) []token.Token {
	lx := New(file)
	var toks []token.Token
	for {
		tok := lx.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

func (lx *Lexer) skipSpace() {
	for !lx.cursor.EOF() {
		switch lx.cursor.Peek() {
		case ' ', '\t', '\r', '\n':
			lx.cursor.Bump()
		default:
			return
		}
	}
}

// scanIdent scans an identifier. Text is NFC-normalized so that composed and
// decomposed spellings of the same name resolve to the same argument.
func (lx *Lexer) scanIdent() token.Token {
	start := lx.cursor.Off
	for !lx.cursor.EOF() {
		ch := lx.cursor.Peek()
		if isIdentContinueByte(ch) {
			lx.cursor.Bump()
			continue
		}
		if ch < utf8.RuneSelf {
			break
		}
		r, size := utf8.DecodeRune(lx.file.Content[lx.cursor.Off:lx.cursor.Limit])
		if r == utf8.RuneError || !(unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsDigit(r)) {
			break
		}
		for range size {
			lx.cursor.Bump()
		}
	}
	text := lx.cursor.Slice(start, lx.cursor.Off)
	return token.Token{
		Kind: token.Ident,
		Span: source.Span{File: lx.file.ID, Start: start, End: lx.cursor.Off},
		Text: norm.NFC.String(text),
	}
}

func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Off
	kind := token.IntLit
	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	// A '.' is part of the number only when a digit follows; otherwise it is
	// a coordinate access dot.
	if lx.cursor.Peek() == '.' && isDec(lx.cursor.PeekAt(1)) {
		kind = token.FloatLit
		lx.cursor.Bump()
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}
	return token.Token{
		Kind: kind,
		Span: source.Span{File: lx.file.ID, Start: start, End: lx.cursor.Off},
		Text: lx.cursor.Slice(start, lx.cursor.Off),
	}
}

func (lx *Lexer) scanOperator() token.Token {
	start := lx.cursor.Off
	ch := lx.cursor.Peek()
	lx.cursor.Bump()

	kind := token.Invalid
	switch ch {
	case '+':
		kind = token.Plus
	case '-':
		kind = token.Minus
	case '*':
		kind = token.Star
	case '/':
		kind = token.Slash
	case '^':
		kind = token.Caret
	case '=':
		kind = token.Eq
	case '<':
		kind = token.Lt
		if lx.cursor.Peek() == '=' {
			lx.cursor.Bump()
			kind = token.LtEq
		}
	case '>':
		kind = token.Gt
		if lx.cursor.Peek() == '=' {
			lx.cursor.Bump()
			kind = token.GtEq
		}
	case ':':
		kind = token.Colon
	case ',':
		kind = token.Comma
	case '.':
		kind = token.Dot
		if lx.cursor.Peek() == '.' && lx.cursor.PeekAt(1) == '.' {
			lx.cursor.Bump()
			lx.cursor.Bump()
			kind = token.Ellipsis
		}
	case '(':
		kind = token.LParen
	case ')':
		kind = token.RParen
	case '{':
		kind = token.LBrace
	case '}':
		kind = token.RBrace
	case '[':
		kind = token.LBracket
	case ']':
		kind = token.RBracket
	}
	return token.Token{
		Kind: kind,
		Span: source.Span{File: lx.file.ID, Start: start, End: lx.cursor.Off},
		Text: lx.cursor.Slice(start, lx.cursor.Off),
	}
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }

func isIdentStartByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentContinueByte(b byte) bool {
	return isIdentStartByte(b) || isDec(b)
}
