// Package langc implements a hand-rolled tokeniser and extractor driver
// for a C-like source language — a phase pipeline feeding a top-level
// state machine, built to the level of detail needed as a reference for
// other languages' tokenisers.
package langc

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/l10ntools/xtract/arglist"
	"github.com/l10ntools/xtract/catalog"
	"github.com/l10ntools/xtract/classify"
	"github.com/l10ntools/xtract/comment"
	"github.com/l10ntools/xtract/flagctx"
	"github.com/l10ntools/xtract/keyword"
	"github.com/l10ntools/xtract/srcreader"
	"github.com/l10ntools/xtract/token"
)

// maxNestingDepth caps balanced-construct recursion at a fixed maximum.
const maxNestingDepth = 1000

// Diagnostic is a user-visible lexical or parse message.
type Diagnostic struct {
	Pos     token.Pos
	Message string
	Fatal   bool
}

func (d Diagnostic) String() string {
	sev := "warning"
	if d.Fatal {
		sev = "error"
	}
	return fmt.Sprintf("%s:%d: %s: %s", d.Pos.File, d.Pos.Line, sev, d.Message)
}

// Error lets a fatal *Diagnostic be returned and type-asserted as a plain
// error by callers that only care about the message.
func (d *Diagnostic) Error() string { return d.String() }

// Extractor drives the C-like tokeniser over one file's source and
// commits recognised keyword calls into a catalogue.
type Extractor struct {
	Keywords *keyword.Table
	Flags    *flagctx.Registry
	Catalog  *catalog.Catalog

	Diagnostics []Diagnostic
}

// New constructs a C-like extractor bound to kw/fl/cat.
func New(kw *keyword.Table, fl *flagctx.Registry, cat *catalog.Catalog) *Extractor {
	return &Extractor{Keywords: kw, Flags: fl, Catalog: cat}
}

// tokeniser is phases 1-4 (line splicing, comment/whitespace skipping,
// token scanning, string-literal folding) layered over a srcreader.Reader.
// runeBack is its own small rune-level pushback stack: the underlying
// Reader only supports one level, but the comment-vs-division lookahead
// needs to return up to two runes in order.
type tokeniser struct {
	r    *srcreader.Reader
	file string
	cb   *comment.Buffer

	runeBack  []rune
	pushedTok *token.Token
}

func newTokeniser(r *srcreader.Reader, file string, cb *comment.Buffer) *tokeniser {
	return &tokeniser{r: r, file: file, cb: cb}
}

// nextRaw reads one rune, splicing a line-continuation ('\' immediately
// followed by '\n').
func (t *tokeniser) nextRaw() (rune, bool) {
	if n := len(t.runeBack); n > 0 {
		ch := t.runeBack[n-1]
		t.runeBack = t.runeBack[:n-1]
		return ch, true
	}
	ch, ok := t.r.Next()
	if !ok {
		return 0, false
	}
	if ch == '\\' {
		if nxt, ok2 := t.r.Next(); ok2 {
			if nxt == '\n' {
				return t.nextRaw()
			}
			t.ungetRaw(nxt)
		}
	}
	return ch, true
}

// ungetRaw returns ch to the tokeniser's own pushback stack (not the
// underlying Reader, which only holds one level).
func (t *tokeniser) ungetRaw(ch rune) {
	t.runeBack = append(t.runeBack, ch)
}

// skipCommentsAndWhitespace implements Phase 2: discards `//` and `/*
// ... */` comments, feeding their text into the comment buffer, and
// skips plain whitespace. Returns when the next rune is meaningful.
func (t *tokeniser) skipCommentsAndWhitespace() error {
	for {
		ch, ok := t.nextRaw()
		if !ok {
			return nil
		}
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			continue
		case ch == '/':
			nxt, ok2 := t.nextRaw()
			if !ok2 {
				t.ungetRaw(ch)
				return nil
			}
			switch nxt {
			case '/':
				t.scanLineComment()
				continue
			case '*':
				if err := t.scanBlockComment(); err != nil {
					return err
				}
				continue
			default:
				t.ungetRaw(nxt)
				t.ungetRaw(ch)
				return nil
			}
		default:
			t.ungetRaw(ch)
			return nil
		}
	}
}

func (t *tokeniser) scanLineComment() {
	line := t.r.Line()
	var b strings.Builder
	for {
		ch, ok := t.nextRaw()
		if !ok || ch == '\n' {
			if ok {
				t.ungetRaw(ch)
			}
			break
		}
		b.WriteRune(ch)
	}
	t.cb.SaveLine(line, b.String())
}

func (t *tokeniser) scanBlockComment() error {
	line := t.r.Line()
	var b strings.Builder
	for {
		ch, ok := t.nextRaw()
		if !ok {
			return &Diagnostic{Pos: token.Pos{File: t.file, Line: line}, Message: "unterminated block comment", Fatal: true}
		}
		if ch == '*' {
			nxt, ok2 := t.nextRaw()
			if ok2 && nxt == '/' {
				break
			}
			if ok2 {
				b.WriteRune(ch)
				t.ungetRaw(nxt)
				continue
			}
		}
		b.WriteRune(ch)
	}
	for _, l := range strings.Split(b.String(), "\n") {
		t.cb.SaveLine(line, l)
	}
	return nil
}

// next implements Phase 3 + 4: the next structural/string/number/symbol
// token, with adjacent string-literal concatenation folded together.
func (t *tokeniser) next() (token.Token, error) {
	if t.pushedTok != nil {
		tok := *t.pushedTok
		t.pushedTok = nil
		return tok, nil
	}

	if err := t.skipCommentsAndWhitespace(); err != nil {
		return token.Token{Kind: token.EOF}, err
	}

	ch, ok := t.nextRaw()
	if !ok {
		return token.Token{Kind: token.EOF}, nil
	}
	line := t.r.Line()

	switch {
	case ch == '"':
		return t.scanString(line)
	case ch == '(':
		t.cb.NoteToken(line)
		return token.Token{Kind: token.LParen, Line: line}, nil
	case ch == ')':
		t.cb.NoteToken(line)
		return token.Token{Kind: token.RParen, Line: line}, nil
	case ch == '{':
		t.cb.NoteToken(line)
		return token.Token{Kind: token.LBrace, Line: line}, nil
	case ch == '}':
		t.cb.NoteToken(line)
		return token.Token{Kind: token.RBrace, Line: line}, nil
	case ch == '[':
		t.cb.NoteToken(line)
		return token.Token{Kind: token.LBracket, Line: line}, nil
	case ch == ']':
		t.cb.NoteToken(line)
		return token.Token{Kind: token.RBracket, Line: line}, nil
	case ch == ',':
		t.cb.NoteToken(line)
		return token.Token{Kind: token.Comma, Line: line}, nil
	case ch == ';':
		t.cb.NoteToken(line)
		return token.Token{Kind: token.Semicolon, Line: line}, nil
	case ch == '.':
		t.cb.NoteToken(line)
		return token.Token{Kind: token.Dot, Line: line}, nil
	case ch == '+':
		t.cb.NoteToken(line)
		return token.Token{Kind: token.Plus, Line: line}, nil
	case unicode.IsDigit(ch):
		return t.scanNumber(ch, line)
	case isIdentStart(ch):
		return t.scanIdent(ch, line)
	default:
		t.cb.NoteToken(line)
		return token.Token{Kind: token.Other, Line: line, Text: string(ch)}, nil
	}
}

// pushback returns tok to the stream so the next call to next() yields it
// again.
func (t *tokeniser) pushback(tok token.Token) {
	t.pushedTok = &tok
}

func isIdentStart(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isIdentCont(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch) || unicode.IsDigit(ch)
}

func (t *tokeniser) scanIdent(first rune, line int) (token.Token, error) {
	var b strings.Builder
	b.WriteRune(first)
	for {
		ch, ok := t.r.Next()
		if !ok {
			break
		}
		if !isIdentCont(ch) {
			t.r.Pushback(ch)
			break
		}
		b.WriteRune(ch)
	}
	t.cb.NoteToken(line)
	return token.Token{Kind: token.Symbol, Line: line, Text: b.String()}, nil
}

func (t *tokeniser) scanNumber(first rune, line int) (token.Token, error) {
	var b strings.Builder
	b.WriteRune(first)
	for {
		ch, ok := t.r.Next()
		if !ok {
			break
		}
		if !unicode.IsDigit(ch) && ch != '.' && ch != 'x' && ch != 'X' &&
			!(ch >= 'a' && ch <= 'f') && !(ch >= 'A' && ch <= 'F') {
			t.r.Pushback(ch)
			break
		}
		b.WriteRune(ch)
	}
	t.cb.NoteToken(line)
	return token.Token{Kind: token.Number, Line: line, Text: b.String()}, nil
}

// scanString decodes a double-quoted string literal's escape sequences,
// then folds in any immediately-following string literal — via C-style
// whitespace juxtaposition or a `+` operator.
func (t *tokeniser) scanString(line int) (token.Token, error) {
	value, err := t.decodeStringBody(line)
	if err != nil {
		return token.Token{Kind: token.EOF}, err
	}
	snapshot := t.cb.Snapshot()
	t.cb.NoteToken(line)

	for {
		more, ok, perr := t.tryFoldNextString()
		if perr != nil {
			return token.Token{Kind: token.EOF}, perr
		}
		if !ok {
			break
		}
		value += more
	}

	return token.Token{Kind: token.String, Line: line, Text: value, StrKind: token.StringPlain, Comment: snapshot}, nil
}

// tryFoldNextString looks past whitespace and an optional '+' for another
// string literal to concatenate. Anything else is pushed back unconsumed.
func (t *tokeniser) tryFoldNextString() (string, bool, error) {
	for {
		ch, ok := t.r.Next()
		if !ok {
			return "", false, nil
		}
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			continue
		case ch == '+':
			continue
		case ch == '"':
			v, err := t.decodeStringBody(t.r.Line())
			return v, err == nil, err
		default:
			t.r.Pushback(ch)
			return "", false, nil
		}
	}
}

// decodeStringBody decodes one `"..."`-delimited literal's body, starting
// just after the opening quote.
func (t *tokeniser) decodeStringBody(startLine int) (string, error) {
	var b strings.Builder
	for {
		ch, ok := t.r.Next()
		if !ok {
			return "", &Diagnostic{Pos: token.Pos{File: t.file, Line: startLine}, Message: "unterminated string literal", Fatal: true}
		}
		if ch == '"' {
			return b.String(), nil
		}
		if ch == '\n' {
			return "", &Diagnostic{Pos: token.Pos{File: t.file, Line: startLine}, Message: "unterminated string literal", Fatal: true}
		}
		if ch != '\\' {
			b.WriteRune(ch)
			continue
		}
		esc, ok2 := t.r.Next()
		if !ok2 {
			return "", &Diagnostic{Pos: token.Pos{File: t.file, Line: startLine}, Message: "unterminated escape sequence", Fatal: true}
		}
		decoded, err := decodeEscape(t.r, esc)
		if err != nil {
			// An invalid escape is elided from the output and the
			// literal continues; no diagnostic is recorded for it.
			continue
		}
		b.WriteRune(decoded)
	}
}

// decodeEscape decodes one escape sequence after the backslash, given the
// already-consumed first escape character esc. Case-modification and
// named escapes are out of scope for this reference grammar.
func decodeEscape(r *srcreader.Reader, esc rune) (rune, error) {
	switch esc {
	case '\\':
		return '\\', nil
	case '"':
		return '"', nil
	case '\'':
		return '\'', nil
	case 'a':
		return '\a', nil
	case 'b':
		return '\b', nil
	case 'f':
		return '\f', nil
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 't':
		return '\t', nil
	case 'v':
		return '\v', nil
	case 'x':
		return decodeHex(r, 2)
	case 'u':
		return decodeHex(r, 4)
	case 'U':
		return decodeHex(r, 8)
	default:
		if esc >= '0' && esc <= '7' {
			return decodeOctal(r, esc)
		}
		return 0, fmt.Errorf("invalid escape sequence \\%c", esc)
	}
}

func decodeHex(r *srcreader.Reader, n int) (rune, error) {
	var v rune
	for i := 0; i < n; i++ {
		ch, ok := r.Next()
		if !ok {
			return 0, fmt.Errorf("truncated hex escape")
		}
		d, ok2 := hexDigit(ch)
		if !ok2 {
			r.Pushback(ch)
			return 0, fmt.Errorf("invalid hex escape")
		}
		v = v*16 + rune(d)
	}
	if v > 0x10FFFF || (v >= 0xD800 && v <= 0xDFFF) {
		return 0, fmt.Errorf("code point out of range")
	}
	return v, nil
}

func decodeOctal(r *srcreader.Reader, first rune) (rune, error) {
	v := first - '0'
	for i := 0; i < 2; i++ {
		ch, ok := r.Next()
		if !ok || ch < '0' || ch > '7' {
			if ok {
				r.Pushback(ch)
			}
			break
		}
		v = v*8 + (ch - '0')
	}
	return v, nil
}

func hexDigit(ch rune) (int, bool) {
	switch {
	case ch >= '0' && ch <= '9':
		return int(ch - '0'), true
	case ch >= 'a' && ch <= 'f':
		return int(ch-'a') + 10, true
	case ch >= 'A' && ch <= 'F':
		return int(ch-'A') + 10, true
	default:
		return 0, false
	}
}

// closeTokenName names the three close-bracket kinds for the stray-close
// diagnostic, reporting ok=false for every other kind.
func closeTokenName(k token.Kind) (string, bool) {
	switch k {
	case token.RParen:
		return "')'", true
	case token.RBrace:
		return "'}'", true
	case token.RBracket:
		return "']'", true
	default:
		return "", false
	}
}

// ExtractFile drives the top-level state machine over one file's source:
// Stmt / InCall / InBalanced.
func (e *Extractor) ExtractFile(path string, raw []byte) error {
	r, err := srcreader.New(path, raw)
	if err != nil {
		return err
	}
	cb := comment.New()
	tk := newTokeniser(r, path, cb)

	for {
		tok, err := tk.next()
		if d, ok := err.(*Diagnostic); ok {
			e.Diagnostics = append(e.Diagnostics, *d)
			if d.Fatal {
				return fmt.Errorf("%s", d.String())
			}
			continue
		} else if err != nil {
			return err
		}
		if tok.Kind == token.EOF {
			return nil
		}
		if tok.Kind != token.Symbol {
			if name, ok := closeTokenName(tok.Kind); ok {
				e.Diagnostics = append(e.Diagnostics, Diagnostic{
					Pos:     token.Pos{File: path, Line: tok.Line},
					Message: fmt.Sprintf("stray closing %s with no matching open", name),
				})
			}
			continue
		}

		set, ok := e.Keywords.Lookup(tok.Text)
		if !ok {
			continue
		}

		if err := e.enterCall(tk, path, tok.Text, set, 0); err != nil {
			return err
		}
	}
}

// enterCall implements InCall from the Stmt state: it eats the `(` after
// the keyword (returning without a call when none follows), then
// repeatedly consumes arguments (remembering string literals
// against the callshape set, recursing into InBalanced for nested
// brackets) until the matching close, then calls done().
func (e *Extractor) enterCall(tk *tokeniser, path, name string, set keyword.Set, depth int) error {
	if depth > maxNestingDepth {
		return fmt.Errorf("%s: nesting depth exceeds %d", path, maxNestingDepth)
	}

	tok, err := tk.next()
	if err != nil {
		return err
	}
	if tok.Kind != token.LParen {
		// No parenthesis follows the keyword identifier; this occurrence
		// is not a call (e.g. it names a local variable), so push the
		// token back and let the outer loop continue from Stmt.
		tk.pushback(tok)
		return nil
	}

	region := flagctx.Root().Enter(e.Flags, name, 1)
	p := arglist.New(set, region, func(msgctxt, msgid, plural string, pos token.Pos, comment []string, r flagctx.Region) {
		yes, no := classify.Split(classify.Decisions(r, msgid))
		e.Catalog.Commit(msgctxt, msgid, plural, pos, comment, yes)
		classify.ApplyNo(e.Catalog, msgctxt, msgid, no, pos)
	})

	argIndex := 1
	sawArg := false
	for {
		tok, err := tk.next()
		if err != nil {
			return err
		}
		switch tok.Kind {
		case token.EOF:
			return fmt.Errorf("%s: unexpected end of file inside call to %s", path, name)
		case token.RParen:
			finalCount := argIndex
			if !sawArg {
				finalCount = 0
			}
			p.Done(finalCount)
			return nil
		case token.Comma:
			argIndex++
		case token.String:
			sawArg = true
			p.Remember(argIndex, tok.Text, token.Pos{File: path, Line: tok.Line}, tok.Comment)
			p.CountArg(argIndex)
		case token.LParen, token.LBrace, token.LBracket:
			sawArg = true
			if err := e.skipBalanced(tk, path, tok.Kind, depth+1); err != nil {
				return err
			}
			p.RememberUncertain(argIndex)
			p.CountArg(argIndex)
		default:
			sawArg = true
			p.RememberUncertain(argIndex)
			p.CountArg(argIndex)
		}
	}
}

// skipBalanced consumes tokens until the close matching open: an opening
// bracket/brace/paren recurses into InBalanced until the matching close.
// Nested known-keyword calls inside a balanced region
// are still recognised and extracted, mirroring how a real nested call
// argument (`T(fmt.Sprintf(N("x")))`) must still yield its own message.
func (e *Extractor) skipBalanced(tk *tokeniser, path string, open token.Kind, depth int) error {
	if depth > maxNestingDepth {
		return fmt.Errorf("%s: nesting depth exceeds %d", path, maxNestingDepth)
	}
	want := closeFor(open)
	for {
		tok, err := tk.next()
		if err != nil {
			return err
		}
		switch tok.Kind {
		case token.EOF:
			return fmt.Errorf("%s: unbalanced %v", path, open)
		case want:
			return nil
		case token.LParen, token.LBrace, token.LBracket:
			if err := e.skipBalanced(tk, path, tok.Kind, depth+1); err != nil {
				return err
			}
		case token.Symbol:
			if set, ok := e.Keywords.Lookup(tok.Text); ok {
				if err := e.enterCall(tk, path, tok.Text, set, depth+1); err != nil {
					return err
				}
			}
		}
	}
}

func closeFor(open token.Kind) token.Kind {
	switch open {
	case token.LParen:
		return token.RParen
	case token.LBrace:
		return token.RBrace
	case token.LBracket:
		return token.RBracket
	default:
		return token.Other
	}
}
