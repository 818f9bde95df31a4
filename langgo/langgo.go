// Package langgo extracts translatable strings from Go source by walking
// its go/ast tree, a language that already ships a tree parser in place
// of a hand-rolled tokeniser. Adapted from a hand-rolled `T("...")`-style
// scanner into a full driver over the shared
// keyword/flagctx/arglist/comment/catalog framework.
package langgo

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"sort"
	"strconv"

	"github.com/l10ntools/xtract/arglist"
	"github.com/l10ntools/xtract/catalog"
	"github.com/l10ntools/xtract/classify"
	"github.com/l10ntools/xtract/comment"
	"github.com/l10ntools/xtract/flagctx"
	"github.com/l10ntools/xtract/keyword"
	xtoken "github.com/l10ntools/xtract/token"
)

// Extractor walks Go source files looking for calls to registered
// keywords and commits candidates into cat.
type Extractor struct {
	Keywords *keyword.Table
	Flags    *flagctx.Registry
	Catalog  *catalog.Catalog
}

// New constructs an Extractor bound to the given keyword table, flag
// registry and destination catalogue.
func New(kw *keyword.Table, fl *flagctx.Registry, cat *catalog.Catalog) *Extractor {
	return &Extractor{Keywords: kw, Flags: fl, Catalog: cat}
}

// ExtractFile parses one Go source file and commits every recognised
// keyword call's string arguments. Parse errors are returned directly to
// the caller: unrecoverable errors terminate the file, and a failure to
// even parse the file is exactly that case for a tree extractor, since
// there is no fallback statement-level recovery once go/parser has given
// up on the whole file.
func (e *Extractor) ExtractFile(path string, src []byte) error {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, path, src, parser.ParseComments)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	commentsByLine := snapshotCommentsByLine(fset, f)

	ast.Inspect(f, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}

		name, qualified := callName(call)
		set, ok := e.Keywords.Lookup(name)
		if !ok && qualified != "" {
			set, ok = e.Keywords.Lookup(qualified)
			if ok {
				name = qualified
			}
		}
		if !ok {
			return true
		}

		region := e.regionForCall(name)

		p := arglist.New(set, region, func(msgctxt, msgid, plural string, apos xtoken.Pos, c []string, r flagctx.Region) {
			yes, no := classify.Split(classify.Decisions(r, msgid))
			e.Catalog.Commit(msgctxt, msgid, plural, apos, c, yes)
			classify.ApplyNo(e.Catalog, msgctxt, msgid, no, apos)
		})

		for i, arg := range call.Args {
			line := fset.Position(arg.Pos()).Line
			argPos := xtoken.Pos{File: path, Line: line}
			if s, ok := stringFromExpr(arg); ok {
				// Only the first argument inherits the call's preceding
				// comment; later args are interior to the expression.
				var comments []string
				if i == 0 {
					comments = commentsByLine[line]
				}
				p.Remember(i+1, s, argPos, comments)
			} else {
				p.RememberUncertain(i + 1)
			}
			p.CountArg(i + 1)
		}
		p.Done(len(call.Args))

		return true
	})

	return nil
}

// regionForCall looks up the flag registry's decided slots for name's
// first argument and folds them into the root region, giving
// the arglist parser the effective format-language context for this
// call. Go call sites are not nested the way a C-like invocation's
// argument positions are, so langgo only threads region through the
// top-level call itself rather than tracking an enclosing-call stack.
func (e *Extractor) regionForCall(name string) flagctx.Region {
	return flagctx.Root().Enter(e.Flags, name, 1)
}

// callName returns the bare identifier used to match a keyword table
// entry, plus (when the call is a selector expression) the "pkg.Func"
// qualified form some keyword specs use to disambiguate.
func callName(call *ast.CallExpr) (name string, qualified string) {
	switch fn := call.Fun.(type) {
	case *ast.Ident:
		return fn.Name, ""
	case *ast.SelectorExpr:
		if ident, ok := fn.X.(*ast.Ident); ok {
			return fn.Sel.Name, ident.Name + "." + fn.Sel.Name
		}
		return fn.Sel.Name, ""
	default:
		return "", ""
	}
}

// stringFromExpr evaluates expr to a compile-time string constant: a
// literal, or a concatenation of literals. A non-string expression at a
// required position disqualifies a shape, but string-valued constant
// folding is still acceptable, matching how xgettext treats adjacent
// string literal concatenation.
func stringFromExpr(expr ast.Expr) (string, bool) {
	switch e := expr.(type) {
	case *ast.BasicLit:
		if e.Kind == token.STRING {
			s, err := strconv.Unquote(e.Value)
			if err != nil {
				return "", false
			}
			return s, true
		}
		return "", false
	case *ast.BinaryExpr:
		if e.Op == token.ADD {
			left, lok := stringFromExpr(e.X)
			right, rok := stringFromExpr(e.Y)
			if lok && rok {
				return left + right, true
			}
		}
		return "", false
	default:
		return "", false
	}
}

// snapshotCommentsByLine replays every comment and string-literal token in
// the file through a comment.Buffer in source order, recording the
// buffer's snapshot at the moment just before each token is noted — i.e.
// the comment lines that immediately precede that token. The
// result lets the call-extraction walk look up "what comment preceded the
// literal on line N" without needing to interleave comment-feeding with
// the AST walk itself.
func snapshotCommentsByLine(fset *token.FileSet, f *ast.File) map[int][]string {
	type event struct {
		line    int
		isToken bool
		text    string
	}
	var events []event
	for _, cg := range f.Comments {
		for _, c := range cg.List {
			events = append(events, event{line: fset.Position(c.End()).Line, text: c.Text})
		}
	}
	ast.Inspect(f, func(n ast.Node) bool {
		if lit, ok := n.(*ast.BasicLit); ok && lit.Kind == token.STRING {
			events = append(events, event{line: fset.Position(n.Pos()).Line, isToken: true})
		}
		return true
	})

	// Sort by line, comments before tokens on the same line, so a token
	// observes the comment immediately preceding it first.
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].line != events[j].line {
			return events[i].line < events[j].line
		}
		return !events[i].isToken && events[j].isToken
	})

	cb := comment.New()
	result := make(map[int][]string)
	for _, ev := range events {
		if ev.isToken {
			if snap := cb.Snapshot(); snap != nil {
				result[ev.line] = snap
			}
			cb.NoteToken(ev.line)
		} else {
			cb.SaveLine(ev.line, ev.text)
		}
	}
	return result
}
