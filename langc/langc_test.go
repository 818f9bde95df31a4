package langc

import (
	"testing"

	"github.com/l10ntools/xtract/catalog"
	"github.com/l10ntools/xtract/flagctx"
	"github.com/l10ntools/xtract/keyword"
)

func newExtractor(t *testing.T, specs ...string) (*Extractor, *catalog.Catalog) {
	t.Helper()
	kw := keyword.New()
	kw.AddDefault(specs)
	fl := flagctx.New()
	cat := catalog.New("", "")
	return New(kw, fl, cat), cat
}

func TestExtractsSimpleCall(t *testing.T) {
	e, cat := newExtractor(t, "T")
	src := `int main() {
  T("hello");
  return 0;
}`
	if err := e.ExtractFile("a.c", []byte(src)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cat.Len() != 1 || cat.Messages()[0].MsgID != "hello" {
		t.Fatalf("got %+v", cat.Messages())
	}
}

func TestExtractsPluralAndContext(t *testing.T) {
	e, cat := newExtractor(t, "pgettext:1c,2")
	src := `void f() {
  pgettext("menu", "open");
}`
	if err := e.ExtractFile("a.c", []byte(src)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := cat.Messages()[0]
	if m.MsgCtxt != "menu" || m.MsgID != "open" {
		t.Fatalf("got %+v", m)
	}
}

func TestAdjacentStringConcatenation(t *testing.T) {
	e, cat := newExtractor(t, "T")
	src := `void f() {
  T("hello " "world");
}`
	if err := e.ExtractFile("a.c", []byte(src)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cat.Len() != 1 || cat.Messages()[0].MsgID != "hello world" {
		t.Fatalf("got %+v", cat.Messages())
	}
}

func TestPlusConcatenation(t *testing.T) {
	e, cat := newExtractor(t, "T")
	src := `void f() {
  T("hello " + "world");
}`
	if err := e.ExtractFile("a.c", []byte(src)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cat.Len() != 1 || cat.Messages()[0].MsgID != "hello world" {
		t.Fatalf("got %+v", cat.Messages())
	}
}

func TestEscapeSequenceDecoding(t *testing.T) {
	e, cat := newExtractor(t, "T")
	src := `void f() {
  T("line1\nline2\ttabbed");
}`
	if err := e.ExtractFile("a.c", []byte(src)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cat.Messages()[0].MsgID != "line1\nline2\ttabbed" {
		t.Fatalf("got %q", cat.Messages()[0].MsgID)
	}
}

func TestLineCommentCapturedAsExtractedComment(t *testing.T) {
	e, cat := newExtractor(t, "T")
	src := `void f() {
  // Welcome banner text.
  T("hi");
}`
	if err := e.ExtractFile("a.c", []byte(src)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := cat.Messages()[0]
	if len(m.ExtractedComments) != 1 {
		t.Fatalf("expected 1 extracted comment, got %v", m.ExtractedComments)
	}
}

func TestBlockCommentStrippedNotEmittedAsToken(t *testing.T) {
	e, cat := newExtractor(t, "T")
	src := `void f() {
  /* a block comment
     spanning lines */
  T("hi");
}`
	if err := e.ExtractFile("a.c", []byte(src)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cat.Len() != 1 {
		t.Fatalf("expected block comment to be skipped, got %d messages", cat.Len())
	}
}

func TestNonLiteralArgumentDisqualifiesShape(t *testing.T) {
	e, cat := newExtractor(t, "T")
	src := `void f(char *s) {
  T(s);
}`
	if err := e.ExtractFile("a.c", []byte(src)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cat.Len() != 0 {
		t.Fatalf("expected 0 messages, got %d", cat.Len())
	}
}

func TestNestedCallExtractedIndependently(t *testing.T) {
	e, cat := newExtractor(t, "T")
	src := `void f() {
  log(T("inner"));
}`
	if err := e.ExtractFile("a.c", []byte(src)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cat.Len() != 1 || cat.Messages()[0].MsgID != "inner" {
		t.Fatalf("got %+v", cat.Messages())
	}
}

func TestUnterminatedStringIsFatal(t *testing.T) {
	e, _ := newExtractor(t, "T")
	src := `void f() {
  T("unterminated);
}`
	if err := e.ExtractFile("a.c", []byte(src)); err == nil {
		t.Fatalf("expected a fatal error for an unterminated string literal")
	}
}

func TestUnregisteredKeywordIgnored(t *testing.T) {
	e, cat := newExtractor(t, "T")
	src := `void f() {
  printf("not tracked");
}`
	if err := e.ExtractFile("a.c", []byte(src)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cat.Len() != 0 {
		t.Fatalf("expected 0 messages, got %d", cat.Len())
	}
}
