package pyformat

import "testing"

func TestParseNamedDirectives(t *testing.T) {
	v := New()
	d, err := v.Parse("%(name)s is %(age)d", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.DirectiveCount() != 2 {
		t.Fatalf("expected 2 named directives, got %d", d.DirectiveCount())
	}
}

func TestParsePositionalDirectives(t *testing.T) {
	v := New()
	d, err := v.Parse("%s scored %d points", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.DirectiveCount() != 2 {
		t.Fatalf("expected 2 positional directives, got %d", d.DirectiveCount())
	}
}

func TestParseMixedNamedPositionalRejected(t *testing.T) {
	v := New()
	if _, err := v.Parse("%(name)s scored %d", false); err == nil {
		t.Fatalf("expected mixing named/positional to be rejected")
	}
}

func TestParseLiteralPercentOnly(t *testing.T) {
	v := New()
	d, err := v.Parse("100%% done", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.DirectiveCount() != 0 {
		t.Fatalf("expected 0 directives, got %d", d.DirectiveCount())
	}
}

func TestCheckNamedSubsetOK(t *testing.T) {
	v := New()
	msgid, _ := v.Parse("%(a)s %(b)d", false)
	msgstr, _ := v.Parse("%(a)s", true)
	if err := v.Check(msgid, msgstr, false); err != nil {
		t.Fatalf("expected subset check to pass: %v", err)
	}
	if err := v.Check(msgid, msgstr, true); err == nil {
		t.Fatalf("expected equality check to fail on a dropped name")
	}
}

func TestCheckModeMismatchFails(t *testing.T) {
	v := New()
	msgid, _ := v.Parse("%(a)s", false)
	msgstr, _ := v.Parse("%s", true)
	if err := v.Check(msgid, msgstr, false); err == nil {
		t.Fatalf("expected mode mismatch to fail")
	}
}
