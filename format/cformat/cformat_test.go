package cformat

import "testing"

func TestParseSimpleNumeric(t *testing.T) {
	v := New()
	d, err := v.Parse("%d items", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.DirectiveCount() != 1 {
		t.Fatalf("expected 1 directive, got %d", d.DirectiveCount())
	}
	if d.UnlikelyIntentional() {
		t.Fatalf("%%d items should not be unlikely-intentional")
	}
}

func TestParseLiteralPercentOnly(t *testing.T) {
	v := New()
	d, err := v.Parse("100%% complete", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.DirectiveCount() != 0 {
		t.Fatalf("expected 0 directives for a literal-only %%, got %d", d.DirectiveCount())
	}
}

func TestParsePositionalArguments(t *testing.T) {
	v := New()
	d, err := v.Parse("%2$s has %1$d items", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.DirectiveCount() != 2 {
		t.Fatalf("expected 2 directives, got %d", d.DirectiveCount())
	}
}

func TestParseMixedNumberedUnnumberedRejected(t *testing.T) {
	v := New()
	if _, err := v.Parse("%1$d and %s", false); err == nil {
		t.Fatalf("expected mixing numbered/unnumbered to be rejected")
	}
}

func TestParseUnknownSpecifierRejected(t *testing.T) {
	v := New()
	if _, err := v.Parse("%q", false); err == nil {
		t.Fatalf("expected unknown specifier to be rejected")
	}
}

func TestParseStarWidthAllocatesIntegerSlot(t *testing.T) {
	v := New()
	d, err := v.Parse("%*d", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.DirectiveCount() != 2 {
		t.Fatalf("expected width-star and specifier to allocate 2 slots, got %d", d.DirectiveCount())
	}
}

func TestCheckSameShapeSucceeds(t *testing.T) {
	v := New()
	msgid, _ := v.Parse("%d of %s", false)
	msgstr, _ := v.Parse("%d z %s", true)
	if err := v.Check(msgid, msgstr, false); err != nil {
		t.Fatalf("expected matching shapes to check out: %v", err)
	}
}

func TestCheckMismatchedCountFails(t *testing.T) {
	v := New()
	msgid, _ := v.Parse("%d of %s", false)
	msgstr, _ := v.Parse("%d", true)
	if err := v.Check(msgid, msgstr, false); err == nil {
		t.Fatalf("expected a count mismatch to fail")
	}
}

func TestCheckMismatchedTypeFails(t *testing.T) {
	v := New()
	msgid, _ := v.Parse("%d", false)
	msgstr, _ := v.Parse("%s", true)
	if err := v.Check(msgid, msgstr, false); err == nil {
		t.Fatalf("expected a type mismatch to fail")
	}
}
