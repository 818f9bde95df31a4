package format

import "testing"

func TestUnlikelyIntentionalRequiresAllDirectivesSpaced(t *testing.T) {
	d := &Descriptor{Mode: ModeNumbered, Numbered: []Directive{
		{Number: 1, HasSpace: true},
	}}
	if !d.UnlikelyIntentional() {
		t.Fatalf("single spaced directive should be unlikely-intentional")
	}

	d2 := &Descriptor{Mode: ModeNumbered, Numbered: []Directive{
		{Number: 1, HasSpace: true},
		{Number: 2, HasSpace: false},
	}}
	if d2.UnlikelyIntentional() {
		t.Fatalf("mixed spacing must not be unlikely-intentional")
	}
}

func TestUnlikelyIntentionalEmptyIsFalse(t *testing.T) {
	d := &Descriptor{Mode: ModeNumbered}
	if d.UnlikelyIntentional() {
		t.Fatalf("descriptor with no directives is never unlikely-intentional")
	}
}

func TestDirectiveCountByMode(t *testing.T) {
	d := &Descriptor{Mode: ModeNamed, Named: []Directive{{Name: "a"}, {Name: "b"}}}
	if d.DirectiveCount() != 2 {
		t.Fatalf("expected 2, got %d", d.DirectiveCount())
	}
}

func TestCheckNumberedMismatchCount(t *testing.T) {
	msgid := &Descriptor{Mode: ModeNumbered, Numbered: []Directive{{Number: 1, Type: ArgType{Kind: Integer}}}}
	msgstr := &Descriptor{Mode: ModeNumbered}
	if err := CheckNumbered(msgid, msgstr); err == nil {
		t.Fatalf("expected count mismatch error")
	}
}

func TestCheckNumberedTypeMismatch(t *testing.T) {
	msgid := &Descriptor{Mode: ModeNumbered, Numbered: []Directive{{Number: 1, Type: ArgType{Kind: Integer}}}}
	msgstr := &Descriptor{Mode: ModeNumbered, Numbered: []Directive{{Number: 1, Type: ArgType{Kind: String}}}}
	if err := CheckNumbered(msgid, msgstr); err == nil {
		t.Fatalf("expected type mismatch error")
	}
}

func TestCheckNamedMissingInMsgid(t *testing.T) {
	msgid := &Descriptor{Mode: ModeNamed}
	msgstr := &Descriptor{Mode: ModeNamed, Named: []Directive{{Name: "x", Type: ArgType{Kind: Integer}}}}
	if err := CheckNamed(msgid, msgstr, false); err == nil {
		t.Fatalf("expected missing-in-msgid error")
	}
}

func TestCheckNamedRequireEquality(t *testing.T) {
	msgid := &Descriptor{Mode: ModeNamed, Named: []Directive{
		{Name: "a", Type: ArgType{Kind: Integer}},
		{Name: "b", Type: ArgType{Kind: String}},
	}}
	msgstr := &Descriptor{Mode: ModeNamed, Named: []Directive{{Name: "a", Type: ArgType{Kind: Integer}}}}

	if err := CheckNamed(msgid, msgstr, false); err != nil {
		t.Fatalf("subset should be fine without equality: %v", err)
	}
	if err := CheckNamed(msgid, msgstr, true); err == nil {
		t.Fatalf("expected equality violation when msgstr drops 'b'")
	}
}
