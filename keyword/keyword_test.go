package keyword

import "testing"

func TestParseBareName(t *testing.T) {
	name, sh, ok := Parse("gettext")
	if !ok || name != "gettext" || sh.Argnum1 != 1 {
		t.Fatalf("Parse(gettext) = %q %+v %v", name, sh, ok)
	}
}

func TestParsePluralAndContext(t *testing.T) {
	name, sh, ok := Parse("npgettext:1c,2,3")
	if !ok {
		t.Fatalf("expected ok")
	}
	if name != "npgettext" || sh.Argnumc != 1 || sh.Argnum1 != 2 || sh.Argnum2 != 3 {
		t.Fatalf("got %+v", sh)
	}
}

func TestParseMalformedStrayColon(t *testing.T) {
	if _, _, ok := Parse("foo:1:2"); ok {
		t.Fatalf("expected stray ':' to be malformed")
	}
}

func TestParseMalformedBadArg(t *testing.T) {
	if _, _, ok := Parse("foo:x"); ok {
		t.Fatalf("expected non-numeric arg to be malformed")
	}
}

func TestParsePluralBeforeSingularInvariant(t *testing.T) {
	if _, _, ok := Parse("foo:2,1"); ok {
		t.Fatalf("expected argnum2 <= argnum1 to be malformed")
	}
}

func TestTableAddAndLookup(t *testing.T) {
	tbl := New()
	tbl.AddDefault(DefaultGettextKeywords)
	tbl.Add("bogus:") // malformed, silently ignored

	set, ok := tbl.Lookup("ngettext")
	if !ok || len(set) != 1 || set[0].Argnum1 != 1 || set[0].Argnum2 != 2 {
		t.Fatalf("ngettext lookup = %+v %v", set, ok)
	}

	if _, ok := tbl.Lookup("bogus"); ok {
		t.Fatalf("malformed spec should not have registered a keyword")
	}

	tbl.ClearDefaults()
	if _, ok := tbl.Lookup("gettext"); ok {
		t.Fatalf("ClearDefaults should remove previously registered keywords")
	}
}

func TestMultipleShapesPerName(t *testing.T) {
	tbl := New()
	tbl.Add("_:1")
	tbl.Add("_:1c,2")

	set, ok := tbl.Lookup("_")
	if !ok || len(set) != 2 {
		t.Fatalf("expected two shapes for repeated keyword name, got %+v", set)
	}
}
