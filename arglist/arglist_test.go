package arglist

import (
	"testing"

	"github.com/l10ntools/xtract/flagctx"
	"github.com/l10ntools/xtract/keyword"
	"github.com/l10ntools/xtract/token"
)

func parseSet(t *testing.T, specs ...string) keyword.Set {
	t.Helper()
	var set keyword.Set
	for _, s := range specs {
		_, sh, ok := keyword.Parse(s)
		if !ok {
			t.Fatalf("failed to parse spec %q", s)
		}
		set = append(set, sh)
	}
	return set
}

func TestSingularFires(t *testing.T) {
	set := parseSet(t, "gettext")
	var got []string
	p := New(set, flagctx.Root(), func(ctx, id, plural string, pos token.Pos, comment []string, r flagctx.Region) {
		got = append(got, id)
	})
	p.Remember(1, "hello", token.Pos{File: "a", Line: 10}, nil)
	p.CountArg(1)
	p.Done(1)

	if len(got) != 1 || got[0] != "hello" {
		t.Fatalf("got %v", got)
	}
}

func TestPluralWithContext(t *testing.T) {
	set := parseSet(t, "npgettext:1c,2,3")
	type result struct{ ctx, id, plural string }
	var got []result
	p := New(set, flagctx.Root(), func(ctx, id, plural string, pos token.Pos, comment []string, r flagctx.Region) {
		got = append(got, result{ctx, id, plural})
	})
	p.Remember(1, "menu", token.Pos{}, nil)
	p.Remember(2, "item", token.Pos{}, nil)
	p.Remember(3, "items", token.Pos{}, nil)
	p.CountArg(4)
	p.Done(4)

	if len(got) != 1 || got[0] != (result{"menu", "item", "items"}) {
		t.Fatalf("got %+v", got)
	}
}

func TestNonStringDisqualifiesShape(t *testing.T) {
	set := parseSet(t, "gettext")
	fired := false
	p := New(set, flagctx.Root(), func(ctx, id, plural string, pos token.Pos, comment []string, r flagctx.Region) {
		fired = true
	})
	p.RememberUncertain(1)
	p.CountArg(1)
	p.Done(1)

	if fired {
		t.Fatalf("shape should not fire when its msgid position was not a string literal")
	}
}

func TestUncertainPluralDropsToSingular(t *testing.T) {
	set := parseSet(t, "ngettext:1,2")
	type result struct {
		id, plural string
	}
	var got []result
	p := New(set, flagctx.Root(), func(ctx, id, plural string, pos token.Pos, comment []string, r flagctx.Region) {
		got = append(got, result{id, plural})
	})
	p.Remember(1, "file", token.Pos{}, nil)
	p.RememberUncertain(2)
	p.CountArg(2)
	p.Done(2)

	if len(got) != 1 || got[0].id != "file" || got[0].plural != "" {
		t.Fatalf("got %+v", got)
	}
}

func TestArgtotalMismatchSuppressesShape(t *testing.T) {
	_, sh, ok := keyword.Parse("foo:1,2t")
	if !ok {
		t.Fatalf("expected 1,2t to parse")
	}
	fired := false
	p := New(keyword.Set{sh}, flagctx.Root(), func(ctx, id, plural string, pos token.Pos, comment []string, r flagctx.Region) {
		fired = true
	})
	p.Remember(1, "x", token.Pos{}, nil)
	p.CountArg(1)
	p.Done(1) // finalArgCount=1 but Argtotal=2 -> must not fire

	if fired {
		t.Fatalf("shape should not fire on argtotal mismatch")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	set := parseSet(t, "gettext")
	var fired int
	p := New(set, flagctx.Root(), func(ctx, id, plural string, pos token.Pos, comment []string, r flagctx.Region) {
		fired++
	})
	clone := p.Clone()
	clone.Remember(1, "cloned", token.Pos{}, nil)
	clone.CountArg(1)
	clone.Done(1)
	p.Done(1) // original parser has no msgid recorded, should not fire

	if fired != 1 {
		t.Fatalf("expected exactly the clone to fire, got %d fires", fired)
	}
}
