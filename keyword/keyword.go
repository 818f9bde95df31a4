// Package keyword implements the keyword table: parsing
// xgettext-style keyword specs ("NAME[:ARG,...]") into callshape sets, and
// looking up the callshape set for a given identifier.
package keyword

import (
	"strconv"
	"strings"
)

// Shape describes one callshape: which argument positions of a call carry
// msgid, msgid_plural and msgctxt, and an optional fixed total argument
// count. Argument positions are 1-based.
type Shape struct {
	Argnum1  int // msgid position, >= 1 when active
	Argnum2  int // msgid_plural position, 0 if absent
	Argnumc  int // msgctxt position, 0 if absent
	Argtotal int // fixed argument count, 0 if unconstrained

	// ExtraComment is a per-shape annotation carried through to any message
	// this shape fires.
	ExtraComment string
}

// Set is the ordered list of shapes a keyword's parser must try in
// parallel.
type Set []Shape

// Table maps keyword name to its callshape set. Populated once per
// language at initialization and read-mostly afterward.
type Table struct {
	entries map[string]Set
}

// New returns an empty keyword table.
func New() *Table {
	return &Table{entries: make(map[string]Set)}
}

// Add parses spec and merges its shape into the table, matching xgettext's
// right-to-left parse and its "malformed specs are silently ignored"
// behavior. A bare NAME with no ":" defaults to Argnum1=1.
func (t *Table) Add(spec string) {
	name, shape, ok := Parse(spec)
	if !ok {
		return
	}
	t.entries[name] = append(t.entries[name], shape)
}

// AddDefault installs a language's default keyword set, e.g. the GNU
// gettext family {gettext, ngettext:1,2, pgettext:1c,2, ...}.
func (t *Table) AddDefault(specs []string) {
	for _, s := range specs {
		t.Add(s)
	}
}

// ClearDefaults removes every keyword currently registered, matching
// xgettext's "add(null) before processing" convention for suppressing
// defaults.
func (t *Table) ClearDefaults() {
	t.entries = make(map[string]Set)
}

// Lookup returns the callshape set registered for name, or (nil, false) if
// name is not a known keyword.
func (t *Table) Lookup(name string) (Set, bool) {
	s, ok := t.entries[name]
	return s, ok
}

// Parse parses one "NAME[:ARG[,ARG...]]" spec string into a name and a
// single Shape. ok is false for malformed specs, which callers must
// silently ignore: a spec containing a ":" anywhere before the trailing
// argument list (i.e. more than one ":") is malformed, as is any ARG that
// isn't DIGIT+, DIGIT+ "c" or DIGIT+ "t".
func Parse(spec string) (name string, shape Shape, ok bool) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return "", Shape{}, false
	}

	colon := strings.IndexByte(spec, ':')
	if colon < 0 {
		return spec, Shape{Argnum1: 1}, true
	}
	name = spec[:colon]
	rest := spec[colon+1:]
	if name == "" || strings.ContainsRune(rest, ':') {
		// A stray second ':' is documented-malformed.
		return "", Shape{}, false
	}

	args := strings.Split(rest, ",")
	if len(args) == 0 {
		return "", Shape{}, false
	}

	sh := Shape{}
	var numbered []int
	for _, a := range args {
		a = strings.TrimSpace(a)
		if a == "" {
			return "", Shape{}, false
		}
		switch {
		case strings.HasSuffix(a, "c"):
			n, err := strconv.Atoi(strings.TrimSuffix(a, "c"))
			if err != nil || n < 1 {
				return "", Shape{}, false
			}
			sh.Argnumc = n
		case strings.HasSuffix(a, "t"):
			n, err := strconv.Atoi(strings.TrimSuffix(a, "t"))
			if err != nil || n < 1 {
				return "", Shape{}, false
			}
			sh.Argtotal = n
		default:
			n, err := strconv.Atoi(a)
			if err != nil || n < 1 {
				return "", Shape{}, false
			}
			numbered = append(numbered, n)
		}
	}

	switch len(numbered) {
	case 0:
		// Only a context/total arg given — msgid position still defaults to 1.
		sh.Argnum1 = 1
	case 1:
		sh.Argnum1 = numbered[0]
	default:
		sh.Argnum1 = numbered[0]
		sh.Argnum2 = numbered[1]
	}

	if sh.Argnum1 < 1 {
		return "", Shape{}, false
	}
	if sh.Argnum2 != 0 && sh.Argnum2 <= sh.Argnum1 {
		return "", Shape{}, false
	}

	return name, sh, true
}

// DefaultGettextKeywords is the canonical GNU-gettext default keyword set
// most language modules start from.
var DefaultGettextKeywords = []string{
	"gettext",
	"dgettext:2",
	"dcgettext:2",
	"ngettext:1,2",
	"dngettext:2,3",
	"dcngettext:2,3",
	"pgettext:1c,2",
	"npgettext:1c,2,3",
}
