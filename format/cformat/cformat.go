// Package cformat implements the c-format validator: printf-
// style directives with positional (`%N$`) or plain unnumbered forms,
// flags, width/precision (literal, `*`, or `*N$`), length qualifiers and
// specifiers.
package cformat

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/l10ntools/xtract/format"
)

// Validator implements format.Validator for c-format strings.
type Validator struct{}

// New returns a c-format validator.
func New() *Validator { return &Validator{} }

func (v *Validator) Name() string { return "c-format" }

const flagChars = "-+ 0#'I"

// Parse scans literal for `%` directives and builds a Descriptor, or
// returns a *format.ParseError describing why it is not a valid c-format
// string.
func (v *Validator) Parse(literal string, isTranslated bool) (*format.Descriptor, error) {
	runes := []rune(literal)
	d := &format.Descriptor{IsTranslated: isTranslated}

	numbered := map[int]format.Directive{}
	var order []int
	sawUnnumbered := false
	sawNumbered := false
	nextUnnumbered := 1

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
			continue // literal percent, no directive allocated
		}

		number, hasNumber, ni := scanPositional(runes, i)
		i = ni

		if hasNumber {
			sawNumbered = true
		}

		// flags
		for i < len(runes) && strings.ContainsRune(flagChars, runes[i]) {
			i++
		}

		// width
		wStar, wNum, wi, err := v.scanWidthOrPrecision(runes, i, &sawUnnumbered, &nextUnnumbered, &numbered, &order)
		if err != nil {
			return nil, err
		}
		i = wi
		_ = wStar
		_ = wNum

		// precision
		if i < len(runes) && runes[i] == '.' {
			i++
			_, _, pi, err := v.scanWidthOrPrecision(runes, i, &sawUnnumbered, &nextUnnumbered, &numbered, &order)
			if err != nil {
				return nil, err
			}
			i = pi
		}

		// length qualifier
		width := format.WidthNative
		for i < len(runes) {
			switch runes[i] {
			case 'l':
				width = format.WidthLong
				i++
				continue
			case 'h', 'z', 'j', 't', 'L':
				i++
				continue
			}
			break
		}
		if strings.HasPrefix(string(runes[max(0, i-2):i]), "ll") {
			width = format.Width64
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

		n := number
		if !hasNumber {
			sawUnnumbered = true
			n = nextUnnumbered
			nextUnnumbered++
		}
		hasSpace := strings.ContainsRune(string(runes[start:i]), ' ')
		dir := format.Directive{Number: n, Type: format.ArgType{Kind: kind, Width: width}, HasSpace: hasSpace}
		if existing, seen := numbered[n]; seen && existing.Type.Kind != dir.Type.Kind {
			return nil, &format.ParseError{Reason: fmt.Sprintf("incompatible types for argument %d", n)}
		}
		if _, seen := numbered[n]; !seen {
			order = append(order, n)
		}
		numbered[n] = dir
	}

	if sawNumbered && sawUnnumbered {
		return nil, &format.ParseError{Reason: "mixes numbered and unnumbered directives"}
	}

	d.Mode = format.ModeNumbered
	for _, n := range order {
		d.Numbered = append(d.Numbered, numbered[n])
	}
	return d, nil
}

// scanPositional recognises a leading `NUM$` positional reference,
// returning (number, true, newIndex) if one is present, or (0, false, i)
// otherwise, leaving i unchanged.
func scanPositional(runes []rune, i int) (int, bool, int) {
	j := i
	for j < len(runes) && unicode.IsDigit(runes[j]) {
		j++
	}
	if j > i && j < len(runes) && runes[j] == '$' {
		n := 0
		for _, r := range runes[i:j] {
			n = n*10 + int(r-'0')
		}
		return n, true, j + 1
	}
	return 0, false, i
}

// scanWidthOrPrecision consumes a width/precision field: a literal digit
// run, `*`, or `*NUM$`. Every `*` positional reference allocates an
// integer argument slot.
func (v *Validator) scanWidthOrPrecision(runes []rune, i int, sawUnnumbered *bool, nextUnnumbered *int, numbered *map[int]format.Directive, order *[]int) (bool, int, int, error) {
	if i >= len(runes) {
		return false, 0, i, nil
	}
	if runes[i] == '*' {
		i++
		num, hasNum, ni := scanPositional(runes, i)
		i = ni
		n := num
		if !hasNum {
			*sawUnnumbered = true
			n = *nextUnnumbered
			*nextUnnumbered++
		}
		dir := format.Directive{Number: n, Type: format.ArgType{Kind: format.Integer}}
		if _, seen := (*numbered)[n]; !seen {
			*order = append(*order, n)
		}
		(*numbered)[n] = dir
		return true, 0, i, nil
	}
	j := i
	for j < len(runes) && unicode.IsDigit(runes[j]) {
		j++
	}
	return false, j - i, j, nil
}

func specKind(r rune) (format.ArgKind, bool) {
	switch r {
	case 'd', 'i', 'o', 'u', 'x', 'X', 'c':
		return format.Integer, true
	case 's':
		return format.String, true
	case 'f', 'e', 'E', 'g', 'G', 'a', 'A':
		return format.Float, true
	case 'p', 'n':
		return format.Any, true
	default:
		return 0, false
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Check compares msgid and msgstr c-format descriptors. c-format descriptors are always numbered, so this delegates to
// format.CheckNumbered.
func (v *Validator) Check(msgid, msgstr *format.Descriptor, requireEquality bool) error {
	if msgid.Mode != format.ModeNumbered || msgstr.Mode != format.ModeNumbered {
		return fmt.Errorf("c-format descriptors must be numbered")
	}
	return format.CheckNumbered(msgid, msgstr)
}
