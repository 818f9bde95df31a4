// Package classify bridges the flag/context registry with the
// format-string validators: given the region in effect at a call site and
// the msgid committed from it, it decides a classification for every
// format language the region has settled on, the step that turns a
// decided region into the catalogue's per-language "yes"/"no" verdicts.
package classify

import (
	"sort"

	"github.com/l10ntools/xtract/catalog"
	"github.com/l10ntools/xtract/flagctx"
	"github.com/l10ntools/xtract/format"
	"github.com/l10ntools/xtract/format/cformat"
	"github.com/l10ntools/xtract/format/pyformat"
	"github.com/l10ntools/xtract/token"
)

// registry maps a PO flag name to the validator that parses and checks it.
// Both format/cformat and format/pyformat import format, so this table
// cannot live inside format itself without a cycle; it lives here instead.
var registry = map[string]format.Validator{}

func register(v format.Validator) {
	registry[v.Name()] = v
}

func init() {
	register(cformat.New())
	register(pyformat.New())
}

// Lookup returns the validator registered for a PO flag name ("c-format",
// "python-format", ...), or false if lang is not recognised.
func Lookup(lang string) (format.Validator, bool) {
	v, ok := registry[lang]
	return v, ok
}

// Decisions classifies msgid against every format language decided "yes"
// in region. A language parses "no" when msgid fails to parse as that
// language's format syntax, carries no directives, or
// Descriptor.UnlikelyIntentional reports the directives are more likely
// incidental punctuation (e.g. "100%% complete") than real placeholders;
// otherwise it parses "yes". Languages the region decided but that have no
// registered validator are skipped rather than guessed at.
func Decisions(region flagctx.Region, msgid string) map[string]catalog.Classification {
	langs := region.Langs()
	if len(langs) == 0 {
		return nil
	}
	out := make(map[string]catalog.Classification, len(langs))
	for _, lang := range langs {
		v, ok := Lookup(lang)
		if !ok {
			continue
		}
		d, err := v.Parse(msgid, false)
		switch {
		case err != nil, d.DirectiveCount() == 0, d.UnlikelyIntentional():
			out[lang] = catalog.No
		default:
			out[lang] = catalog.Yes
		}
	}
	return out
}

// Split separates decisions into its "yes" and "no" languages, each sorted
// for deterministic output. The caller passes yes into catalog.Commit's
// formatLangs (classifying a message atomically with its creation) and
// applies no afterwards via catalog.SetClassification, once Commit has
// guaranteed the message exists to classify — SetClassification is a
// no-op against a key the catalogue has not seen yet.
func Split(decisions map[string]catalog.Classification) (yes, no []string) {
	for lang, cls := range decisions {
		switch cls {
		case catalog.Yes:
			yes = append(yes, lang)
		case catalog.No:
			no = append(no, lang)
		}
	}
	sort.Strings(yes)
	sort.Strings(no)
	return yes, no
}

// ApplyNo calls cat.SetClassification(msgctxt, msgid, lang, catalog.No,
// pos) for every language in no. Must run after the catalog.Commit call
// that classified yes, so the message already exists.
func ApplyNo(cat *catalog.Catalog, msgctxt, msgid string, no []string, pos token.Pos) {
	for _, lang := range no {
		cat.SetClassification(msgctxt, msgid, lang, catalog.No, pos)
	}
}
