// Package catalog implements the message catalogue: a
// deduplicating store keyed by (msgctxt, msgid) that merges positions,
// plural forms, extracted comments and per-format-language classifications
// across call sites, and synthesizes the PO header at end-of-run.
package catalog

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/l10ntools/xtract/token"
)

// Classification is a format-language decision for one message.
type Classification int

const (
	Undecided Classification = iota
	Possible
	Yes
	No
)

func (c Classification) String() string {
	switch c {
	case Possible:
		return "possible"
	case Yes:
		return "yes"
	case No:
		return "no"
	default:
		return "undecided"
	}
}

// Message is one catalogue entry, keyed by (MsgCtxt, MsgID).
type Message struct {
	MsgCtxt     string
	MsgID       string
	MsgIDPlural string
	MsgStr      string

	Positions         []token.Pos
	ExtractedComments []string

	// Classifications maps format language ("c-format", "python-format",
	// ...) to its current decision for this message.
	Classifications map[string]Classification

	Wrap     bool
	Fuzzy    bool
	Obsolete bool

	// seenPositions dedups References: the position set is additive, with
	// no duplicates.
	seenPositions map[token.Pos]bool
	// commentedSites dedups which call sites have already contributed an
	// extracted comment, so a message seen at the same site twice (e.g.
	// re-visited during error recovery) isn't N-fold repeated.
	commentedSites map[token.Pos]bool
}

// key identifies a catalogue slot.
type key struct {
	msgctxt string
	msgid   string
}

// Catalog is the deduplicating message store.
type Catalog struct {
	byKey    map[key]*Message
	order    []*Message // insertion order of first appearance, for stable output
	excluded map[key]bool

	// Errors accumulated by commit() conflicts: duplicate msgid with
	// conflicting msgid_plural or incompatible format classification.
	// Never fatal.
	Errors []string

	// Warnings accumulated by commit() calls that are dropped rather than
	// recorded, but are worth surfacing to the user (e.g. an empty msgid).
	Warnings []string

	msgstrPrefix string
	msgstrSuffix string
}

// New returns an empty catalogue. msgstrPrefix/msgstrSuffix configure the
// initial msgstr template for newly committed messages.
func New(msgstrPrefix, msgstrSuffix string) *Catalog {
	return &Catalog{
		byKey:        make(map[key]*Message),
		msgstrPrefix: msgstrPrefix,
		msgstrSuffix: msgstrSuffix,
	}
}

// LoadExclusionSet marks every (msgctxt, msgid) key found in an existing PO
// file as excluded: subsequent Commit calls for those keys are silently
// dropped, with no comments or positions recorded.
// Keys come from a caller-supplied PO reader so catalog has no direct
// dependency on a PO parser; see extract's Driver.loadExclusions for the
// concrete implementation used by the extractor CLI.
func (c *Catalog) LoadExclusionSet(keys func(yield func(msgctxt, msgid string))) {
	if c.excluded == nil {
		c.excluded = make(map[key]bool)
	}
	keys(func(msgctxt, msgid string) {
		c.excluded[key{msgctxt, msgid}] = true
	})
}

// Commit records one message occurrence. If plural is "", no
// plural form was supplied at this site. If the key is absent, a new
// Message is allocated with the configured msgstr template; if present,
// the occurrence is merged per the rules below. An excluded key is
// silently dropped. formatLangs names the format languages a caller has
// already classified "yes" for this occurrence (see
// catalog.SetClassification for the "no"/"possible" side of that
// decision); callers compute both from the region in effect at the call
// site before ever reaching Commit.
func (c *Catalog) Commit(msgctxt, msgid string, plural string, pos token.Pos, comment []string, formatLangs []string) {
	if msgid == "" {
		c.Warnings = append(c.Warnings, fmt.Sprintf(
			`%s:%d: warning: msgid "" is reserved for the header and will not be extracted`,
			pos.File, pos.Line))
		return
	}
	k := key{msgctxt, msgid}
	if c.excluded[k] {
		return
	}

	m, exists := c.byKey[k]
	if !exists {
		m = &Message{
			MsgCtxt:         msgctxt,
			MsgID:           msgid,
			MsgIDPlural:     plural,
			MsgStr:          c.msgstrPrefix + msgTemplate(msgid, plural) + c.msgstrSuffix,
			Classifications: make(map[string]Classification),
			seenPositions:   make(map[token.Pos]bool),
			commentedSites:  make(map[token.Pos]bool),
		}
		c.byKey[k] = m
		c.order = append(c.order, m)
	} else if plural != "" && m.MsgIDPlural == "" {
		m.MsgIDPlural = plural
	} else if plural != "" && m.MsgIDPlural != "" && m.MsgIDPlural != plural {
		c.Errors = append(c.Errors, fmt.Sprintf(
			"%s:%d: error: conflicting plural forms for %q (first seen with plural %q)",
			pos.File, pos.Line, msgid, m.MsgIDPlural))
	}

	if !m.seenPositions[pos] {
		m.seenPositions[pos] = true
		m.Positions = append(m.Positions, pos)
	}

	if !m.commentedSites[pos] {
		m.commentedSites[pos] = true
		m.ExtractedComments = append(m.ExtractedComments, comment...)
	}

	for _, lang := range formatLangs {
		c.mergeClassification(m, lang, Yes, pos)
	}
	// Every recognised format language gets an explicit classification via
	// formatLangs (here) or a later catalog.SetClassification call (for
	// "no"/"possible" decisions), defaulting to Undecided if neither ever
	// fires for this message.
}

// mergeClassification applies the catalogue's monotonic merge rule: once
// "yes", a language's classification stays "yes"; "no" arriving after
// "yes" (or vice versa) at different sites is reported as an error but the
// catalogue keeps the stronger ("yes") decision.
func (c *Catalog) mergeClassification(m *Message, lang string, cls Classification, pos token.Pos) {
	prev, had := m.Classifications[lang]
	if !had {
		m.Classifications[lang] = cls
		return
	}
	switch {
	case prev == Yes && cls == No, prev == No && cls == Yes:
		c.Errors = append(c.Errors, fmt.Sprintf(
			"%s:%d: error: %q classified both %s and %s for format %s",
			pos.File, pos.Line, m.MsgID, prev, cls, lang))
		m.Classifications[lang] = Yes
	case cls == Yes:
		m.Classifications[lang] = Yes
	}
}

// SetClassification directly sets a message's classification for lang,
// applying the same monotonic merge rule as Commit's formatLangs path.
// Used by the driver once a format validator has examined the committed
// msgid; validators run after the callshape is decided.
func (c *Catalog) SetClassification(msgctxt, msgid, lang string, cls Classification, pos token.Pos) {
	m, ok := c.byKey[key{msgctxt, msgid}]
	if !ok {
		return
	}
	c.mergeClassification(m, lang, cls, pos)
}

// Messages returns every committed message in first-appearance order.
func (c *Catalog) Messages() []*Message {
	return c.order
}

// Len returns the number of distinct committed messages.
func (c *Catalog) Len() int {
	return len(c.order)
}

// msgTemplate builds the initial (pre-prefix/suffix) msgstr body: empty for
// singular messages; the plural msgstr[0]/msgstr[1] layout is the writer's
// concern — the catalogue itself only ever stores a flat template string.
func msgTemplate(msgid, plural string) string {
	return ""
}

// HeaderOptions configures header synthesis from the driver's configured
// project metadata.
type HeaderOptions struct {
	Package         string
	Version         string
	BugsAddress     string
	CopyrightHolder string
	OmitHeader      bool
}

// SynthesizeHeader builds the ("", "") header message from configuration.
// If any catalogue entry carries a plural, a Plural-Forms template line is
// appended. Returns nil if opts.OmitHeader is set.
func (c *Catalog) SynthesizeHeader(opts HeaderOptions, now time.Time) *Message {
	if opts.OmitHeader {
		return nil
	}

	hasPlural := false
	for _, m := range c.order {
		if m.MsgIDPlural != "" {
			hasPlural = true
			break
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Project-Id-Version: %s %s\n", opts.Package, opts.Version)
	fmt.Fprintf(&b, "Report-Msgid-Bugs-To: %s\n", opts.BugsAddress)
	fmt.Fprintf(&b, "POT-Creation-Date: %s\n", now.UTC().Format("2006-01-02 15:04+0000"))
	b.WriteString("PO-Revision-Date: YEAR-MO-DA HO:MI+ZONE\n")
	b.WriteString("Last-Translator: FULL NAME <EMAIL@ADDRESS>\n")
	b.WriteString("Language-Team: LANGUAGE <LL@li.org>\n")
	b.WriteString("MIME-Version: 1.0\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\n")
	b.WriteString("Content-Transfer-Encoding: 8bit\n")
	if hasPlural {
		b.WriteString("Plural-Forms: nplurals=2; plural=(n != 1);\n")
	}

	comments := []string{
		"SOME DESCRIPTIVE TITLE.",
		fmt.Sprintf("Copyright (C) %d %s", now.Year(), opts.CopyrightHolder),
		fmt.Sprintf("This file is distributed under the same license as the %s package.", opts.Package),
		"FIRST AUTHOR <EMAIL@ADDRESS>, YEAR.",
	}

	return &Message{
		MsgID:             "",
		MsgStr:            b.String(),
		ExtractedComments: comments,
		Fuzzy:             true,
	}
}

// sortablePositions implements a stable ordering helper for tests/writers
// that want deterministic output independent of map iteration order —
// catalog itself never needs to sort, since insertion order is already
// the contract.
func sortablePositions(positions []token.Pos) []token.Pos {
	out := make([]token.Pos, len(positions))
	copy(out, positions)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].File != out[j].File {
			return out[i].File < out[j].File
		}
		return out[i].Line < out[j].Line
	})
	return out
}

// DebugDump writes a terse human-readable listing for diagnostics; the PO
// writer does not use it.
func (c *Catalog) DebugDump(w io.Writer) {
	for _, m := range c.order {
		fmt.Fprintf(w, "%q %q (%d positions)\n", m.MsgCtxt, m.MsgID, len(m.Positions))
	}
}
