// Package arglist implements the argument-list parser: a
// finite-state object bound to one invocation's callshape set that
// remembers candidate strings against each shape in parallel and, at
// `done`, decides which shapes (if any) fire a committed message.
package arglist

import (
	"github.com/l10ntools/xtract/flagctx"
	"github.com/l10ntools/xtract/keyword"
	"github.com/l10ntools/xtract/token"
)

// Candidate is a string value not yet committed to the catalogue.
type Candidate struct {
	Value   string
	Pos     token.Pos
	Comment []string
}

// partialCall mirrors one shape's in-progress state.
type partialCall struct {
	shape   keyword.Shape
	msgctxt *Candidate
	msgid   *Candidate
	plural  *Candidate
	// pluralUncertain records that something landed in the plural slot but
	// was not a reliable string (e.g. an interpolated value); the plural is
	// then dropped but the shape can still fire as singular-only.
	pluralUncertain bool
	argsSeen        int
	decided         bool
}

// Sink receives a message whenever done() decides a shape fires. Kept as a
// narrow function type so arglist has no dependency on the catalogue
// package's concrete Message type — only the language extractors (langc,
// langgo) wire the two together.
type Sink func(msgctxt, msgid, plural string, pos token.Pos, comment []string, region flagctx.Region)

// Parser is bound to one invocation of a known keyword.
type Parser struct {
	set    keyword.Set
	calls  []partialCall
	region flagctx.Region
	sink   Sink
}

// New constructs a Parser for one call site using keyword set set, with the
// region effective at the call (threaded in from the enclosing
// driver/flag registry) and a Sink to receive fired messages.
func New(set keyword.Set, region flagctx.Region, sink Sink) *Parser {
	calls := make([]partialCall, len(set))
	for i, sh := range set {
		calls[i].shape = sh
	}
	return &Parser{set: set, calls: calls, region: region, sink: sink}
}

// Remember records a string value seen at 1-based argument position arg.
// For every shape whose Argnumc/Argnum1/Argnum2 equals arg, the string is
// stored in the matching slot; positions irrelevant to every shape are
// silently ignored.
func (p *Parser) Remember(arg int, value string, pos token.Pos, comment []string) {
	c := Candidate{Value: value, Pos: pos, Comment: comment}
	for i := range p.calls {
		pc := &p.calls[i]
		if pc.shape.Argnumc == arg {
			cp := c
			pc.msgctxt = &cp
		}
		if pc.shape.Argnum1 == arg {
			cp := c
			pc.msgid = &cp
		}
		if pc.shape.Argnum2 == arg {
			cp := c
			pc.plural = &cp
		}
	}
}

// RememberUncertain marks that the value occupying arg was a
// non-literal/interpolated expression. If arg is a shape's plural slot,
// that shape's plural is marked uncertain and is dropped at done() time:
// the candidate is discarded, with the msgid still committed as singular.
// No warning is recorded for the dropped plural. If arg is a shape's msgid or msgctxt slot, that
// shape is disqualified entirely: a non-string expression at a required
// position disqualifies that shape.
func (p *Parser) RememberUncertain(arg int) {
	for i := range p.calls {
		pc := &p.calls[i]
		if pc.shape.Argnum2 == arg {
			pc.pluralUncertain = true
		}
		if pc.shape.Argnum1 == arg || pc.shape.Argnumc == arg {
			pc.decided = true // disqualified: can never fire
			pc.msgid = nil
		}
	}
}

// CountArg records that an argument was seen at position arg, raising each
// shape's args-seen counter to arg. Done checks Argtotal against the
// finalArgCount its caller passes, not against this counter.
func (p *Parser) CountArg(arg int) {
	for i := range p.calls {
		if arg > p.calls[i].argsSeen {
			p.calls[i].argsSeen = arg
		}
	}
}

// Decided reports whether argument position arg can no longer change the
// outcome for every shape — i.e. every shape has either already been
// disqualified or already received its msgid.
func (p *Parser) Decided(arg int) bool {
	for i := range p.calls {
		pc := &p.calls[i]
		if pc.decided {
			continue
		}
		if pc.shape.Argnum1 == arg || pc.shape.Argnumc == arg {
			return false // this position still matters
		}
		if pc.msgid == nil {
			return false
		}
	}
	return true
}

// Clone produces an independent Parser sharing the same callshape set and
// region but no recorded state, for branching argument evaluation (e.g. a
// parenthesised comma expression).
func (p *Parser) Clone() *Parser {
	return New(p.set, p.region, p.sink)
}

// Region returns the region this parser was constructed with.
func (p *Parser) Region() flagctx.Region {
	return p.region
}

// Done decides the call. A shape fires when finalArgCount is consistent
// with its Argtotal (either Argtotal==0 or finalArgCount==Argtotal), its
// msgid slot was filled, and RememberUncertain has not disqualified it. Firing shapes commit independently via Sink; if
// none fires, all candidates are discarded.
func (p *Parser) Done(finalArgCount int) {
	for i := range p.calls {
		pc := &p.calls[i]
		if pc.decided || pc.msgid == nil {
			continue
		}
		if pc.shape.Argtotal != 0 && finalArgCount != pc.shape.Argtotal {
			continue
		}

		msgctxt := ""
		if pc.msgctxt != nil {
			msgctxt = pc.msgctxt.Value
		}
		plural := ""
		if pc.plural != nil && !pc.pluralUncertain {
			plural = pc.plural.Value
		}

		if p.sink != nil {
			p.sink(msgctxt, pc.msgid.Value, plural, pc.msgid.Pos, pc.msgid.Comment, p.region)
		}
	}
}
