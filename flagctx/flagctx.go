// Package flagctx implements the flag/context registry and region
// composition: a global table keyed by (function name, argument index)
// naming which format language(s) an argument participates in, and the
// composition operator that combines an enclosing call's region with the
// flags declared for the argument position being entered.
//
// A Region is an ordinary immutable value with structural sharing of its
// slot map, so composition never mutates a parent and "release" is just
// letting the value go out of scope — Go's GC is the right tool for what
// a hand-maintained refcount would otherwise be needed for.
package flagctx

import "sort"

// Certainty classifies how definite a flag annotation is.
type Certainty int

const (
	Decided Certainty = iota
	Passthrough
	Inherit
)

// Flag is one (language, certainty, pass-through) annotation for a single
// argument position.
type Flag struct {
	Lang        string
	Certainty   Certainty
	PassThrough bool
}

// key identifies one (function name, 1-based argument index) registry slot.
type key struct {
	name string
	arg  int
}

// Registry is the append-only, process-wide (name, argnum) -> []Flag table.
type Registry struct {
	entries map[key][]Flag
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[key][]Flag)}
}

// Add registers a flag for (name, arg). The table is append-only during a
// run.
func (r *Registry) Add(name string, arg int, f Flag) {
	k := key{name, arg}
	r.entries[k] = append(r.entries[k], f)
}

// AddPass is a convenience for the common "this argument is a format
// string in lang" case (a "pass" entry, e.g. "printf:1:c-format").
func (r *Registry) AddPass(name string, arg int, lang string) {
	r.Add(name, arg, Flag{Lang: lang, Certainty: Decided})
}

// AddPassThrough registers that argument arg of name inherits its region
// from the enclosing call ("pass-through" entries, e.g. wrapper functions
// around printf).
func (r *Registry) AddPassThrough(name string, arg int) {
	r.Add(name, arg, Flag{Certainty: Passthrough, PassThrough: true})
}

// Lookup returns the flags registered for (name, arg), or nil if none.
func (r *Registry) Lookup(name string, arg int) []Flag {
	return r.entries[key{name, arg}]
}

// Region is a stack of context/format annotations effective at one
// argument position. The zero Region is the root
// region: no language is decided for any slot.
type Region struct {
	// slots maps format language -> whether it is decided "yes" for this
	// region. A region is a plain value; composing never mutates an
	// existing Region.
	slots map[string]bool
}

// Root returns a fresh root region (null context), the starting point for
// every file's top-level parse.
func Root() Region {
	return Region{}
}

// Enter composes the region effective when entering argument arg of a call
// to name, given the outer region r: entries registered for (name, arg)
// override their language's slot; everything else carries over unchanged
// from r. A pass-through entry
// (PassThrough=true with no Lang) leaves every slot of r untouched — the
// callee is transparent and the caller's region keeps flowing through.
func (r Region) Enter(reg *Registry, name string, arg int) Region {
	flags := reg.Lookup(name, arg)
	if len(flags) == 0 {
		return r // inherit everything, no new allocation needed
	}

	next := make(map[string]bool, len(r.slots)+len(flags))
	for lang, yes := range r.slots {
		next[lang] = yes
	}
	for _, f := range flags {
		if f.PassThrough && f.Lang == "" {
			continue // pure pass-through: don't touch any slot
		}
		if f.Lang != "" {
			next[f.Lang] = f.Certainty == Decided
		}
	}
	return Region{slots: next}
}

// Langs returns the format languages decided "yes" in this region, sorted
// for deterministic downstream classification regardless of map iteration
// order.
func (r Region) Langs() []string {
	var out []string
	for lang, yes := range r.slots {
		if yes {
			out = append(out, lang)
		}
	}
	sort.Strings(out)
	return out
}

// Has reports whether lang is decided "yes" in this region.
func (r Region) Has(lang string) bool {
	return r.slots[lang]
}
