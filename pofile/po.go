// Package pofile writes the GNU gettext PO/POT wire format. The
// extractor never needs to read a PO file of its own making back in —
// the one place an existing PO file is consulted (the exclusion
// catalogue) reuses gotext's reader instead, see extract.loadExclusions —
// so this package only ever writes.
package pofile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// Entry is one message slot in a PO/POT file: a catalog.Message reshaped
// into the wire format's field layout by FromCatalog.
type Entry struct {
	// ExtractedComments are "#." lines.
	ExtractedComments []string
	// References are "#:" source-location lines.
	References []string
	// Flags are "#," format/fuzzy flags.
	Flags []string

	MsgCtxt     string
	MsgID       string
	MsgIDPlural string
	// MsgStr is the singular (or only) translation slot; a freshly
	// extracted entry carries the catalogue's msgstr template here.
	MsgStr string
	// MsgStrPlural maps plural form index to its translation slot.
	MsgStrPlural map[int]string

	// Obsolete marks an entry to be written with the "#~" prefix.
	Obsolete bool
}

// IsFuzzy reports whether the entry carries the "fuzzy" flag.
func (e *Entry) IsFuzzy() bool {
	return e.HasFlag("fuzzy")
}

// SetFuzzy adds or removes the "fuzzy" flag.
func (e *Entry) SetFuzzy(fuzzy bool) {
	if fuzzy {
		if !e.IsFuzzy() {
			e.Flags = append(e.Flags, "fuzzy")
		}
		return
	}
	kept := e.Flags[:0]
	for _, f := range e.Flags {
		if f != "fuzzy" {
			kept = append(kept, f)
		}
	}
	e.Flags = kept
}

// HasFlag reports whether flag is present among the entry's "#," flags.
func (e *Entry) HasFlag(flag string) bool {
	for _, f := range e.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// File is a PO/POT document: an optional header entry followed by the
// extracted message entries, in catalogue order.
type File struct {
	// Header is the msgid "" metadata entry, or nil to omit it entirely.
	Header *Entry
	// Entries are the extracted message entries.
	Entries []*Entry
}

// NewFile returns an empty file with a blank header entry, ready for
// FromCatalog to populate.
func NewFile() *File {
	return &File{Header: &Entry{}}
}

// Write serializes f in PO/POT wire format: the header entry (if any),
// then each message entry separated by a blank line.
func (f *File) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if f.Header != nil {
		if err := writeEntry(bw, f.Header); err != nil {
			return err
		}
	}
	for _, e := range f.Entries {
		fmt.Fprintln(bw)
		if err := writeEntry(bw, e); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile serializes f to path, creating or truncating it.
func (f *File) WriteFile(path string) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	return f.Write(out)
}

func writeEntry(w *bufio.Writer, e *Entry) error {
	prefix := ""
	if e.Obsolete {
		prefix = "#~ "
	}

	for _, c := range e.ExtractedComments {
		fmt.Fprintf(w, "#. %s\n", c)
	}
	for _, ref := range e.References {
		fmt.Fprintf(w, "#: %s\n", ref)
	}
	if len(e.Flags) > 0 {
		fmt.Fprintf(w, "#, %s\n", strings.Join(e.Flags, ", "))
	}

	if e.MsgCtxt != "" {
		writeQuotedField(w, prefix+"msgctxt", e.MsgCtxt)
	}
	writeQuotedField(w, prefix+"msgid", e.MsgID)
	if e.MsgIDPlural != "" {
		writeQuotedField(w, prefix+"msgid_plural", e.MsgIDPlural)
	}

	if e.MsgIDPlural != "" && len(e.MsgStrPlural) > 0 {
		indices := make([]int, 0, len(e.MsgStrPlural))
		for idx := range e.MsgStrPlural {
			indices = append(indices, idx)
		}
		sort.Ints(indices)
		for _, idx := range indices {
			writeQuotedField(w, fmt.Sprintf("%smsgstr[%d]", prefix, idx), e.MsgStrPlural[idx])
		}
	} else {
		writeQuotedField(w, prefix+"msgstr", e.MsgStr)
	}
	return nil
}

// writeQuotedField writes one PO field, splitting a multi-line value
// across continuation lines the way msgcat does: an empty string on the
// field's own line, then each inner line quoted with its trailing "\n"
// escape kept, and the final line bare unless it's empty.
func writeQuotedField(w *bufio.Writer, field, value string) {
	if !strings.Contains(value, "\n") {
		fmt.Fprintf(w, "%s %s\n", field, quote(value))
		return
	}
	fmt.Fprintf(w, "%s \"\"\n", field)
	parts := strings.Split(value, "\n")
	for i, part := range parts {
		if i < len(parts)-1 {
			fmt.Fprintf(w, "%s\n", quote(part+"\n"))
		} else if part != "" {
			fmt.Fprintf(w, "%s\n", quote(part))
		}
	}
}

// quote produces a PO-style double-quoted, backslash-escaped string.
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	s = strings.ReplaceAll(s, "\t", `\t`)
	return `"` + s + `"`
}
