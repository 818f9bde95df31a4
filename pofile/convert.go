package pofile

import (
	"fmt"
	"sort"

	"github.com/l10ntools/xtract/catalog"
)

// FromCatalog builds a *File from a catalogue's committed messages, carrying
// each message's positions, extracted comments and format-language
// classifications into the PO field conventions (#: references, #.
// extracted comments, #, NNN-format / no-NNN-format flags). header, built by
// catalog.Catalog.SynthesizeHeader, becomes the file's header entry; a nil
// header omits the header entry entirely.
func FromCatalog(messages []*catalog.Message, header *catalog.Message) *File {
	f := NewFile()
	if header != nil {
		f.Header = entryFromMessage(header)
	} else {
		f.Header = nil
	}
	for _, m := range messages {
		f.Entries = append(f.Entries, entryFromMessage(m))
	}
	return f
}

func entryFromMessage(m *catalog.Message) *Entry {
	e := &Entry{
		MsgCtxt:           m.MsgCtxt,
		MsgID:             m.MsgID,
		MsgIDPlural:       m.MsgIDPlural,
		MsgStr:            m.MsgStr,
		ExtractedComments: append([]string(nil), m.ExtractedComments...),
		Obsolete:          m.Obsolete,
	}
	for _, pos := range m.Positions {
		e.References = append(e.References, fmt.Sprintf("%s:%d", pos.File, pos.Line))
	}
	langs := make([]string, 0, len(m.Classifications))
	for lang := range m.Classifications {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	for _, lang := range langs {
		switch m.Classifications[lang] {
		case catalog.Yes:
			e.Flags = append(e.Flags, lang)
		case catalog.No:
			e.Flags = append(e.Flags, "no-"+lang)
		}
	}
	e.SetFuzzy(m.Fuzzy)
	if m.MsgIDPlural != "" {
		e.MsgStrPlural = map[int]string{0: m.MsgStr, 1: m.MsgStr}
	}
	return e
}
