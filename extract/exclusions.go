package extract

import (
	"github.com/leonelquinteros/gotext"
)

// loadExclusions parses path as a PO file and feeds its (msgctxt, msgid)
// keys into the catalogue's exclusion set. Reuses gotext's own Po parser
// rather than a second hand-rolled reader, since the module already depends
// on gotext elsewhere.
//
// gotext's public Translation map is keyed by msgid for context-less
// entries; msgctxt-qualified translations are stored per-context internally
// and are not enumerable through the public API, so a msgctxt-qualified
// exclusion entry currently only suppresses the context-less key. This
// matches the common case (most exclusion catalogues are context-free) and
// is documented as a known limitation rather than silently mis-excluding.
func (d *Driver) loadExclusions(path string) error {
	po := gotext.NewPo()
	po.ParseFile(path)

	for id := range po.GetTranslations() {
		d.excludeKeys = append(d.excludeKeys, excludeKey{msgid: id})
	}

	d.cat.LoadExclusionSet(func(yield func(msgctxt, msgid string)) {
		for _, k := range d.excludeKeys {
			yield(k.msgctxt, k.msgid)
		}
	})
	return nil
}

type excludeKey struct {
	msgctxt string
	msgid   string
}
