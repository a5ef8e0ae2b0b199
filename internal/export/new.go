package export

import "github.com/atotto/clipboard"

type implExporter struct {
	brand          string
	writeClipboard func(string) error
}

// New creates an Exporter whose headings carry brand. Plain-text headings
// upper-case it; the e-mail subject keeps it as given.
func New(brand string) Exporter {
	return &implExporter{
		brand:          brand,
		writeClipboard: clipboard.WriteAll,
	}
}
