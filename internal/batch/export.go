package batch

import (
	"sort"
	"strings"
)

// ExportText renders a report as a plain listing, one "artwork -> output"
// line per item sorted by artwork.
func ExportText(r Report) string {
	lines := []string{}
	if r.Name != "" {
		lines = append(lines, "# "+r.Name)
	}
	items := append([]Item(nil), r.Items...)
	sort.Slice(items, func(i, j int) bool { return items[i].Artwork < items[j].Artwork })
	for _, it := range items {
		lines = append(lines, it.Artwork+" -> "+it.Out)
	}
	return strings.Join(lines, "\n")
}
