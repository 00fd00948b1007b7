package cli

import (
	"sort"
)

// sortedSiteIDs returns the map keys in ascending order so tables print the
// same way on every run.
func sortedSiteIDs(tons map[string]float64) []string {
	ids := make([]string, 0, len(tons))
	for id := range tons {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
