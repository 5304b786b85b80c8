package chart

import (
	"sort"

	"github.com/omap-tiler/utrfill/internal/testlog"
)

// sortedCodes returns the error codes of failures, most frequent first,
// without the "total" entry.
func sortedCodes(failures testlog.FailureCounter) []string {
	codes := make([]string, 0, len(failures))
	for code := range failures {
		if code == "total" {
			continue
		}
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool {
		if failures[codes[i]] != failures[codes[j]] {
			return failures[codes[i]] > failures[codes[j]]
		}
		return codes[i] < codes[j]
	})
	return codes
}
