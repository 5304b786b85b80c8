package publish

import (
	"fmt"

	"github.com/omap-tiler/utrfill/internal/testlog"
)

// Metadata converts status counters into S3 object metadata.
func Metadata(counts map[testlog.Status]int) map[string]string {
	meta := make(map[string]string, len(counts))
	for st, n := range counts {
		meta[fmt.Sprintf("status-%s", st)] = fmt.Sprintf("%d", n)
	}
	return meta
}
