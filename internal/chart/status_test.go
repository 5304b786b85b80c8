package chart

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omap-tiler/utrfill/internal/testlog"
)

func TestSortedCodes(t *testing.T) {
	failures := testlog.FailureCounter{"-1": 1, "-12": 3, "-5": 1, "total": 5}
	assert.Equal(t, []string{"-12", "-1", "-5"}, sortedCodes(failures))
}

func TestSaveResultsPage(t *testing.T) {
	counts := map[testlog.Status]int{testlog.StatusPass: 4, testlog.StatusFail: 2}
	failures := testlog.FailureCounter{"-1": 1, "-12": 1, "total": 2}

	page := NewResultsPage("UTR results")
	page.AddCharts(
		NewStatusPie("Status", counts),
		NewFailureBar("Failures per error code", failures),
	)

	path := filepath.Join(t.TempDir(), "results.html")
	require.NoError(t, SaveResultsPage(page, path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "UTR results")
	assert.Contains(t, string(raw), "Passed")
	assert.NotContains(t, string(raw), "Not available")
}
