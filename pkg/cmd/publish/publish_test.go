package publish

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omap-tiler/utrfill/internal/testlog"
)

func TestMetadata(t *testing.T) {
	got := Metadata(map[testlog.Status]int{testlog.StatusPass: 4, testlog.StatusFail: 2})
	assert.Equal(t, map[string]string{"status-P": "4", "status-F": "2"}, got)
}

func TestPublishRunDryRun(t *testing.T) {
	dir := t.TempDir()
	workbook := filepath.Join(dir, "UTR.xlsx")
	logFile := filepath.Join(dir, "test.log")
	require.NoError(t, os.WriteFile(workbook, []byte("xlsx"), 0644))
	require.NoError(t, os.WriteFile(logFile, []byte("TEST #  1 - a\n==> TEST OK\n"), 0644))

	publishArgs = publishInput{bucket: "qa-reports", prefix: "tiler", logFile: logFile, dryRun: true}
	defer func() { publishArgs = publishInput{} }()

	assert.NoError(t, publishRun(publishCmd, []string{workbook}))
}

func TestPublishRunMissingWorkbook(t *testing.T) {
	publishArgs = publishInput{bucket: "qa-reports", dryRun: true}
	defer func() { publishArgs = publishInput{} }()

	err := publishRun(publishCmd, []string{filepath.Join(t.TempDir(), "none.xlsx")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workbook not found")
}
