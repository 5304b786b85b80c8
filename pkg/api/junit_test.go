package api

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omap-tiler/utrfill/internal/testlog"
)

func TestNewJUnitTestSuite(t *testing.T) {
	p, err := testlog.Parse([]string{
		"TEST #  1 - test_d2c(176, 144, 1)",
		"==> TEST OK",
		"TEST #  2 - test_d2c(1920, 1080, 2)",
		"==> TEST FAIL(-5)",
		"TEST #  3 - neg_alloc_tests()",
		"==> TEST NOT AVAILABLE",
		"FAILED: 1, SUCCEEDED: 1, UNAVAILABLE: 1",
	})
	require.NoError(t, err)

	ts := NewJUnitTestSuite("d2c_test", p.Results(), p.Tally())

	// Assert the suite counters
	assert.Equal(t, "d2c_test", ts.Name)
	assert.Equal(t, 3, ts.Tests)
	assert.Equal(t, 1, ts.Failures)
	assert.Equal(t, 1, ts.Skipped)
	require.NotNil(t, ts.Properties)
	assert.Len(t, ts.Properties.Property, 3)

	// Assert the test cases
	require.Len(t, ts.TestCases, 3)
	assert.Equal(t, "test_d2c(176, 144, 1)", ts.TestCases[0].Name)
	assert.Equal(t, "d2c_test.001", ts.TestCases[0].Classname)
	assert.Nil(t, ts.TestCases[0].Failure)
	assert.Nil(t, ts.TestCases[0].Skipped)

	require.NotNil(t, ts.TestCases[1].Failure)
	assert.Equal(t, "failed with error #-5", ts.TestCases[1].Failure.Message)
	assert.Equal(t, "FAIL(-5)", ts.TestCases[1].Failure.Text)

	require.NotNil(t, ts.TestCases[2].Skipped)
	assert.Equal(t, "not available", ts.TestCases[2].Skipped.Message)
}

func TestTestSuiteSave(t *testing.T) {
	p, err := testlog.Parse([]string{
		"TEST #  1 - alloc_1D_test(4096, 0)",
		"==> TEST FAIL(-12)",
	})
	require.NoError(t, err)

	xmlFile := filepath.Join(t.TempDir(), "utrfill.xml")
	require.NoError(t, NewJUnitTestSuite("memmgr_test", p.Results(), nil).Save(xmlFile))

	raw, err := os.ReadFile(xmlFile)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `<testsuite name="memmgr_test" tests="1" skipped="0" failures="1">`)
	assert.NotContains(t, string(raw), "properties")

	parsed := &TestSuite{}
	require.NoError(t, xml.Unmarshal(raw, parsed))
	require.Len(t, parsed.TestCases, 1)
	assert.Equal(t, "alloc_1D_test(4096, 0)", parsed.TestCases[0].Name)
	require.NotNil(t, parsed.TestCases[0].Failure)
	assert.Equal(t, "failed with error #-12", parsed.TestCases[0].Failure.Message)
}
