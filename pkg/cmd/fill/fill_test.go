package fill

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/omap-tiler/utrfill/internal/testlog"
	"github.com/omap-tiler/utrfill/internal/utr"
	utrtests "github.com/omap-tiler/utrfill/test"
)

// writeUTR creates a Tiler UTR with one row per description.
func writeUTR(t *testing.T, sheetName string, descs ...string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", sheetName))
	set := func(cell string, v interface{}) {
		require.NoError(t, f.SetCellValue(sheetName, cell, v))
	}
	set("A1", "Test Metrics")
	set("A4", "Test Case\nID")
	set("B4", "Test Case\nDescription")
	set("C4", "Details")
	set("D4", "Status")
	set("E4", "Comments")
	for i, desc := range descs {
		row := i + 5
		set("A"+strconv.Itoa(row), "TC-"+strconv.Itoa(i+1))
		set("C"+strconv.Itoa(row), "MemMgr/D2C\n"+desc)
	}
	path := filepath.Join(t.TempDir(), "UTR.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func writeFixtureLog(t *testing.T) string {
	t.Helper()
	raw, err := utrtests.TestData.ReadFile("testdata/logs/memmgr-d2c.log")
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "test.log")
	require.NoError(t, os.WriteFile(path, raw, 0644))
	return path
}

func cellValue(t *testing.T, path, sheet, cell string) string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue(sheet, cell)
	require.NoError(t, err)
	return v
}

func TestRunFill(t *testing.T) {
	workbook := writeUTR(t, "Tiler",
		"alloc_1D_test(4096, 0)",
		"map_1D_test(4096, 0)",
		"neg_alloc_tests()",
		"test_d2c(640, 480, 1)",
	)
	output := filepath.Join(t.TempDir(), "UTR-filled.xlsx")
	in := &fillInput{
		workbook: workbook,
		output:   output,
		require:  []string{testlog.DefaultRequiredTest},
		logs:     []string{writeFixtureLog(t)},
	}
	require.NoError(t, runFill(context.Background(), in, utr.DefaultLayout()))

	assert.Equal(t, "P", cellValue(t, output, "Tiler", "D5"))
	assert.Equal(t, "F", cellValue(t, output, "Tiler", "D6"))
	assert.Equal(t, "failed with error #-12", cellValue(t, output, "Tiler", "E6"))
	assert.Equal(t, "D", cellValue(t, output, "Tiler", "D7"))
	assert.Equal(t, "U", cellValue(t, output, "Tiler", "D8"))

	// the original workbook is untouched
	assert.Equal(t, "", cellValue(t, workbook, "Tiler", "D5"))
}

func TestRunFillInPlace(t *testing.T) {
	workbook := writeUTR(t, "Tiler", "test_d2c(1920, 1080, 2)")
	in := &fillInput{workbook: workbook, logs: []string{writeFixtureLog(t)}}
	require.NoError(t, runFill(context.Background(), in, utr.DefaultLayout()))
	assert.Equal(t, "P", cellValue(t, workbook, "Tiler", "D5"))
}

func TestRunFillDryRun(t *testing.T) {
	workbook := writeUTR(t, "Tiler", "test_d2c(1920, 1080, 2)")
	in := &fillInput{workbook: workbook, dryRun: true, logs: []string{writeFixtureLog(t)}}
	require.NoError(t, runFill(context.Background(), in, utr.DefaultLayout()))
	assert.Equal(t, "", cellValue(t, workbook, "Tiler", "D5"))
}

func TestRunFillErrors(t *testing.T) {
	logFile := writeFixtureLog(t)

	t.Run("wrong sheet", func(t *testing.T) {
		in := &fillInput{workbook: writeUTR(t, "Summary"), logs: []string{logFile}}
		err := runFill(context.Background(), in, utr.DefaultLayout())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "active worksheet does not seem to be the Tiler UTR")
	})

	t.Run("missing workbook", func(t *testing.T) {
		in := &fillInput{workbook: filepath.Join(t.TempDir(), "none.xlsx"), logs: []string{logFile}}
		err := runFill(context.Background(), in, utr.DefaultLayout())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "the UTR could not be opened")
	})

	t.Run("header not found", func(t *testing.T) {
		l := utr.DefaultLayout()
		l.MaxHeaderRow = 3
		in := &fillInput{workbook: writeUTR(t, "Tiler"), logs: []string{logFile}}
		err := runFill(context.Background(), in, l)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "could not find header row starting with")
	})

	t.Run("missing columns", func(t *testing.T) {
		l := utr.DefaultLayout()
		l.CommentsColumn = "Notes"
		in := &fillInput{workbook: writeUTR(t, "Tiler"), logs: []string{logFile}}
		err := runFill(context.Background(), in, l)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `could not find columns "Notes"`)
	})

	t.Run("required test missing", func(t *testing.T) {
		in := &fillInput{workbook: writeUTR(t, "Tiler"), logs: []string{logFile}, require: []string{"test_d2c(4096, 4096, 1)"}}
		err := runFill(context.Background(), in, utr.DefaultLayout())
		require.Error(t, err)
		assert.ErrorIs(t, err, testlog.ErrMissingResult)
	})
}

func TestLayoutFromConfig(t *testing.T) {
	defer viper.Reset()

	cmd := NewCmdFill()
	require.NoError(t, cmd.Flags().Set("sheet", "D2C"))
	require.NoError(t, cmd.Flags().Set("empty-row-limit", "5"))
	require.NoError(t, viper.BindPFlags(cmd.Flags()))

	l, err := LayoutFromConfig()
	require.NoError(t, err)
	assert.Equal(t, "D2C", l.SheetName)
	assert.Equal(t, 5, l.EmptyRowLimit)
	assert.Equal(t, "Test Case\nID", l.HeaderLabel)
	assert.Equal(t, 99, l.MaxColumn)

	assert.Equal(t, []string{testlog.DefaultRequiredTest}, RequiredTests())
	require.NoError(t, cmd.Flags().Set("require", ""))
	assert.Empty(t, RequiredTests())
}

func TestRequiredTests(t *testing.T) {
	tests := []struct {
		name   string
		env    string
		config string
		want   []string
	}{
		{
			name: "flag default",
			want: []string{testlog.DefaultRequiredTest},
		},
		{
			name: "environment string",
			env:  "test_d2c(176, 144, 1)",
			want: []string{"test_d2c(176, 144, 1)"},
		},
		{
			name:   "config scalar",
			config: "require: test_d2c(640, 480, 1)\n",
			want:   []string{"test_d2c(640, 480, 1)"},
		},
		{
			name:   "config list",
			config: "require:\n  - test_d2c(640, 480, 1)\n  - alloc_1D_test(4096, 0)\n",
			want:   []string{"test_d2c(640, 480, 1)", "alloc_1D_test(4096, 0)"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			t.Cleanup(viper.Reset)
			if tt.env != "" {
				t.Setenv("UTRFILL_REQUIRE", tt.env)
			}
			viper.SetEnvPrefix("UTRFILL")
			viper.AutomaticEnv()
			if tt.config != "" {
				viper.SetConfigType("yaml")
				require.NoError(t, viper.ReadConfig(strings.NewReader(tt.config)))
			}
			require.NoError(t, viper.BindPFlags(NewCmdFill().Flags()))

			assert.Equal(t, tt.want, RequiredTests())
		})
	}
}
