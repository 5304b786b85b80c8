package fill

import (
	"context"
	"errors"
	"fmt"
	"os"

	pkgerrors "github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/omap-tiler/utrfill/internal/metrics"
	"github.com/omap-tiler/utrfill/internal/summary"
	"github.com/omap-tiler/utrfill/internal/testlog"
	"github.com/omap-tiler/utrfill/internal/utr"
)

type fillInput struct {
	workbook string
	output   string
	dryRun   bool
	verbose  bool
	require  []string
	logs     []string
}

func NewCmdFill() *cobra.Command {
	data := fillInput{}
	cmd := &cobra.Command{
		Use:   "fill --workbook UTR.xlsx [test.log ...]",
		Short: "Fill the UTR with the results of MemMgr/D2C test logs.",
		Long: `Fill the Status and Comments columns of the UTR worksheet from test logs.
Logs are read from the files given as arguments (.xz compressed files are supported)
or from stdin. Rows are matched by the last line of their Details cell.`,
		Example: `  memmgr_test > test.log
  d2c_test >> test.log
  utrfill fill --workbook UTR.xlsx < test.log`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return viper.BindPFlags(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			data.logs = args
			data.require = RequiredTests()
			layout, err := LayoutFromConfig()
			if err != nil {
				return err
			}
			return runFill(cmd.Context(), &data, layout)
		},
	}

	cmd.Flags().StringVarP(&data.workbook, "workbook", "w", "", "UTR workbook (xlsx) to be filled. Example: -w UTR.xlsx")
	cmd.Flags().StringVarP(&data.output, "output", "o", "", "Save the filled workbook to this file instead of overwriting --workbook.")
	cmd.Flags().BoolVar(&data.dryRun, "dry-run", false, "Fill the worksheet in memory and skip saving it.")
	cmd.Flags().BoolVarP(&data.verbose, "verbose", "v", false, "Show every row written to the UTR.")
	_ = cmd.MarkFlagRequired("workbook")

	AddRequireFlag(cmd)
	AddLayoutFlags(cmd)
	return cmd
}

// AddRequireFlag adds the --require flag, holding the test cases that must
// have a result in the logs.
func AddRequireFlag(cmd *cobra.Command) {
	cmd.Flags().StringArray("require", []string{testlog.DefaultRequiredTest},
		"Test case descriptions that must be present in the logs. Repeat the flag for several tests, use --require= to disable the check.")
}

// RequiredTests returns the non empty --require values. A plain string from
// the environment or the config file is a single description.
func RequiredTests() []string {
	var values []string
	switch v := viper.Get("require").(type) {
	case string:
		values = []string{v}
	case []string:
		values = v
	case []interface{}:
		for _, item := range v {
			values = append(values, fmt.Sprint(item))
		}
	default:
		values = viper.GetStringSlice("require")
	}

	descs := []string{}
	for _, desc := range values {
		if desc != "" {
			descs = append(descs, desc)
		}
	}
	return descs
}

// AddLayoutFlags adds the flags describing the UTR worksheet.
func AddLayoutFlags(cmd *cobra.Command) {
	l := utr.DefaultLayout()
	cmd.Flags().String("sheet", l.SheetName, "Expected name of the active worksheet.")
	cmd.Flags().String("title-cell", l.TitleCell, "Cell holding the worksheet title.")
	cmd.Flags().String("title", l.Title, "Expected worksheet title.")
	cmd.Flags().String("header", l.HeaderLabel, "Label of the first header cell.")
	cmd.Flags().String("status-column", l.StatusColumn, "Header of the Status column.")
	cmd.Flags().String("details-column", l.DetailsColumn, "Header of the Details column.")
	cmd.Flags().String("comments-column", l.CommentsColumn, "Header of the Comments column.")
	cmd.Flags().String("description-column", l.DescriptionColumn, "Header of the Description column.")
	cmd.Flags().Int("max-header-row", l.MaxHeaderRow, "Last row searched for the header.")
	cmd.Flags().Int("max-column", l.MaxColumn, "Last column searched for the result columns.")
	cmd.Flags().Int("empty-row-limit", l.EmptyRowLimit, "Stop after this many consecutive rows without Details and Description.")
}

// LayoutFromConfig reads the worksheet layout from flags, environment and
// config file.
func LayoutFromConfig() (*utr.Layout, error) {
	l := utr.DefaultLayout()
	if err := viper.Unmarshal(l); err != nil {
		return nil, pkgerrors.Wrap(err, "invalid worksheet layout")
	}
	if err := l.Validate(); err != nil {
		return nil, pkgerrors.Wrap(err, "invalid worksheet layout")
	}
	return l, nil
}

// ParseLogs loads and parses the logs, logging soft inconsistencies and
// failing when a required test case has no result.
func ParseLogs(ctx context.Context, logs, require []string) (*testlog.Parser, error) {
	lines, err := testlog.Load(ctx, logs)
	if err != nil {
		return nil, err
	}
	p, err := testlog.Parse(lines)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "could not parse test logs")
	}
	for _, w := range p.Warnings() {
		log.Warn(w)
	}
	if err := p.Require(require...); err != nil {
		return nil, pkgerrors.Wrap(err, "test logs look incomplete")
	}
	log.Infof("Parsed %d test results", p.Results().Len())
	return p, nil
}

func runFill(ctx context.Context, in *fillInput, layout *utr.Layout) error {
	if ctx == nil {
		ctx = context.Background()
	}
	timers := metrics.NewTimers()
	timers.Add("total")
	defer timers.Log()

	timers.Set("parse")
	p, err := ParseLogs(ctx, in.logs, in.require)
	if err != nil {
		return err
	}

	timers.Set("open")
	wb, err := utr.OpenWorkbook(in.workbook)
	if err != nil {
		return pkgerrors.Wrap(err, "the UTR could not be opened")
	}
	defer wb.Close()

	timers.Set("fill")
	report, err := utr.Fill(wb, layout, p.Results())
	if err != nil {
		return explainFillError(err, layout)
	}

	if in.verbose {
		fmt.Printf("\n=== Updated rows ===\n")
		_ = summary.PrintTable(os.Stdout, summary.UpdatesTable(report))
	}
	fmt.Printf("\n=== Summary (header at row %d, last row %d) ===\n", report.Table.HeaderRow, report.LastRow)
	_ = summary.PrintTable(os.Stdout, summary.CountsTable(report.Counts()))
	for _, desc := range report.Unknown() {
		log.Warnf("No result for %q, marked as %s", desc, testlog.StatusUnknown)
	}

	timers.Set("save")
	switch {
	case in.dryRun:
		log.Warnf("DRY-RUN mode: skipping save of %s", in.workbook)
	case in.output != "":
		if err := wb.SaveAs(in.output); err != nil {
			return pkgerrors.Wrapf(err, "could not save UTR to %s", in.output)
		}
		log.Infof("UTR saved to %s", in.output)
	default:
		if err := wb.Save(); err != nil {
			return pkgerrors.Wrapf(err, "could not save UTR %s", in.workbook)
		}
		log.Infof("UTR %s updated", in.workbook)
	}
	timers.Add("total")
	return nil
}

// explainFillError turns locator errors into the messages shown to users.
func explainFillError(err error, l *utr.Layout) error {
	var mce *utr.MissingColumnsError
	switch {
	case errors.Is(err, utr.ErrWrongSheet):
		return fmt.Errorf("active worksheet does not seem to be the %s UTR: %w", l.SheetName, err)
	case errors.Is(err, utr.ErrHeaderNotFound):
		return fmt.Errorf("could not find header row starting with %q in the first %d rows: %w", l.HeaderLabel, l.MaxHeaderRow, err)
	case errors.As(err, &mce):
		return fmt.Errorf("the header row is incomplete: %w", err)
	}
	return err
}
