package parse

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/omap-tiler/utrfill/internal/chart"
	"github.com/omap-tiler/utrfill/internal/summary"
	"github.com/omap-tiler/utrfill/internal/utr"
	"github.com/omap-tiler/utrfill/pkg/api"
	"github.com/omap-tiler/utrfill/pkg/cmd/fill"
)

const (
	outputTable = "table"
	outputYAML  = "yaml"
	outputJSON  = "json"
)

type parseInput struct {
	output    string
	suiteName string
	junitFile string
	xlsxFile  string
	chartFile string
	require   []string
	logs      []string
}

func NewCmdParse() *cobra.Command {
	data := parseInput{}
	cmd := &cobra.Command{
		Use:     "parse [test.log ...]",
		Example: "utrfill parse --junit results.xml < test.log",
		Short:   "Parse test logs and show or export the results.",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			switch data.output {
			case outputTable, outputYAML, outputJSON:
			default:
				return fmt.Errorf("invalid --output %q, valid: %s, %s, %s", data.output, outputTable, outputYAML, outputJSON)
			}
			return viper.BindPFlags(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			data.logs = args
			data.require = fill.RequiredTests()
			return runParse(cmd.Context(), &data, os.Stdout)
		},
	}

	cmd.Flags().StringVarP(&data.output, "output", "o", outputTable, "Output format. Valid: table, yaml, json.")
	cmd.Flags().StringVar(&data.suiteName, "suite-name", "utrfill", "Test suite name used in the JUnit export.")
	cmd.Flags().StringVar(&data.junitFile, "junit", "", "Save the results as JUnit XML. Example: --junit results.xml")
	cmd.Flags().StringVar(&data.xlsxFile, "xlsx", "", "Save the results index as a spreadsheet. Example: --xlsx results.xlsx")
	cmd.Flags().StringVar(&data.chartFile, "chart", "", "Save the status chart as HTML. Example: --chart results.html")
	fill.AddRequireFlag(cmd)
	return cmd
}

func runParse(ctx context.Context, in *parseInput, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	p, err := fill.ParseLogs(ctx, in.logs, in.require)
	if err != nil {
		return err
	}

	ps := summary.NewParseSummary(p)
	switch in.output {
	case outputYAML:
		out, err := ps.YAML()
		if err != nil {
			return errors.Wrap(err, "unable to encode results as yaml")
		}
		fmt.Fprint(w, string(out))
	case outputJSON:
		out, err := ps.JSON()
		if err != nil {
			return errors.Wrap(err, "unable to encode results as json")
		}
		fmt.Fprintln(w, string(out))
	default:
		fmt.Fprintf(w, "\n=== Results ===\n")
		_ = summary.PrintTable(w, summary.ResultsTable(p.Results()))
		fmt.Fprintf(w, "\n=== Status ===\n")
		_ = summary.PrintTable(w, summary.CountsTable(p.Results().Counts()))
		if len(p.Failures()) > 0 {
			fmt.Fprintf(w, "\n=== Failures by error code ===\n")
			_ = summary.PrintTable(w, summary.FailuresTable(p.Failures()))
		}
		if t := p.Tally(); t != nil {
			fmt.Fprintf(w, "\nLog summary: FAILED: %d, SUCCEEDED: %d, UNAVAILABLE: %d\n", t.Failed, t.Succeeded, t.Unavailable)
		}
	}

	if in.junitFile != "" {
		if err := api.NewJUnitTestSuite(in.suiteName, p.Results(), p.Tally()).Save(in.junitFile); err != nil {
			return err
		}
	}
	if in.xlsxFile != "" {
		if err := utr.SaveResultsIndex(p.Results(), in.xlsxFile); err != nil {
			return err
		}
	}
	if in.chartFile != "" {
		page := chart.NewResultsPage("UTR test results")
		page.AddCharts(chart.NewStatusPie("Results by status", p.Results().Counts()))
		if len(p.Failures()) > 0 {
			page.AddCharts(chart.NewFailureBar("Failures by error code", p.Failures()))
		}
		if err := chart.SaveResultsPage(page, in.chartFile); err != nil {
			return errors.Wrapf(err, "unable to save chart %s", in.chartFile)
		}
	}
	log.Debugf("parse: %d results, %d pending", p.Results().Len(), len(p.Pending()))
	return nil
}
