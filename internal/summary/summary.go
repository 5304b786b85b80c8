// Package summary renders parse and fill results for the terminal and for
// machine readable outputs.
package summary

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/montanaflynn/stats"
	"gopkg.in/yaml.v2"

	"github.com/omap-tiler/utrfill/internal/testlog"
	"github.com/omap-tiler/utrfill/internal/utr"
)

// ParseSummary is the serializable view of a parsed log.
type ParseSummary struct {
	Results  []*testlog.Result      `json:"results" yaml:"results"`
	Counts   map[testlog.Status]int `json:"counts" yaml:"counts"`
	Failures testlog.FailureCounter `json:"failures,omitempty" yaml:"failures,omitempty"`
	Tally    *testlog.Tally         `json:"tally,omitempty" yaml:"tally,omitempty"`
	Pending  []string               `json:"pending,omitempty" yaml:"pending,omitempty"`
}

func NewParseSummary(p *testlog.Parser) *ParseSummary {
	return &ParseSummary{
		Results:  p.Results().List(),
		Counts:   p.Results().Counts(),
		Failures: p.Failures(),
		Tally:    p.Tally(),
		Pending:  p.Pending(),
	}
}

func (ps *ParseSummary) YAML() ([]byte, error) {
	return yaml.Marshal(ps)
}

func (ps *ParseSummary) JSON() ([]byte, error) {
	return json.MarshalIndent(ps, "", "  ")
}

func fmtCol(col string) string {
	return fmt.Sprintf("%-13s", col)
}

// PrintTable writes rows as tab aligned columns.
func PrintTable(w io.Writer, table [][]string) error {
	writer := tabwriter.NewWriter(w, 0, 4, 0, '\t', 0)
	for _, row := range table {
		for _, col := range row {
			fmt.Fprintf(writer, "%s\t", col)
		}
		fmt.Fprintf(writer, "\n")
	}
	return writer.Flush()
}

// ResultsTable lists the parsed results in log order.
func ResultsTable(results *testlog.Results) [][]string {
	tb := [][]string{{fmtCol("#"), fmtCol("STATUS"), fmt.Sprintf("%-50s", "DESCRIPTION"), "COMMENT"}}
	for _, r := range results.List() {
		tb = append(tb, []string{
			fmtCol(fmt.Sprintf("%d", r.Number)),
			fmtCol(string(r.Status)),
			fmt.Sprintf("%-50s", r.Description),
			r.Comment,
		})
	}
	return tb
}

// CountsTable lists the number of results per status and their share of
// the total.
func CountsTable(counts map[testlog.Status]int) [][]string {
	order := []testlog.Status{testlog.StatusPass, testlog.StatusFail, testlog.StatusUnavailable, testlog.StatusUnknown}
	values := stats.Float64Data{}
	for _, st := range order {
		values = append(values, float64(counts[st]))
	}
	total, _ := values.Sum()

	tb := [][]string{{fmtCol("STATUS"), fmtCol("COUNT"), fmtCol("SHARE")}}
	for i, st := range order {
		share := 0.0
		if total > 0 {
			share, _ = stats.Round(values[i]*100/total, 1)
		}
		tb = append(tb, []string{
			fmtCol(string(st)),
			fmtCol(fmt.Sprintf("%d", counts[st])),
			fmtCol(fmt.Sprintf("%.1f%%", share)),
		})
	}
	return tb
}

// FailuresTable lists the failure counters by error code.
func FailuresTable(failures testlog.FailureCounter) [][]string {
	tb := [][]string{{fmt.Sprintf("%-20s", "ERROR CODE"), "COUNTER"}}
	codes := make([]string, 0, len(failures))
	for k := range failures {
		codes = append(codes, k)
	}
	sort.Strings(codes)
	for _, k := range codes {
		tb = append(tb, []string{fmt.Sprintf("%-20s", k), fmt.Sprintf(": %d", failures[k])})
	}
	return tb
}

// UpdatesTable lists the rows written into the UTR.
func UpdatesTable(report *utr.FillReport) [][]string {
	tb := [][]string{{fmtCol("ROW"), fmtCol("STATUS"), fmt.Sprintf("%-50s", "DESCRIPTION"), "COMMENT"}}
	for _, u := range report.Updates {
		tb = append(tb, []string{
			fmtCol(fmt.Sprintf("%d", u.Row)),
			fmtCol(string(u.Status)),
			fmt.Sprintf("%-50s", u.Description),
			u.Comment,
		})
	}
	return tb
}
