package utr

import (
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/omap-tiler/utrfill/internal/testlog"
)

// RowUpdate is one status/comment pair written into the sheet.
type RowUpdate struct {
	Row         int
	Description string
	Status      testlog.Status
	Comment     string
}

// FillReport summarizes a Populate run.
type FillReport struct {
	Table   *Table
	Updates []RowUpdate
	// LastRow is the last row inspected.
	LastRow int
}

// Counts returns the number of updated rows per status.
func (fr *FillReport) Counts() map[testlog.Status]int {
	counts := map[testlog.Status]int{}
	for _, u := range fr.Updates {
		counts[u.Status]++
	}
	return counts
}

// Unknown returns the descriptions found in the sheet but not in the logs.
func (fr *FillReport) Unknown() []string {
	descs := []string{}
	for _, u := range fr.Updates {
		if u.Status == testlog.StatusUnknown {
			descs = append(descs, u.Description)
		}
	}
	return descs
}

// RowDescription returns the test case description held by a Details cell:
// the text after its last line break.
func RowDescription(details string) string {
	lines := strings.Split(details, "\n")
	return strings.TrimRight(lines[len(lines)-1], " \t\r")
}

// Populate walks the rows below the header of t, writing the status and
// comment of every row with Details. The walk ends after l.EmptyRowLimit
// consecutive rows with neither Details nor Description.
func Populate(s Sheet, t *Table, l *Layout, results *testlog.Results) (*FillReport, error) {
	report := &FillReport{Table: t, Updates: []RowUpdate{}}
	cols := t.Columns

	r := t.HeaderRow
	empties := 0
	for empties < l.EmptyRowLimit {
		r++
		details, err := s.CellText(r, cols.Details)
		if err != nil {
			return nil, err
		}
		if details != "" {
			empties = 0
			desc := RowDescription(details)
			status, comment := results.Lookup(desc)
			if err := s.SetCellValue(r, cols.Status, string(status)); err != nil {
				return nil, err
			}
			if err := s.SetCellValue(r, cols.Comments, comment); err != nil {
				return nil, err
			}
			log.Debugf("utr: row %d: %q => %s %s", r, desc, status, comment)
			report.Updates = append(report.Updates, RowUpdate{
				Row:         r,
				Description: desc,
				Status:      status,
				Comment:     comment,
			})
			continue
		}
		desc, err := s.CellText(r, cols.Description)
		if err != nil {
			return nil, err
		}
		if desc == "" {
			empties++
		}
	}
	report.LastRow = r
	return report, nil
}

// Fill locates the result table of s and populates it from results.
func Fill(s Sheet, l *Layout, results *testlog.Results) (*FillReport, error) {
	t, err := Locate(s, l)
	if err != nil {
		return nil, err
	}
	return Populate(s, t, l, results)
}
