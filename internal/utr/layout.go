// Package utr locates and fills the result columns of a User Test Report
// (UTR) worksheet.
package utr

import (
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// Layout describes where the UTR keeps its header and result columns.
type Layout struct {
	// SheetName is the expected name of the active worksheet.
	SheetName string `mapstructure:"sheet"`
	// TitleCell must hold Title, e.g. A1 == "Test Metrics".
	TitleCell string `mapstructure:"title-cell"`
	Title     string `mapstructure:"title"`

	// HeaderLabel is searched in the first column to find the header row.
	HeaderLabel string `mapstructure:"header"`

	StatusColumn      string `mapstructure:"status-column"`
	DetailsColumn     string `mapstructure:"details-column"`
	CommentsColumn    string `mapstructure:"comments-column"`
	DescriptionColumn string `mapstructure:"description-column"`

	// Scan bounds, inclusive.
	MaxHeaderRow int `mapstructure:"max-header-row"`
	MaxColumn    int `mapstructure:"max-column"`

	// EmptyRowLimit stops the row walk after that many consecutive rows
	// without Details and Description.
	EmptyRowLimit int `mapstructure:"empty-row-limit"`
}

// DefaultLayout matches the Tiler/D2C user space worksheet.
func DefaultLayout() *Layout {
	return &Layout{
		SheetName:         "Tiler",
		TitleCell:         "A1",
		Title:             "Test Metrics",
		HeaderLabel:       "Test Case\nID",
		StatusColumn:      "Status",
		DetailsColumn:     "Details",
		CommentsColumn:    "Comments",
		DescriptionColumn: "Test Case\nDescription",
		MaxHeaderRow:      99,
		MaxColumn:         99,
		EmptyRowLimit:     20,
	}
}

// Validate checks the layout is usable.
func (l *Layout) Validate() error {
	if _, _, err := excelize.CellNameToCoordinates(l.TitleCell); err != nil {
		return errors.Wrapf(err, "invalid title cell %q", l.TitleCell)
	}
	if l.HeaderLabel == "" {
		return errors.New("header label must not be empty")
	}
	for _, name := range l.columnNames() {
		if name == "" {
			return errors.New("column names must not be empty")
		}
	}
	if l.MaxHeaderRow < 1 || l.MaxColumn < 1 {
		return errors.Errorf("scan bounds must be positive: rows=%d columns=%d", l.MaxHeaderRow, l.MaxColumn)
	}
	if l.EmptyRowLimit < 1 {
		return errors.Errorf("empty row limit must be positive: %d", l.EmptyRowLimit)
	}
	return nil
}

func (l *Layout) columnNames() []string {
	return []string{l.StatusColumn, l.DetailsColumn, l.CommentsColumn, l.DescriptionColumn}
}
