package utr

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

var (
	ErrWrongSheet     = errors.New("unexpected worksheet")
	ErrHeaderNotFound = errors.New("header row not found")
)

// MissingColumnsError lists the column names absent from the header row.
type MissingColumnsError struct {
	Names []string
}

func (e *MissingColumnsError) Error() string {
	quoted := make([]string, 0, len(e.Names))
	for _, n := range e.Names {
		quoted = append(quoted, fmt.Sprintf("%q", n))
	}
	return "could not find columns " + strings.Join(quoted, ", ")
}

// Columns holds the 1-based indexes of the result columns.
type Columns struct {
	Status      int
	Details     int
	Comments    int
	Description int
}

// Table is the located result table of a UTR sheet.
type Table struct {
	HeaderRow int
	Columns   Columns
}

// Verify checks the active sheet name and title cell.
func Verify(s Sheet, l *Layout) error {
	col, row, err := excelize.CellNameToCoordinates(l.TitleCell)
	if err != nil {
		return errors.Wrapf(err, "invalid title cell %q", l.TitleCell)
	}
	title, err := s.CellText(row, col)
	if err != nil {
		return err
	}
	if s.Name() != l.SheetName || title != l.Title {
		return errors.Wrapf(ErrWrongSheet, "found sheet %q with %q in %s", s.Name(), title, l.TitleCell)
	}
	return nil
}

// FindHeader returns the first row whose first cell equals the header label.
func FindHeader(s Sheet, l *Layout) (int, error) {
	for r := 1; r <= l.MaxHeaderRow; r++ {
		v, err := s.CellText(r, 1)
		if err != nil {
			return 0, err
		}
		if v == l.HeaderLabel {
			return r, nil
		}
	}
	return 0, errors.WithStack(ErrHeaderNotFound)
}

// ResolveColumns maps the layout column names to indexes on the header row.
// The first occurrence of a name wins.
func ResolveColumns(s Sheet, l *Layout, headerRow int) (*Columns, error) {
	found := map[string]int{}
	wanted := map[string]bool{}
	for _, name := range l.columnNames() {
		wanted[name] = true
	}
	for c := 1; c <= l.MaxColumn; c++ {
		v, err := s.CellText(headerRow, c)
		if err != nil {
			return nil, err
		}
		if _, ok := found[v]; !ok && wanted[v] {
			found[v] = c
		}
	}

	missing := []string{}
	for _, name := range l.columnNames() {
		if _, ok := found[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Names: missing}
	}
	return &Columns{
		Status:      found[l.StatusColumn],
		Details:     found[l.DetailsColumn],
		Comments:    found[l.CommentsColumn],
		Description: found[l.DescriptionColumn],
	}, nil
}

// Locate verifies the sheet and finds its result table.
func Locate(s Sheet, l *Layout) (*Table, error) {
	if err := Verify(s, l); err != nil {
		return nil, err
	}
	row, err := FindHeader(s, l)
	if err != nil {
		return nil, err
	}
	cols, err := ResolveColumns(s, l, row)
	if err != nil {
		return nil, err
	}
	log.Debugf("utr: header at row %d, columns %+v", row, *cols)
	return &Table{HeaderRow: row, Columns: *cols}, nil
}
