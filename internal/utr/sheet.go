package utr

import (
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// Sheet is the worksheet the UTR is filled into. Rows and columns are
// 1-based.
type Sheet interface {
	Name() string
	CellText(row, col int) (string, error)
	SetCellValue(row, col int, value interface{}) error
}

// Workbook is an xlsx file whose active worksheet is exposed as a Sheet.
type Workbook struct {
	Path  string
	file  *excelize.File
	sheet string
}

// OpenWorkbook opens the xlsx file at path.
func OpenWorkbook(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open workbook %s", path)
	}
	wb := NewWorkbook(f)
	wb.Path = path
	log.Debugf("utr: opened workbook %s, active sheet %q", path, wb.sheet)
	return wb, nil
}

// NewWorkbook wraps an already open excelize file.
func NewWorkbook(f *excelize.File) *Workbook {
	return &Workbook{
		file:  f,
		sheet: f.GetSheetName(f.GetActiveSheetIndex()),
	}
}

// Name returns the name of the active worksheet.
func (wb *Workbook) Name() string {
	return wb.sheet
}

// CellText returns the displayed text of a cell, with Windows line breaks
// folded into \n.
func (wb *Workbook) CellText(row, col int) (string, error) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", err
	}
	v, err := wb.file.GetCellValue(wb.sheet, cell)
	if err != nil {
		return "", errors.Wrapf(err, "could not read cell %s", cell)
	}
	return strings.ReplaceAll(v, "\r\n", "\n"), nil
}

func (wb *Workbook) SetCellValue(row, col int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := wb.file.SetCellValue(wb.sheet, cell, value); err != nil {
		return errors.Wrapf(err, "could not write cell %s", cell)
	}
	return nil
}

// Save writes the workbook back to the file it was opened from.
func (wb *Workbook) Save() error {
	return wb.file.Save()
}

func (wb *Workbook) SaveAs(path string) error {
	return wb.file.SaveAs(path)
}

func (wb *Workbook) Close() error {
	return wb.file.Close()
}
