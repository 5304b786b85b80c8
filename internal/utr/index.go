package utr

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/omap-tiler/utrfill/internal/testlog"
)

const indexSheetName = "results"

// NewResultsIndex creates a standalone workbook listing every parsed
// result, in log order.
func NewResultsIndex(results *testlog.Results) (*excelize.File, error) {
	sheet := excelize.NewFile()
	if err := sheet.SetSheetName(sheet.GetSheetName(0), indexSheetName); err != nil {
		return nil, err
	}
	createIndexHeader(sheet, indexSheetName)

	rowN := int64(2)
	populateIndex(sheet, indexSheetName, results.List(), &rowN)
	return sheet, nil
}

// SaveResultsIndex writes the results index workbook to path.
func SaveResultsIndex(results *testlog.Results, path string) error {
	sheet, err := NewResultsIndex(results)
	if err != nil {
		return errors.Wrap(err, "could not create results index")
	}
	defer sheet.Close()
	if err := sheet.SaveAs(path); err != nil {
		return errors.Wrapf(err, "could not save results index %s", path)
	}
	log.Infof("Results index saved to %s", path)
	return nil
}

// createIndexHeader creates the spreadsheet headers.
func createIndexHeader(sheet *excelize.File, sheetName string) {
	header := map[string]string{
		"A1": "Index", "B1": "Test_Number", "C1": "Description",
		"D1": "Status", "E1": "Comments"}
	for k, v := range header {
		_ = sheet.SetCellValue(sheetName, k, v)
	}
}

// populateIndex fills one row per result.
func populateIndex(sheet *excelize.File, sheetName string, list []*testlog.Result, rowN *int64) {
	for idx, r := range list {
		row := int(*rowN)
		setRow := func(col int, v interface{}) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = sheet.SetCellValue(sheetName, cell, v)
		}
		setRow(1, idx+1)
		setRow(2, r.Number)
		setRow(3, r.Description)
		setRow(4, string(r.Status))
		setRow(5, r.Comment)
		*rowN += 1
	}
}
