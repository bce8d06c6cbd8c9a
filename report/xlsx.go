package report

import (
	"io"

	"github.com/aouyang1/go-ricecast/panel"
	"github.com/aouyang1/go-ricecast/rollout"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the forecast workbook.
const (
	SheetRegion   = "Forecast_Kabupaten"
	SheetProvince = "Forecast_Provinsi"
)

var (
	regionHeader   = []string{panel.ColRegion, panel.ColDate, "RF_Pred", "LGBM_Pred", "Blended_Pred"}
	provinceHeader = []string{panel.ColDate, "RF_Pred", "LGBM_Pred", "Blended_Pred"}
)

// Workbook builds a workbook with the per region forecasts on the first sheet and the
// province totals on the second.
func Workbook(res *rollout.Results) (*excelize.File, error) {
	if res == nil || len(res.Records) == 0 {
		return nil, ErrNoRecords
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetRegion); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(SheetProvince); err != nil {
		return nil, err
	}

	regionCells := make([][]any, 0, len(res.Records))
	for _, row := range RegionRows(res.Records) {
		regionCells = append(regionCells, []any{
			row.Region, row.Date.Format(panel.DateLayout), row.PredA, row.PredB, row.Blend,
		})
	}
	if err := writeSheet(f, SheetRegion, regionHeader, regionCells); err != nil {
		return nil, err
	}

	province := ProvinceRows(res.Province())
	provinceCells := make([][]any, 0, len(province))
	for _, row := range province {
		provinceCells = append(provinceCells, []any{
			row.Date.Format(panel.DateLayout), row.PredA, row.PredB, row.Blend,
		})
	}
	if err := writeSheet(f, SheetProvince, provinceHeader, provinceCells); err != nil {
		return nil, err
	}
	return f, nil
}

// WriteXLSX writes the forecast workbook.
func WriteXLSX(w io.Writer, res *rollout.Results) error {
	f, err := Workbook(res)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

// SaveXLSX writes the forecast workbook to path.
func SaveXLSX(path string, res *rollout.Results) error {
	f, err := Workbook(res)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]any) error {
	for i, name := range header {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, col+"1", name); err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, 18); err != nil {
			return err
		}
	}
	for i, row := range rows {
		for j, val := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return err
			}
		}
	}
	return nil
}
