// Package report writes forecast tables and design matrices to csv, xlsx, html and png.
package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/aouyang1/go-ricecast/panel"
	"github.com/aouyang1/go-ricecast/rollout"
	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrNoRecords         = errors.New("no forecast records")
	ErrHeaderMismatch    = errors.New("header does not match design matrix width")
	ErrTargetLenMismatch = errors.New("target length does not match design matrix rows")
)

// RegionRow is one line of the per region forecast table.
type RegionRow struct {
	Region string     `csv:"Kabupaten_Kota"`
	Date   panel.Date `csv:"Tanggal"`
	PredA  float64    `csv:"RF_Pred"`
	PredB  float64    `csv:"LGBM_Pred"`
	Blend  float64    `csv:"Blended_Pred"`
}

// ProvinceRow is one line of the province total table.
type ProvinceRow struct {
	Date  panel.Date `csv:"Tanggal"`
	PredA float64    `csv:"RF_Pred"`
	PredB float64    `csv:"LGBM_Pred"`
	Blend float64    `csv:"Blended_Pred"`
}

// RegionRows converts rollout records into table rows keeping their order.
func RegionRows(records []rollout.Record) []RegionRow {
	rows := make([]RegionRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, RegionRow{
			Region: rec.Region,
			Date:   panel.Date{Time: rec.Date},
			PredA:  rec.PredA,
			PredB:  rec.PredB,
			Blend:  rec.Blend,
		})
	}
	return rows
}

// ProvinceRows converts province totals into table rows keeping their order.
func ProvinceRows(province []rollout.ProvinceRecord) []ProvinceRow {
	rows := make([]ProvinceRow, 0, len(province))
	for _, rec := range province {
		rows = append(rows, ProvinceRow{
			Date:  panel.Date{Time: rec.Date},
			PredA: rec.SumA,
			PredB: rec.SumB,
			Blend: rec.SumBlend,
		})
	}
	return rows
}

// WriteRegionCSV writes the per region forecast table.
func WriteRegionCSV(w io.Writer, records []rollout.Record) error {
	if len(records) == 0 {
		return ErrNoRecords
	}
	rows := RegionRows(records)
	return gocsv.Marshal(&rows, w)
}

// WriteProvinceCSV writes the province total table.
func WriteProvinceCSV(w io.Writer, province []rollout.ProvinceRecord) error {
	if len(province) == 0 {
		return ErrNoRecords
	}
	rows := ProvinceRows(province)
	return gocsv.Marshal(&rows, w)
}

// SaveCSV writes the forecasts of a run to a region file and a province file.
func SaveCSV(regionPath, provincePath string, res *rollout.Results) error {
	if res == nil {
		return ErrNoRecords
	}
	if err := writeFile(regionPath, func(w io.Writer) error {
		return WriteRegionCSV(w, res.Records)
	}); err != nil {
		return err
	}
	return writeFile(provincePath, func(w io.Writer) error {
		return WriteProvinceCSV(w, res.Province())
	})
}

// WriteDesign writes a design matrix with one column per feature followed by the target
// column. Names must match the matrix width and y its number of rows.
func WriteDesign(w io.Writer, names []string, target string, x mat.Matrix, y []float64) error {
	r, c := x.Dims()
	if len(names) != c {
		return fmt.Errorf("%d names for %d columns, %w", len(names), c, ErrHeaderMismatch)
	}
	if len(y) != r {
		return fmt.Errorf("%d targets for %d rows, %w", len(y), r, ErrTargetLenMismatch)
	}

	cw := gocsv.DefaultCSVWriter(w)
	header := make([]string, 0, c+1)
	header = append(header, names...)
	header = append(header, target)
	if err := cw.Write(header); err != nil {
		return err
	}

	line := make([]string, c+1)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			line[j] = strconv.FormatFloat(x.At(i, j), 'g', -1, 64)
		}
		line[c] = strconv.FormatFloat(y[i], 'g', -1, 64)
		if err := cw.Write(line); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveDesign writes a design matrix to path.
func SaveDesign(path string, names []string, target string, x mat.Matrix, y []float64) error {
	return writeFile(path, func(w io.Writer) error {
		return WriteDesign(w, names, target, x, y)
	})
}

func writeFile(path string, write func(w io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(file); err != nil {
		file.Close()
		return fmt.Errorf("unable to write %s, %w", path, err)
	}
	return file.Close()
}
