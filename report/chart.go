package report

import (
	"image/color"
	"io"
	"math"
	"time"

	"github.com/aouyang1/go-ricecast/panel"
	"github.com/aouyang1/go-ricecast/rollout"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const provinceTitle = "Province rice production forecast"

var seriesNames = []string{"Random Forest", "LightGBM", "Blended"}

// LineTSeries generates an echart line chart for an arbitrary number of series sharing the
// same time axis. Points that are NaN in the first series are skipped in every series.
func LineTSeries(title string, seriesName []string, t []time.Time, y [][]float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
	)

	lineData := make([][]opts.LineData, len(y))
	filteredT := make([]string, 0, len(t))
	for j := 0; j < len(t); j++ {
		if len(y) > 0 && math.IsNaN(y[0][j]) {
			continue
		}
		filteredT = append(filteredT, t[j].Format(panel.DateLayout))
		for i := range y {
			lineData[i] = append(lineData[i], opts.LineData{Value: y[i][j]})
		}
	}

	line = line.SetXAxis(filteredT)
	for i, series := range seriesName {
		line = line.AddSeries(series, lineData[i])
	}
	return line
}

func provinceSeries(province []rollout.ProvinceRecord) ([]time.Time, [][]float64) {
	t := make([]time.Time, 0, len(province))
	y := make([][]float64, len(seriesNames))
	for _, rec := range province {
		t = append(t, rec.Date)
		y[0] = append(y[0], rec.SumA)
		y[1] = append(y[1], rec.SumB)
		y[2] = append(y[2], rec.SumBlend)
	}
	return t, y
}

// ProvinceLine plots the province totals of both models and their blend.
func ProvinceLine(province []rollout.ProvinceRecord) *charts.Line {
	t, y := provinceSeries(province)
	return LineTSeries(provinceTitle, seriesNames, t, y)
}

// RegionLine plots the forecasts of a single region.
func RegionLine(region string, records []rollout.Record) *charts.Line {
	t := make([]time.Time, 0, len(records))
	y := make([][]float64, len(seriesNames))
	for _, rec := range records {
		t = append(t, rec.Date)
		y[0] = append(y[0], rec.PredA)
		y[1] = append(y[1], rec.PredB)
		y[2] = append(y[2], rec.Blend)
	}
	return LineTSeries(region, seriesNames, t, y)
}

// RenderHTML writes a page with the province chart followed by one chart per region.
func RenderHTML(w io.Writer, res *rollout.Results) error {
	if res == nil || len(res.Records) == 0 {
		return ErrNoRecords
	}
	page := components.NewPage()
	page.AddCharts(ProvinceLine(res.Province()))
	for _, region := range res.Regions {
		page.AddCharts(RegionLine(region, res.Region(region)))
	}
	return page.Render(io.MultiWriter(w))
}

// SaveHTML writes the html chart page to path.
func SaveHTML(path string, res *rollout.Results) error {
	return writeFile(path, func(w io.Writer) error {
		return RenderHTML(w, res)
	})
}

var plotColors = []color.Color{
	color.RGBA{R: 31, G: 119, B: 180, A: 255},
	color.RGBA{R: 255, G: 127, B: 14, A: 255},
	color.RGBA{R: 44, G: 160, B: 44, A: 255},
}

// ProvincePlot draws the province totals as a static figure with one labeled tick per
// forecast month.
func ProvincePlot(province []rollout.ProvinceRecord) (*plot.Plot, error) {
	if len(province) == 0 {
		return nil, ErrNoRecords
	}
	t, y := provinceSeries(province)

	p := plot.New()
	p.Title.Text = provinceTitle
	p.X.Label.Text = "Month"
	p.Y.Label.Text = "Production (ton)"
	p.Add(plotter.NewGrid())

	for i, series := range y {
		points := make(plotter.XYs, len(series))
		for j, v := range series {
			points[j].X = float64(j)
			points[j].Y = v
		}
		line, err := plotter.NewLine(points)
		if err != nil {
			return nil, err
		}
		line.Color = plotColors[i]
		line.Width = vg.Points(2)
		p.Add(line)
		p.Legend.Add(seriesNames[i], line)
	}

	ticks := make([]string, len(t))
	for i, ti := range t {
		ticks[i] = ti.Format("2006-01")
	}
	p.NominalX(ticks...)
	return p, nil
}

// WritePNG renders the province figure as png.
func WritePNG(w io.Writer, province []rollout.ProvinceRecord) error {
	p, err := ProvincePlot(province)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(16*vg.Inch, 8*vg.Inch, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// SavePNG writes the province figure to path.
func SavePNG(path string, province []rollout.ProvinceRecord) error {
	p, err := ProvincePlot(province)
	if err != nil {
		return err
	}
	return p.Save(16*vg.Inch, 8*vg.Inch, path)
}
