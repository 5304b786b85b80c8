package chart

import (
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	log "github.com/sirupsen/logrus"

	"github.com/omap-tiler/utrfill/internal/testlog"
)

var statusLabels = []struct {
	status testlog.Status
	label  string
}{
	{testlog.StatusPass, "Passed"},
	{testlog.StatusFail, "Failed"},
	{testlog.StatusUnavailable, "Not available"},
	{testlog.StatusUnknown, "Unknown"},
}

// NewResultsPage creates the page object holding the result charts.
func NewResultsPage(title string) *components.Page {
	page := components.NewPage()
	page.PageTitle = title
	return page
}

// NewStatusPie plots the number of results per status.
func NewStatusPie(title string, counts map[testlog.Status]int) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: title,
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "item"}),
	)

	data := make([]opts.PieData, 0, len(statusLabels))
	for _, sl := range statusLabels {
		if counts[sl.status] == 0 {
			continue
		}
		data = append(data, opts.PieData{Name: sl.label, Value: counts[sl.status]})
	}
	pie.AddSeries("status", data)
	return pie
}

// NewFailureBar plots the failed tests per error code.
func NewFailureBar(title string, failures testlog.FailureCounter) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: title,
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
	)

	codes := sortedCodes(failures)
	data := make([]opts.BarData, 0, len(codes))
	for _, code := range codes {
		data = append(data, opts.BarData{Value: failures[code]})
	}
	bar.SetXAxis(codes).AddSeries("failures", data)
	return bar
}

// SaveResultsPage renders the page as a HTML file at path.
func SaveResultsPage(page *components.Page, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := page.Render(io.MultiWriter(f)); err != nil {
		return err
	}
	log.Infof("Results chart saved to %s", path)
	return nil
}
