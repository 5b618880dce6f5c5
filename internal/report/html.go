package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/krishkumar84/assignmentDude/internal/models"
)

// RenderHTML writes a chart-based HTML rendition of a report: one bar chart
// for event type counts and one for the severity breakdown.
func RenderHTML(r models.Report, w io.Writer) error {
	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("Proctoring Report - %s", r.SessionInfo.CandidateName)
	page.AddCharts(
		eventTypeChart(r),
		severityChart(r),
	)
	return page.Render(w)
}

func eventTypeChart(r models.Report) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "Event Summary",
			Subtitle: fmt.Sprintf("Integrity score %.1f/100 - %s",
				r.IntegrityScore, r.IntegrityGrade),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	types := []models.EventType{
		models.EventLookingAway,
		models.EventNoFace,
		models.EventMultipleFaces,
		models.EventUnauthorizedObject,
	}

	labels := make([]string, 0, len(types))
	items := make([]opts.BarData, 0, len(types))
	for _, t := range types {
		labels = append(labels, strings.ReplaceAll(string(t), "_", " "))
		items = append(items, opts.BarData{Value: r.EventAnalysis.EventTypes[t]})
	}

	bar.SetXAxis(labels).AddSeries("Events", items)
	return bar
}

func severityChart(r models.Report) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Severity Breakdown"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	severities := []models.Severity{
		models.SeverityLow,
		models.SeverityMedium,
		models.SeverityHigh,
		models.SeverityCritical,
	}

	labels := make([]string, 0, len(severities))
	items := make([]opts.BarData, 0, len(severities))
	for _, s := range severities {
		labels = append(labels, string(s))
		items = append(items, opts.BarData{Value: r.EventAnalysis.SeverityBreakdown[s]})
	}

	bar.SetXAxis(labels).AddSeries("Severity", items)
	return bar
}
