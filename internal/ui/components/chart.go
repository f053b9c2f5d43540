package components

import (
	"strings"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/samber/lo"

	"github.com/j-veylop/claude-quota-tui/internal/models"
	"github.com/j-veylop/claude-quota-tui/internal/ui/styles"
)

// DailySeries returns message counts for the days days ending at now, oldest
// first. Days missing from activity count as zero.
func DailySeries(activity []models.DailyActivity, now time.Time, days int) []float64 {
	if days <= 0 {
		return nil
	}

	byDate := lo.SliceToMap(activity, func(d models.DailyActivity) (string, int) {
		return d.Date, d.MessageCount
	})

	series := make([]float64, days)
	for i := range days {
		date := now.AddDate(0, 0, i-days+1).UTC().Format(time.DateOnly)
		series[i] = float64(byDate[date])
	}
	return series
}

// RenderLineChart creates a single-series ASCII line chart.
func RenderLineChart(data []float64, width, height int, caption string) string {
	if len(data) == 0 {
		return styles.HelpStyle.Render("No data available")
	}

	// Ensure minimum dimensions
	if width < 20 {
		width = 20
	}
	if height < 3 {
		height = 3
	}

	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(0),
		asciigraph.SeriesColors(asciigraph.DodgerBlue),
		asciigraph.Caption(caption),
	)
}

// RenderActivityChart plots the daily message counts of the last days days.
func RenderActivityChart(activity []models.DailyActivity, now time.Time, days, width, height int) string {
	if len(activity) == 0 {
		return styles.HelpStyle.Render("No activity recorded")
	}
	return RenderLineChart(DailySeries(activity, now, days), width, height, "messages per day")
}

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderSparkline creates a compact inline sparkline chart.
func RenderSparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	maxVal := lo.Max(values)
	if maxVal == 0 {
		maxVal = 1
	}

	// Sample values to fit width
	var result strings.Builder
	step := float64(len(values)) / float64(width)
	if step < 1 {
		step = 1
	}

	for i := 0; i < width && int(float64(i)*step) < len(values); i++ {
		val := values[int(float64(i)*step)]
		normalized := int((val / maxVal) * float64(len(sparkChars)-1))
		normalized = min(max(normalized, 0), len(sparkChars)-1)
		result.WriteRune(sparkChars[normalized])
	}

	return result.String()
}
