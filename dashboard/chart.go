package dashboard

import (
	"strings"

	"sales-dashboard/models"
)

var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// sparkline renders one block per month, scaled between the lowest and
// highest average. A flat series sits at the middle level.
func sparkline(points []models.MonthlyAverage) string {
	if len(points) == 0 {
		return ""
	}
	lo, hi := points[0].AveragePrice, points[0].AveragePrice
	for _, p := range points {
		lo = min(lo, p.AveragePrice)
		hi = max(hi, p.AveragePrice)
	}

	top := len(sparkLevels) - 1
	var b strings.Builder
	for _, p := range points {
		level := top / 2
		if hi > lo {
			level = int((p.AveragePrice-lo)/(hi-lo)*float64(top) + 0.5)
		}
		b.WriteRune(sparkLevels[level])
	}
	return b.String()
}
