package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
)

func newProgressBar() progress.Model {
	p := progress.New(
		progress.WithSolidFill("#AAAAAA"),
		progress.WithoutPercentage(),
	)
	p.Full, p.Empty = '━', '─'
	return p
}

func progressRatio(elapsed, total time.Duration) float64 {
	if total <= 0 {
		return 0
	}
	return min(max(elapsed.Seconds()/total.Seconds(), 0), 1)
}

func renderVolumePercent(vol float64) string {
	return fmt.Sprintf("vol %d%%", int(vol*100+0.5))
}

func spaces(n int) string {
	return strings.Repeat(" ", max(n, 0))
}
