// Package util holds small formatting helpers for the status line.
package util

import (
	"fmt"
	"strconv"
	"time"
)

// FormatDuration formats a duration as m:ss, or h:mm:ss past an hour.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	h, m, s := total/3600, total/60%60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatFrequency formats Hz with a kHz suffix from 1000 Hz up.
func FormatFrequency(hz float64) string {
	if hz >= 1000 {
		return strconv.FormatFloat(hz/1000, 'f', 2, 64) + " kHz"
	}
	return strconv.FormatFloat(hz, 'f', 0, 64) + " Hz"
}
