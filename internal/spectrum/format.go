package spectrum

import (
	"fmt"
	"math"
	"strings"
)

const (
	SpectrumBarWidth = 12
	EnergyBarWidth   = 8
)

// Ratio divides part by whole, clamped to [0, 1]. A non-positive whole yields 0.
func Ratio(part, whole int) float64 {
	if whole <= 0 || part <= 0 {
		return 0
	}
	return Clamp(float64(part) / float64(whole))
}

// Clamp limits r to [0, 1] and maps NaN to 0.
func Clamp(r float64) float64 {
	if math.IsNaN(r) || r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}

// Bar renders a fixed-width bar with round(ratio*width) filled cells.
func Bar(ratio float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(math.Round(Clamp(ratio) * float64(width)))
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// Percent formats a ratio as a rounded whole percentage, e.g. "35%".
func Percent(ratio float64) string {
	return fmt.Sprintf("%d%%", PercentInt(ratio))
}

// PercentInt returns the ratio as a rounded whole percentage.
func PercentInt(ratio float64) int {
	return int(math.Round(Clamp(ratio) * 100))
}

// FormatDuration formats minutes as "Xh Ymin".
func FormatDuration(minutes int) string {
	if minutes <= 0 {
		return "0min"
	}
	h := minutes / 60
	m := minutes % 60
	if h == 0 {
		return fmt.Sprintf("%dmin", m)
	}
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dmin", h, m)
}
