package directions

import (
	"fmt"
	"math"
)

// FormatDuration renders seconds as provider-style display text: minutes
// rounded to nearest below an hour, "X hr Y min" above.
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return "1 min"
	}

	minutes := int(math.Round(float64(seconds) / 60))
	if minutes < 1 {
		minutes = 1
	}

	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}

	hours := minutes / 60
	rest := minutes % 60
	if rest == 0 {
		return fmt.Sprintf("%d hr", hours)
	}
	return fmt.Sprintf("%d hr %d min", hours, rest)
}

// FormatDistance renders meters as display text: whole meters below 1 km, one
// decimal of kilometers below 10 km, whole kilometers above unless the rounded
// value lands on a nonzero tenth. Rounding is half away from zero, not the
// half-to-even rule the %f verbs apply.
func FormatDistance(meters int) string {
	if meters < 1000 {
		return fmt.Sprintf("%d m", meters)
	}

	tenths := int(math.Round(float64(meters) / 100))
	if meters < 10000 || tenths%10 != 0 {
		return fmt.Sprintf("%.1f km", float64(tenths)/10)
	}
	return fmt.Sprintf("%d km", tenths/10)
}
