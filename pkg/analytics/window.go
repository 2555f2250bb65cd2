package analytics

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MaxWindowDays bounds the numeric days parameter.
const MaxWindowDays = 365

// Window is a trailing time range ending now.
type Window struct {
	Days int
	// Timeframe is the literal flag the caller used, or "<n>d" for a numeric request.
	Timeframe string
}

var timeframeDays = map[string]int{
	"day":   1,
	"week":  7,
	"month": 30,
	"7d":    7,
	"30d":   30,
	"90d":   90,
}

// ParseWindow accepts either a numeric days value or a literal timeframe
// flag (7d, 30d, 90d, day, week, month). days wins when both are set; an
// empty request yields defaultDays.
func ParseWindow(timeframe, days string, defaultDays int) (Window, error) {
	if d := strings.TrimSpace(days); d != "" {
		n, err := strconv.Atoi(d)
		if err != nil || n < 1 || n > MaxWindowDays {
			return Window{}, fmt.Errorf("days must be an integer between 1 and %d", MaxWindowDays)
		}
		return Window{Days: n, Timeframe: fmt.Sprintf("%dd", n)}, nil
	}
	if tf := strings.ToLower(strings.TrimSpace(timeframe)); tf != "" {
		n, ok := timeframeDays[tf]
		if !ok {
			return Window{}, fmt.Errorf("unsupported timeframe %q (use 7d, 30d, 90d, day, week or month)", timeframe)
		}
		return Window{Days: n, Timeframe: tf}, nil
	}
	return Window{Days: defaultDays, Timeframe: fmt.Sprintf("%dd", defaultDays)}, nil
}

// Since is the start of the window relative to now.
func (w Window) Since(now time.Time) time.Time {
	return now.UTC().AddDate(0, 0, -w.Days)
}

// Period is the label used in responses, e.g. last_30_days.
func (w Window) Period() string {
	return fmt.Sprintf("last_%d_days", w.Days)
}
