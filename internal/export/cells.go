package export

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/KaramelBytes/summarizer-cli/internal/dataset"
	"github.com/KaramelBytes/summarizer-cli/internal/summary"
)

const (
	noneRep      = "None"
	timeLayout   = "2006-01-02 15:04:05"
	dateLayout   = "2006-01-02"
	nanosPerSec  = int64(time.Second)
	secondsInDay = int64(24 * 60 * 60)
)

// formatCell renders one summary cell as display text.
func formatCell(v summary.Value, opts Options) string {
	if !v.Applicable() || v.IsNone() {
		return noneRep
	}
	return formatAny(v.Raw(), opts)
}

func formatAny(raw any, opts Options) string {
	switch x := raw.(type) {
	case nil:
		return noneRep
	case dataset.Kind:
		return x.String()
	case float64:
		return formatFloat(x, opts)
	case float32:
		return formatFloat(float64(x), opts)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case time.Time:
		return formatTime(x)
	case time.Duration:
		return formatDuration(x)
	case bool:
		if x {
			return "True"
		}
		return "False"
	case string:
		return x
	}
	if f, ok := dataset.AsFloat(raw); ok {
		return formatFloat(f, opts)
	}
	return fmt.Sprint(raw)
}

func formatFloat(f float64, opts Options) string {
	switch {
	case math.IsNaN(f):
		return opts.NaRep
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	return strconv.FormatFloat(f, 'g', opts.FloatPrecision, 64)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "NaT"
	}
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(dateLayout)
	}
	return t.Format(timeLayout)
}

// formatDuration renders "N days HH:MM:SS", with a fractional part only when present.
func formatDuration(d time.Duration) string {
	sign := ""
	n := int64(d)
	if n < 0 {
		sign = "-"
		n = -n
	}
	secs := n / nanosPerSec
	frac := n % nanosPerSec
	days := secs / secondsInDay
	secs %= secondsInDay
	out := fmt.Sprintf("%s%d days %02d:%02d:%02d", sign, days, secs/3600, secs/60%60, secs%60)
	if frac != 0 {
		out += fmt.Sprintf(".%09d", frac)
	}
	return out
}

// header returns the summary table header, the leading cell left blank.
func header(s *summary.Summary) []string {
	fields := s.Fields()
	out := make([]string, 0, len(fields)+1)
	out = append(out, "")
	for _, f := range fields {
		out = append(out, string(f))
	}
	return out
}

// rows returns the display text of every summary row, column name first.
func rows(s *summary.Summary, opts Options) [][]string {
	fields := s.Fields()
	out := make([][]string, 0, len(s.Columns))
	for _, c := range s.Columns {
		row := make([]string, 0, len(fields)+1)
		row = append(row, c.Column)
		for _, f := range fields {
			row = append(row, formatCell(c.Get(f), opts))
		}
		out = append(out, row)
	}
	return out
}
