package dataset

import (
	"strconv"
	"strings"
	"time"
)

// naTokens are cell texts read as missing values.
var naTokens = map[string]struct{}{
	"": {}, "na": {}, "n/a": {}, "nan": {}, "null": {}, "none": {}, "#n/a": {},
}

// IsNAToken reports whether a raw cell text denotes a missing value.
func IsNAToken(s string) bool {
	_, ok := naTokens[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// TypedColumn converts raw cell texts into a column: all-numeric cells become
// float64, all-datetime cells become time.Time, anything else stays text.
func TypedColumn(name string, cells []string, opt LoadOptions) *Column {
	nums := make([]any, len(cells))
	times := make([]any, len(cells))
	allNum, allTime := true, true
	for i, raw := range cells {
		v := strings.TrimSpace(raw)
		if IsNAToken(v) {
			continue
		}
		if allNum {
			if x, ok := parseNumeric(v, opt); ok {
				nums[i] = x
			} else {
				allNum = false
			}
		}
		if allTime {
			if t, ok := parseTimeMaybe(v); ok {
				times[i] = t
			} else {
				allTime = false
			}
		}
		if !allNum && !allTime {
			break
		}
	}
	col := &Column{Name: name}
	switch {
	case allNum:
		col.Values = nums
	case allTime:
		col.Values = times
	default:
		texts := make([]any, len(cells))
		for i, raw := range cells {
			v := strings.TrimSpace(raw)
			if IsNAToken(v) {
				continue
			}
			texts[i] = v
		}
		col.Values = texts
	}
	col.Type = Classify(col)
	return col
}

func parseTimeMaybe(s string) (time.Time, bool) {
	layouts := []string{
		time.RFC3339, "2006-01-02", "2006/01/02", "02/01/2006", "01/02/2006",
		"2006-01-02 15:04", "2006-01-02 15:04:05", "1/2/2006 15:04", "1/2/2006 15:04:05",
	}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseNumeric(s string, opt LoadOptions) (float64, bool) {
	raw := strings.TrimSpace(s)
	raw = strings.TrimSuffix(raw, "%")
	raw = strings.ReplaceAll(raw, "\u00A0", " ")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	dec := opt.DecimalSeparator
	thou := opt.ThousandsSeparator
	if dec == 0 {
		cpos := strings.LastIndex(raw, ",")
		dpos := strings.LastIndex(raw, ".")
		if cpos >= 0 && dpos >= 0 {
			if cpos > dpos {
				dec = ','
				thou = '.'
			} else {
				dec = '.'
				thou = ','
			}
		} else if cpos >= 0 {
			dec = ','
		} else {
			dec = '.'
		}
	}
	if thou == 0 {
		for _, sep := range []rune{',', '.', ' '} {
			if sep != dec {
				raw = strings.ReplaceAll(raw, string(sep), "")
			}
		}
	} else if thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
