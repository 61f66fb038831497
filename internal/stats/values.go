package stats

import (
	"cmp"
	"fmt"
	"time"

	"github.com/KaramelBytes/summarizer-cli/internal/dataset"
)

// rank orders values of different kinds: numbers < times < bools < text < other.
const (
	rankNumber = iota
	rankTime
	rankBool
	rankText
	rankOther
)

// key identifies a value for distinct counting; 1 and 1.0 share a key.
type key struct {
	rank  int
	num   float64
	nanos int64
	text  string
}

func keyOf(v any) key {
	if f, ok := dataset.AsFloat(v); ok {
		if f == 0 {
			f = 0 // fold -0
		}
		return key{rank: rankNumber, num: f}
	}
	switch x := v.(type) {
	case time.Time:
		return key{rank: rankTime, nanos: x.UnixNano()}
	case bool:
		if x {
			return key{rank: rankBool, num: 1}
		}
		return key{rank: rankBool}
	case string:
		return key{rank: rankText, text: x}
	}
	return key{rank: rankOther, text: fmt.Sprint(v)}
}

func compareKeys(a, b key) int {
	if c := cmp.Compare(a.rank, b.rank); c != 0 {
		return c
	}
	if c := cmp.Compare(a.num, b.num); c != 0 {
		return c
	}
	if c := cmp.Compare(a.nanos, b.nanos); c != 0 {
		return c
	}
	return cmp.Compare(a.text, b.text)
}

// Compare orders two values naturally: numbers ascending, times
// chronologically, text lexicographically; mixed kinds by kind.
func Compare(a, b any) int {
	return compareKeys(keyOf(a), keyOf(b))
}

// Unique counts distinct non-null values.
func Unique(values []any) int {
	seen := make(map[key]struct{}, len(values))
	for _, v := range values {
		if dataset.IsNull(v) {
			continue
		}
		seen[keyOf(v)] = struct{}{}
	}
	return len(seen)
}

// Mode returns the most frequent non-null value. Ties resolve to the smallest
// value in natural order. ok is false when there are no non-null values.
func Mode(values []any) (mode any, ok bool) {
	type entry struct {
		first any
		count int
	}
	counts := make(map[key]*entry, len(values))
	for _, v := range values {
		if dataset.IsNull(v) {
			continue
		}
		k := keyOf(v)
		if e, found := counts[k]; found {
			e.count++
			continue
		}
		counts[k] = &entry{first: v, count: 1}
	}
	var best *entry
	for _, e := range counts {
		if best == nil || e.count > best.count || (e.count == best.count && Compare(e.first, best.first) < 0) {
			best = e
		}
	}
	if best == nil {
		return nil, false
	}
	return best.first, true
}
