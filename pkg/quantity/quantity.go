package quantity

import (
	"strconv"
	"strings"
)

// noneSentinel is what kubectl prints for an unset resource field.
const noneSentinel = "<none>"

// memorySuffixes maps memory quantity suffixes to byte multipliers.
// Order matters: two-letter binary suffixes must be tested before the
// colliding one-letter decimal suffixes so "1Ki" is never matched as "K".
var memorySuffixes = []struct {
	suffix     string
	multiplier float64
}{
	{"KI", 1 << 10},
	{"MI", 1 << 20},
	{"GI", 1 << 30},
	{"TI", 1 << 40},
	{"K", 1e3},
	{"M", 1e6},
	{"G", 1e9},
	{"T", 1e12},
}

// ParseCPU parses a CPU quantity string and returns millicores.
// Empty strings, "0", and "<none>" are genuine zeros. Recognized suffixes:
// "m" (millicores, literal), "u" (microcores), "n" (nanocores); a bare
// number is cores. Fractional intermediate values truncate toward zero.
// The second return value is false when the input was not recognized,
// in which case the value is zero.
func ParseCPU(s string) (int64, bool) {
	v := strings.TrimSpace(s)
	if v == "" || v == "0" || v == noneSentinel {
		return 0, true
	}

	v = strings.ToLower(v)
	switch {
	case strings.HasSuffix(v, "m"):
		f, err := strconv.ParseFloat(strings.TrimSuffix(v, "m"), 64)
		if err != nil || f < 0 {
			return 0, false
		}
		return int64(f), true
	case strings.HasSuffix(v, "u"):
		f, err := strconv.ParseFloat(strings.TrimSuffix(v, "u"), 64)
		if err != nil || f < 0 {
			return 0, false
		}
		return int64(f / 1_000), true
	case strings.HasSuffix(v, "n"):
		f, err := strconv.ParseFloat(strings.TrimSuffix(v, "n"), 64)
		if err != nil || f < 0 {
			return 0, false
		}
		return int64(f / 1_000_000), true
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return 0, false
	}
	return int64(f * 1000), true
}

// ParseMemory parses a memory quantity string and returns bytes.
// Empty strings, "0", and "<none>" are genuine zeros. Suffix matching is
// case-insensitive and follows the ordered multiplier table; a bare
// all-digit string is a raw byte count. The second return value is false
// when the input was not recognized, in which case the value is zero.
func ParseMemory(s string) (int64, bool) {
	v := strings.TrimSpace(s)
	if v == "" || v == "0" || v == noneSentinel {
		return 0, true
	}

	v = strings.ToUpper(v)
	for _, m := range memorySuffixes {
		if !strings.HasSuffix(v, m.suffix) {
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSuffix(v, m.suffix), 64)
		if err != nil || f < 0 {
			return 0, false
		}
		return int64(f * m.multiplier), true
	}

	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
