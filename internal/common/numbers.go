package common

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// PricePrecision is the number of decimal places every derived share price
// and percentage is rounded to.
const PricePrecision = 4

// Round4 rounds to PricePrecision decimal places, half away from zero,
// on the shortest decimal form of v rather than its binary expansion.
// Percentage deltas like 30.12345-10.0 sit just below their decimal
// value in binary; rounding the binary expansion would turn the decimal
// tie 20.12345 into 20.1234 instead of 20.1235.
func Round4(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	dot := strings.IndexByte(s, '.')
	if dot < 0 || len(s)-dot-1 <= PricePrecision {
		return v
	}

	digits := []byte(s[:dot] + s[dot+1:])
	keep := dot + PricePrecision
	roundUp := digits[keep] >= '5'
	digits = digits[:keep]
	if roundUp {
		i := len(digits) - 1
		for ; i >= 0; i-- {
			if digits[i] != '9' {
				digits[i]++
				break
			}
			digits[i] = '0'
		}
		if i < 0 {
			digits = append([]byte{'1'}, digits...)
			dot++
		}
	}

	out := string(digits[:dot]) + "." + string(digits[dot:])
	if neg {
		out = "-" + out
	}
	f, _ := strconv.ParseFloat(out, 64)
	return f
}

// SafeFloat coerces a loosely-typed JSON value to a float. Returns nil for
// nil, empty strings, and unparseable input instead of an error: a single
// malformed field in a disclosure must not abort the whole filing.
func SafeFloat(value interface{}) *float64 {
	switch v := value.(type) {
	case nil:
		return nil
	case float64:
		return &v
	case float32:
		f := float64(v)
		return &f
	case int:
		f := float64(v)
		return &f
	case int64:
		f := float64(v)
		return &f
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return &f
		}
		return nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return &f
		}
		return nil
	default:
		return nil
	}
}

// SafeInt coerces a loosely-typed JSON value to an integer share count.
// Fractional input is truncated toward zero, mirroring int(float(x)).
func SafeInt(value interface{}) *int64 {
	f := SafeFloat(value)
	if f == nil {
		return nil
	}
	i := int64(*f)
	return &i
}
