package checks

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// ValidateNumberRange coerces v to a float and checks it against the optional
// bounds. Coercion failures are reported, never raised.
func ValidateNumberRange(v any, min, max *float64) (bool, string) {
	if s, ok := v.(string); ok {
		v = strings.TrimSpace(s)
	}
	num, err := cast.ToFloat64E(v)
	if err != nil || v == nil || v == "" {
		return false, fmt.Sprintf("'%v' is not a valid number", display(v))
	}

	if min != nil && num < *min {
		return false, fmt.Sprintf("Value %s is below minimum of %s", formatNumber(num), formatNumber(*min))
	}
	if max != nil && num > *max {
		return false, fmt.Sprintf("Value %s exceeds maximum of %s", formatNumber(num), formatNumber(*max))
	}
	return true, ""
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func display(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
