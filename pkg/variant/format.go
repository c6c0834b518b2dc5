package variant

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// String renders the value for diagnostics. It never fails; values it
// cannot render produce a placeholder.
func (v Variant) String() string {
	if v.p == nil {
		return "invalid type"
	}
	if v.p.isArray() {
		return formatArray(v.p.value())
	}

	switch x := v.p.value().(type) {
	case bool:
		if x {
			return "yes"
		}
		return "no"
	case string:
		return x
	case int8:
		return strconv.FormatInt(int64(x), 10)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint8:
		return fmt.Sprintf("%02x", x)
	case uint16:
		return fmt.Sprintf("%04x", x)
	case uint32:
		return fmt.Sprintf("%08x", x)
	case uint64:
		return fmt.Sprintf("%016x", x)
	case float32:
		return fmt.Sprintf("%f", x)
	case float64:
		return fmt.Sprintf("%f", x)
	case []byte:
		return hex.EncodeToString(x)
	case Rational:
		return fmt.Sprintf("%d/%d", x.Num, x.Den)
	case Point:
		return fmt.Sprintf("(%d, %d)", x.X, x.Y)
	case Rect:
		return fmt.Sprintf("(%d, %d, %d, %d)", x.X, x.Y, x.Width, x.Height)
	case time.Time:
		return x.Format(time.RFC3339)
	}
	return "???"
}

func formatArray(value any) string {
	switch xs := value.(type) {
	case []uint8:
		return join(xs, "%02x")
	case []uint16:
		return join(xs, "%04x")
	case []uint32:
		return join(xs, "%08x")
	case []uint64:
		return join(xs, "%016x")
	case []int8:
		return join(xs, "%d")
	case []int16:
		return join(xs, "%d")
	case []int32:
		return join(xs, "%d")
	case []int64:
		return join(xs, "%d")
	}
	return "??? (array)"
}

func join[T any](xs []T, format string) string {
	var sb strings.Builder
	for i, x := range xs {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, format, x)
	}
	return sb.String()
}
