package columns

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/IvorG24/formsly-inventory-test-sub000/internal/storage"
)

const (
	DateLayout     = "Jan 02, 2006"
	CurrencySymbol = "₱"
)

var dateInputLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Format renders a value for display according to kind. KindAuto is resolved
// from the accessor name and the value.
func Format(kind Kind, accessor string, value any) string {
	if value == nil {
		return ""
	}
	if kind == KindAuto {
		kind = InferKind(accessor, value)
	}

	switch kind {
	case KindDate:
		return FormatDate(value)
	case KindCurrency:
		return FormatCurrency(value)
	case KindBool:
		return FormatBool(value)
	case KindNumber:
		if d, ok := ToDecimal(value); ok {
			return d.String()
		}
	}
	return Text(value)
}

// FormatDate renders a date or timestamp, leaving unparsable input as is.
func FormatDate(value any) string {
	switch v := value.(type) {
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return v.Format(DateLayout)
	case *time.Time:
		if v == nil {
			return ""
		}
		return FormatDate(*v)
	}

	raw := strings.TrimSpace(Text(value))
	if raw == "" {
		return ""
	}
	for _, layout := range dateInputLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(DateLayout)
		}
	}
	return raw
}

// FormatCurrency renders an amount as Philippine pesos with two decimals and
// digit grouping, e.g. ₱1,234.50.
func FormatCurrency(value any) string {
	d, ok := ToDecimal(value)
	if !ok {
		return Text(value)
	}
	d = d.Round(2)

	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	fixed := d.StringFixed(2)
	frac := fixed[strings.IndexByte(fixed, '.'):]
	return sign + CurrencySymbol + groupDigits(d.Truncate(0)) + frac
}

// groupDigits renders a non-negative whole amount with thousands separators.
func groupDigits(whole decimal.Decimal) string {
	if whole.LessThanOrEqual(decimal.NewFromInt(math.MaxInt64)) {
		return message.NewPrinter(language.English).Sprintf("%d", whole.IntPart())
	}
	digits := whole.BigInt().String()
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func FormatBool(value any) string {
	switch v := value.(type) {
	case bool:
		if v {
			return "Yes"
		}
		return "No"
	case int64:
		return FormatBool(v != 0)
	case []byte:
		return FormatBool(string(v))
	case string:
		if b, err := strconv.ParseBool(v); err == nil {
			return FormatBool(b)
		}
		return v
	}
	return Text(value)
}

// ToDecimal converts the numeric shapes a data source may return.
func ToDecimal(value any) (decimal.Decimal, bool) {
	switch v := value.(type) {
	case decimal.Decimal:
		return v, true
	case float64:
		return decimal.NewFromFloat(v), true
	case float32:
		return decimal.NewFromFloat32(v), true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int32:
		return decimal.NewFromInt32(v), true
	case int64:
		return decimal.NewFromInt(v), true
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		return d, err == nil
	case []byte:
		return ToDecimal(string(v))
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		return d, err == nil
	}
	return decimal.Decimal{}, false
}

// Text is the raw string form of a value.
func Text(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case []string:
		return strings.Join(v, ", ")
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, Text(item))
		}
		return strings.Join(parts, ", ")
	case []storage.Row:
		return strconv.Itoa(len(v)) + " record(s)"
	case map[string]any:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprint(value)
}
