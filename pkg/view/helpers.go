package view

import (
	"fmt"
	"strconv"
	"time"
)

// Money formats an order amount, e.g. Money(10, "USD") -> "$10.00".
func Money(amount float64, currency string) string {
	return fmt.Sprintf("%s%.2f", currencySymbol(currency), amount)
}

func currencySymbol(code string) string {
	switch code {
	case "EUR":
		return "€"
	case "USD", "":
		return "$"
	case "GBP":
		return "£"
	case "JPY":
		return "¥"
	case "TRY":
		return "₺"
	default:
		return code + " "
	}
}

// Date renders an RFC 3339 timestamp as "2006-01-02 15:04". Anything it
// cannot parse is shown as stored.
func Date(raw string) string {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			if layout == "2006-01-02" {
				return t.Format("2006-01-02")
			}
			return t.Format("2006-01-02 15:04")
		}
	}
	return raw
}

func Phone(n int64) string {
	if n == 0 {
		return ""
	}
	return strconv.FormatInt(n, 10)
}
