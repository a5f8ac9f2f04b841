package common

import (
	"fmt"
	"strings"
	"time"
)

// FormatMoney formats an amount in cents as dollars with thousand separators,
// e.g. 123456 -> "1,234.56"
func FormatMoney(cents int64) string {
	return fmt.Sprintf("%s.%02d", groupThousands(cents/100), cents%100)
}

// ToCents converts a dollar amount from a command option into cents
func ToCents(dollars float64) int64 {
	return int64(dollars * 100)
}

func groupThousands(v int64) string {
	str := fmt.Sprintf("%d", v)

	n := len(str)
	if n <= 3 {
		return str
	}

	var result strings.Builder
	for i, digit := range str {
		if i > 0 && (n-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(digit)
	}

	return result.String()
}

// FormatDiscordTimestamp formats a time as a Discord timestamp that displays
// in each reader's local timezone. Format types: "t" = short time, "T" = long
// time, "d" = short date, "D" = long date, "f" = short date/time, "F" = long
// date/time, "R" = relative time
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}
