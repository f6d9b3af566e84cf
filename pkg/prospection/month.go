package prospection

import (
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

const dateLayout = "2006-01-02"

var frenchMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// MonthLabel returns the display label of t's month, e.g. "Janvier 2024".
func MonthLabel(t time.Time) string {
	return CapitalizeFirst(frenchMonths[t.Month()-1] + " " + strconv.Itoa(t.Year()))
}

// Today returns t's calendar date in YYYY-MM-DD form.
func Today(t time.Time) string {
	return t.Format(dateLayout)
}

// CapitalizeFirst upper-cases the first letter of s, leaving the rest as is.
func CapitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func sameLabel(a, b string) bool {
	return strings.TrimSpace(a) == strings.TrimSpace(b)
}
