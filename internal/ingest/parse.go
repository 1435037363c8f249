package ingest

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// ParseNumber reads the loosely formatted amounts of the exports
// ("R$ 1.234,56", "1,234.56", "1.234", "12,5"). Unparseable input yields 0.
func ParseNumber(raw string) float64 {
	s := strings.TrimSpace(raw)
	s = strings.TrimSpace(strings.TrimPrefix(s, "R$"))
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0
	}

	dot := strings.LastIndex(s, ".")
	comma := strings.LastIndex(s, ",")
	// un solo tipo de separador seguido de 3 dígitos es separador de miles
	if dot > -1 && comma == -1 && len(s)-dot-1 == 3 {
		s = strings.ReplaceAll(s, ".", "")
	}
	if comma > -1 && dot == -1 && len(s)-comma-1 == 3 {
		s = strings.ReplaceAll(s, ",", "")
	}

	thousand, decimal := ".", ","
	if strings.LastIndex(s, ".") > strings.LastIndex(s, ",") {
		thousand, decimal = ",", "."
	}
	s = strings.ReplaceAll(s, thousand, "")
	s = strings.Replace(s, decimal, ".", 1)

	f, err := strconv.ParseFloat(leadingNumber(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// ParseInt rounds ParseNumber.
func ParseInt(raw string) int { return int(math.Round(ParseNumber(raw))) }

// leadingNumber keeps the longest numeric prefix, so "12.5%" parses as 12.5.
func leadingNumber(s string) string {
	end := 0
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.':
		case (r == '-' || r == '+') && i == 0:
		default:
			return s[:end]
		}
		end = i + 1
	}
	return s
}

var dateLayouts = []string{
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"2/1/2006",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate accepts the day-first format of the exports plus ISO forms.
// Values without zone are read in loc.
func ParseDate(raw string, loc *time.Location) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
