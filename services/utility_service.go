package services

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
)

var (
	companySuffixPattern = regexp.MustCompile(`(?i)(^|\s+)(limited|ltd\.?|pvt\.?|private|ipo|buyback)\s*$`)
	numericPattern       = regexp.MustCompile(`[-+]?\d+(?:\.\d+)?`)
	whitespacePattern    = regexp.MustCompile(`[ \t\r\f\v]+`)
	blankLinesPattern    = regexp.MustCompile(`\n\s*\n+`)
)

// NormalizeCompanyName strips trailing corporate suffixes (Limited, Ltd, Pvt, Private,
// IPO, Buyback) for display. Suffixes are removed until none is left, so
// "Acme Pvt. Ltd." becomes "Acme" and the function is idempotent.
func NormalizeCompanyName(raw string) string {
	name := strings.TrimSpace(raw)
	for name != "" {
		stripped := strings.TrimSpace(companySuffixPattern.ReplaceAllString(name, ""))
		if stripped == name {
			break
		}
		name = stripped
	}
	return name
}

// ExtractNumeric extracts the first signed number from text with currency symbols and
// thousands separators. Returns 0 when no number is present.
func ExtractNumeric(text string) float64 {
	value, _ := extractNumeric(text)
	return value
}

func extractNumeric(text string) (float64, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, false
	}

	// Remove currency symbols and separators; "-₹12" must keep its sign
	text = strings.NewReplacer("₹", "", "Rs.", "", "$", "", ",", "", " ", "").Replace(text)

	match := numericPattern.FindString(text)
	if match == "" {
		return 0, false
	}

	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

// IsNotAvailable checks if a value is a "not available" placeholder such as "TBA"
func IsNotAvailable(text string) bool {
	text = strings.ToLower(strings.TrimSpace(text))

	notAvailableValues := []string{
		"tba",
		"to be announced",
		"tbd",
		"n/a",
		"na",
		"not available",
		"awaited",
		"--",
		"-",
		"",
		"nil",
		"null",
	}

	for _, na := range notAvailableValues {
		if text == na {
			return true
		}
	}

	return false
}

var supportedDateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"Mon, Jan 2, 2006",
	"Monday, January 2, 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"02 Jan 2006",
	"2 Jan 2006",
	"02-Jan-2006",
	"02-Jan-06",
	"2-Jan-06",
	"02-01-2006",
	"02/01/2006",
	"2/1/2006",
}

// ParseDate parses the date formats used by the market API. The calendar date is kept
// exactly as written, without converting between time zones. Returns nil for
// placeholders and unparseable text.
func ParseDate(dateStr string) *time.Time {
	dateStr = strings.TrimSpace(dateStr)
	if IsNotAvailable(dateStr) {
		return nil
	}

	for _, format := range supportedDateFormats {
		t, err := time.Parse(format, dateStr)
		if err == nil {
			year, month, day := t.Date()
			date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
			return &date
		}
	}

	return nil
}

// FormatDisplayDate renders a raw date as "02 Jan 2006", or returns the raw text
// (or "TBA" when blank) if it does not parse
func FormatDisplayDate(raw string) string {
	if parsed := ParseDate(raw); parsed != nil {
		return parsed.Format("02 Jan 2006")
	}
	if strings.TrimSpace(raw) == "" {
		return "TBA"
	}
	return strings.TrimSpace(raw)
}

// PlainText converts an HTML fragment to readable text, one paragraph per line.
// Text without markup is only whitespace-normalized.
func PlainText(fragment string) string {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return ""
	}
	if !strings.Contains(fragment, "<") {
		return normalizeParagraphs(fragment)
	}

	document, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		logrus.WithError(err).WithField("component", "PlainText").Debug("Failed to parse HTML fragment")
		return normalizeParagraphs(fragment)
	}

	document.Find("script, style").Remove()
	document.Find("br").ReplaceWithHtml("\n")
	document.Find("p, div, li, h1, h2, h3, h4, h5, h6, tr").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	return normalizeParagraphs(document.Text())
}

func normalizeParagraphs(text string) string {
	text = whitespacePattern.ReplaceAllString(text, " ")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")
	text = blankLinesPattern.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text)
}
