package classify

import (
	"regexp"
	"strings"
	"time"
)

var (
	noiseWords      = regexp.MustCompile(`(?i)\b(on|posted|added|updated|published)\b`)
	noiseSeparators = regexp.MustCompile(`[|–—•]`)
	spaces          = regexp.MustCompile(`\s+`)
	dayMonthYear    = regexp.MustCompile(`(\d{1,2})[-/ ]([A-Za-z]{3,})[-/ ](\d{2,4})`)
	nearDate        = regexp.MustCompile(`(?i)(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?\s+\d{1,2},?\s+\d{4}|\b\d{1,2}\s+(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?,?\s+\d{4}|\b\d{4}-\d{2}-\d{2}\b|\b\d{1,2}[-/]\d{1,2}[-/]\d{4}\b|\b\d{1,2}\s*(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s*\d{4}`)
)

// dateLayouts are tried in order. Day-first numeric forms come before
// month-first ones since the sources are Indian sites.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"Jan. 2, 2006",
	"2 January 2006",
	"2 January, 2006",
	"2 Jan 2006",
	"2 Jan, 2006",
	"02-Jan-2006",
	"2-Jan-2006",
	"02-Jan-06",
	"2Jan2006",
	"02/01/2006",
	"02-01-2006",
	"02.01.2006",
	"2006/01/02",
	"January 2, 2006 3:04 pm",
	"Jan 2, 2006 3:04 pm",
}

// ParseDate turns free-form date text into an instant, or nil when nothing
// recognizable is found. It is deterministic, so feeding it the RFC3339
// rendering of its own output yields the same instant.
func ParseDate(text string) *time.Time {
	s := cleanDateText(text)
	if s == "" {
		return nil
	}
	if t, ok := parseLayouts(s); ok {
		return &t
	}
	if t, ok := parseTokens(s); ok {
		return &t
	}
	// Dates embedded in a longer sentence.
	if m := nearDate.FindString(s); m != "" && m != s {
		if t, ok := parseLayouts(cleanDateText(m)); ok {
			return &t
		}
		if t, ok := parseTokens(m); ok {
			return &t
		}
	}
	return nil
}

// NearDate returns the first date-looking substring of text, or "".
func NearDate(text string) string {
	return strings.TrimSpace(nearDate.FindString(text))
}

func cleanDateText(text string) string {
	s := noiseWords.ReplaceAllString(text, " ")
	s = noiseSeparators.ReplaceAllString(s, " ")
	s = spaces.ReplaceAllString(s, " ")
	return strings.Trim(s, " :,")
}

func parseLayouts(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// parseTokens handles "5 Sept 2024" style dates whose month spelling the
// layouts reject, by reducing the month to its three-letter form.
func parseTokens(s string) (time.Time, bool) {
	m := dayMonthYear.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	month := strings.ToLower(m[2])
	if len(month) < 3 {
		return time.Time{}, false
	}
	month = strings.ToUpper(month[:1]) + month[1:3]
	year := m[3]
	if len(year) == 2 {
		year = "20" + year
	}
	if len(year) != 4 {
		return time.Time{}, false
	}
	t, err := time.Parse("Jan 2, 2006", month+" "+m[1]+", "+year)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}
