package classify

import (
	"regexp"
	"strings"
)

type categoryRule struct {
	tag     string
	pattern *regexp.Regexp
}

// categoryRules tag exam families named in a title. Matching runs over the
// uppercased text.
var categoryRules = []categoryRule{
	{"JE", regexp.MustCompile(`\b(JE|JUNIOR ENGINEER)\b`)},
	{"CHSL", regexp.MustCompile(`\bCHSL\b`)},
	{"STENO", regexp.MustCompile(`\bSTENO(GRAPHER)?\b`)},
	{"CGL", regexp.MustCompile(`\bCGL\b`)},
	{"MTS", regexp.MustCompile(`\bMTS\b`)},
	{"CAPF", regexp.MustCompile(`\bCAPF\b`)},
	{"CPO", regexp.MustCompile(`\bCPO\b`)},
	{"GD", regexp.MustCompile(`\bGD\b`)},
	{"DEPARTMENTAL", regexp.MustCompile(`\bDEPARTMENTAL\b`)},
	{"SELECTION POST", regexp.MustCompile(`\bSELECTION\s+POST\b`)},
	{"GDS", regexp.MustCompile(`\bGDS\b`)},
}

var sizePattern = regexp.MustCompile(`(?i)\(\s*(\d+(?:\.\d+)?)\s*(KB|MB|GB)\s*\)`)

// ExtractCategories returns every exam tag named in text, in a fixed order.
func ExtractCategories(text string) []string {
	upper := strings.ToUpper(text)
	var tags []string
	for _, r := range categoryRules {
		if r.pattern.MatchString(upper) {
			tags = append(tags, r.tag)
		}
	}
	return tags
}

// NearSize returns a file size annotation like "(1.2 MB)" found in text,
// normalized to "1.2 MB", or "".
func NearSize(text string) string {
	m := sizePattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1] + " " + strings.ToUpper(m[2])
}

// CleanText collapses runs of whitespace and trims the result.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
