package parser

import "regexp"

// lawNumberPatterns are tried in order; the first match wins. Prefixed forms
// beat bare ones and dotted forms beat slashed ones.
var lawNumberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`N°\s*(\d+\.\d+)`),
	regexp.MustCompile(`N°\s*(\d+/\d+)`),
	regexp.MustCompile(`(\d+\.\d+)`),
	regexp.MustCompile(`(\d+/\d+)`),
}

// LawNumber extracts a bill number such as "03.25" from free text. It
// returns an empty string when no pattern matches.
func LawNumber(text string) string {
	for _, re := range lawNumberPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return m[1]
		}
	}
	return ""
}
