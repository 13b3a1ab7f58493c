package parser

import (
	"regexp"
	"strings"
)

var chargeLabeledRegexp = regexp.MustCompile(`(?:溶[鋼銅]番号|CHARGE\s*N[oO]\.?|鋼番)\s*[:\s]*([A-Z0-9]{4,12})`)

var chargeGeneralRegexps = []*regexp.Regexp{
	regexp.MustCompile(`\b([A-Z]{1,2}\d{4,8})\b`),
	regexp.MustCompile(`\b(\d{1,2}[A-Z]\d{4,6})\b`),
}

// ExtractChargeNumber returns the heat/charge number stamped on the sheet,
// or an empty string. Labeled forms win over bare alphanumeric runs. A
// candidate must be 4-12 characters and contain a digit, so a word sitting
// after a mangled label doesn't pass.
func ExtractChargeNumber(text string) string {
	for _, m := range chargeLabeledRegexp.FindAllStringSubmatch(text, -1) {
		if no, ok := normalizeChargeNumber(m[1]); ok {
			return no
		}
	}
	for _, re := range chargeGeneralRegexps {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if no, ok := normalizeChargeNumber(m[1]); ok {
				return no
			}
		}
	}
	return ""
}

func normalizeChargeNumber(raw string) (string, bool) {
	no := strings.ToUpper(raw)
	if len(no) < 4 || len(no) > 12 {
		return "", false
	}
	hasDigit := false
	for _, r := range no {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case r >= 'A' && r <= 'Z':
		default:
			return "", false
		}
	}
	if !hasDigit {
		return "", false
	}
	return no, true
}
