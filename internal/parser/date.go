package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Era offsets: 令和1年 = 2019, 平成1年 = 1989.
const (
	reiwaBase  = 2018
	heiseiBase = 1988
)

// labeledDateRegexps find dates attached to an explicit issue-date label.
// These win over any bare date elsewhere on the sheet.
var labeledDateRegexps = []*regexp.Regexp{
	regexp.MustCompile(`(?i)発行日[\s\S]{0,50}?(\d{4}[./\-]\d{1,2}[./\-]\d{1,2})`),
	regexp.MustCompile(`(?i)Date\s*of\s*Issue[\s\S]{0,30}?(\d{4}[./\-]\d{1,2}[./\-]\d{1,2})`),
	regexp.MustCompile(`(?i)発行年月日[\s\S]{0,30}?(\d{4}[./\-]\d{1,2}[./\-]\d{1,2})`),
}

// datePatterns are bare date forms in priority order. eraBase is added to
// the first capture group; zero means the capture is already a western year.
var datePatterns = []struct {
	re      *regexp.Regexp
	eraBase int
}{
	{regexp.MustCompile(`(\d{4})年(\d{1,2})月(\d{1,2})日`), 0},
	{regexp.MustCompile(`(\d{4})/(\d{1,2})/(\d{1,2})`), 0},
	{regexp.MustCompile(`(\d{4})-(\d{1,2})-(\d{1,2})`), 0},
	{regexp.MustCompile(`(\d{4})\.(\d{1,2})\.(\d{1,2})`), 0},
	{regexp.MustCompile(`令和(\d{1,2})年(\d{1,2})月(\d{1,2})日`), reiwaBase},
	{regexp.MustCompile(`(?i)R(\d{1,2})\.(\d{1,2})\.(\d{1,2})`), reiwaBase},
	{regexp.MustCompile(`平成(\d{1,2})年(\d{1,2})月(\d{1,2})日`), heiseiBase},
}

var numericDateRegexp = regexp.MustCompile(`(\d{4})[./\-](\d{1,2})[./\-](\d{1,2})`)

// englishDatePatterns cover month-name forms like "AUG.04.2025",
// "15 JAN 2024" and "Jan 15, 2024". Groups must be separated by
// punctuation or at least one space; order names the group layout.
var englishDatePatterns = []struct {
	re    *regexp.Regexp
	order string
}{
	{regexp.MustCompile(`(?i)([A-Z]{3,9})(?:\s*[.\-/,]\s*|\s+)(\d{1,2})(?:\s*[.\-/,]\s*|\s+)(\d{4})`), "mdy"},
	{regexp.MustCompile(`(?i)(\d{1,2})(?:\s*[.\-/,]\s*|\s+)([A-Z]{3,9})(?:\s*[.\-/,]\s*|\s+)(\d{4})`), "dmy"},
	{regexp.MustCompile(`(?i)(\d{4})(?:\s*[.\-/,]\s*|\s+)([A-Z]{3,9})(?:\s*[.\-/,]\s*|\s+)(\d{1,2})`), "ymd"},
}

var monthNumbers = map[string]int{
	"JAN": 1, "JANUARY": 1,
	"FEB": 2, "FEBRUARY": 2,
	"MAR": 3, "MARCH": 3,
	"APR": 4, "APRIL": 4,
	"MAY": 5,
	"JUN": 6, "JUNE": 6,
	"JUL": 7, "JULY": 7,
	"AUG": 8, "AUGUST": 8,
	"SEP": 9, "SEPTEMBER": 9,
	"OCT": 10, "OCTOBER": 10,
	"NOV": 11, "NOVEMBER": 11,
	"DEC": 12, "DECEMBER": 12,
}

// ExtractDate returns the document date formatted as YYYY-MM-DD, or an
// empty string when no date is found. Labeled issue dates take priority,
// then bare Japanese, numeric and English month-name forms. Implausible
// values (month 13, day 40) are skipped so a later occurrence can still
// match.
func ExtractDate(text string) string {
	for _, re := range labeledDateRegexps {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if date, ok := parseNumericDate(m[1]); ok {
				return date
			}
		}
	}

	for _, p := range datePatterns {
		for _, m := range p.re.FindAllStringSubmatch(text, -1) {
			year, _ := strconv.Atoi(m[1])
			if p.eraBase != 0 {
				year += p.eraBase
			}
			month, _ := strconv.Atoi(m[2])
			day, _ := strconv.Atoi(m[3])
			if date, ok := formatDate(year, month, day); ok {
				return date
			}
		}
	}

	return extractEnglishDate(text)
}

func extractEnglishDate(text string) string {
	for _, p := range englishDatePatterns {
		for _, m := range p.re.FindAllStringSubmatch(text, -1) {
			var yearStr, monthName, dayStr string
			switch p.order {
			case "mdy":
				monthName, dayStr, yearStr = m[1], m[2], m[3]
			case "dmy":
				dayStr, monthName, yearStr = m[1], m[2], m[3]
			case "ymd":
				yearStr, monthName, dayStr = m[1], m[2], m[3]
			}
			month, ok := monthNumbers[strings.ToUpper(monthName)]
			if !ok {
				continue
			}
			year, _ := strconv.Atoi(yearStr)
			day, _ := strconv.Atoi(dayStr)
			if date, ok := formatDate(year, month, day); ok {
				return date
			}
		}
	}
	return ""
}

func parseNumericDate(s string) (string, bool) {
	m := numericDateRegexp.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	return formatDate(year, month, day)
}

func formatDate(year, month, day int) (string, bool) {
	if year < 1900 || year > 2100 || month < 1 || month > 12 || day < 1 || day > 31 {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
}
