package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var dimensionSectionRegexp = regexp.MustCompile(`(?i)(?:DIMENSIONS?|寸法)[^\n]*\n?([^\n]+)`)

// dimensionPatterns run most specific to most generic. The early rows
// repair OCR damage (split decimals, split thousands, decimal points read
// into the width) before the standard TxWxL forms get a chance.
var dimensionPatterns = []struct {
	re     *regexp.Regexp
	groups int
}{
	// "22. 00X1, 540XCOIL"
	{regexp.MustCompile(`(?i)(\d{1,2})\.\s*(\d{2})\s*[xX×]\s*(\d)[,.]?\s*(\d{3})\s*[xX×]\s*(COIL\b|コイル|C\b)`), 5},
	// "22.00X1.540XCOIL"
	{regexp.MustCompile(`(?i)(\d{1,2}\.?\d{0,2})[xX×](\d\.\d{3})[xX×](COIL\b|コイル|C\b)`), 3},
	// "1.60X1,535XCOIL"
	{regexp.MustCompile(`(?i)(\d+\.?\d*)\s*[xX×]\s*(\d{1,2},\d{3})\s*[xX×]\s*(COIL\b|コイル|C\b)`), 3},
	// "1.6x1535xCOIL"
	{regexp.MustCompile(`(?i)(\d+\.?\d*)\s*[xX×]\s*(\d{3,4})\s*[xX×]\s*(COIL\b|コイル|C\b)`), 3},
	// "1.6X1219X2438"
	{regexp.MustCompile(`(?i)(\d+\.?\d*)\s*[xX×]\s*(\d{3,4})\s*[xX×]\s*(\d{3,4})`), 3},
	// "t1.6 x 1219 x COIL"
	{regexp.MustCompile(`(?i)t\s*(\d+\.?\d*)\s*[xX×]\s*(\d+\.?\d*)\s*[xX×]\s*(COIL|コイル|C|\d+\.?\d*)`), 3},
	// "板厚1.6 ... 幅1219"
	{regexp.MustCompile(`(?i)板厚\s*(\d+\.?\d*)\s*.*?幅\s*(\d+\.?\d*)`), 2},
	// "1.6t x 1219W"
	{regexp.MustCompile(`(?i)(\d+\.?\d*)\s*[tT]\s*[xX×]\s*(\d+\.?\d*)\s*[wW]?`), 2},
}

var thicknessOnlyRegexps = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:寸法|Size)[\s\S]{0,100}?(\d{1,2}\.\d{1,2})\s*[xX×]`),
	regexp.MustCompile(`(\d{1,2}\.\d{2})\s*[xX×]\s*\d`),
}

var splitWidthRegexp = regexp.MustCompile(`^\d{1,2}\.\d{3}$`)

// ExtractDimensions returns thickness x width x length, e.g. "1.6x1219xC"
// (C for coil), or an empty string. A DIMENSIONS/寸法 section is searched
// before the whole text; a lone plausible thickness is the last resort.
func ExtractDimensions(text string) string {
	if section, ok := findDimensionSection(text); ok {
		if dims := tryExtractDimensions(section); dims != "" {
			return dims
		}
	}
	if dims := tryExtractDimensions(text); dims != "" {
		return dims
	}
	return extractThicknessOnly(text)
}

func findDimensionSection(text string) (string, bool) {
	m := dimensionSectionRegexp.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[0] + m[1], true
}

func tryExtractDimensions(text string) string {
	for _, p := range dimensionPatterns {
		for _, m := range p.re.FindAllStringSubmatch(text, -1) {
			if dims := parseDimensionGroups(m, p.groups); dims != "" {
				return dims
			}
		}
	}
	return ""
}

func parseDimensionGroups(m []string, groups int) string {
	switch groups {
	case 5:
		thickness := m[1] + "." + m[2]
		width := m[3] + m[4]
		if isValidDimension(thickness, width, m[5]) {
			return formatThickness(thickness) + "x" + width + "x" + normalizeLength(m[5])
		}
	case 3:
		width := processWidth(m[2])
		if isValidDimension(m[1], width, m[3]) {
			return formatThickness(m[1]) + "x" + width + "x" + normalizeLength(m[3])
		}
	case 2:
		width := processWidth(m[2])
		if isValidDimension(m[1], width, "") {
			return formatThickness(m[1]) + "x" + width
		}
	}
	return ""
}

func extractThicknessOnly(text string) string {
	for _, re := range thicknessOnlyRegexps {
		if m := re.FindStringSubmatch(text); m != nil {
			if t, err := strconv.ParseFloat(m[1], 64); err == nil && t >= 0.1 && t <= 100 {
				return formatThickness(m[1])
			}
		}
	}
	return ""
}

// processWidth strips comma grouping and repairs widths whose thousands
// separator OCR read as a decimal point (1.540 -> 1540).
func processWidth(raw string) string {
	width := strings.ReplaceAll(raw, ",", "")
	if splitWidthRegexp.MatchString(width) {
		width = strings.ReplaceAll(width, ".", "")
	}
	return width
}

// isValidDimension keeps thickness in 0.1-100mm, width in 100-5000mm and
// above the thickness, and numeric lengths at 100mm or more. length may be
// empty for two-value forms.
func isValidDimension(thickness, width, length string) bool {
	t, err := strconv.ParseFloat(strings.ReplaceAll(thickness, ",", ""), 64)
	if err != nil {
		return false
	}
	w, err := strconv.ParseFloat(strings.ReplaceAll(width, ",", ""), 64)
	if err != nil {
		return false
	}
	if t < 0.1 || t > 100 {
		return false
	}
	if w < 100 || w > 5000 {
		return false
	}
	if w <= t {
		return false
	}
	if length != "" && !isCoil(length) {
		if l, err := strconv.ParseFloat(strings.ReplaceAll(length, ",", ""), 64); err == nil && l < 100 {
			return false
		}
	}
	return true
}

func isCoil(length string) bool {
	switch strings.ToUpper(length) {
	case "COIL", "コイル", "C":
		return true
	}
	return false
}

// formatThickness drops the fraction when it is zero and trims trailing
// zeros otherwise (22.00 -> 22, 1.60 -> 1.6).
func formatThickness(thickness string) string {
	t, err := strconv.ParseFloat(thickness, 64)
	if err != nil {
		return thickness
	}
	if t == math.Trunc(t) {
		return strconv.Itoa(int(t))
	}
	s := strconv.FormatFloat(t, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}

func normalizeLength(length string) string {
	if isCoil(length) {
		return "C"
	}
	return length
}
