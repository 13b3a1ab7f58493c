package parser

import (
	"regexp"
	"strings"
)

// materialRegexps cover the JIS steel grade families seen on mill sheets,
// most specific first, generic S-prefix pattern last.
var materialRegexps = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(SS\s*[234]\d{2})\b`),      // 一般構造用鋼
	regexp.MustCompile(`(?i)\b(SPH[CDE]|SPC[CDE])\b`),    // 熱延/冷延鋼板
	regexp.MustCompile(`(?i)\b(SEC[CD])\b`),              // 電気亜鉛めっき
	regexp.MustCompile(`(?i)\b(SG[CH]C)\b`),              // 溶融亜鉛めっき
	regexp.MustCompile(`(?i)\b(S\d{2}C)\b`),              // 機械構造用炭素鋼
	regexp.MustCompile(`(?i)\b(SCM\d{3})\b`),             // クロムモリブデン鋼
	regexp.MustCompile(`(?i)\b(SUS\s*\d{3}[A-Z]?)\b`),    // ステンレス鋼
	regexp.MustCompile(`(?i)\b(SK\d{1,2})\b`),            // 炭素工具鋼
	regexp.MustCompile(`(?i)\b(SM\d{3}[A-C]?)\b`),        // 溶接構造用鋼
	regexp.MustCompile(`(?i)\b(STK\d{3})\b`),             // 炭素鋼管
	regexp.MustCompile(`(?i)\b(STKR\d{3})\b`),            // 角形鋼管
	regexp.MustCompile(`(?i)\b(S[A-Z]{1,3}\d{2,3}[A-Z]?)\b`),
}

// ExtractMaterial returns the JIS steel grade (SS400, SPHC, SUS304, ...)
// or an empty string. OCR tends to insert a space inside the grade, so the
// result is uppercased with spaces stripped.
func ExtractMaterial(text string) string {
	for _, re := range materialRegexps {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.ToUpper(strings.ReplaceAll(m[1], " ", ""))
		}
	}
	return ""
}
