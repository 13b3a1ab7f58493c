package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/cloudflare/ahocorasick"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// knownMakers are the steel makers whose sheets dominate the input. Any
// spelling or romaji variant canonicalizes to the display name, in table
// order.
var knownMakers = []struct {
	name     string
	variants []string
}{
	{"東京製鉄", []string{"東京製鉄", "東京製鐵", "東京製鉄所", "東京製鐵所", "TOKYO STEEL", "TOKYOSTEEL"}},
	{"中山製鋼", []string{"中山製鋼", "中山製鉄", "中山製鋼所", "中山製鉄所", "NAKAYAMA STEEL", "NAKAYAMA"}},
	{"神戸製鋼", []string{"神戸製鋼", "神戸製鉄", "神戸製鋼所", "神戸製鉄所", "KOBE STEEL", "KOBELCO"}},
}

// One Aho-Corasick pass over the uppercased text covers every maker
// variant at once; makerRanks maps pattern index back to table order.
var (
	makerMatcher *ahocorasick.Matcher
	makerNames   []string
	makerRanks   []int
)

func init() {
	var patterns [][]byte
	for rank, mk := range knownMakers {
		for _, v := range mk.variants {
			patterns = append(patterns, []byte(strings.ToUpper(v)))
			makerNames = append(makerNames, mk.name)
			makerRanks = append(makerRanks, rank)
		}
	}
	makerMatcher = ahocorasick.NewMatcher(patterns)
}

// companyRegexps find company names in priority order: corporate suffix
// and prefix forms first, then labeled fields.
var companyRegexps = []*regexp.Regexp{
	regexp.MustCompile(`([^\s\n]{2,20}(?:株式会社|有限会社|合同会社|㈱|㈲))`),
	regexp.MustCompile(`(?:株式会社|有限会社|合同会社)([^\s\n]{2,20})`),
	regexp.MustCompile(`会社名[：:]\s*([^\n]+)`),
	regexp.MustCompile(`製造者[：:]\s*([^\n]+)`),
	regexp.MustCompile(`販売者[：:]\s*([^\n]+)`),
	regexp.MustCompile(`発行[者元][：:]\s*([^\n]+)`),
	regexp.MustCompile(`メーカー[：:]\s*([^\n]+)`),
}

// makerFallbackRegexps run when the primary patterns find nothing;
// they target steel-industry naming directly.
var makerFallbackRegexps = []*regexp.Regexp{
	regexp.MustCompile(`([^\s\n]{2,15}(?:製鉄|製鋼|製鐵))`),
	regexp.MustCompile(`([^\s\n]{2,15}(?:株式会社|㈱))`),
	regexp.MustCompile(`(?:製造者|メーカー)[：:]\s*([^\n]+)`),
}

// ExtractCompany returns the issuing company or manufacturer name, or an
// empty string. Known steel makers win and canonicalize regardless of how
// OCR rendered them; generic corporate-form patterns follow, then a fuzzy
// pass that absorbs character-level OCR damage.
func ExtractCompany(text string) string {
	if name, ok := matchKnownMaker(text); ok {
		return name
	}

	for _, re := range companyRegexps {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		if n := utf8.RuneCountInString(name); n >= 2 && n <= 30 {
			return name
		}
	}

	for _, re := range makerFallbackRegexps {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		if n := utf8.RuneCountInString(name); n >= 2 && n <= 20 {
			return name
		}
	}

	if name, ok := matchMakerFuzzy(text); ok {
		return name
	}
	return ""
}

func matchKnownMaker(text string) (string, bool) {
	upper := strings.ToUpper(text)
	best := -1
	name := ""
	for _, idx := range makerMatcher.Match([]byte(upper)) {
		if best == -1 || makerRanks[idx] < best {
			best = makerRanks[idx]
			name = makerNames[idx]
		}
	}
	return name, best != -1
}

// matchMakerFuzzy compares each line, compacted and uppercased, against
// the maker variants. Short names tolerate one damaged rune, longer ones
// two, so 東京製鉃 and TCKYO STEEL still resolve without 大阪製鋼 drifting
// into 中山製鋼.
func matchMakerFuzzy(text string) (string, bool) {
	for _, line := range strings.Split(text, "\n") {
		compact := strings.ToUpper(strings.Join(strings.Fields(line), ""))
		n := utf8.RuneCountInString(compact)
		if n < 4 || n > 40 {
			continue
		}
		for _, mk := range knownMakers {
			for _, v := range mk.variants {
				cv := strings.ToUpper(strings.ReplaceAll(v, " ", ""))
				vn := utf8.RuneCountInString(cv)
				if n < vn-1 || n > vn+2 {
					continue
				}
				limit := 1
				if vn > 6 {
					limit = 2
				}
				if fuzzy.LevenshteinDistance(compact, cv) <= limit {
					return mk.name, true
				}
			}
		}
	}
	return "", false
}
