package parser

import (
	"regexp"
	"strings"

	"github.com/cloudflare/ahocorasick"

	"github.com/ujiie/millsheetflow/internal/models"
)

// docTypeLiterals are plain keywords resolved in one Aho-Corasick pass
// over the uppercased text. Lower rank wins; ranks are shared with
// docTypeRegexps so the combined table keeps one priority order.
var docTypeLiterals = []struct {
	keyword string
	rank    int
	name    string
}{
	{"ミルシート", 0, "ミルシート"},
	{"材料証明書", 3, "材料証明書"},
	{"品質証明書", 4, "品質証明書"},
	{"納品書", 5, "納品書"},
	{"請求書", 6, "請求書"},
	{"見積書", 7, "見積書"},
	{"注文書", 8, "注文書"},
	{"仕様書", 9, "仕様書"},
	{"成績表", 10, "成績表"},
	{"証明書", 11, "証明書"},
}

// docTypeRegexps hold the rows that need character classes.
var docTypeRegexps = []struct {
	re   *regexp.Regexp
	rank int
	name string
}{
	{regexp.MustCompile(`(?i)MILL\s*SHEET`), 0, "ミルシート"},
	{regexp.MustCompile(`検査[証成][明績]書`), 1, "検査証明書"},
	{regexp.MustCompile(`試験成績[書表]`), 2, "試験成績書"},
}

var docTypeMatcher = buildDocTypeMatcher()

func buildDocTypeMatcher() *ahocorasick.Matcher {
	patterns := make([][]byte, len(docTypeLiterals))
	for i, lit := range docTypeLiterals {
		patterns[i] = []byte(lit.keyword)
	}
	return ahocorasick.NewMatcher(patterns)
}

// ExtractDocumentType classifies the document by the highest-priority type
// keyword present anywhere in the text. More specific types outrank the
// generic ones they contain (検査証明書 beats 証明書). Unknown documents
// get models.DefaultDocumentType.
func ExtractDocumentType(text string) string {
	best := -1
	name := models.DefaultDocumentType

	for _, idx := range docTypeMatcher.Match([]byte(strings.ToUpper(text))) {
		lit := docTypeLiterals[idx]
		if best == -1 || lit.rank < best {
			best = lit.rank
			name = lit.name
		}
	}

	for _, r := range docTypeRegexps {
		if (best == -1 || r.rank < best) && r.re.MatchString(text) {
			best = r.rank
			name = r.name
		}
	}

	return name
}
