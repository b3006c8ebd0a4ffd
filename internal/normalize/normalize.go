package normalize

import (
	"regexp"
	"strings"
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// Board item content arrives as HTML fragments. The platform only emits a
// handful of named entities, so a fixed replacer beats a full HTML decoder.
var entityReplacer = strings.NewReplacer(
	"&nbsp;", " ",
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
)

// Text strips markup tags, decodes named entities, and collapses whitespace
// runs to a single space. The pass repeats until the string is stable, so
// entity-encoded markup cannot survive one round of decoding and
// Text(Text(s)) == Text(s) holds for every input. Empty input yields an
// empty string.
func Text(s string) string {
	for {
		next := pass(s)
		if next == s {
			return s
		}
		s = next
	}
}

func pass(s string) string {
	s = tagPattern.ReplaceAllString(s, " ")
	s = entityReplacer.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
