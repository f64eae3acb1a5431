package robot

import (
	"strings"

	"golang.org/x/net/html"
)

// ExtractPathRefs scans an HTML fragment and returns the values of every src
// and href attribute found on a start tag, in document order. Log messages
// embed screenshots, videos and links as HTML, so the fragment is frequently
// partial or malformed; the tokenizer consumes whatever it can and never
// builds a tree. Pure function of its input.
func ExtractPathRefs(fragment string) []string {
	var refs []string
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			// End of fragment, or an unterminated tag it could not finish.
			return refs
		case html.StartTagToken, html.SelfClosingTagToken:
			_, hasAttr := z.TagName()
			for hasAttr {
				key, val, more := z.TagAttr()
				if k := string(key); k == "src" || k == "href" {
					refs = append(refs, string(val))
				}
				hasAttr = more
			}
		}
	}
}
