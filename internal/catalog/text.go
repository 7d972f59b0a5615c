package catalog

import (
	"strings"

	"golang.org/x/net/html"
)

// PlainText strips markup from a lesson description, decoding entities and
// collapsing whitespace. Used for previews and screen-reader text.
func PlainText(markup string) string {
	z := html.NewTokenizer(strings.NewReader(markup))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			b.WriteByte(' ')
		}
	}
}
