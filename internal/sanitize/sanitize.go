// Package sanitize strips markup that cannot safely reach a document from
// HTML input.
package sanitize

import "github.com/microcosm-cc/bluemonday"

var policy = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(
		"p", "br", "span", "div",
		"h1", "h2", "h3", "h4", "h5", "h6",
		"strong", "em", "b", "i", "u", "s", "code", "pre",
		"ul", "ol", "li",
		"table", "thead", "tbody", "tfoot", "tr", "th", "td", "caption",
		"a", "img", "blockquote", "q", "cite", "hr", "dl", "dt", "dd",
	)
	p.AllowAttrs("href", "title", "name").OnElements("a")
	p.AllowAttrs("src", "alt", "title", "width", "height").OnElements("img")
	p.AllowAttrs("border", "cellpadding", "cellspacing", "width").OnElements("table")
	p.AllowAttrs("align", "valign", "colspan", "rowspan", "scope").OnElements("th")
	p.AllowAttrs("align", "valign", "colspan", "rowspan").OnElements("td")
	p.AllowAttrs("align", "valign").OnElements("tr")
	p.AllowAttrs("class").OnElements("code", "pre", "div", "span")

	p.AllowURLSchemes("http", "https", "mailto")
	p.AllowDataURIImages()
	p.RequireParseableURLs(true)
	return p
}

// HTML returns src with disallowed elements, attributes and URL schemes
// removed. Text content of removed elements is kept, except for script and
// style bodies.
func HTML(src string) string {
	return policy.Sanitize(src)
}
