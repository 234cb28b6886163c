package export

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// strippedTags never carry post content worth exporting
var strippedTags = []string{
	"script",
	"style",
	"noscript",
	"form",
	"input",
	"button",
	"select",
	"textarea",
}

// emptyBlocks are removed when they hold no text and no children
var emptyBlocks = []string{"p", "div", "span", "figure"}

// Sanitize strips interactive and hidden markup from rendered post HTML and
// resolves relative links and images against baseURL when one is given
func Sanitize(html, baseURL string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}
	body := doc.Find("body")

	for _, tag := range strippedTags {
		body.Find(tag).Remove()
	}
	body.Find("[hidden], [style*='display:none'], [style*='display: none']").Remove()

	if base, err := url.Parse(baseURL); err == nil && base.IsAbs() {
		absolutize(body, base)
	}

	for _, tag := range emptyBlocks {
		body.Find(tag).Each(func(_ int, node *goquery.Selection) {
			if strings.TrimSpace(node.Text()) == "" && node.Children().Length() == 0 {
				node.Remove()
			}
		})
	}

	return body.Html()
}

func absolutize(sel *goquery.Selection, base *url.URL) {
	sel.Find("a[href]").Each(func(_ int, node *goquery.Selection) {
		href, _ := node.Attr("href")
		node.SetAttr("href", resolveURL(base, href))
	})
	sel.Find("[src]").Each(func(_ int, node *goquery.Selection) {
		src, _ := node.Attr("src")
		node.SetAttr("src", resolveURL(base, src))
	})
	sel.Find("[srcset]").Each(func(_ int, node *goquery.Selection) {
		srcset, _ := node.Attr("srcset")
		node.SetAttr("srcset", resolveSrcset(base, srcset))
	})
}

// resolveURL leaves fragments and non-navigational schemes untouched
func resolveURL(base *url.URL, ref string) string {
	if ref == "" || strings.HasPrefix(ref, "#") ||
		strings.HasPrefix(ref, "javascript:") ||
		strings.HasPrefix(ref, "mailto:") ||
		strings.HasPrefix(ref, "data:") {
		return ref
	}

	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(refURL).String()
}

func resolveSrcset(base *url.URL, srcset string) string {
	parts := strings.Split(srcset, ",")
	for i, part := range parts {
		tokens := strings.Fields(part)
		if len(tokens) > 0 {
			tokens[0] = resolveURL(base, tokens[0])
			parts[i] = strings.Join(tokens, " ")
		}
	}
	return strings.Join(parts, ", ")
}
