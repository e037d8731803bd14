package linkcheck

import (
	"io"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"golang.org/x/net/html"
)

// Kind identifies the construct a link was found in.
type Kind string

const (
	KindMarkdownLink      Kind = "md_link"
	KindMarkdownImage     Kind = "md_image"
	KindMarkdownReference Kind = "md_reference"
	KindHTMLHref          Kind = "href"
	KindHTMLSrc           Kind = "src"
)

// Link is one extracted link target.
type Link struct {
	Kind   Kind
	Target string
}

// ExtractMarkdownLinks returns inline links, images and reference definitions.
// Autolinks are always absolute and therefore skipped.
func ExtractMarkdownLinks(body []byte) []Link {
	md := goldmark.New()
	ctx := parser.NewContext()
	root := md.Parser().Parse(text.NewReader(body), parser.WithContext(ctx))

	var links []Link
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.Image:
			links = append(links, Link{Kind: KindMarkdownImage, Target: string(node.Destination)})
		case *gmast.Link:
			links = append(links, Link{Kind: KindMarkdownLink, Target: string(node.Destination)})
		}
		return gmast.WalkContinue, nil
	})

	// Reference definitions live in the parse context, not in the AST.
	refs := ctx.References()
	sort.Slice(refs, func(i, j int) bool {
		return string(refs[i].Label()) < string(refs[j].Label())
	})
	for _, ref := range refs {
		links = append(links, Link{Kind: KindMarkdownReference, Target: string(ref.Destination())})
	}
	return links
}

// htmlLinkAttrs maps element names to the attribute carrying a link.
var htmlLinkAttrs = map[string]string{
	"a":      "href",
	"link":   "href",
	"img":    "src",
	"script": "src",
	"source": "src",
	"video":  "src",
	"audio":  "src",
	"iframe": "src",
}

// ExtractHTMLLinks returns the href/src targets of an HTML document.
func ExtractHTMLLinks(r io.Reader) ([]Link, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	var links []Link
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if attr, ok := htmlLinkAttrs[n.Data]; ok {
				if v := getAttr(n, attr); v != "" {
					kind := KindHTMLSrc
					if attr == "href" {
						kind = KindHTMLHref
					}
					links = append(links, Link{Kind: kind, Target: v})
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links, nil
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return strings.TrimSpace(attr.Val)
		}
	}
	return ""
}
