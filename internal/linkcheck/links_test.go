package linkcheck

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMarkdownLinks(t *testing.T) {
	body := []byte(`# KEX

See [the API](api/index.html) and ![logo](images/logo.png).
Visit <https://example.com> or [guide][g].

[g]: guide.md
`)
	links := ExtractMarkdownLinks(body)
	assert.Equal(t, []Link{
		{Kind: KindMarkdownLink, Target: "api/index.html"},
		{Kind: KindMarkdownImage, Target: "images/logo.png"},
		{Kind: KindMarkdownLink, Target: "guide.md"},
		{Kind: KindMarkdownReference, Target: "guide.md"},
	}, links)
}

func TestExtractHTMLLinks(t *testing.T) {
	doc := `<html><head><link rel="stylesheet" href="assets/style.css"><script src="assets/main.js"></script></head>
<body><a href="modules.html">Modules</a><a>no href</a><img src=" media/a.png "></body></html>`
	links, err := ExtractHTMLLinks(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, []Link{
		{Kind: KindHTMLHref, Target: "assets/style.css"},
		{Kind: KindHTMLSrc, Target: "assets/main.js"},
		{Kind: KindHTMLHref, Target: "modules.html"},
		{Kind: KindHTMLSrc, Target: "media/a.png"},
	}, links)
}
