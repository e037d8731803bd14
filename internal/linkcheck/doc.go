// Package linkcheck verifies that local links in the documentation output tree
// point at files that exist.
//
// Markdown pages (README, Docsify pages) are parsed with goldmark; generated HTML
// is parsed with golang.org/x/net/html. Remote URLs, fragments and Docsify hash
// routes ("#/page") are not checked.
package linkcheck
