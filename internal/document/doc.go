// Package document defines the narrow view of a parsed HTML page that the
// crawler needs: its title, the text of elements selected by tag name, and
// the href values of its anchors.
//
// The crawler depends only on the Document interface, so extraction and link
// discovery can be tested against an in-memory fake. Parse and FromGoquery
// provide the real implementation on top of golang.org/x/net/html and
// github.com/PuerkitoBio/goquery.
package document
