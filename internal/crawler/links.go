package crawler

import (
	"net/url"

	"github.com/nao1215/sitecorpus/internal/document"
)

// FindLinks resolves every anchor href of doc against base and returns the
// ones whose hostname equals base's hostname exactly.
//
// Results keep the anchors' document order and may contain duplicates.
// Hrefs that do not parse as URLs are dropped without a log line; broken
// links are too common to be worth reporting.
func FindLinks(doc document.Document, base *url.URL) []string {
	host := base.Hostname()

	var links []string
	for _, href := range doc.Hrefs() {
		ref, err := url.Parse(href)
		if err != nil {
			continue
		}
		abs := base.ResolveReference(ref)
		if abs.Hostname() != host {
			continue
		}
		links = append(links, abs.String())
	}
	return links
}
