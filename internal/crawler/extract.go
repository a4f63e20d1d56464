package crawler

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/nao1215/sitecorpus/internal/document"
)

// MaxTextLength is the maximum length of extracted page text in characters.
// Longer text is cut at exactly this length.
const MaxTextLength = 120000

// ContentTags is the tag allow-list for text extraction. It favors prose and
// code over headings, tables and navigation.
var ContentTags = []string{"p", "code", "pre", "li", "ol"}

// codeTags keep their punctuation untouched.
var codeTags = map[string]bool{
	"code": true,
	"pre":  true,
}

// safePunctuation is kept in prose text along with letters, digits and
// whitespace. Everything else is stripped.
const safePunctuation = `.,;:!?'"()[]-/&%$@#+=*`

// ExtractedPage is the cleaned content of one document.
type ExtractedPage struct {
	// Title is the document title with surrounding whitespace removed.
	Title string

	// Text is the cleaned fragments joined by newlines.
	Text string

	// Length is the text length in characters before truncation.
	Length int

	// Truncated reports whether Text was cut at MaxTextLength.
	Truncated bool
}

// Extract returns the trimmed title and cleaned text of doc.
//
// Each element matching ContentTags is cleaned on its own. Code elements
// only have their whitespace collapsed; other elements also lose every
// character outside the safe set. Fragments that end up empty are dropped
// and the rest are joined with "\n" in document order.
func Extract(doc document.Document) ExtractedPage {
	var fragments []string
	for _, el := range doc.Elements(ContentTags...) {
		var cleaned string
		if codeTags[el.Tag()] {
			cleaned = collapseWhitespace(el.Text())
		} else {
			cleaned = collapseWhitespace(stripUnsafe(el.Text()))
		}
		if cleaned == "" {
			continue
		}
		fragments = append(fragments, cleaned)
	}

	text := strings.Join(fragments, "\n")
	page := ExtractedPage{
		Title:  strings.TrimSpace(doc.Title()),
		Text:   text,
		Length: utf8.RuneCountInString(text),
	}
	if page.Length > MaxTextLength {
		page.Text = truncateRunes(text, MaxTextLength)
		page.Truncated = true
	}
	return page
}

// collapseWhitespace replaces every whitespace run with a single space and
// trims both ends.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// stripUnsafe drops every rune that is not a letter, digit, whitespace or
// safe punctuation.
func stripUnsafe(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) ||
			strings.ContainsRune(safePunctuation, r) {
			return r
		}
		return -1
	}, s)
}

// truncateRunes returns the first n runes of s.
func truncateRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
