package crawler

import (
	"bytes"
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/nao1215/sitecorpus/internal/document"
	"github.com/nao1215/sitecorpus/internal/fetcher"
)

// fakeElement is an in-memory document.Element.
type fakeElement struct {
	tag  string
	text string
}

func (e fakeElement) Tag() string  { return e.tag }
func (e fakeElement) Text() string { return e.text }

// fakeDocument is an in-memory document.Document.
type fakeDocument struct {
	title    string
	elements []fakeElement
	hrefs    []string
}

func (d *fakeDocument) Title() string { return d.title }

func (d *fakeDocument) Elements(tags ...string) []document.Element {
	var out []document.Element
	for _, el := range d.elements {
		if slices.Contains(tags, el.tag) {
			out = append(out, el)
		}
	}
	return out
}

func (d *fakeDocument) Hrefs() []string { return d.hrefs }

// fakePage builds a fake document with a title, one paragraph and links.
func fakePage(title, text string, hrefs ...string) *fakeDocument {
	return &fakeDocument{
		title:    title,
		elements: []fakeElement{{tag: "p", text: text}},
		hrefs:    hrefs,
	}
}

// fakeFetcher serves fake documents by URL and records every call.
// URLs without a page fail with fetcher.ErrStatus.
type fakeFetcher struct {
	pages map[string]*fakeDocument

	mu    sync.Mutex
	calls []string
}

func (f *fakeFetcher) Name() string { return "fake" }

func (f *fakeFetcher) Fetch(_ context.Context, u string) (document.Document, error) {
	f.mu.Lock()
	f.calls = append(f.calls, u)
	f.mu.Unlock()

	doc, ok := f.pages[u]
	if !ok {
		return nil, &fetcher.FetchError{URL: u, Err: fetcher.ErrStatus}
	}
	return doc, nil
}

func (f *fakeFetcher) Close() error { return nil }

func (f *fakeFetcher) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

// newTestLogger returns a debug logger writing text lines to buf.
func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
