package crawler

import (
	"net/url"
	"slices"
	"testing"
)

// TestFindLinks tests same-host link discovery.
func TestFindLinks(t *testing.T) {
	t.Parallel()

	base, err := url.Parse("https://example.com/a")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		href string
		want []string
	}{
		{"same host absolute", "https://example.com/b", []string{"https://example.com/b"}},
		{"other host", "https://other.com/b", nil},
		{"root relative", "/c", []string{"https://example.com/c"}},
		{"path relative", "c", []string{"https://example.com/c"}},
		{"subdomain", "https://docs.example.com/x", nil},
		{"different scheme same host", "http://example.com/d", []string{"http://example.com/d"}},
		{"fragment only", "#top", []string{"https://example.com/a#top"}},
		{"mailto", "mailto:someone@example.com", nil},
		{"unparseable", "%zz", nil},
		{"bad port", "https://example.com:abc/", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := FindLinks(&fakeDocument{hrefs: []string{tt.href}}, base)
			if !slices.Equal(got, tt.want) {
				t.Errorf("FindLinks(%q) = %v, want %v", tt.href, got, tt.want)
			}
		})
	}
}

// TestFindLinksOrder tests that document order and duplicates are kept.
func TestFindLinksOrder(t *testing.T) {
	t.Parallel()

	base, _ := url.Parse("https://example.com/")
	doc := &fakeDocument{hrefs: []string{
		"/z",
		"https://other.com/",
		"/a",
		"/z",
	}}

	got := FindLinks(doc, base)
	want := []string{"https://example.com/z", "https://example.com/a", "https://example.com/z"}
	if !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
