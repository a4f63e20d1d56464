package crawler

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/nao1215/sitecorpus/internal/document"
)

// TestExtract tests title and text extraction.
func TestExtract(t *testing.T) {
	t.Parallel()

	t.Run("trims title", func(t *testing.T) {
		t.Parallel()

		got := Extract(&fakeDocument{title: "  Home \n"})
		if got.Title != "Home" {
			t.Errorf("expected title 'Home', got %q", got.Title)
		}
	})

	t.Run("missing title is empty", func(t *testing.T) {
		t.Parallel()

		got := Extract(&fakeDocument{elements: []fakeElement{{tag: "p", text: "body"}}})
		if got.Title != "" {
			t.Errorf("expected empty title, got %q", got.Title)
		}
		if got.Text != "body" {
			t.Errorf("expected text 'body', got %q", got.Text)
		}
	})

	t.Run("strips unsafe characters from prose", func(t *testing.T) {
		t.Parallel()

		doc := &fakeDocument{elements: []fakeElement{
			{tag: "p", text: "Hello,   ★ World!™\n\t(ok) <tag> {x}"},
		}}
		got := Extract(doc)
		if want := "Hello, World! (ok) tag x"; got.Text != want {
			t.Errorf("expected %q, got %q", want, got.Text)
		}
	})

	t.Run("keeps letters from any script", func(t *testing.T) {
		t.Parallel()

		doc := &fakeDocument{elements: []fakeElement{{tag: "li", text: "日本語 café 123"}}}
		if got := Extract(doc).Text; got != "日本語 café 123" {
			t.Errorf("unexpected text %q", got)
		}
	})

	t.Run("code keeps punctuation and collapses whitespace", func(t *testing.T) {
		t.Parallel()

		doc := &fakeDocument{elements: []fakeElement{
			{tag: "code", text: "  if (a < b) {\n\t\tx++; ~y\n}  "},
			{tag: "pre", text: "fmt.Println(`<b>`)"},
		}}
		got := Extract(doc)
		if want := "if (a < b) { x++; ~y }\nfmt.Println(`<b>`)"; got.Text != want {
			t.Errorf("expected %q, got %q", want, got.Text)
		}
	})

	t.Run("drops empty fragments and ignores other tags", func(t *testing.T) {
		t.Parallel()

		doc := &fakeDocument{elements: []fakeElement{
			{tag: "p", text: "first"},
			{tag: "p", text: " ★★ "},
			{tag: "h1", text: "Heading"},
			{tag: "code", text: "   "},
			{tag: "li", text: "second"},
		}}
		if got := Extract(doc).Text; got != "first\nsecond" {
			t.Errorf("expected 'first\\nsecond', got %q", got)
		}
	})

	t.Run("no content gives empty text", func(t *testing.T) {
		t.Parallel()

		got := Extract(&fakeDocument{title: "Empty"})
		if got.Text != "" || got.Truncated || got.Length != 0 {
			t.Errorf("unexpected result %+v", got)
		}
	})
}

// TestExtractTruncation tests the text length limit.
func TestExtractTruncation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		text          string
		wantLength    int
		wantTruncated bool
	}{
		{"one over the limit", strings.Repeat("a", MaxTextLength+1), MaxTextLength, true},
		{"exactly the limit", strings.Repeat("a", MaxTextLength), MaxTextLength, false},
		{"under the limit", strings.Repeat("a", 10), 10, false},
		{"multibyte over the limit", strings.Repeat("é", MaxTextLength+5), MaxTextLength, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Extract(&fakeDocument{elements: []fakeElement{{tag: "p", text: tt.text}}})
			if n := utf8.RuneCountInString(got.Text); n != tt.wantLength {
				t.Errorf("expected %d characters, got %d", tt.wantLength, n)
			}
			if got.Truncated != tt.wantTruncated {
				t.Errorf("expected truncated=%v, got %v", tt.wantTruncated, got.Truncated)
			}
			if got.Length != utf8.RuneCountInString(tt.text) {
				t.Errorf("expected original length %d, got %d", utf8.RuneCountInString(tt.text), got.Length)
			}
			if !strings.HasPrefix(tt.text, got.Text) {
				t.Error("expected truncated text to be a prefix of the original")
			}
		})
	}
}

// TestExtractParsedHTML tests extraction on a real parsed document.
func TestExtractParsedHTML(t *testing.T) {
	t.Parallel()

	html := `<html><head><title> Docs </title></head><body>
		<nav><a href="/">Home</a></nav>
		<h1>Skipped heading</h1>
		<p>Hello,   world!</p>
		<ol><li>one</li><li>two</li></ol>
		<pre>  a  :=  b  </pre>
		<table><tr><td>cell</td></tr></table>
	</body></html>`

	doc, err := document.ParseString(html)
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}

	got := Extract(doc)
	if got.Title != "Docs" {
		t.Errorf("expected title 'Docs', got %q", got.Title)
	}
	want := "Hello, world!\nonetwo\none\ntwo\na := b"
	if got.Text != want {
		t.Errorf("expected %q, got %q", want, got.Text)
	}
}
