package crawler

import "testing"

// TestDedupSink tests title deduplication.
func TestDedupSink(t *testing.T) {
	t.Parallel()

	t.Run("first title wins", func(t *testing.T) {
		t.Parallel()

		s := NewDedupSink()
		if !s.Save("FAQ", "first") {
			t.Error("expected first save to be kept")
		}
		if s.Save("FAQ", "second") {
			t.Error("expected second save to be dropped")
		}
		sections := s.Sections()
		if len(sections) != 1 || sections[0] != "FAQ\n\nfirst" {
			t.Errorf("unexpected sections %q", sections)
		}
	})

	t.Run("titles are case and whitespace sensitive", func(t *testing.T) {
		t.Parallel()

		s := NewDedupSink()
		s.Save("FAQ", "a")
		s.Save("faq", "b")
		s.Save("FAQ ", "c")
		if s.Len() != 3 {
			t.Errorf("expected 3 sections, got %d", s.Len())
		}
	})

	t.Run("keeps save order", func(t *testing.T) {
		t.Parallel()

		s := NewDedupSink()
		s.Save("B", "2")
		s.Save("A", "1")
		sections := s.Sections()
		if sections[0] != "B\n\n2" || sections[1] != "A\n\n1" {
			t.Errorf("unexpected order %q", sections)
		}
	})

	t.Run("empty title is a title", func(t *testing.T) {
		t.Parallel()

		s := NewDedupSink()
		s.Save("", "x")
		if s.Save("", "y") {
			t.Error("expected second untitled page to be dropped")
		}
		if s.Sections()[0] != "\n\nx" {
			t.Errorf("unexpected section %q", s.Sections()[0])
		}
	})
}
