package crawler

// DedupSink collects corpus sections and keeps only the first one for each
// title. Titles are compared as-is, case and whitespace included.
type DedupSink struct {
	seen     map[string]struct{}
	sections []string
}

// NewDedupSink returns an empty sink.
func NewDedupSink() *DedupSink {
	return &DedupSink{seen: make(map[string]struct{})}
}

// Save appends "{title}\n\n{text}" unless title was saved before.
// It reports whether the section was kept.
func (s *DedupSink) Save(title, text string) bool {
	if _, dup := s.seen[title]; dup {
		return false
	}
	s.seen[title] = struct{}{}
	s.sections = append(s.sections, title+"\n\n"+text)
	return true
}

// Sections returns the accepted sections in the order they were saved.
func (s *DedupSink) Sections() []string {
	return s.sections
}

// Len returns the number of accepted sections.
func (s *DedupSink) Len() int {
	return len(s.sections)
}
