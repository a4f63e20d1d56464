package crawler

// Frontier is the crawl queue and the set of URLs already dispatched.
// It is owned by a single crawl loop and is not safe for concurrent use.
type Frontier struct {
	queue   []string
	visited map[string]struct{}
}

// NewFrontier returns a frontier holding only seed.
func NewFrontier(seed string) *Frontier {
	return &Frontier{
		queue:   []string{seed},
		visited: make(map[string]struct{}),
	}
}

// Pop removes and returns the oldest queued URL.
// ok is false when the queue is empty.
func (f *Frontier) Pop() (u string, ok bool) {
	if len(f.queue) == 0 {
		return "", false
	}
	u = f.queue[0]
	f.queue[0] = ""
	f.queue = f.queue[1:]
	return u, true
}

// ShouldCrawl reports whether u has not been visited yet.
func (f *Frontier) ShouldCrawl(u string) bool {
	_, seen := f.visited[u]
	return !seen
}

// MarkVisited records u as dispatched. Call it before fetching u.
func (f *Frontier) MarkVisited(u string) {
	f.visited[u] = struct{}{}
}

// Enqueue appends every URL that has not been visited to the tail of the
// queue and returns how many were added. URLs already waiting in the queue
// are appended again.
func (f *Frontier) Enqueue(urls ...string) int {
	added := 0
	for _, u := range urls {
		if !f.ShouldCrawl(u) {
			continue
		}
		f.queue = append(f.queue, u)
		added++
	}
	return added
}

// Len returns the number of queued URLs, duplicates included.
func (f *Frontier) Len() int {
	return len(f.queue)
}

// Visited returns the number of URLs marked visited.
func (f *Frontier) Visited() int {
	return len(f.visited)
}
