package router

import (
	"net/url"
	"sync"
)

// History abstracts the address bar: the current query string and a
// non-reloading replace. The HTTP deployment uses MemoryHistory; the
// interface keeps the router testable against any navigation source.
type History interface {
	// Query returns the current query parameters.
	Query() url.Values
	// Replace swaps the query parameters without creating a history entry.
	Replace(query url.Values)
	// Location returns the full current URL.
	Location() string
}

// MemoryHistory is an in-process History holding a base URL and the
// current query.
type MemoryHistory struct {
	mu    sync.Mutex
	base  string
	query url.Values
}

// NewMemoryHistory creates a history rooted at base (scheme://host/path).
func NewMemoryHistory(base string) *MemoryHistory {
	return &MemoryHistory{base: base, query: url.Values{}}
}

func (h *MemoryHistory) Query() url.Values {
	h.mu.Lock()
	defer h.mu.Unlock()

	copied := url.Values{}
	for k, v := range h.query {
		copied[k] = append([]string(nil), v...)
	}
	return copied
}

func (h *MemoryHistory) Replace(query url.Values) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.query = query
}

func (h *MemoryHistory) Location() string {
	h.mu.Lock()
	defer h.mu.Unlock()

	if encoded := h.query.Encode(); encoded != "" {
		return h.base + "?" + encoded
	}
	return h.base
}

// Navigate replaces the query from a raw query string, simulating an
// external navigation (a pasted link, back/forward). The caller is
// expected to follow up with Router.LoadFromURL.
func (h *MemoryHistory) Navigate(rawQuery string) {
	parsed, err := url.ParseQuery(rawQuery)
	if err != nil {
		parsed = url.Values{}
	}
	h.Replace(parsed)
}
