package paging

import (
	"strconv"
	"strings"
)

// MaxVisiblePages caps the numbered links shown by the pagination control.
const MaxVisiblePages = 5

// ParsePage extracts a 1-based page number. Missing, malformed or
// non-positive input yields 1.
func ParsePage(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Meta is the page-token metadata of one served page.
type Meta struct {
	Page   int
	Pages  int
	Offset int
	Limit  int
	Next   *int
	Prev   *int
}

// Compute derives offset/limit and neighbour tokens for page over total rows.
// Prev is nil on page 1 and Next is nil on the last page.
func Compute(page, size, total int) Meta {
	if size < 1 {
		size = 1
	}
	if page < 1 {
		page = 1
	}
	pages := 0
	if total > 0 {
		pages = (total + size - 1) / size
	}

	m := Meta{
		Page:   page,
		Pages:  pages,
		Offset: (page - 1) * size,
		Limit:  size,
	}
	if page > 1 {
		prev := page - 1
		if pages > 0 && prev > pages {
			prev = pages
		}
		m.Prev = &prev
	}
	if page < pages {
		next := page + 1
		m.Next = &next
	}
	return m
}

// Window returns the page numbers to render as links: every page when there
// are at most MaxVisiblePages, otherwise current±2 clipped to [1, pages].
// No links are shown for a single page, nor when current lies so far past
// the last page that the window misses every page.
func Window(current, pages int) []int {
	if pages <= 1 {
		return nil
	}
	start, end := 1, pages
	if pages > MaxVisiblePages {
		start = max(1, current-2)
		end = min(pages, current+2)
	}
	if start > end {
		return nil
	}
	out := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		out = append(out, i)
	}
	return out
}
