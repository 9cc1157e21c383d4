package models

// Page is an offset/limit window over an ordered listing.
type Page struct {
	Offset int
	Limit  int
}

// PageFrom converts the from/size pair used by the HTTP API into a page.
// The offset is rounded down to a whole number of pages, so from=7,size=5
// yields the second page (offset 5).
func PageFrom(from, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	if from < 0 {
		from = 0
	}
	return Page{Offset: (from / size) * size, Limit: size}
}

// Bounds returns the [lo, hi) slice bounds of the page over n elements.
func (p Page) Bounds(n int) (int, int) {
	lo := p.Offset
	if lo > n {
		lo = n
	}
	if p.Limit <= 0 {
		return lo, n
	}
	hi := lo + p.Limit
	if hi > n {
		hi = n
	}
	return lo, hi
}
