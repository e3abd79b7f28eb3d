package atlas

// ShelfAllocator implements shelf-based rectangle packing.
//
// Rectangles are placed left to right on horizontal shelves. A shelf is as
// tall as the tallest item placed on it; when an item no longer fits on any
// shelf a new shelf is opened below the last one. Glyphs of one font size
// have similar heights, which keeps the waste per shelf small.
type ShelfAllocator struct {
	width   int
	height  int
	padding int
	shelves []shelf

	usedArea int
}

type shelf struct {
	y      int // top of the shelf
	height int // tallest item so far
	x      int // next free x
}

// NewShelfAllocator creates an allocator for a width x height area with the
// given padding between items.
func NewShelfAllocator(width, height, padding int) *ShelfAllocator {
	return &ShelfAllocator{
		width:   width,
		height:  height,
		padding: padding,
		shelves: make([]shelf, 0, 16),
	}
}

// Allocate finds space for a w x h rectangle. It returns the top-left corner
// and true, or -1, -1, false when the area is full.
func (a *ShelfAllocator) Allocate(w, h int) (x, y int, ok bool) {
	if w <= 0 || h <= 0 {
		return -1, -1, false
	}
	paddedW := w + a.padding
	paddedH := h + a.padding

	for i := range a.shelves {
		s := &a.shelves[i]
		if s.x+paddedW > a.width {
			continue
		}
		if h > s.height {
			// Only the last shelf can grow, and only if there is room below.
			if i != len(a.shelves)-1 || s.y+paddedH > a.height {
				continue
			}
			s.height = h
		}
		x, y = s.x, s.y
		s.x += paddedW
		a.usedArea += w * h
		return x, y, true
	}

	newY := 0
	if n := len(a.shelves); n > 0 {
		last := a.shelves[n-1]
		newY = last.y + last.height + a.padding
	}
	if newY+paddedH > a.height || paddedW > a.width {
		return -1, -1, false
	}
	a.shelves = append(a.shelves, shelf{y: newY, height: h, x: paddedW})
	a.usedArea += w * h
	return 0, newY, true
}

// Reset clears all allocations, keeping capacity.
func (a *ShelfAllocator) Reset() {
	a.shelves = a.shelves[:0]
	a.usedArea = 0
}

// Utilization returns the fraction of the area covered by allocations.
func (a *ShelfAllocator) Utilization() float64 {
	if a.width <= 0 || a.height <= 0 {
		return 0
	}
	return float64(a.usedArea) / float64(a.width*a.height)
}

// ShelfCount returns the number of open shelves.
func (a *ShelfAllocator) ShelfCount() int {
	return len(a.shelves)
}
