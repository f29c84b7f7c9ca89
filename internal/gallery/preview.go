package gallery

// Preview is the single-image view over a sorted listing of n images.
// Navigation clamps at both ends.
type Preview struct {
	n     int
	index int
	open  bool
}

// NewPreview returns a closed preview over n images.
func NewPreview(n int) *Preview {
	if n < 0 {
		n = 0
	}
	return &Preview{n: n}
}

// Open shows image i. It returns false if i is out of range.
func (p *Preview) Open(i int) bool {
	if i < 0 || i >= p.n {
		return false
	}
	p.index = i
	p.open = true
	return true
}

// Close hides the preview.
func (p *Preview) Close() {
	p.open = false
}

// Prev moves to the previous image, staying on the first.
func (p *Preview) Prev() int {
	if p.open && p.index > 0 {
		p.index--
	}
	return p.index
}

// Next moves to the next image, staying on the last.
func (p *Preview) Next() int {
	if p.open && p.index < p.n-1 {
		p.index++
	}
	return p.index
}

// Index returns the current image and whether the preview is open.
func (p *Preview) Index() (int, bool) {
	return p.index, p.open
}

// Resize updates the listing length after images are added or removed,
// closing the preview if it becomes empty.
func (p *Preview) Resize(n int) {
	if n < 0 {
		n = 0
	}
	p.n = n
	if n == 0 {
		p.index = 0
		p.open = false
		return
	}
	if p.index >= n {
		p.index = n - 1
	}
}
