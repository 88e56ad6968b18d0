package interp

// Reservoir is the sparse, unbounded 2D memory shared by every droplet.
// Absent cells read as zero without being created; Put overwrites in
// place. Coordinates may be negative or arbitrarily large.
type Reservoir struct {
	cells map[Coordinate]BigInt
}

// NewReservoir returns an empty reservoir.
func NewReservoir() *Reservoir {
	return &Reservoir{cells: make(map[Coordinate]BigInt)}
}

// Get returns the value at c, or zero when the cell was never written.
// Reading never allocates an entry.
func (r *Reservoir) Get(c Coordinate) BigInt {
	if v, ok := r.cells[c]; ok {
		return v
	}
	return Zero()
}

// Put stores v at c, overwriting any previous value.
func (r *Reservoir) Put(c Coordinate, v BigInt) {
	r.cells[c] = v
}

// Contains reports whether c has ever been written.
func (r *Reservoir) Contains(c Coordinate) bool {
	_, ok := r.cells[c]
	return ok
}

// Len returns the number of written cells.
func (r *Reservoir) Len() int { return len(r.cells) }

// Cells calls fn for every written cell. Iteration order is unspecified.
func (r *Reservoir) Cells(fn func(Coordinate, BigInt)) {
	for c, v := range r.cells {
		fn(c, v)
	}
}
