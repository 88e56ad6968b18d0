package interp

import (
	"strings"
)

// Grid size ceiling enforced at validation time.
const (
	MaxGridWidth  = 1000
	MaxGridHeight = 1000
)

// StartSymbol marks the single entry point of a program.
const StartSymbol = '@'

// Cell is one non-empty grid position: its symbol plus classifications
// derived once at construction.
type Cell struct {
	Symbol      rune
	FlowControl bool
	Operator    bool
}

// NewCell builds a cell for the given symbol, deriving its classifications.
func NewCell(symbol rune) Cell {
	return Cell{
		Symbol:      symbol,
		FlowControl: IsFlowControlSymbol(symbol),
		Operator:    IsOperatorSymbol(symbol),
	}
}

// IsFlowControlSymbol reports whether the symbol only redirects droplets.
func IsFlowControlSymbol(symbol rune) bool {
	switch symbol {
	case '|', '-', '/', '\\', '^', 'v':
		return true
	}
	return false
}

// IsOperatorSymbol reports whether the symbol reads or writes the data
// stack, reservoir, call stack, droplet value, or program output.
func IsOperatorSymbol(symbol rune) bool {
	switch symbol {
	case '+', '~', ':', ';', 'd',
		'A', 'S', 'M', 'D', '%', '=', '<', '>',
		'G', 'P', 'C', 'R',
		'!', ',', 'n', '?':
		return true
	}
	return symbol >= '0' && symbol <= '9'
}

// IsProgramSymbol reports whether the symbol belongs to the recognized
// alphabet (flow control, operator, or the start marker).
func IsProgramSymbol(symbol rune) bool {
	return symbol == StartSymbol || IsFlowControlSymbol(symbol) || IsOperatorSymbol(symbol)
}

// BoundingBox tracks the extent of the populated grid area.
type BoundingBox struct {
	MinX, MinY, MaxX, MaxY int
	empty                  bool
}

// NewBoundingBox returns an empty bounding box.
func NewBoundingBox() BoundingBox {
	return BoundingBox{empty: true}
}

// Include grows the box to cover c.
func (b *BoundingBox) Include(c Coordinate) {
	if b.empty {
		b.MinX, b.MaxX = c.X, c.X
		b.MinY, b.MaxY = c.Y, c.Y
		b.empty = false
		return
	}
	if c.X < b.MinX {
		b.MinX = c.X
	}
	if c.X > b.MaxX {
		b.MaxX = c.X
	}
	if c.Y < b.MinY {
		b.MinY = c.Y
	}
	if c.Y > b.MaxY {
		b.MaxY = c.Y
	}
}

// Width returns the horizontal extent in cells (0 when empty).
func (b BoundingBox) Width() int {
	if b.empty {
		return 0
	}
	return b.MaxX - b.MinX + 1
}

// Height returns the vertical extent in cells (0 when empty).
func (b BoundingBox) Height() int {
	if b.empty {
		return 0
	}
	return b.MaxY - b.MinY + 1
}

// Contains reports whether c lies inside the box.
func (b BoundingBox) Contains(c Coordinate) bool {
	return !b.empty &&
		c.X >= b.MinX && c.X <= b.MaxX &&
		c.Y >= b.MinY && c.Y <= b.MaxY
}

// Grid is the sparse program: a map from coordinate to cell, a bounding
// box, and the start cell location. The parser populates it once; the
// engine treats it as read-only.
type Grid struct {
	cells  map[Coordinate]Cell
	bounds BoundingBox
	start  *Coordinate
}

// NewGrid returns an empty grid.
func NewGrid() *Grid {
	return &Grid{
		cells:  make(map[Coordinate]Cell),
		bounds: NewBoundingBox(),
	}
}

// AddCell places a symbol at the coordinate. It rejects symbols outside
// the recognized alphabet and a second start marker.
func (g *Grid) AddCell(c Coordinate, symbol rune) error {
	if !IsProgramSymbol(symbol) {
		return &GridError{Kind: ErrInvalidSymbol, Coord: c, Symbol: symbol}
	}
	if symbol == StartSymbol {
		if g.start != nil {
			return &GridError{Kind: ErrMultipleStarts, Coord: c, Symbol: symbol}
		}
		start := c
		g.start = &start
	}
	g.cells[c] = NewCell(symbol)
	g.bounds.Include(c)
	return nil
}

// Get returns the cell at c, if any.
func (g *Grid) Get(c Coordinate) (Cell, bool) {
	cell, ok := g.cells[c]
	return cell, ok
}

// Symbol returns the symbol at c, or space for empty cells.
func (g *Grid) Symbol(c Coordinate) rune {
	if cell, ok := g.cells[c]; ok {
		return cell.Symbol
	}
	return ' '
}

// Start returns the start coordinate. The boolean is false when no start
// marker has been added.
func (g *Grid) Start() (Coordinate, bool) {
	if g.start == nil {
		return Coordinate{}, false
	}
	return *g.start, true
}

// Bounds returns the populated bounding box.
func (g *Grid) Bounds() BoundingBox { return g.bounds }

// Len returns the number of populated cells.
func (g *Grid) Len() int { return len(g.cells) }

// Cells calls fn for every populated cell. Iteration order is unspecified.
func (g *Grid) Cells(fn func(Coordinate, Cell)) {
	for c, cell := range g.cells {
		fn(c, cell)
	}
}

// Validate performs the minimal structural checks required before
// execution: exactly one start marker and a bounding box within the size
// ceiling. Symbol validity is enforced at AddCell time.
func (g *Grid) Validate() error {
	if g.start == nil {
		return &GridError{Kind: ErrNoStart}
	}
	if w, h := g.bounds.Width(), g.bounds.Height(); w > MaxGridWidth || h > MaxGridHeight {
		return &GridError{Kind: ErrGridTooLarge, Width: w, Height: h}
	}
	return nil
}

// Render reconstructs the program text inside the bounding box, padding
// empty cells with spaces. Useful for diagnostics and tests.
func (g *Grid) Render() string {
	if g.bounds.empty {
		return ""
	}
	var sb strings.Builder
	for y := g.bounds.MinY; y <= g.bounds.MaxY; y++ {
		for x := g.bounds.MinX; x <= g.bounds.MaxX; x++ {
			sb.WriteRune(g.Symbol(Coord(x, y)))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
