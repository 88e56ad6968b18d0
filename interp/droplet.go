package interp

import "fmt"

// DropletID identifies a droplet for its whole lifetime. Identity,
// collision bookkeeping, and commit ordering all go through the id; two
// droplets with the same id are the same droplet.
type DropletID uint64

// Droplet is a mobile execution unit: one value moving through the grid in
// one of four directions. All droplets share the run's DataStack,
// Reservoir, and CallStack.
type Droplet struct {
	ID     DropletID
	Value  BigInt
	Pos    Coordinate
	Dir    Direction
	Active bool
}

// NewDroplet creates an active droplet with value zero.
func NewDroplet(id DropletID, pos Coordinate, dir Direction) *Droplet {
	return &Droplet{
		ID:     id,
		Value:  Zero(),
		Pos:    pos,
		Dir:    dir,
		Active: true,
	}
}

// NextPos returns the cell the droplet would enter by stepping once in its
// current direction.
func (d *Droplet) NextPos() Coordinate {
	return d.Pos.Step(d.Dir)
}

func (d *Droplet) String() string {
	return fmt.Sprintf("droplet %d value=%s pos=%s dir=%s active=%t",
		d.ID, d.Value, d.Pos, d.Dir, d.Active)
}
