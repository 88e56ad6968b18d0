package interp

import "fmt"

// Coordinate is a signed (x, y) grid position. It is comparable and used as
// a map key by both the program grid and the reservoir.
type Coordinate struct {
	X, Y int
}

// Coord is shorthand for constructing a Coordinate.
func Coord(x, y int) Coordinate { return Coordinate{X: x, Y: y} }

// Offset returns the coordinate displaced by (dx, dy).
func (c Coordinate) Offset(dx, dy int) Coordinate {
	return Coordinate{X: c.X + dx, Y: c.Y + dy}
}

// Step returns the coordinate one cell away in the given direction.
func (c Coordinate) Step(d Direction) Coordinate {
	dx, dy := d.Delta()
	return c.Offset(dx, dy)
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d, %d)", c.X, c.Y)
}

// Direction is one of the four compass directions of droplet travel.
// The numeric values 0..3 double as the direction codes consumed by the
// subroutine call operation.
type Direction int

const (
	Up Direction = iota
	Right
	Down
	Left
)

// Delta returns the unit step (dx, dy) for the direction. The y axis grows
// downward, matching source-text line order.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case Up:
		return 0, -1
	case Right:
		return 1, 0
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	}
	return 0, 0
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	return (d + 2) & 3
}

// TurnRight returns the direction after a 90° clockwise turn.
func (d Direction) TurnRight() Direction {
	return (d + 1) & 3
}

// TurnLeft returns the direction after a 90° counter-clockwise turn.
func (d Direction) TurnLeft() Direction {
	return (d + 3) & 3
}

// Code returns the numeric direction code (Up=0, Right=1, Down=2, Left=3).
func (d Direction) Code() int64 { return int64(d) }

// DirectionFromCode decodes a direction code via truncated remainder by 4.
// Negative residues and values outside int64 range decode as Down; only the
// exact residues 0..3 name a direction.
func DirectionFromCode(v BigInt) Direction {
	n, ok := v.Int64()
	if !ok {
		return Down
	}
	switch n % 4 {
	case 0:
		return Up
	case 1:
		return Right
	case 2:
		return Down
	case 3:
		return Left
	}
	return Down
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	}
	return fmt.Sprintf("direction(%d)", int(d))
}
