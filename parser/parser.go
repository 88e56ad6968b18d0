// Package parser turns Tubular program text into a program grid and
// provides the optional semantic validator used by tooling. The execution
// engine itself only re-checks the minimal structural invariants.
package parser

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/chazu/tubular/interp"
)

// ParseError wraps a grid construction failure with source context.
type ParseError struct {
	Source string // file name or "<string>"
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseFile reads and parses a program file.
func ParseFile(path string) (*interp.Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read program: %w", err)
	}
	return parse(string(data), path)
}

// ParseString parses program text. Each non-whitespace character at line y,
// column x becomes a cell at (x, y); whitespace is empty space.
func ParseString(text string) (*interp.Grid, error) {
	return parse(text, "<string>")
}

func parse(text, source string) (*interp.Grid, error) {
	grid := interp.NewGrid()
	for y, line := range strings.Split(text, "\n") {
		x := 0
		for _, r := range line {
			if !unicode.IsSpace(r) {
				if err := grid.AddCell(interp.Coord(x, y), r); err != nil {
					return nil, &ParseError{Source: source, Err: err}
				}
			}
			x++
		}
	}
	return grid, nil
}
