package interp

import "fmt"

// GridErrorKind categorizes initialization failures. These are the only
// fatal errors the engine raises before execution; everything that can go
// wrong at runtime degrades to zero instead (see DataStack and BigInt).
type GridErrorKind int

const (
	// ErrNoStart means the program contains no '@' marker.
	ErrNoStart GridErrorKind = iota
	// ErrMultipleStarts means the program contains more than one '@'.
	ErrMultipleStarts
	// ErrInvalidSymbol means a cell symbol is outside the recognized alphabet.
	ErrInvalidSymbol
	// ErrGridTooLarge means the bounding box exceeds the size ceiling.
	ErrGridTooLarge
)

// GridError is a structural program error surfaced before any tick runs.
type GridError struct {
	Kind   GridErrorKind
	Coord  Coordinate // offending cell for ErrInvalidSymbol/ErrMultipleStarts
	Symbol rune       // offending symbol for ErrInvalidSymbol
	Width  int        // measured extent for ErrGridTooLarge
	Height int
}

func (e *GridError) Error() string {
	switch e.Kind {
	case ErrNoStart:
		return "no start symbol (@) found in program"
	case ErrMultipleStarts:
		return fmt.Sprintf("multiple start symbols (@); second at %s", e.Coord)
	case ErrInvalidSymbol:
		return fmt.Sprintf("invalid character %q at %s", e.Symbol, e.Coord)
	case ErrGridTooLarge:
		return fmt.Sprintf("grid size %dx%d exceeds maximum %dx%d",
			e.Width, e.Height, MaxGridWidth, MaxGridHeight)
	}
	return fmt.Sprintf("grid error (kind=%d)", int(e.Kind))
}

// internalError marks invariant violations inside the engine. These abort
// the run; they indicate a bug, not a malformed program.
type internalError struct {
	msg string
}

func (e *internalError) Error() string {
	return "internal error: " + e.msg
}

func internalErrorf(format string, args ...any) error {
	return &internalError{msg: fmt.Sprintf(format, args...)}
}
