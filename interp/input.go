package interp

import (
	"bufio"
	"io"
	"strings"
)

// Program input. The '?' operator reads one character and '??' reads one
// line parsed as a decimal integer. Input exhaustion and unparsable text
// degrade to zero, matching the rest of the runtime's no-error posture.
// The engine never touches process stdin itself; the host decides what, if
// anything, the program may read.

// readCharInput returns the next input character's code point, or zero
// when input is exhausted.
func (e *Engine) readCharInput() BigInt {
	if e.in == nil {
		return Zero()
	}
	r, _, err := e.in.ReadRune()
	if err != nil {
		return Zero()
	}
	return BigIntFromRune(r)
}

// readNumericInput consumes one input line and parses it as a base-10
// integer, yielding zero for garbage or exhausted input.
func (e *Engine) readNumericInput() BigInt {
	if e.in == nil {
		return Zero()
	}
	line, err := e.in.ReadString('\n')
	if err != nil && line == "" {
		return Zero()
	}
	v, ok := ParseBigInt(strings.TrimSpace(line))
	if !ok {
		return Zero()
	}
	return v
}

// SetInput directs program input ('?' and '??') to r. A nil reader means
// no input is available. Must be called before the first tick.
func (e *Engine) SetInput(r io.Reader) {
	if r == nil {
		e.in = nil
		return
	}
	e.in = bufio.NewReader(r)
}
