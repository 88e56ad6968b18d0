package interp

import (
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// DataStack: the global value stack shared by every droplet
// ---------------------------------------------------------------------------

// DataStack is the single value stack of a run. Pops and peeks on an empty
// or too-shallow stack degrade to zero instead of failing, so malformed
// programs keep running deterministically. The stack records the deepest
// point it ever reached; the high-water mark survives pops and clears.
type DataStack struct {
	values   []BigInt
	maxDepth int
}

// NewDataStack returns an empty data stack.
func NewDataStack() *DataStack {
	return &DataStack{}
}

// Push appends v as the new top of stack.
func (s *DataStack) Push(v BigInt) {
	s.values = append(s.values, v)
	if len(s.values) > s.maxDepth {
		s.maxDepth = len(s.values)
	}
}

// Pop removes and returns the top value, or zero when the stack is empty.
func (s *DataStack) Pop() BigInt {
	if len(s.values) == 0 {
		return Zero()
	}
	v := s.values[len(s.values)-1]
	s.values = s.values[:len(s.values)-1]
	return v
}

// Peek returns the top value without removing it, or zero when empty.
func (s *DataStack) Peek() BigInt {
	return s.PeekAt(0)
}

// PeekAt returns the value depth slots below the top (0 = top), or zero
// when the stack is not that deep.
func (s *DataStack) PeekAt(depth int) BigInt {
	if depth < 0 || depth >= len(s.values) {
		return Zero()
	}
	return s.values[len(s.values)-1-depth]
}

// Duplicate pushes a copy of the top value, pushing zero when the stack is
// empty. It reports whether the zero substitution happened.
func (s *DataStack) Duplicate() (pushedZero bool) {
	if len(s.values) == 0 {
		s.Push(Zero())
		return true
	}
	s.Push(s.values[len(s.values)-1])
	return false
}

// Swap exchanges the top two values. It reports false, changing nothing,
// when fewer than two values are present.
func (s *DataStack) Swap() bool {
	n := len(s.values)
	if n < 2 {
		return false
	}
	s.values[n-1], s.values[n-2] = s.values[n-2], s.values[n-1]
	return true
}

// Depth returns the current number of values.
func (s *DataStack) Depth() int { return len(s.values) }

// MaxDepth returns the deepest point the stack has ever reached.
func (s *DataStack) MaxDepth() int { return s.maxDepth }

// Clear removes all values. The high-water mark is preserved.
func (s *DataStack) Clear() {
	s.values = s.values[:0]
}

// Values returns a copy of the stack contents, bottom first.
func (s *DataStack) Values() []BigInt {
	out := make([]BigInt, len(s.values))
	copy(out, s.values)
	return out
}

func (s *DataStack) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range s.values {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(v.String())
	}
	sb.WriteByte(']')
	return sb.String()
}

// ---------------------------------------------------------------------------
// CallStack: subroutine return frames
// ---------------------------------------------------------------------------

// Frame is a saved return point pushed by a subroutine call.
type Frame struct {
	Pos Coordinate
	Dir Direction
}

// CallStack holds subroutine return frames. Like the DataStack it is a
// single shared instance per run and tracks a lifetime high-water mark.
// Popping an empty call stack is a defined no-op at the operation level,
// so Pop reports success explicitly.
type CallStack struct {
	frames   []Frame
	maxDepth int
}

// NewCallStack returns an empty call stack.
func NewCallStack() *CallStack {
	return &CallStack{}
}

// Push appends a return frame.
func (s *CallStack) Push(f Frame) {
	s.frames = append(s.frames, f)
	if len(s.frames) > s.maxDepth {
		s.maxDepth = len(s.frames)
	}
}

// Pop removes and returns the top frame. The boolean is false when the
// stack is empty.
func (s *CallStack) Pop() (Frame, bool) {
	if len(s.frames) == 0 {
		return Frame{}, false
	}
	f := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return f, true
}

// Peek returns the top frame without removing it.
func (s *CallStack) Peek() (Frame, bool) {
	if len(s.frames) == 0 {
		return Frame{}, false
	}
	return s.frames[len(s.frames)-1], true
}

// Depth returns the current number of frames.
func (s *CallStack) Depth() int { return len(s.frames) }

// MaxDepth returns the deepest point the call stack has ever reached.
func (s *CallStack) MaxDepth() int { return s.maxDepth }

// Clear removes all frames. The high-water mark is preserved.
func (s *CallStack) Clear() {
	s.frames = s.frames[:0]
}

// Frames returns a copy of the frames, bottom first.
func (s *CallStack) Frames() []Frame {
	out := make([]Frame, len(s.frames))
	copy(out, s.frames)
	return out
}

func (s *CallStack) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, f := range s.frames {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "(%s %s)", f.Pos, f.Dir)
	}
	sb.WriteByte(']')
	return sb.String()
}
