// Package report renders run results and trace records for humans and
// tools: a plain-text table, JSON, and a canonical CBOR wire form whose
// encoding is deterministic.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/chazu/tubular/interp"
)

// Run is the serializable form of a completed execution.
type Run struct {
	Program       string       `json:"program" cbor:"1,keyasint"`
	Status        string       `json:"status" cbor:"2,keyasint"`
	Ticks         uint64       `json:"ticks" cbor:"3,keyasint"`
	Output        string       `json:"output" cbor:"4,keyasint"`
	MaxDroplets   int          `json:"max_droplets" cbor:"5,keyasint"`
	MaxStackDepth int          `json:"max_stack_depth" cbor:"6,keyasint"`
	MaxCallDepth  int          `json:"max_call_depth" cbor:"7,keyasint"`
	Collisions    uint64       `json:"collisions" cbor:"8,keyasint"`
	ElapsedUS     int64        `json:"elapsed_us" cbor:"9,keyasint"`
	Trace         []TraceEntry `json:"trace,omitempty" cbor:"10,keyasint,omitempty"`
}

// TraceEntry is one recorded droplet observation.
type TraceEntry struct {
	Tick    uint64 `json:"tick" cbor:"1,keyasint"`
	Droplet uint64 `json:"droplet" cbor:"2,keyasint"`
	X       int    `json:"x" cbor:"3,keyasint"`
	Y       int    `json:"y" cbor:"4,keyasint"`
	Dir     string `json:"dir" cbor:"5,keyasint"`
	Symbol  string `json:"symbol" cbor:"6,keyasint"`
	Value   string `json:"value" cbor:"7,keyasint"`
}

// FromResult converts an engine result into a Run.
func FromResult(program string, r *interp.Result) *Run {
	return &Run{
		Program:       program,
		Status:        r.Status.String(),
		Ticks:         r.Ticks,
		Output:        r.Output,
		MaxDroplets:   r.MaxDroplets,
		MaxStackDepth: r.MaxStackDepth,
		MaxCallDepth:  r.MaxCallDepth,
		Collisions:    r.Collisions,
		ElapsedUS:     r.Elapsed.Microseconds(),
	}
}

// Record appends an engine trace event; install it with SetTraceFunc.
func (r *Run) Record(ev interp.TraceEvent) {
	r.Trace = append(r.Trace, TraceEntry{
		Tick:    ev.Tick,
		Droplet: uint64(ev.Droplet),
		X:       ev.Pos.X,
		Y:       ev.Pos.Y,
		Dir:     ev.Dir.String(),
		Symbol:  string(ev.Symbol),
		Value:   ev.Value,
	})
}

// Table renders the run as an aligned plain-text summary.
func (r *Run) Table() string {
	var sb strings.Builder
	rows := [][2]string{
		{"program", r.Program},
		{"status", r.Status},
		{"ticks", fmt.Sprintf("%d", r.Ticks)},
		{"peak droplets", fmt.Sprintf("%d", r.MaxDroplets)},
		{"peak stack depth", fmt.Sprintf("%d", r.MaxStackDepth)},
		{"peak call depth", fmt.Sprintf("%d", r.MaxCallDepth)},
		{"collisions", fmt.Sprintf("%d", r.Collisions)},
		{"elapsed", time.Duration(r.ElapsedUS * int64(time.Microsecond)).String()},
	}
	width := 0
	for _, row := range rows {
		if len(row[0]) > width {
			width = len(row[0])
		}
	}
	for _, row := range rows {
		fmt.Fprintf(&sb, "  %-*s  %s\n", width, row[0], row[1])
	}
	return sb.String()
}
