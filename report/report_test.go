package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/chazu/tubular/interp"
)

func sampleRun() *Run {
	return &Run{
		Program:       "adder.tub",
		Status:        "completed",
		Ticks:         8,
		Output:        "9",
		MaxDroplets:   1,
		MaxStackDepth: 2,
		Collisions:    0,
		ElapsedUS:     120,
	}
}

func TestFromResult(t *testing.T) {
	res := &interp.Result{
		Status:        interp.StatusCompleted,
		Ticks:         8,
		Output:        "9",
		MaxDroplets:   1,
		MaxStackDepth: 2,
		MaxCallDepth:  1,
		Collisions:    4,
		Elapsed:       3 * time.Millisecond,
	}
	r := FromResult("adder.tub", res)
	if r.Program != "adder.tub" || r.Status != "completed" {
		t.Errorf("run = %+v", r)
	}
	if r.Ticks != 8 || r.Output != "9" || r.Collisions != 4 {
		t.Errorf("run = %+v", r)
	}
	if r.ElapsedUS != 3000 {
		t.Errorf("elapsed = %dus, want 3000", r.ElapsedUS)
	}
}

func TestRecordMapsTraceEvents(t *testing.T) {
	r := &Run{}
	r.Record(interp.TraceEvent{
		Tick:    3,
		Droplet: 1,
		Pos:     interp.Coord(4, 5),
		Dir:     interp.Right,
		Symbol:  'A',
		Value:   "42",
	})
	if len(r.Trace) != 1 {
		t.Fatalf("trace entries = %d, want 1", len(r.Trace))
	}
	e := r.Trace[0]
	if e.Tick != 3 || e.Droplet != 1 || e.X != 4 || e.Y != 5 {
		t.Errorf("entry = %+v", e)
	}
	if e.Dir != "right" || e.Symbol != "A" || e.Value != "42" {
		t.Errorf("entry = %+v", e)
	}
}

func TestCBORRoundTrip(t *testing.T) {
	r := sampleRun()
	r.Record(interp.TraceEvent{Tick: 0, Pos: interp.Coord(0, 0), Dir: interp.Down, Symbol: '@', Value: "0"})

	data, err := MarshalCBOR(r)
	if err != nil {
		t.Fatal(err)
	}
	back, err := UnmarshalCBOR(data)
	if err != nil {
		t.Fatal(err)
	}
	if back.Program != r.Program || back.Status != r.Status || back.Ticks != r.Ticks {
		t.Errorf("round trip = %+v, want %+v", back, r)
	}
	if back.Output != r.Output || back.ElapsedUS != r.ElapsedUS {
		t.Errorf("round trip = %+v, want %+v", back, r)
	}
	if len(back.Trace) != 1 || back.Trace[0].Symbol != "@" {
		t.Errorf("trace round trip = %+v", back.Trace)
	}
}

func TestCBORDeterministic(t *testing.T) {
	a, err := MarshalCBOR(sampleRun())
	if err != nil {
		t.Fatal(err)
	}
	b, err := MarshalCBOR(sampleRun())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("equal runs encoded to different bytes")
	}
}

func TestCBORRejectsGarbage(t *testing.T) {
	if _, err := UnmarshalCBOR([]byte{0xff, 0x00, 0x13}); err == nil {
		t.Error("expected an error for malformed bytes")
	}
}

func TestMarshalJSONFields(t *testing.T) {
	data, err := MarshalJSON(sampleRun())
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	if m["program"] != "adder.tub" || m["status"] != "completed" {
		t.Errorf("json = %v", m)
	}
	if _, ok := m["trace"]; ok {
		t.Error("empty trace should be omitted")
	}
}

func TestTable(t *testing.T) {
	s := sampleRun().Table()
	for _, want := range []string{"adder.tub", "completed", "peak stack depth", "8"} {
		if !strings.Contains(s, want) {
			t.Errorf("table missing %q:\n%s", want, s)
		}
	}
}

func TestEncodeFormats(t *testing.T) {
	r := sampleRun()
	table, err := Encode(r, "")
	if err != nil {
		t.Fatal(err)
	}
	if string(table) != r.Table() {
		t.Error("empty format should render the table")
	}
	if _, err := Encode(r, "json"); err != nil {
		t.Errorf("json: %v", err)
	}
	if _, err := Encode(r, "cbor"); err != nil {
		t.Errorf("cbor: %v", err)
	}
	if _, err := Encode(r, "yaml"); err == nil {
		t.Error("expected an error for an unknown format")
	}
}
