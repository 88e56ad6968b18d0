package report

import (
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// cborEncMode uses canonical options so that equal runs always encode to
// equal bytes, which lets tooling diff and deduplicate reports.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("report: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// MarshalCBOR serializes a Run to canonical CBOR bytes.
func MarshalCBOR(r *Run) ([]byte, error) {
	return cborEncMode.Marshal(r)
}

// UnmarshalCBOR deserializes a Run from CBOR bytes.
func UnmarshalCBOR(data []byte) (*Run, error) {
	var r Run
	if err := cbor.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("report: unmarshal run: %w", err)
	}
	return &r, nil
}

// MarshalJSON serializes a Run to indented JSON.
func MarshalJSON(r *Run) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Encode renders a Run in the named format: "table", "json", or "cbor".
func Encode(r *Run, format string) ([]byte, error) {
	switch format {
	case "", "table":
		return []byte(r.Table()), nil
	case "json":
		return MarshalJSON(r)
	case "cbor":
		return MarshalCBOR(r)
	}
	return nil, fmt.Errorf("report: unknown format %q", format)
}
