package codec

import (
	"encoding/json"
)

// JSON is the standard-library JSON codec.
//
// Manifests are small and read by operators, so a portable, human-readable
// encoding wins over a faster binary one.
type JSON struct{}

// Marshal encodes the value as indented JSON.
func (JSON) Marshal(v any) ([]byte, error) { return json.MarshalIndent(v, "", "  ") }

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }

// Default is the codec used for newly written manifests.
var Default Codec = JSON{}
