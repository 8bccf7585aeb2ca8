package snapshot

import (
	"encoding/json"
	"errors"

	"gopkg.in/yaml.v3"
)

// ParseJSON decodes a JSON datafile and adopts it. Decoding here is a thin
// boundary adapter; all structural guarantees come from New.
func ParseJSON(data []byte) (*Snapshot, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Join(ErrDecode, err)
	}
	return New(doc)
}

// ParseYAML decodes a YAML datafile and adopts it.
func ParseYAML(data []byte) (*Snapshot, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Join(ErrDecode, err)
	}
	return New(doc)
}
