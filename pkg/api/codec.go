package api

import (
	"encoding/json"
	"fmt"
)

// CodecName is the name connect negotiates for this codec ("application/json").
const CodecName = "json"

// Codec carries the plain Go messages of this package as JSON.
// It replaces connect's protojson codec, which only accepts protobuf messages.
type Codec struct{}

func (Codec) Name() string { return CodecName }

func (Codec) Marshal(msg any) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", msg, err)
	}
	return data, nil
}

func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("unmarshal %T: %w", msg, err)
	}
	return nil
}
