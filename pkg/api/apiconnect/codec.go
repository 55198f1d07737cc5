package apiconnect

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// codecName is the Connect codec name; requests use Content-Type application/json.
const codecName = "json"

// Codec encodes the plain api messages with encoding/json. It replaces
// Connect's default protobuf JSON codec, which only handles generated
// protobuf messages.
type Codec struct{}

var _ connect.Codec = Codec{}

func (Codec) Name() string { return codecName }

func (Codec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}
