package codec

import (
	"encoding/json"

	"github.com/santimattius/kmp-kvs-storage/internal/ttlentry"
)

// ttlCodec serializes the TTL store's {key: TtlEntry} state as canonical
// JSON, matching §6's on-disk schema.
type ttlCodec struct{}

// NewTTLCodec returns the Codec for the TTL store's state.
func NewTTLCodec() Codec[ttlentry.State] {
	return ttlCodec{}
}

func (ttlCodec) Encode(value ttlentry.State) ([]byte, error) {
	if value == nil {
		value = ttlentry.State{}
	}
	return json.Marshal(value)
}

func (ttlCodec) Decode(data []byte) (ttlentry.State, error) {
	if len(data) == 0 {
		return ttlentry.State{}, nil
	}
	var out ttlentry.State
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = ttlentry.State{}
	}
	return out, nil
}

func (ttlCodec) Default() ttlentry.State {
	return ttlentry.State{}
}
