package codec

import "encoding/json"

// mapCodec serializes map[string]string as canonical JSON. encoding/json
// already sorts map keys when marshaling, so this satisfies the "keys
// sorted lexicographically on write" requirement with no extra work.
type mapCodec struct{}

// NewPreferenceCodec returns the Codec for the preference store's
// {string: string} state.
func NewPreferenceCodec() Codec[map[string]string] {
	return mapCodec{}
}

func (mapCodec) Encode(value map[string]string) ([]byte, error) {
	if value == nil {
		value = map[string]string{}
	}
	return json.Marshal(value)
}

func (mapCodec) Decode(data []byte) (map[string]string, error) {
	if len(data) == 0 {
		return map[string]string{}, nil
	}
	var out map[string]string
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = map[string]string{}
	}
	return out, nil
}

func (mapCodec) Default() map[string]string {
	return map[string]string{}
}
