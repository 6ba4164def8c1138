package codec

// stringCodec is the identity codec DocumentStore uses: the persisted bytes
// are the UTF-8 encoding of the string, nothing more.
type stringCodec struct{}

// NewDocumentCodec returns the identity Codec for the document store.
func NewDocumentCodec() Codec[string] {
	return stringCodec{}
}

func (stringCodec) Encode(value string) ([]byte, error) {
	return []byte(value), nil
}

func (stringCodec) Decode(data []byte) (string, error) {
	return string(data), nil
}

func (stringCodec) Default() string {
	return ""
}
