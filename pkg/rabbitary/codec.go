package rabbitary

import "github.com/cbrevik/rabbitary/pkg/encoding"

var _ encoding.Codec = Codec{}

// Codec adapts Encode and Decode to the byte-oriented encoding interfaces.
type Codec struct{}

func (Codec) Encode(in []byte) ([]byte, error) {
	return []byte(Encode(string(in))), nil
}

func (Codec) Decode(in []byte) ([]byte, error) {
	out, err := Decode(string(in))
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}
