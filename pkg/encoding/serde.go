package encoding

// Encoder reads a user-provided text string, and turns it into the rabbit form.
type Encoder interface {
	Encode([]byte) ([]byte, error)
}

// Decoder reads the rabbit form, and turns it back into human readable text.
type Decoder interface {
	Decode([]byte) ([]byte, error)
}

// Codec does both.
type Codec interface {
	Encoder
	Decoder
}
