package codec


import (
	"bytes"
	"fmt"

	sio "wire/io"
)


// ----------------------------------------------------------------------------


// Constraint of the types usable with the binary format: `T` whose pointer
// knows how to encode and decode itself on a `Sink` and a `Source`.
//
type Message[T any] interface {
	*T
	sio.Encodable
	sio.Decodable
}


// Return a `Codec` for the values of `T` laying them out with their own
// `Encode` and `Decode` methods.
//
func NewBinary[T any, P Message[T]]() Codec[T] {
	return NewFramed[T](BinaryFormat[T, P]())
}

func BinaryFormat[T any, P Message[T]]() Format[T] {
	return binaryFormat[T, P]{}
}


// ----------------------------------------------------------------------------


type binaryFormat[T any, P Message[T]] struct {
}

func (this binaryFormat[T, P]) Marshal(sink sio.Sink, value T) error {
	return sink.WriteEncodable(P(&value)).Error()
}

func (this binaryFormat[T, P]) Unmarshal(payload []byte, limit sio.SizeLimit) (T, error) {
	var reader *bytes.Reader = bytes.NewReader(payload)
	var zero, value T
	var err error

	err = sio.NewReaderSource(reader).ReadDecodable(P(&value)).Error()
	if err != nil {
		return zero, err
	}

	if reader.Len() > 0 {
		return zero, fmt.Errorf("%d trailing bytes", reader.Len())
	}

	return value, nil
}
