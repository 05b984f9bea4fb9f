// Package codec turns typed values into length-prefixed frames and back.
//
// A frame is a 4 bytes big-endian payload length followed by the payload.
// The payload layout is given by a `Format`. Size limits apply to the
// payload and are enforced before any receive buffer is allocated.
//
package codec


import (
	"io"

	sio "wire/io"
)


// ----------------------------------------------------------------------------


const FrameHeaderSize = 4


// Encode and decode values of type `T` on byte streams.
//
type Codec[T any] interface {
	// Encode `value` and write it on `w` in a single call to `Write`.
	// Return an `*EncodeError` if the encoded value exceeds `limit` (in
	// which case nothing is written) or if writing fails.
	//
	Encode(w io.Writer, value T, limit sio.SizeLimit) error

	// Read exactly one encoded value from `r`.
	// Return a `*DecodeError` on failure. If `r` ends cleanly before the
	// first byte of a frame, the error is of kind `DecodeEndOfStream`.
	//
	Decode(r io.Reader, limit sio.SizeLimit) (T, error)
}


// Describe how a value is laid out inside a frame payload.
//
type Format[T any] interface {
	// Write `value` on `sink`.
	// The sink fails with a `*sio.LimitError` when the payload grows over
	// the encoding limit.
	//
	Marshal(sink sio.Sink, value T) error

	// Parse a complete payload.
	// The whole payload must be consumed.
	//
	Unmarshal(payload []byte, limit sio.SizeLimit) (T, error)
}
