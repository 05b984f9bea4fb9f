package codec


import (
	"bytes"

	"github.com/golang/snappy"

	sio "wire/io"
)


// ----------------------------------------------------------------------------


// Return a `Codec` compressing the payloads of `inner` with snappy.
// The limit applies both to the compressed payload and to its decompressed
// length, which is checked before decompressing.
//
func NewSnappy[T any](inner Format[T]) Codec[T] {
	return NewFramed(SnappyFormat(inner))
}

func SnappyFormat[T any](inner Format[T]) Format[T] {
	return &snappyFormat[T]{ inner }
}


// ----------------------------------------------------------------------------


type snappyFormat[T any] struct {
	inner Format[T]
}

func (this *snappyFormat[T]) Marshal(sink sio.Sink, value T) error {
	var raw bytes.Buffer
	var err error

	err = this.inner.Marshal(sio.NewWriterSink(&raw), value)
	if err != nil {
		return err
	}

	return sink.WriteBytes(snappy.Encode(nil, raw.Bytes())).Error()
}

func (this *snappyFormat[T]) Unmarshal(payload []byte, limit sio.SizeLimit) (T, error) {
	var raw []byte
	var zero T
	var err error
	var n int

	n, err = snappy.DecodedLen(payload)
	if err != nil {
		return zero, err
	}

	err = limit.Check(uint64(n))
	if err != nil {
		return zero, &DecodeError{ DecodeLimitExceeded, err }
	}

	raw, err = snappy.Decode(make([]byte, n), payload)
	if err != nil {
		return zero, err
	}

	return this.inner.Unmarshal(raw, limit)
}
