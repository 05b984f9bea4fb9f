package codec


import (
	"encoding/binary"
	"errors"
	"io"
	"math"

	sio "wire/io"
)


// ----------------------------------------------------------------------------


// Return a `Codec` framing the payloads produced by `format`.
//
func NewFramed[T any](format Format[T]) Codec[T] {
	return newFramed(format)
}


// ----------------------------------------------------------------------------


type framed[T any] struct {
	format Format[T]
}

func newFramed[T any](format Format[T]) *framed[T] {
	return &framed[T]{ format }
}

// The effective limit of a payload, which also has to fit in its prefix.
//
func payloadLimit(limit sio.SizeLimit) sio.SizeLimit {
	var max uint64
	var ok bool

	max, ok = limit.Max()
	if !ok || (max > math.MaxUint32) {
		return sio.Bounded(math.MaxUint32)
	}

	return limit
}

func (this *framed[T]) Encode(w io.Writer, value T, limit sio.SizeLimit) error {
	var buf *sio.BoundedBuffer
	var lerr *sio.LimitError
	var frame []byte
	var sink sio.Sink
	var err error
	var n int

	sink, buf = sio.NewBoundedSink(payloadLimit(limit))

	err = this.format.Marshal(sink, value)
	if err == nil {
		err = sink.Error()
	}

	if err != nil {
		if errors.As(err, &lerr) {
			return &EncodeError{ EncodeLimitExceeded, 0, err }
		}

		return &EncodeError{ EncodeFormat, 0, err }
	}

	frame = make([]byte, FrameHeaderSize, FrameHeaderSize + buf.Len())
	binary.BigEndian.PutUint32(frame, uint32(buf.Len()))
	frame = append(frame, buf.Bytes()...)

	n, err = w.Write(frame)
	if (err == nil) && (n < len(frame)) {
		err = io.ErrShortWrite
	}

	if err != nil {
		return &EncodeError{ EncodeIO, n, err }
	}

	return nil
}

func (this *framed[T]) Decode(r io.Reader, limit sio.SizeLimit) (T, error) {
	var derr *DecodeError
	var payload []byte
	var zero, value T
	var size uint32
	var err error

	err = sio.NewReaderSource(r).ReadUint32(&size).Error()
	if err == io.EOF {
		return zero, &DecodeError{ DecodeEndOfStream, err }
	} else if err == io.ErrUnexpectedEOF {
		return zero, &DecodeError{ DecodePrematureEnd, err }
	} else if err != nil {
		return zero, &DecodeError{ DecodeIO, err }
	}

	err = limit.Check(uint64(size))
	if err != nil {
		return zero, &DecodeError{ DecodeLimitExceeded, err }
	}

	payload = make([]byte, size)

	_, err = io.ReadFull(r, payload)
	if (err == io.EOF) || (err == io.ErrUnexpectedEOF) {
		return zero, &DecodeError{ DecodePrematureEnd,
			io.ErrUnexpectedEOF }
	} else if err != nil {
		return zero, &DecodeError{ DecodeIO, err }
	}

	value, err = this.format.Unmarshal(payload, limit)
	if err != nil {
		if errors.As(err, &derr) {
			return zero, derr
		}

		return zero, &DecodeError{ DecodeMalformed, err }
	}

	return value, nil
}
