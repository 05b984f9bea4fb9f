package codec


import (
	"errors"
	"fmt"
)


// ----------------------------------------------------------------------------


type DecodeErrorKind int

const (
	// The declared payload length is over the limit.
	DecodeLimitExceeded DecodeErrorKind = iota + 1

	// The payload does not parse.
	DecodeMalformed

	// The stream ended inside a frame.
	DecodePrematureEnd

	// The stream ended cleanly before a new frame.
	DecodeEndOfStream

	// The underlying reader failed.
	DecodeIO
)

type DecodeError struct {
	Kind DecodeErrorKind
	Err error
}


type EncodeErrorKind int

const (
	// The encoded value is over the limit. Nothing was written.
	EncodeLimitExceeded EncodeErrorKind = iota + 1

	// The format cannot encode the value. Nothing was written.
	EncodeFormat

	// The underlying writer failed after `Written` bytes.
	EncodeIO
)

type EncodeError struct {
	Kind EncodeErrorKind
	Written int
	Err error
}


// Indicate if `err` denotes a clean end of stream between two frames.
//
func IsEndOfStream(err error) bool {
	var derr *DecodeError

	return errors.As(err, &derr) && (derr.Kind == DecodeEndOfStream)
}


// ----------------------------------------------------------------------------


func (this DecodeErrorKind) String() string {
	switch this {
	case DecodeLimitExceeded:
		return "limit exceeded"
	case DecodeMalformed:
		return "malformed data"
	case DecodePrematureEnd:
		return "premature end"
	case DecodeEndOfStream:
		return "end of stream"
	case DecodeIO:
		return "i/o error"
	default:
		return fmt.Sprintf("kind(%d)", int(this))
	}
}

func (this *DecodeError) Error() string {
	if this.Err == nil {
		return "decode: " + this.Kind.String()
	}

	return fmt.Sprintf("decode: %s: %v", this.Kind, this.Err)
}

func (this *DecodeError) Unwrap() error {
	return this.Err
}


func (this EncodeErrorKind) String() string {
	switch this {
	case EncodeLimitExceeded:
		return "limit exceeded"
	case EncodeFormat:
		return "unencodable value"
	case EncodeIO:
		return "i/o error"
	default:
		return fmt.Sprintf("kind(%d)", int(this))
	}
}

func (this *EncodeError) Error() string {
	if this.Kind == EncodeIO {
		return fmt.Sprintf("encode: %s after %d bytes: %v", this.Kind,
			this.Written, this.Err)
	}

	return fmt.Sprintf("encode: %s: %v", this.Kind, this.Err)
}

func (this *EncodeError) Unwrap() error {
	return this.Err
}
