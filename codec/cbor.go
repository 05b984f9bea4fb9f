package codec


import (
	"github.com/fxamacker/cbor/v2"

	sio "wire/io"
)


// ----------------------------------------------------------------------------


// Return a `Codec` laying out values of `T` in canonical CBOR.
//
func NewCbor[T any]() (Codec[T], error) {
	var format Format[T]
	var err error

	format, err = CborFormat[T]()
	if err != nil {
		return nil, err
	}

	return NewFramed(format), nil
}

func CborFormat[T any]() (Format[T], error) {
	var this cborFormat[T]
	var err error

	this.enc, err = cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, err
	}

	this.dec, err = cbor.DecOptions{
		DupMapKey: cbor.DupMapKeyEnforcedAPF,
	}.DecMode()
	if err != nil {
		return nil, err
	}

	return &this, nil
}


// ----------------------------------------------------------------------------


type cborFormat[T any] struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

func (this *cborFormat[T]) Marshal(sink sio.Sink, value T) error {
	var data []byte
	var err error

	data, err = this.enc.Marshal(value)
	if err != nil {
		return err
	}

	return sink.WriteBytes(data).Error()
}

func (this *cborFormat[T]) Unmarshal(payload []byte, limit sio.SizeLimit) (T, error) {
	var zero, value T
	var err error

	err = this.dec.Unmarshal(payload, &value)
	if err != nil {
		return zero, err
	}

	return value, nil
}
