package codec


import (
	"google.golang.org/protobuf/proto"

	sio "wire/io"
)


// ----------------------------------------------------------------------------


// Return a `Codec` for protocol buffer messages.
// `empty` returns a new message to decode into.
//
func NewProto[T proto.Message](empty func () T) Codec[T] {
	return NewFramed(ProtoFormat(empty))
}

func ProtoFormat[T proto.Message](empty func () T) Format[T] {
	return &protoFormat[T]{
		empty: empty,
		mo: proto.MarshalOptions{ Deterministic: true },
	}
}


// ----------------------------------------------------------------------------


type protoFormat[T proto.Message] struct {
	empty func () T
	mo proto.MarshalOptions
}

func (this *protoFormat[T]) Marshal(sink sio.Sink, value T) error {
	var data []byte
	var err error

	data, err = this.mo.Marshal(value)
	if err != nil {
		return err
	}

	return sink.WriteBytes(data).Error()
}

func (this *protoFormat[T]) Unmarshal(payload []byte, limit sio.SizeLimit) (T, error) {
	var value T = this.empty()
	var zero T
	var err error

	err = proto.Unmarshal(payload, value)
	if err != nil {
		return zero, err
	}

	return value, nil
}
