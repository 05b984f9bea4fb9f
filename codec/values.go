package codec


import (
	sio "wire/io"
)


// ----------------------------------------------------------------------------


// Ready to use binary messages.

type Uint64 uint64

type Int64 int64

type String string

type Bytes []byte


// ----------------------------------------------------------------------------


func (this *Uint64) Encode(sink sio.Sink) error {
	return sink.WriteUint64(uint64(*this)).Error()
}

func (this *Uint64) Decode(source sio.Source) error {
	var value uint64

	return source.ReadUint64(&value).
		And(func () { *this = Uint64(value) }).
		Error()
}


func (this *Int64) Encode(sink sio.Sink) error {
	return sink.WriteUint64(uint64(*this)).Error()
}

func (this *Int64) Decode(source sio.Source) error {
	var value uint64

	return source.ReadUint64(&value).
		And(func () { *this = Int64(value) }).
		Error()
}


func (this *String) Encode(sink sio.Sink) error {
	return sink.WriteBytes32([]byte(*this)).Error()
}

func (this *String) Decode(source sio.Source) error {
	var value []byte

	return source.ReadBytes32(&value).
		And(func () { *this = String(value) }).
		Error()
}


func (this *Bytes) Encode(sink sio.Sink) error {
	return sink.WriteBytes32(*this).Error()
}

func (this *Bytes) Decode(source sio.Source) error {
	var value []byte

	return source.ReadBytes32(&value).
		And(func () { *this = value }).
		Error()
}
