// Package fib is a small service computing fibonacci numbers over typed
// streams: clients send numbers and the server answers each of them with a
// `Pair` of the number and its fibonacci value.
//
package fib


import (
	"fmt"

	"wire/codec"
	sio "wire/io"
)


// ----------------------------------------------------------------------------


// Largest n whose fibonacci number fits in 64 bits.
//
const MaxN = 93


var ErrOverflow = fmt.Errorf("fibonacci above %d overflows", MaxN)


type Number uint64

type Pair struct {
	X uint64
	Fx uint64
}


func NumberCodec() codec.Codec[Number] {
	return codec.NewBinary[Number]()
}

func PairCodec() codec.Codec[Pair] {
	return codec.NewBinary[Pair]()
}


func Fib(n uint64) (uint64, error) {
	var a, b uint64 = 0, 1
	var i uint64

	if n > MaxN {
		return 0, ErrOverflow
	}

	for i = 0; i < n; i++ {
		a, b = b, a + b
	}

	return a, nil
}


// ----------------------------------------------------------------------------


func (this *Number) Encode(sink sio.Sink) error {
	return sink.WriteUint64(uint64(*this)).Error()
}

func (this *Number) Decode(source sio.Source) error {
	var value uint64

	return source.ReadUint64(&value).
		And(func () { *this = Number(value) }).
		Error()
}


func (this *Pair) Encode(sink sio.Sink) error {
	return sink.WriteUint64(this.X).WriteUint64(this.Fx).Error()
}

func (this *Pair) Decode(source sio.Source) error {
	return source.ReadUint64(&this.X).ReadUint64(&this.Fx).Error()
}

func (this Pair) String() string {
	return fmt.Sprintf("(%d, %d)", this.X, this.Fx)
}
