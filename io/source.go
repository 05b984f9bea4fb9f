package io


import (
	"encoding/binary"
	"fmt"
	"io"
)


// ----------------------------------------------------------------------------


type Source interface {
	ReadUint8(data *uint8) Source
	ReadUint16(data *uint16) Source
	ReadUint32(data *uint32) Source
	ReadUint64(data *uint64) Source

	ReadString(data *string, n int) Source
	ReadString8(data *string) Source
	ReadString16(data *string) Source

	ReadBytes(data []byte) Source
	ReadBytes8(data *[]byte) Source
	ReadBytes16(data *[]byte) Source
	ReadBytes32(data *[]byte) Source

	ReadDecodable(data Decodable) Source

	And(call func ()) Source
	AndThen(call func () error) Source

	Error() error
}

type Decodable interface {
	Decode(source Source) error
}

func NewErrorSource(err error) Source {
	return WrapSource(NewErrorBaseSource(err))
}

// Return a `Source` reading from `reader`.
// If `reader` knows how many bytes it has left (like `*bytes.Reader`) then
// the `Source` refuses to allocate buffers for declared lengths larger than
// what is left.
//
func NewReaderSource(reader io.Reader) Source {
	return WrapSource(NewReaderBaseSource(reader))
}


type BaseSource interface {
	ReadBytes(data []byte) BaseSource

	// Return how many bytes are left to read if this is known.
	//
	Remaining() (int, bool)

	Error() error
}

func WrapSource(base BaseSource) Source {
	return wrapSource(base)
}

func NewErrorBaseSource(err error) BaseSource {
	return newErrorSource(err)
}

func NewReaderBaseSource(reader io.Reader) BaseSource {
	return newReaderSource(reader)
}


// A length prefix declares more bytes than the `Source` can ever provide.
//
type SourceUnderflowError struct {
	Declared int
	Available int
}


// ----------------------------------------------------------------------------


type errorSource struct {
	err error
}

func newErrorSource(err error) *errorSource {
	return &errorSource{ err }
}

func (this *errorSource) ReadBytes(data []byte) BaseSource {
	return this
}

func (this *errorSource) Remaining() (int, bool) {
	return 0, false
}

func (this *errorSource) Error() error {
	return this.err
}


type lener interface {
	Len() int
}

type readerSource struct {
	reader io.Reader
}

func newReaderSource(reader io.Reader) *readerSource {
	return &readerSource{ reader }
}

func (this *readerSource) ReadBytes(data []byte) BaseSource {
	var err error

	_, err = io.ReadFull(this.reader, data)
	if err != nil {
		return newErrorSource(err)
	}

	return this
}

func (this *readerSource) Remaining() (int, bool) {
	var l lener
	var ok bool

	l, ok = this.reader.(lener)
	if !ok {
		return 0, false
	}

	return l.Len(), true
}

func (this *readerSource) Error() error {
	return nil
}


type wrappedSource struct {
	inner BaseSource
}

func wrapSource(base BaseSource) *wrappedSource {
	return &wrappedSource{ base }
}

// Allocate a buffer of `n` bytes if the source is healthy and can still
// provide that many bytes.
//
func (this *wrappedSource) alloc(n int) ([]byte, bool) {
	var remaining int
	var known bool

	if this.inner.Error() != nil {
		return nil, false
	}

	remaining, known = this.inner.Remaining()
	if known && (n > remaining) {
		this.inner = newErrorSource(&SourceUnderflowError{
			n, remaining,
		})
		return nil, false
	}

	return make([]byte, n), true
}

func (this *wrappedSource) ReadUint8(data *uint8) Source {
	var buf []byte = []byte{ 0 }
	this.inner = this.inner.ReadBytes(buf)
	*data = buf[0]
	return this
}

func (this *wrappedSource) ReadUint16(data *uint16) Source {
	var buf []byte = []byte{ 0, 0 }
	this.inner = this.inner.ReadBytes(buf)
	*data = binary.BigEndian.Uint16(buf)
	return this
}

func (this *wrappedSource) ReadUint32(data *uint32) Source {
	var buf []byte = []byte{ 0, 0, 0, 0 }
	this.inner = this.inner.ReadBytes(buf)
	*data = binary.BigEndian.Uint32(buf)
	return this
}

func (this *wrappedSource) ReadUint64(data *uint64) Source {
	var buf []byte = []byte{ 0, 0, 0, 0, 0, 0, 0, 0 }
	this.inner = this.inner.ReadBytes(buf)
	*data = binary.BigEndian.Uint64(buf)
	return this
}

func (this *wrappedSource) ReadString(data *string, n int) Source {
	var buf []byte
	var ok bool

	buf, ok = this.alloc(n)
	if ok {
		this.inner = this.inner.ReadBytes(buf)
		*data = string(buf)
	}

	return this
}

func (this *wrappedSource) ReadString8(data *string) Source {
	var n uint8
	return this.ReadUint8(&n).ReadString(data, int(n))
}

func (this *wrappedSource) ReadString16(data *string) Source {
	var n uint16
	return this.ReadUint16(&n).ReadString(data, int(n))
}

func (this *wrappedSource) ReadBytes(data []byte) Source {
	this.inner = this.inner.ReadBytes(data)
	return this
}

func (this *wrappedSource) readSized(data *[]byte, n int) Source {
	var buf []byte
	var ok bool

	buf, ok = this.alloc(n)
	if ok {
		this.inner = this.inner.ReadBytes(buf)
		*data = buf
	}

	return this
}

func (this *wrappedSource) ReadBytes8(data *[]byte) Source {
	var n uint8
	return this.ReadUint8(&n).(*wrappedSource).readSized(data, int(n))
}

func (this *wrappedSource) ReadBytes16(data *[]byte) Source {
	var n uint16
	return this.ReadUint16(&n).(*wrappedSource).readSized(data, int(n))
}

func (this *wrappedSource) ReadBytes32(data *[]byte) Source {
	var n uint32
	return this.ReadUint32(&n).(*wrappedSource).readSized(data, int(n))
}

func (this *wrappedSource) ReadDecodable(data Decodable) Source {
	var err error
	if this.Error() == nil {
		err = data.Decode(this)
		if err != nil {
			this.inner = newErrorSource(err)
		}
	}
	return this
}

func (this *wrappedSource) And(call func ()) Source {
	if this.inner.Error() == nil {
		call()
	}
	return this
}

func (this *wrappedSource) AndThen(call func () error) Source {
	var err error
	if this.inner.Error() == nil {
		err = call()
		if err != nil {
			this.inner = newErrorSource(err)
		}
	}
	return this
}

func (this *wrappedSource) Error() error {
	return this.inner.Error()
}


func (this *SourceUnderflowError) Error() string {
	return fmt.Sprintf("declared length %d exceeds available data (%d)",
		this.Declared, this.Available)
}
