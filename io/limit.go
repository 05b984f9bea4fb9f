package io


import (
	"bytes"
	"fmt"
)


// ----------------------------------------------------------------------------


// A ceiling on the serialized size of one message.
// The zero value is `Unbounded`.
//
type SizeLimit struct {
	max uint64
	bounded bool
}

var Unbounded SizeLimit = SizeLimit{}

func Bounded(max uint64) SizeLimit {
	return SizeLimit{ max, true }
}


// A message does not fit in a `SizeLimit`.
// `Size` is the declared or attempted size, which may be a lower bound when
// the size is detected incrementally.
//
type LimitError struct {
	Limit uint64
	Size uint64
}


// An `io.Writer` keeping in memory what is written up to a `SizeLimit`.
// The first write crossing the limit fails with a `*LimitError` and the
// buffer then refuses any further write.
//
type BoundedBuffer struct {
	buf bytes.Buffer
	limit SizeLimit
	err error
}

func NewBoundedBuffer(limit SizeLimit) *BoundedBuffer {
	return &BoundedBuffer{ limit: limit }
}


// ----------------------------------------------------------------------------


func (this SizeLimit) Max() (uint64, bool) {
	return this.max, this.bounded
}

func (this SizeLimit) Allows(size uint64) bool {
	return !this.bounded || (size <= this.max)
}

func (this SizeLimit) Check(size uint64) error {
	if this.Allows(size) {
		return nil
	}

	return &LimitError{ this.max, size }
}

func (this SizeLimit) String() string {
	if this.bounded {
		return fmt.Sprintf("bounded(%d)", this.max)
	} else {
		return "unbounded"
	}
}


func (this *LimitError) Error() string {
	return fmt.Sprintf("size limit exceeded (%d > %d)", this.Size,
		this.Limit)
}


func (this *BoundedBuffer) Write(data []byte) (int, error) {
	var err error

	if this.err != nil {
		return 0, this.err
	}

	err = this.limit.Check(uint64(this.buf.Len()) + uint64(len(data)))
	if err != nil {
		this.err = err
		return 0, err
	}

	return this.buf.Write(data)
}

func (this *BoundedBuffer) Bytes() []byte {
	return this.buf.Bytes()
}

func (this *BoundedBuffer) Len() int {
	return this.buf.Len()
}

func (this *BoundedBuffer) Err() error {
	return this.err
}
