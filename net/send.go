package net


import (
	"errors"
	"fmt"
	"io"
	"iter"
	"runtime"
	"sync"

	"wire/codec"
	sio "wire/io"
)


// ----------------------------------------------------------------------------


var ErrClosed = errors.New("outbound stream closed")

// A previous send failed after writing part of its frame, so the peer can no
// longer find frame boundaries.
//
var ErrPoisoned = errors.New("outbound stream poisoned by a partial write")


// A typed sink encoding values on the write half of a connection.
//
// Each `Send` encodes and writes synchronously on the caller goroutine with a
// single write. Closing the stream shuts down the write half so the peer
// sees a clean end of stream. An unreachable stream which was never closed
// is closed by the garbage collector, but callers should `defer Close()`.
//
type OutboundStream[T any] struct {
	inner *outbound[T]
}

// Failure of `SendAll` or `SendSeq` while sending the item at `Index`.
// `Rest` holds the items of `SendAll` after `Item`, never sent.
//
type SendAllError[T any] struct {
	Index int
	Item T
	Rest []T
	Err error
}


func (this *OutboundStream[T]) Send(value T) error {
	return this.inner.send(value)
}

// Send every item of `items` in order and stop at the first failure.
//
func (this *OutboundStream[T]) SendAll(items ...T) error {
	var err error
	var i int

	for i = range items {
		err = this.inner.send(items[i])
		if err != nil {
			return &SendAllError[T]{ i, items[i], items[i+1:], err }
		}
	}

	return nil
}

// Send every item yielded by `seq` in order and stop at the first failure.
// The sequence is not resumed after a failure.
//
func (this *OutboundStream[T]) SendSeq(seq iter.Seq[T]) error {
	var index int
	var ret error
	var item T

	for item = range seq {
		ret = this.inner.send(item)
		if ret != nil {
			return &SendAllError[T]{ index, item, nil, ret }
		}

		index += 1
	}

	return nil
}

// Shut down the write half.
// Any call after the first one does nothing and returns `nil`.
//
func (this *OutboundStream[T]) Close() error {
	runtime.SetFinalizer(this, nil)
	return this.inner.close()
}


// ----------------------------------------------------------------------------


type outbound[T any] struct {
	lock sync.Mutex
	half io.WriteCloser
	codec codec.Codec[T]
	limit sio.SizeLimit
	log sio.Logger
	metrics *Metrics
	closed bool
	poisoned bool
}

func newOutboundStream[T any](half io.WriteCloser, c codec.Codec[T], limit sio.SizeLimit, log sio.Logger, metrics *Metrics) *OutboundStream[T] {
	var this OutboundStream[T]

	this.inner = &outbound[T]{
		half: half,
		codec: c,
		limit: limit,
		log: log,
		metrics: metrics,
	}

	runtime.SetFinalizer(&this, func (s *OutboundStream[T]) {
		s.inner.log.Debug("close unreachable stream")
		s.inner.close()
	})

	return &this
}

func (this *outbound[T]) send(value T) error {
	var eerr *codec.EncodeError
	var err error

	this.lock.Lock()
	defer this.lock.Unlock()

	if this.closed {
		return ErrClosed
	} else if this.poisoned {
		return ErrPoisoned
	}

	err = this.codec.Encode(this.half, value, this.limit)
	if err == nil {
		this.metrics.sent()
		return nil
	}

	this.metrics.encodeError(err)

	if errors.As(err, &eerr) && (eerr.Kind == codec.EncodeIO) &&
		(eerr.Written > 0) {
		this.log.Warn("poisoned after %d bytes: %v",
			this.log.Emph(0, eerr.Written), eerr.Err)
		this.poisoned = true
	} else {
		this.log.Debug("send: %v", err)
	}

	return err
}

func (this *outbound[T]) close() error {
	this.lock.Lock()
	defer this.lock.Unlock()

	if this.closed {
		return nil
	}

	this.closed = true

	this.log.Trace("close")

	return this.half.Close()
}


func (this *SendAllError[T]) Error() string {
	return fmt.Sprintf("send item %d: %v", this.Index, this.Err)
}

func (this *SendAllError[T]) Unwrap() error {
	return this.Err
}
