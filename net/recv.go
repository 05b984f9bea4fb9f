package net


import (
	"bufio"
	"io"
	"iter"
	"runtime"

	"wire/codec"
	sio "wire/io"
)


// ----------------------------------------------------------------------------


// A typed sequence of values decoded from the read half of a connection.
//
// A background goroutine decodes values as they arrive and queues them for
// the consumer. It stops and shuts down the read half when the peer stops
// writing at a frame boundary, when decoding fails or when the consumer
// closes the stream.
//
type InboundStream[T any] struct {
	recv *sio.Receiver[T]
	half io.Closer
	done chan struct{}
}


// Return the next value.
// Return `io.EOF` once the peer has cleanly stopped writing, the
// terminating `*codec.DecodeError` if decoding failed, or
// `sio.ErrDisconnected` after `Close`.
//
func (this *InboundStream[T]) Recv() (T, error) {
	return this.recv.Recv()
}

// Return a single pass sequence of the remaining values.
// The sequence yields `(value, nil)` for each value and ends with
// `(zero, err)` only if the stream terminated on an error.
//
func (this *InboundStream[T]) All() iter.Seq2[T, error] {
	return this.recv.All()
}

// Return the error which terminated the stream, or `nil` if it is still
// running or ended cleanly.
//
func (this *InboundStream[T]) Err() error {
	return this.recv.Err()
}

// Stop consuming.
// The background goroutine exits promptly and the read half is shut down.
// A stream dropped without `Close` is closed when garbage collected.
//
func (this *InboundStream[T]) Close() error {
	runtime.SetFinalizer(this, nil)
	this.recv.Close()
	return this.half.Close()
}

// Return a channel closed once the background goroutine has exited.
//
func (this *InboundStream[T]) Done() <-chan struct{} {
	return this.done
}


// ----------------------------------------------------------------------------


func newInboundStream[T any](half io.ReadCloser, c codec.Codec[T], limit sio.SizeLimit, bufsize int, log sio.Logger, metrics *Metrics) *InboundStream[T] {
	var this InboundStream[T]
	var sender *sio.Sender[T]

	sender, this.recv = sio.NewChannel[T](bufsize)
	this.half = half
	this.done = make(chan struct{})

	go runInbound(sender, bufio.NewReader(half), c, limit, log, metrics,
		half, this.done)

	runtime.SetFinalizer(&this, func (s *InboundStream[T]) {
		log.Debug("close unreachable stream")
		s.recv.Close()
		s.half.Close()
	})

	return &this
}

// Decode from `reader` into `sender` until something stops the stream.
// The goroutine must not reference the `InboundStream`, otherwise its
// finalizer never runs.
//
func runInbound[T any](sender *sio.Sender[T], reader *bufio.Reader, c codec.Codec[T], limit sio.SizeLimit, log sio.Logger, metrics *Metrics, half io.Closer, done chan struct{}) {
	var value T
	var count int
	var err error

	defer close(done)
	defer half.Close()

	log.Trace("start decoding with limit %s", limit)

	for {
		value, err = c.Decode(reader, limit)

		if codec.IsEndOfStream(err) {
			log.Debug("end of stream after %d values",
				log.Emph(0, count))
			if sender.Close() == sio.ErrDisconnected {
				log.Trace("consumer already gone")
			}
			return
		}

		if err != nil {
			if sender.Error(err) == sio.ErrDisconnected {
				log.Trace("consumer gone: %v", err)
			} else {
				log.Warn("stop decoding: %v", err)
				metrics.decodeError(err)
			}
			return
		}

		metrics.received()
		count += 1

		if sender.Send(value) != nil {
			log.Trace("consumer gone after %d values",
				log.Emph(0, count))
			return
		}
	}
}
