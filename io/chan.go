package io


import (
	"errors"
	"io"
	"iter"
	"sync"
)


// ----------------------------------------------------------------------------


const DefaultChannelBuffer = 16


// Returned to a producer when the consumer went away or when the channel
// already carries its terminal state.
// This is a normal shutdown signal, not a failure.
//
var ErrDisconnected = errors.New("channel disconnected")

// Returned by `Sender.SendOrStop` when the value was dropped because its stop
// channel was closed first.
//
var ErrStopped = errors.New("send stopped")


// Create a FIFO channel of `T` values with room for `bufsize` pending values.
// The channel ends either normally (`Sender.Close`) or with exactly one
// terminal error (`Sender.Error`).
// Values queued before the end stay deliverable to the `Receiver`.
//
func NewChannel[T any](bufsize int) (*Sender[T], *Receiver[T]) {
	var c *channel[T] = newChannel[T](bufsize)

	return &Sender[T]{ c }, &Receiver[T]{ c }
}


// The producer side of a channel.
// Several goroutines may use the same `Sender` concurrently.
//
type Sender[T any] struct {
	c *channel[T]
}

// The consumer side of a channel.
//
type Receiver[T any] struct {
	c *channel[T]
}


// ----------------------------------------------------------------------------


type channel[T any] struct {
	lock sync.RWMutex
	items chan T
	done bool
	errLock sync.Mutex
	err error
	gone chan struct{}
	goneOnce sync.Once
	ending chan struct{}
	endingOnce sync.Once
}

func newChannel[T any](bufsize int) *channel[T] {
	var this channel[T]

	if bufsize < 0 {
		bufsize = 0
	}

	this.items = make(chan T, bufsize)
	this.gone = make(chan struct{})
	this.ending = make(chan struct{})

	return &this
}

// Release the producers blocked on a full channel so that `Error` or `Close`
// can take the write lock without waiting for the consumer.
//
func (this *channel[T]) end() {
	this.endingOnce.Do(func () { close(this.ending) })
}

// Blocked senders hold the read lock, which keeps `items` open under them.
//
func (this *channel[T]) send(value T, stop <-chan struct{}) error {
	this.lock.RLock()
	defer this.lock.RUnlock()

	if this.done || this.disconnected() {
		return ErrDisconnected
	}

	select {
	case this.items <- value:
		return nil
	case <-this.gone:
		return ErrDisconnected
	case <-this.ending:
		return ErrDisconnected
	case <-stop:
		return ErrStopped
	}
}

func (this *channel[T]) disconnected() bool {
	select {
	case <-this.gone:
		return true
	default:
		return false
	}
}


// Push `value` at the end of the channel, blocking while the channel is full.
// Return `ErrDisconnected` if the channel is over or the consumer is gone.
// A producer blocked here when another one ends the channel gets
// `ErrDisconnected` and its value is dropped.
//
func (this *Sender[T]) Send(value T) error {
	return this.c.send(value, nil)
}

// Like `Send` but give up with `ErrStopped` as soon as `stop` is closed.
//
func (this *Sender[T]) SendOrStop(value T, stop <-chan struct{}) error {
	return this.c.send(value, stop)
}

// Terminate the channel with `err`.
// At most one call to `Error` or `Close` succeeds.
//
func (this *Sender[T]) Error(err error) error {
	this.c.end()
	this.c.lock.Lock()
	defer this.c.lock.Unlock()

	if this.c.done || this.c.disconnected() {
		return ErrDisconnected
	}

	this.c.done = true
	this.c.errLock.Lock()
	this.c.err = err
	this.c.errLock.Unlock()
	close(this.c.items)

	return nil
}

// Terminate the channel normally.
//
func (this *Sender[T]) Close() error {
	this.c.end()
	this.c.lock.Lock()
	defer this.c.lock.Unlock()

	if this.c.done || this.c.disconnected() {
		return ErrDisconnected
	}

	this.c.done = true
	close(this.c.items)

	return nil
}

func (this *Sender[T]) IsClosed() bool {
	this.c.lock.RLock()
	defer this.c.lock.RUnlock()

	return this.c.done || this.c.disconnected()
}


// Return the next value of the channel, blocking until one is available.
// When the channel is over, return `io.EOF` if it ended normally or its
// terminal error otherwise.
// Once the `Receiver` is closed, return `ErrDisconnected`.
//
func (this *Receiver[T]) Recv() (T, error) {
	var zero, value T
	var more bool

	if this.c.disconnected() {
		return zero, ErrDisconnected
	}

	select {
	case value, more = <-this.c.items:
	case <-this.c.gone:
		return zero, ErrDisconnected
	}

	if more {
		return value, nil
	}

	if err := this.Err(); err != nil {
		return zero, err
	}

	return zero, io.EOF
}

// Return a single-pass sequence over the remaining values.
// The sequence yields `(value, nil)` pairs and, if the channel ends with a
// terminal error, one last `(zero, err)` pair.
//
func (this *Receiver[T]) All() iter.Seq2[T, error] {
	return func (yield func (T, error) bool) {
		var value T
		var err error

		for {
			value, err = this.Recv()

			if (err == io.EOF) || (err == ErrDisconnected) {
				return
			} else if err != nil {
				yield(value, err)
				return
			}

			if !yield(value, nil) {
				return
			}
		}
	}
}

// Return the terminal error of the channel if any.
//
func (this *Receiver[T]) Err() error {
	this.c.errLock.Lock()
	defer this.c.errLock.Unlock()

	return this.c.err
}

// Disconnect the consumer.
// Blocked and future producer operations return `ErrDisconnected`.
//
func (this *Receiver[T]) Close() error {
	this.c.goneOnce.Do(func () { close(this.c.gone) })
	return nil
}
