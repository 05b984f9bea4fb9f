package net


import (
	"io"
	"net"
	"sync"
)


// ----------------------------------------------------------------------------


// A bidirectional byte stream whose directions can be shut down separately.
// Both `*net.TCPConn` and `*net.UnixConn` are `Connection`s.
//
type Connection interface {
	io.ReadWriteCloser

	// Shut down the reading side.
	// Subsequent reads return `io.EOF` and the peer may still receive
	// what is written.
	//
	CloseRead() error

	// Shut down the writing side.
	// The peer reads `io.EOF` once it consumed everything written before.
	//
	CloseWrite() error

	LocalAddr() net.Addr

	RemoteAddr() net.Addr
}


// Split `conn` in a read half and a write half which can be used from two
// different goroutines.
// Closing a half shuts down the corresponding direction only. Once both
// halves are closed, `conn` itself is closed.
//
func Split(conn Connection) (io.ReadCloser, io.WriteCloser) {
	var shared *splitConnection = newSplitConnection(conn)

	return &readHalf{ shared: shared }, &writeHalf{ shared: shared }
}


// ----------------------------------------------------------------------------


type splitConnection struct {
	conn Connection
	lock sync.Mutex
	open int
}

func newSplitConnection(conn Connection) *splitConnection {
	var this splitConnection

	this.conn = conn
	this.open = 2

	return &this
}

// Account for one closed half and close the connection if it was the last
// open one.
//
func (this *splitConnection) release() error {
	var last bool

	this.lock.Lock()
	this.open -= 1
	last = (this.open == 0)
	this.lock.Unlock()

	if last {
		return this.conn.Close()
	}

	return nil
}


type readHalf struct {
	shared *splitConnection
	once sync.Once
	err error
}

func (this *readHalf) Read(b []byte) (int, error) {
	return this.shared.conn.Read(b)
}

func (this *readHalf) Close() error {
	this.once.Do(func () {
		var err error

		this.err = this.shared.conn.CloseRead()

		err = this.shared.release()
		if this.err == nil {
			this.err = err
		}
	})

	return this.err
}


type writeHalf struct {
	shared *splitConnection
	once sync.Once
	err error
}

func (this *writeHalf) Write(b []byte) (int, error) {
	return this.shared.conn.Write(b)
}

func (this *writeHalf) Close() error {
	this.once.Do(func () {
		var err error

		this.err = this.shared.conn.CloseWrite()

		err = this.shared.release()
		if this.err == nil {
			this.err = err
		}
	})

	return this.err
}
