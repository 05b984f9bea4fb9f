package net


import (
	"errors"
	"io"
	"net"
	"testing"

	"go.uber.org/goleak"
)


// ----------------------------------------------------------------------------


func TestSplitWriteHalfClose(t *testing.T) {
	var a, b *net.TCPConn
	var r io.ReadCloser
	var w io.WriteCloser
	var buf []byte
	var err error

	defer goleak.VerifyNone(t)

	a, b = tcpPair(t)
	defer b.Close()

	r, w = Split(a)
	defer r.Close()

	if _, err = w.Write([]byte("ping")); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err = w.Close(); err != nil {
		t.Fatalf("close write half: %v", err)
	}

	buf, err = io.ReadAll(b)
	if err != nil {
		t.Fatalf("peer read: %v", err)
	} else if string(buf) != "ping" {
		t.Errorf("peer read %q", buf)
	}

	// the read half still works
	if _, err = b.Write([]byte("pong")); err != nil {
		t.Fatalf("peer write: %v", err)
	}
	b.CloseWrite()

	buf, err = io.ReadAll(r)
	if err != nil {
		t.Fatalf("read: %v", err)
	} else if string(buf) != "pong" {
		t.Errorf("read %q", buf)
	}
}

func TestSplitReadHalfClose(t *testing.T) {
	var a, b *net.TCPConn
	var r io.ReadCloser
	var w io.WriteCloser
	var buf []byte
	var err error

	defer goleak.VerifyNone(t)

	a, b = tcpPair(t)
	defer b.Close()

	r, w = Split(a)

	if err = r.Close(); err != nil {
		t.Fatalf("close read half: %v", err)
	}

	// the write half still works
	if _, err = w.Write([]byte("still here")); err != nil {
		t.Fatalf("write after read close: %v", err)
	}

	if err = w.Close(); err != nil {
		t.Fatalf("close write half: %v", err)
	}

	buf, err = io.ReadAll(b)
	if err != nil {
		t.Fatalf("peer read: %v", err)
	} else if string(buf) != "still here" {
		t.Errorf("peer read %q", buf)
	}

	// both halves closed: the socket is gone
	_, err = a.Write([]byte("x"))
	if !errors.Is(err, net.ErrClosed) {
		t.Errorf("socket not closed: %v", err)
	}
}

func TestSplitCloseTwice(t *testing.T) {
	var a, b *net.TCPConn
	var r io.ReadCloser
	var w io.WriteCloser

	defer goleak.VerifyNone(t)

	a, b = tcpPair(t)
	defer b.Close()

	r, w = Split(a)

	if (r.Close() != nil) || (r.Close() != nil) {
		t.Errorf("read half close")
	}

	if (w.Close() != nil) || (w.Close() != nil) {
		t.Errorf("write half close")
	}

	if !errors.Is(a.Close(), net.ErrClosed) {
		t.Errorf("socket should be closed once")
	}
}
