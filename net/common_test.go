package net


import (
	"io"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	"wire/codec"
	sio "wire/io"
)


// ----------------------------------------------------------------------------


const BASE_TIMEOUT = 1000 * time.Millisecond

func timeout(n int) <-chan time.Time {
	return time.After(time.Duration(n) * BASE_TIMEOUT)
}


var uint64Codec codec.Codec[codec.Uint64] = codec.NewBinary[codec.Uint64]()

var stringCodec codec.Codec[codec.String] = codec.NewBinary[codec.String]()


//  - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - -


func listenTcpPort(t *testing.T) (uint16, net.Listener) {
	var fields []string
	var l net.Listener
	var port64 uint64
	var port string
	var err error

	l, err = net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
		return 0, nil
	}

	fields = strings.Split(l.Addr().String(), ":")

	port = fields[len(fields) - 1]
	port64, err = strconv.ParseUint(port, 10, 16)
	if err != nil {
		l.Close()
		t.Fatalf("listen: %v", err)
		return 0, nil
	}

	return uint16(port64), l
}

func findTcpPort(t *testing.T) uint16 {
	var l net.Listener
	var port uint16

	port, l = listenTcpPort(t)
	l.Close()

	return port
}

// Return both ends of a loopback TCP connection.
//
func tcpPair(t *testing.T) (*net.TCPConn, *net.TCPConn) {
	var accepted chan net.Conn = make(chan net.Conn, 1)
	var local net.Conn
	var l net.Listener
	var err error

	_, l = listenTcpPort(t)
	defer l.Close()

	go func () {
		var c net.Conn

		c, _ = l.Accept()
		accepted <- c
	}()

	local, err = net.Dial("tcp", l.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	select {
	case c := <-accepted:
		if c == nil {
			local.Close()
			t.Fatalf("accept failed")
		}
		return local.(*net.TCPConn), c.(*net.TCPConn)
	case <-timeout(1):
		local.Close()
		t.Fatalf("accept timeout")
		return nil, nil
	}
}

// Listen on loopback and return the port with the accepted connections.
//
func listenLoopback(t *testing.T, opts *ListenOptions) (uint16, *sio.Receiver[AcceptedConnection], *Acceptor) {
	var recv *sio.Receiver[AcceptedConnection]
	var acceptor *Acceptor
	var err error

	recv, acceptor, err = ListenWith("127.0.0.1", 0, opts)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	return uint16(acceptor.Addr().(*net.TCPAddr).Port), recv, acceptor
}

// Stop the accept loop and close the connections it may still hold.
//
func shutdownListener(t *testing.T, recv *sio.Receiver[AcceptedConnection], acceptor *Acceptor) {
	var ac AcceptedConnection
	var err error

	acceptor.Close()

	select {
	case <-waitChan(acceptor):
	case <-timeout(2):
		t.Fatalf("accept loop did not exit")
	}

	for {
		ac, err = recv.Recv()
		if err != nil {
			break
		}
		ac.Conn.Close()
	}

	if (err != io.EOF) && (err != sio.ErrDisconnected) {
		t.Errorf("listener ended with %v", err)
	}
}

func waitChan(acceptor *Acceptor) <-chan struct{} {
	var ret chan struct{} = make(chan struct{})

	go func () {
		acceptor.Wait()
		close(ret)
	}()

	return ret
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()

	select {
	case <-done:
	case <-timeout(2):
		t.Fatalf("reader goroutine did not exit")
	}
}

// Write every byte of `b` in its own segment.
//
func trickle(t *testing.T, conn *net.TCPConn, b []byte) {
	var i int

	conn.SetNoDelay(true)

	for i = range b {
		if _, err := conn.Write(b[i:i+1]); err != nil {
			t.Errorf("write: %v", err)
			return
		}
		time.Sleep(time.Millisecond)
	}
}

func encodeFrames[T any](t *testing.T, c codec.Codec[T], values ...T) []byte {
	var buf strings.Builder
	var err error
	var v T

	for _, v = range values {
		err = c.Encode(&buf, v, sio.Unbounded)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
	}

	return []byte(buf.String())
}
