package net


import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	sio "wire/io"
)


// ----------------------------------------------------------------------------


// A connection produced by a listener, along with the address of the peer.
//
type AcceptedConnection struct {
	Conn Connection
	Peer net.Addr
}


type ListenOptions struct {
	// When positive, each accept call gives up after this duration and
	// the accept loop checks whether it must stop before trying again.
	// Default is to wait for connections indefinitely.
	AcceptTimeout time.Duration

	// Number of accepted connections queued ahead of the consumer.
	// Default (0 or less) is `sio.DefaultChannelBuffer`.
	Buffer int

	Log sio.Logger

	Metrics *Metrics
}


// Handle on the accept loop of a listening socket.
//
type Acceptor struct {
	listener *net.TCPListener
	timeout time.Duration
	log sio.Logger
	metrics *Metrics
	closed atomic.Bool
	closeOnce sync.Once
	closeErr error
	stop chan struct{}
	done chan struct{}
}


// The listening socket failed for a reason other than being closed or a
// timeout.
//
type AcceptError struct {
	Err error
}


// Listen for TCP connections on `host` and `port`.
// An empty `host` listens on every interface and a zero `port` picks an
// ephemeral one.
//
// Accepted connections are delivered on the returned receiver until
// `Acceptor.Close` is called, the receiver is closed, or accepting fails,
// in which case the receiver ends with an `*AcceptError`.
//
func Listen(host string, port uint16) (*sio.Receiver[AcceptedConnection], *Acceptor, error) {
	return ListenWith(host, port, nil)
}

func ListenWith(host string, port uint16, opts *ListenOptions) (*sio.Receiver[AcceptedConnection], *Acceptor, error) {
	var sender *sio.Sender[AcceptedConnection]
	var recv *sio.Receiver[AcceptedConnection]
	var o ListenOptions
	var this Acceptor
	var l net.Listener
	var addr string
	var err error

	if opts != nil {
		o = *opts
	}

	if o.Buffer <= 0 {
		o.Buffer = sio.DefaultChannelBuffer
	}

	if o.Log == nil {
		o.Log = sio.NewNopLogger()
	}

	if (len(host) > 0) && !checkHost(host) {
		return nil, nil, &ResolutionError{ host, ErrInvalidHost }
	}

	addr = net.JoinHostPort(host, strconv.FormatUint(uint64(port), 10))

	l, err = net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, err
	}

	this.listener = l.(*net.TCPListener)
	this.timeout = o.AcceptTimeout
	this.log = o.Log.WithGlobalContext("listen[%s]", l.Addr())
	this.metrics = o.Metrics
	this.stop = make(chan struct{})
	this.done = make(chan struct{})

	sender, recv = sio.NewChannel[AcceptedConnection](o.Buffer)

	this.log.Info("listening")

	go this.run(sender)

	return recv, &this, nil
}


// Stop accepting connections and close the listening socket.
// Connections already delivered are not affected. A connection accepted but
// not yet delivered is closed instead.
//
func (this *Acceptor) Close() error {
	this.closeOnce.Do(func () {
		this.closed.Store(true)
		close(this.stop)
		this.closeErr = this.listener.Close()
	})

	return this.closeErr
}

func (this *Acceptor) Addr() net.Addr {
	return this.listener.Addr()
}

// Block until the accept loop has exited.
//
func (this *Acceptor) Wait() {
	<-this.done
}


// ----------------------------------------------------------------------------


func isTimeout(err error) bool {
	var nerr net.Error

	return errors.As(err, &nerr) && nerr.Timeout()
}

func (this *Acceptor) run(sender *sio.Sender[AcceptedConnection]) {
	var conn *net.TCPConn
	var err error

	defer close(this.done)
	defer this.listener.Close()

	for {
		if this.closed.Load() || sender.IsClosed() {
			this.log.Debug("stop accepting")
			sender.Close()
			return
		}

		if this.timeout > 0 {
			this.listener.SetDeadline(time.Now().Add(this.timeout))
		}

		conn, err = this.listener.AcceptTCP()

		if err != nil {
			if this.closed.Load() || errors.Is(err, net.ErrClosed) {
				this.log.Debug("listener closed")
				sender.Close()
				return
			}

			if isTimeout(err) || errors.Is(err, os.ErrDeadlineExceeded) {
				this.log.Trace("accept timeout")
				continue
			}

			this.log.Error("accept: %v", err)
			sender.Error(&AcceptError{ err })

			return
		}

		this.metrics.accepted()

		if this.closed.Load() {
			this.log.Debug("listener closed, drop %s",
				this.log.Emph(0, conn.RemoteAddr()))
			conn.Close()
			sender.Close()
			return
		}

		this.log.Debug("accept %s", this.log.Emph(0, conn.RemoteAddr()))

		err = sender.SendOrStop(AcceptedConnection{ conn, conn.RemoteAddr() },
			this.stop)
		if err != nil {
			this.log.Debug("not delivered (%v), close %s", err,
				this.log.Emph(0, conn.RemoteAddr()))
			conn.Close()
			sender.Close()
			return
		}
	}
}


func (this *AcceptError) Error() string {
	return fmt.Sprintf("accept: %v", this.Err)
}

func (this *AcceptError) Unwrap() error {
	return this.Err
}
