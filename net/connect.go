package net


import (
	"context"
	"fmt"
	"net"
	"strings"

	"wire/codec"
)


// ----------------------------------------------------------------------------


// Every candidate address of `Host` refused the connection.
// `Errs` holds the failure of each candidate, in the order they were tried.
//
type ConnectError struct {
	Host string
	Port uint16
	Errs []error
}


// Open a TCP connection to `host` on `port`.
// The candidate addresses of `host` are tried in order and the first
// successful one is returned.
//
func Dial(ctx context.Context, host string, port uint16) (Connection, error) {
	var dialer net.Dialer
	var addrs []string
	var conn net.Conn
	var errs []error
	var addr string
	var err error

	addrs, err = resolve(ctx, host, port)
	if err != nil {
		return nil, err
	}

	for _, addr = range addrs {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
		if err == nil {
			return conn.(*net.TCPConn), nil
		}

		errs = append(errs, err)

		if ctx.Err() != nil {
			break
		}
	}

	return nil, &ConnectError{ host, port, errs }
}


// Connect to `host` on `port` and upgrade the connection into an inbound
// stream of `I` and an outbound stream of `O`.
//
func Connect[I, O any](host string, port uint16, in codec.Codec[I], out codec.Codec[O]) (*InboundStream[I], *OutboundStream[O], error) {
	return ConnectWith(host, port, in, out, nil)
}

func ConnectWith[I, O any](host string, port uint16, in codec.Codec[I], out codec.Codec[O], opts *StreamOptions) (*InboundStream[I], *OutboundStream[O], error) {
	var o StreamOptions = withStreamDefaults(opts)
	var inbound *InboundStream[I]
	var outbound *OutboundStream[O]
	var conn Connection
	var err error

	o.Log.Trace("connect to %s:%d", o.Log.Emph(0, host), port)

	conn, err = Dial(o.Context, host, port)
	if err != nil {
		o.Log.Debug("connect to %s:%d: %v", o.Log.Emph(0, host), port,
			err)
		return nil, nil, err
	}

	inbound, outbound = UpgradeWith(conn, in, out, &o)

	return inbound, outbound, nil
}


// ----------------------------------------------------------------------------


func (this *ConnectError) Error() string {
	var builder strings.Builder
	var err error
	var i int

	fmt.Fprintf(&builder, "cannot connect to %s port %d", this.Host,
		this.Port)

	for i, err = range this.Errs {
		if i == 0 {
			builder.WriteString(": ")
		} else {
			builder.WriteString("; ")
		}

		builder.WriteString(err.Error())
	}

	return builder.String()
}

func (this *ConnectError) Unwrap() []error {
	return this.Errs
}
