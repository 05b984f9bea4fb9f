package net


import (
	"context"
	"io"

	"github.com/rs/xid"

	"wire/codec"
	sio "wire/io"
)


// ----------------------------------------------------------------------------


type StreamOptions struct {
	// Largest payload accepted by the inbound stream.
	// Default is `sio.Unbounded`.
	ReadLimit sio.SizeLimit

	// Largest payload produced by the outbound stream.
	// Default is `sio.Unbounded`.
	WriteLimit sio.SizeLimit

	// Number of decoded values the inbound stream queues ahead of its
	// consumer.
	// Default (0 or less) is `sio.DefaultChannelBuffer`.
	Buffer int

	// Bounds name resolution and connection establishment.
	// Only used by `ConnectWith`.
	Context context.Context

	Log sio.Logger

	Metrics *Metrics
}


// Turn `conn` into a typed inbound stream of `I` decoded with `in` and a
// typed outbound stream of `O` encoded with `out`.
// The streams take ownership of `conn`: it is closed once both streams are
// closed.
//
func Upgrade[I, O any](conn Connection, in codec.Codec[I], out codec.Codec[O]) (*InboundStream[I], *OutboundStream[O]) {
	return UpgradeWith(conn, in, out, nil)
}

func UpgradeWith[I, O any](conn Connection, in codec.Codec[I], out codec.Codec[O], opts *StreamOptions) (*InboundStream[I], *OutboundStream[O]) {
	var o StreamOptions = withStreamDefaults(opts)
	var id xid.ID = xid.New()
	var log sio.Logger

	log = o.Log.WithLocalContext("conn[%s]", id.String())

	log.Debug("upgrade %s -> %s", log.Emph(0, conn.LocalAddr()),
		log.Emph(1, conn.RemoteAddr()))

	return upgrade(conn, in, out, &o, log)
}


// ----------------------------------------------------------------------------


func withStreamDefaults(opts *StreamOptions) StreamOptions {
	var o StreamOptions

	if opts != nil {
		o = *opts
	}

	if o.Buffer <= 0 {
		o.Buffer = sio.DefaultChannelBuffer
	}

	if o.Context == nil {
		o.Context = context.Background()
	}

	if o.Log == nil {
		o.Log = sio.NewNopLogger()
	}

	return o
}

func upgrade[I, O any](conn Connection, in codec.Codec[I], out codec.Codec[O], opts *StreamOptions, log sio.Logger) (*InboundStream[I], *OutboundStream[O]) {
	var inbound *InboundStream[I]
	var outbound *OutboundStream[O]
	var r io.ReadCloser
	var w io.WriteCloser

	r, w = Split(conn)

	inbound = newInboundStream(r, in, opts.ReadLimit, opts.Buffer,
		log.WithLocalContext("in"), opts.Metrics)

	outbound = newOutboundStream(w, out, opts.WriteLimit,
		log.WithLocalContext("out"), opts.Metrics)

	return inbound, outbound
}
