package fib


import (
	"context"
	"errors"

	"github.com/sourcegraph/conc"

	sio "wire/io"
	"wire/net"
)


// ----------------------------------------------------------------------------


type ServeOptions struct {
	// Largest request payload, default is 8 bytes.
	ReadLimit sio.SizeLimit

	Log sio.Logger

	Metrics *net.Metrics
}


// Serve each connection received from `conns` in its own goroutine until
// `conns` ends or `ctx` is canceled.
// Return the terminal error of `conns` if any, once every connection has
// been served.
//
func Serve(ctx context.Context, conns *sio.Receiver[net.AcceptedConnection], opts *ServeOptions) error {
	var wg conc.WaitGroup
	var ac net.AcceptedConnection
	var stop func () bool
	var o ServeOptions
	var err error

	if opts != nil {
		o = *opts
	}

	if _, bounded := o.ReadLimit.Max(); !bounded {
		o.ReadLimit = sio.Bounded(8)
	}

	if o.Log == nil {
		o.Log = sio.NewNopLogger()
	}

	stop = context.AfterFunc(ctx, func () { conns.Close() })
	defer stop()

	for ac, err = range conns.All() {
		var conn net.AcceptedConnection = ac

		if err != nil {
			break
		}

		wg.Go(func () {
			serveConnection(ctx, conn, &o)
		})
	}

	wg.Wait()

	if (err == nil) && (ctx.Err() != nil) {
		o.Log.Debug("stop serving: %v", ctx.Err())
	}

	return err
}


// ----------------------------------------------------------------------------


func serveConnection(ctx context.Context, ac net.AcceptedConnection, opts *ServeOptions) {
	var in *net.InboundStream[Number]
	var out *net.OutboundStream[Pair]
	var log sio.Logger
	var stop func () bool
	var count int
	var x Number
	var fx uint64
	var err error

	log = opts.Log.WithLocalContext("peer[%s]", ac.Peer)

	in, out = net.UpgradeWith(ac.Conn, NumberCodec(), PairCodec(),
		&net.StreamOptions{
			ReadLimit: opts.ReadLimit,
			Log: log,
			Metrics: opts.Metrics,
		})
	defer out.Close()
	defer in.Close()

	stop = context.AfterFunc(ctx, func () { in.Close() })
	defer stop()

	log.Debug("serving")

	for x, err = range in.All() {
		if err != nil {
			log.Warn("receive: %v", err)
			return
		}

		fx, err = Fib(uint64(x))
		if errors.Is(err, ErrOverflow) {
			log.Warn("refuse %d: %v", log.Emph(0, x), err)
			return
		}

		err = out.Send(Pair{ uint64(x), fx })
		if err != nil {
			log.Warn("send: %v", err)
			return
		}

		count += 1
	}

	log.Debug("served %d values", log.Emph(0, count))
}
