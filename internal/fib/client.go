package fib


import (
	"context"

	"golang.org/x/sync/errgroup"

	sio "wire/io"
	"wire/net"
)


// ----------------------------------------------------------------------------


type QueryOptions struct {
	// Bounds the whole query: connecting, sending and waiting for replies.
	// Default is `context.Background()`.
	Context context.Context

	Log sio.Logger

	Metrics *net.Metrics
}


// Send `xs` to the server on `host` and `port`, close the outbound stream and
// return every `Pair` the server answered, in order.
// Sending and receiving run concurrently so the server is never blocked on
// a full connection.
//
func Query(host string, port uint16, xs []uint64) ([]Pair, error) {
	return QueryWith(host, port, xs, nil)
}

func QueryWith(host string, port uint16, xs []uint64, opts *QueryOptions) ([]Pair, error) {
	var in *net.InboundStream[Pair]
	var out *net.OutboundStream[Number]
	var group errgroup.Group
	var stop func () bool
	var pairs []Pair
	var o QueryOptions
	var err error

	if opts != nil {
		o = *opts
	}

	if o.Context == nil {
		o.Context = context.Background()
	}

	in, out, err = net.ConnectWith(host, port, PairCodec(), NumberCodec(),
		&net.StreamOptions{
			ReadLimit: sio.Bounded(16),
			WriteLimit: sio.Bounded(8),
			Context: o.Context,
			Log: o.Log,
			Metrics: o.Metrics,
		})
	if err != nil {
		return nil, err
	}

	defer in.Close()

	stop = context.AfterFunc(o.Context, func () { in.Close() })
	defer stop()

	group.Go(func () error {
		var numbers []Number = make([]Number, len(xs))
		var i int

		defer out.Close()

		for i = range xs {
			numbers[i] = Number(xs[i])
		}

		return out.SendAll(numbers...)
	})

	group.Go(func () error {
		var pair Pair
		var err error

		for pair, err = range in.All() {
			if err != nil {
				return err
			}

			pairs = append(pairs, pair)
		}

		return nil
	})

	err = group.Wait()

	if o.Context.Err() != nil {
		return pairs, o.Context.Err()
	}

	return pairs, err
}
