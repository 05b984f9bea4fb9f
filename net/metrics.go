package net


import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"wire/codec"
)


// ----------------------------------------------------------------------------


// Counters shared by the listeners and streams given the same `Metrics`.
// A nil `*Metrics` counts nothing.
//
type Metrics struct {
	Accepted prometheus.Counter
	Sent prometheus.Counter
	Received prometheus.Counter
	EncodeErrors *prometheus.CounterVec
	DecodeErrors *prometheus.CounterVec
}

// Create the counters under `namespace` and register them on `reg`.
// If `reg` is nil, the counters are not registered.
//
func NewMetrics(reg prometheus.Registerer, namespace string) (*Metrics, error) {
	var this Metrics
	var c prometheus.Collector
	var err error

	this.Accepted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name: "accepted_connections_total",
		Help: "Connections accepted by listeners.",
	})

	this.Sent = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name: "sent_messages_total",
		Help: "Messages encoded and written by outbound streams.",
	})

	this.Received = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name: "received_messages_total",
		Help: "Messages decoded by inbound streams.",
	})

	this.EncodeErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name: "encode_errors_total",
		Help: "Failed sends by kind of error.",
	}, []string{ "kind" })

	this.DecodeErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name: "decode_errors_total",
		Help: "Inbound streams terminated by an error, by kind.",
	}, []string{ "kind" })

	if reg == nil {
		return &this, nil
	}

	for _, c = range []prometheus.Collector{
		this.Accepted, this.Sent, this.Received,
		this.EncodeErrors, this.DecodeErrors,
	} {
		err = reg.Register(c)
		if err != nil {
			return nil, err
		}
	}

	return &this, nil
}


// ----------------------------------------------------------------------------


func (this *Metrics) accepted() {
	if this != nil {
		this.Accepted.Inc()
	}
}

func (this *Metrics) sent() {
	if this != nil {
		this.Sent.Inc()
	}
}

func (this *Metrics) received() {
	if this != nil {
		this.Received.Inc()
	}
}

func (this *Metrics) encodeError(err error) {
	var eerr *codec.EncodeError
	var kind string = "other"

	if this == nil {
		return
	}

	if errors.As(err, &eerr) {
		kind = eerr.Kind.String()
	}

	this.EncodeErrors.WithLabelValues(kind).Inc()
}

func (this *Metrics) decodeError(err error) {
	var derr *codec.DecodeError
	var kind string = "other"

	if this == nil {
		return
	}

	if errors.As(err, &derr) {
		kind = derr.Kind.String()
	}

	this.DecodeErrors.WithLabelValues(kind).Inc()
}
