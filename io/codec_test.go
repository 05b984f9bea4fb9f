package io


import (
	"bytes"
	"errors"
	"io"
	"testing"
)


// ----------------------------------------------------------------------------


type record struct {
	id uint64
	kind uint8
	name string
	payload []byte
}

func (this *record) Encode(sink Sink) error {
	return sink.WriteUint64(this.id).
		WriteUint8(this.kind).
		WriteString16(this.name).
		WriteBytes32(this.payload).
		Error()
}

func (this *record) Decode(source Source) error {
	return source.ReadUint64(&this.id).
		ReadUint8(&this.kind).
		ReadString16(&this.name).
		ReadBytes32(&this.payload).
		Error()
}


func TestSourceSinkRoundTrip(t *testing.T) {
	var in []record = []record{
		{ 1, 2, "first", []byte("payload") },
		{ 1 << 60, 255, "", []byte{} },
	}
	var out record
	var buf bytes.Buffer
	var source Source
	var sink Sink
	var i int

	sink = NewWriterSink(&buf)
	for i = range in {
		sink = sink.WriteEncodable(&in[i])
	}
	if sink.Error() != nil {
		t.Fatalf("encode: %v", sink.Error())
	}

	source = NewReaderSource(&buf)
	for i = range in {
		out = record{}

		if source.ReadDecodable(&out).Error() != nil {
			t.Fatalf("decode %d: %v", i, source.Error())
		}

		if (out.id != in[i].id) || (out.kind != in[i].kind) ||
			(out.name != in[i].name) ||
			!bytes.Equal(out.payload, in[i].payload) {
			t.Errorf("decode %d: %v != %v", i, out, in[i])
		}
	}

	if buf.Len() != 0 {
		t.Errorf("%d bytes left", buf.Len())
	}
}

func TestSourceRefusesOversizedDeclaration(t *testing.T) {
	var data []byte = []byte{ 0xff, 0xff, 0xff, 0xf0, 1, 2, 3 }
	var underflow *SourceUnderflowError
	var b []byte
	var err error

	err = NewReaderSource(bytes.NewReader(data)).ReadBytes32(&b).Error()

	if !errors.As(err, &underflow) {
		t.Fatalf("expected underflow, got %v", err)
	}

	if (underflow.Declared != 0xfffffff0) || (underflow.Available != 3) {
		t.Errorf("unexpected underflow: %v", underflow)
	}

	if b != nil {
		t.Errorf("buffer allocated")
	}
}

func TestSourceTruncated(t *testing.T) {
	var err error
	var v uint64

	err = NewReaderSource(bytes.NewReader([]byte{ 1, 2, 3 })).
		ReadUint64(&v).Error()

	if err != io.ErrUnexpectedEOF {
		t.Errorf("expected unexpected EOF, got %v", err)
	}
}

func TestSinkOverflow(t *testing.T) {
	var overflow *SinkOverflowError
	var buf bytes.Buffer
	var err error

	err = NewWriterSink(&buf).WriteBytes8(make([]byte, 256)).Error()

	if !errors.As(err, &overflow) {
		t.Fatalf("expected overflow, got %v", err)
	}

	if buf.Len() != 0 {
		t.Errorf("%d bytes written", buf.Len())
	}
}

func TestBoundedSink(t *testing.T) {
	var limit *LimitError
	var buf *BoundedBuffer
	var sink Sink
	var err error

	sink, buf = NewBoundedSink(Bounded(10))

	err = sink.WriteUint64(1).WriteUint64(2).Error()
	if !errors.As(err, &limit) {
		t.Fatalf("expected limit error, got %v", err)
	}

	if buf.Len() != 8 {
		t.Errorf("buffered %d bytes", buf.Len())
	}

	if (limit.Limit != 10) || (limit.Size != 16) {
		t.Errorf("unexpected limit error: %v", limit)
	}

	sink, buf = NewBoundedSink(Unbounded)
	if sink.WriteBytes(make([]byte, 1 << 16)).Error() != nil {
		t.Errorf("unbounded sink failed")
	}
	if buf.Len() != 1 << 16 {
		t.Errorf("buffered %d bytes", buf.Len())
	}
}

func TestSizeLimit(t *testing.T) {
	var max uint64
	var ok bool

	if !Unbounded.Allows(1 << 62) {
		t.Errorf("unbounded refuses")
	}

	_, ok = Unbounded.Max()
	if ok {
		t.Errorf("unbounded has a max")
	}

	max, ok = Bounded(8).Max()
	if !ok || (max != 8) {
		t.Errorf("bounded max: %d %v", max, ok)
	}

	if !Bounded(8).Allows(8) || Bounded(8).Allows(9) {
		t.Errorf("bounded allows")
	}

	if Bounded(8).Check(9) == nil {
		t.Errorf("check should fail")
	}

	if (Bounded(8).String() != "bounded(8)") ||
		(Unbounded.String() != "unbounded") {
		t.Errorf("strings: %s %s", Bounded(8), Unbounded)
	}
}
