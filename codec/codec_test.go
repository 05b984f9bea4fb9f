package codec


import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/wrapperspb"

	sio "wire/io"
)


// ----------------------------------------------------------------------------


type point struct {
	x uint32
	y uint32
	label string
}

func (this *point) Encode(sink sio.Sink) error {
	return sink.WriteUint32(this.x).
		WriteUint32(this.y).
		WriteString16(this.label).
		Error()
}

func (this *point) Decode(source sio.Source) error {
	return source.ReadUint32(&this.x).
		ReadUint32(&this.y).
		ReadString16(&this.label).
		Error()
}


type event struct {
	Name string `cbor:"1,keyasint"`
	Tags []string `cbor:"2,keyasint,omitempty"`
	Seq uint64 `cbor:"3,keyasint"`
}


// A writer accepting at most `max` bytes.
//
type shortWriter struct {
	buf bytes.Buffer
	max int
}

func (this *shortWriter) Write(b []byte) (int, error) {
	if len(b) <= this.max {
		this.max -= len(b)
		return this.buf.Write(b)
	}

	var n int = this.max

	this.buf.Write(b[:n])
	this.max = 0

	return n, errors.New("connection reset")
}

// A reader returning one byte per call.
//
type trickleReader struct {
	data []byte
}

func (this *trickleReader) Read(b []byte) (int, error) {
	if len(this.data) == 0 {
		return 0, io.EOF
	} else if len(b) == 0 {
		return 0, nil
	}

	b[0], this.data = this.data[0], this.data[1:]

	return 1, nil
}


func frame(payload []byte) []byte {
	var b []byte = make([]byte, FrameHeaderSize, FrameHeaderSize + len(payload))

	binary.BigEndian.PutUint32(b, uint32(len(payload)))

	return append(b, payload...)
}

func requireDecodeKind(t *testing.T, err error, kind DecodeErrorKind) {
	var derr *DecodeError

	t.Helper()

	require.ErrorAs(t, err, &derr)
	require.Equal(t, kind, derr.Kind, "error: %v", err)
}

func requireEncodeKind(t *testing.T, err error, kind EncodeErrorKind) *EncodeError {
	var eerr *EncodeError

	t.Helper()

	require.ErrorAs(t, err, &eerr)
	require.Equal(t, kind, eerr.Kind, "error: %v", err)

	return eerr
}


func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}


func TestBinaryRoundTrip(t *testing.T) {
	var c Codec[point] = NewBinary[point]()
	var in []point = []point{
		{ 1, 2, "a" },
		{ 0, 0, "" },
		{ 1 << 31, 7, "longer label" },
	}
	var buf bytes.Buffer
	var out point
	var err error
	var i int

	for i = range in {
		require.NoError(t, c.Encode(&buf, in[i], sio.Unbounded))
	}

	for i = range in {
		out, err = c.Decode(&buf, sio.Unbounded)
		require.NoError(t, err)
		require.Equal(t, in[i], out)
	}

	_, err = c.Decode(&buf, sio.Unbounded)
	requireDecodeKind(t, err, DecodeEndOfStream)
	require.True(t, IsEndOfStream(err))
}

func TestFrameLayout(t *testing.T) {
	var c Codec[Uint64] = NewBinary[Uint64]()
	var buf bytes.Buffer

	require.NoError(t, c.Encode(&buf, 0x0102030405060708, sio.Unbounded))
	require.Equal(t, []byte{ 0, 0, 0, 8, 1, 2, 3, 4, 5, 6, 7, 8 },
		buf.Bytes())
}

func TestFragmentedDecode(t *testing.T) {
	var c Codec[String] = NewBinary[String]()
	var r *trickleReader
	var buf bytes.Buffer
	var s String
	var err error

	require.NoError(t, c.Encode(&buf, "first", sio.Unbounded))
	require.NoError(t, c.Encode(&buf, "second", sio.Unbounded))

	r = &trickleReader{ buf.Bytes() }

	s, err = c.Decode(r, sio.Unbounded)
	require.NoError(t, err)
	require.Equal(t, String("first"), s)

	s, err = c.Decode(r, sio.Unbounded)
	require.NoError(t, err)
	require.Equal(t, String("second"), s)

	_, err = c.Decode(r, sio.Unbounded)
	require.True(t, IsEndOfStream(err))
}

func TestEncodeLimit(t *testing.T) {
	var c Codec[Bytes] = NewBinary[Bytes]()
	var buf bytes.Buffer
	var lerr *sio.LimitError
	var err error

	// 4 bytes of length + 4 bytes of data
	require.NoError(t, c.Encode(&buf, make(Bytes, 4), sio.Bounded(8)))
	require.Equal(t, 12, buf.Len())

	buf.Reset()

	err = c.Encode(&buf, make(Bytes, 5), sio.Bounded(8))
	requireEncodeKind(t, err, EncodeLimitExceeded)
	require.ErrorAs(t, err, &lerr)
	require.Equal(t, uint64(8), lerr.Limit)
	require.Zero(t, buf.Len(), "nothing should be written")
}

func TestDecodeLimit(t *testing.T) {
	var c Codec[Bytes] = NewBinary[Bytes]()
	var lerr *sio.LimitError
	var buf bytes.Buffer
	var err error

	require.NoError(t, c.Encode(&buf, make(Bytes, 100), sio.Unbounded))

	_, err = c.Decode(&buf, sio.Bounded(64))
	requireDecodeKind(t, err, DecodeLimitExceeded)
	require.ErrorAs(t, err, &lerr)
	require.Equal(t, uint64(104), lerr.Size)
}

func TestDecodeHugeDeclaredLength(t *testing.T) {
	var c Codec[Bytes] = NewBinary[Bytes]()
	var data []byte = []byte{ 0xff, 0xff, 0xff, 0xff, 1, 2, 3 }
	var err error

	_, err = c.Decode(bytes.NewReader(data), sio.Bounded(1 << 20))
	requireDecodeKind(t, err, DecodeLimitExceeded)
}

func TestDecodePrematureEnd(t *testing.T) {
	var c Codec[Uint64] = NewBinary[Uint64]()
	var full []byte = frame([]byte{ 1, 2, 3, 4, 5, 6, 7, 8 })
	var cut int
	var err error

	for _, cut = range []int{ 1, 3, 4, 5, len(full) - 1 } {
		_, err = c.Decode(bytes.NewReader(full[:cut]), sio.Unbounded)
		requireDecodeKind(t, err, DecodePrematureEnd)
	}
}

func TestDecodeMalformed(t *testing.T) {
	var c Codec[Uint64] = NewBinary[Uint64]()
	var payload []byte
	var err error

	for _, payload = range [][]byte{
		{ 1, 2, 3 },
		{ 1, 2, 3, 4, 5, 6, 7, 8, 9 },
	} {
		_, err = c.Decode(bytes.NewReader(frame(payload)), sio.Unbounded)
		requireDecodeKind(t, err, DecodeMalformed)
	}
}

func TestDecodeMalformedInnerLength(t *testing.T) {
	var c Codec[Bytes] = NewBinary[Bytes]()
	var underflow *sio.SourceUnderflowError
	var err error

	// declares 1 GiB of bytes in a 6 bytes payload
	_, err = c.Decode(bytes.NewReader(frame([]byte{ 0x40, 0, 0, 0, 1, 2 })),
		sio.Unbounded)
	requireDecodeKind(t, err, DecodeMalformed)
	require.ErrorAs(t, err, &underflow)
}

func TestEncodeShortWrite(t *testing.T) {
	var c Codec[Uint64] = NewBinary[Uint64]()
	var w *shortWriter = &shortWriter{ max: 5 }
	var eerr *EncodeError

	eerr = requireEncodeKind(t, c.Encode(w, 42, sio.Unbounded), EncodeIO)
	require.Equal(t, 5, eerr.Written)
}

func TestCborRoundTrip(t *testing.T) {
	var in []event = []event{
		{ Name: "start", Seq: 1 },
		{ Name: "tagged", Tags: []string{ "a", "b" }, Seq: 2 },
	}
	var c Codec[event]
	var buf bytes.Buffer
	var out event
	var err error
	var i int

	c, err = NewCbor[event]()
	require.NoError(t, err)

	for i = range in {
		require.NoError(t, c.Encode(&buf, in[i], sio.Bounded(128)))
	}

	for i = range in {
		out, err = c.Decode(&buf, sio.Bounded(128))
		require.NoError(t, err)
		require.Equal(t, in[i], out)
	}
}

func TestCborMalformed(t *testing.T) {
	var c Codec[event]
	var err error

	c, err = NewCbor[event]()
	require.NoError(t, err)

	_, err = c.Decode(bytes.NewReader(frame([]byte{ 0xff, 0x00 })),
		sio.Unbounded)
	requireDecodeKind(t, err, DecodeMalformed)
}

func TestCborEncodeLimit(t *testing.T) {
	var c Codec[event]
	var buf bytes.Buffer
	var err error

	c, err = NewCbor[event]()
	require.NoError(t, err)

	err = c.Encode(&buf, event{ Name: string(make([]byte, 64)) },
		sio.Bounded(32))
	requireEncodeKind(t, err, EncodeLimitExceeded)
	require.Zero(t, buf.Len())
}

func TestProtoRoundTrip(t *testing.T) {
	var c Codec[*wrapperspb.StringValue]
	var out *wrapperspb.StringValue
	var buf bytes.Buffer
	var err error

	c = NewProto(func () *wrapperspb.StringValue {
		return &wrapperspb.StringValue{}
	})

	require.NoError(t, c.Encode(&buf, wrapperspb.String("hello"),
		sio.Unbounded))
	require.NoError(t, c.Encode(&buf, wrapperspb.String(""),
		sio.Unbounded))

	out, err = c.Decode(&buf, sio.Unbounded)
	require.NoError(t, err)
	require.True(t, proto.Equal(wrapperspb.String("hello"), out))

	out, err = c.Decode(&buf, sio.Unbounded)
	require.NoError(t, err)
	require.Equal(t, "", out.GetValue())
}

func TestProtoMalformed(t *testing.T) {
	var c Codec[*wrapperspb.UInt64Value]
	var err error

	c = NewProto(func () *wrapperspb.UInt64Value {
		return &wrapperspb.UInt64Value{}
	})

	// field 1, varint, truncated
	_, err = c.Decode(bytes.NewReader(frame([]byte{ 0x08, 0xff })),
		sio.Unbounded)
	requireDecodeKind(t, err, DecodeMalformed)
}

func TestSnappyRoundTrip(t *testing.T) {
	var c Codec[Bytes] = NewSnappy(BinaryFormat[Bytes]())
	var in Bytes = bytes.Repeat([]byte("wire"), 1024)
	var buf bytes.Buffer
	var out Bytes
	var err error

	require.NoError(t, c.Encode(&buf, in, sio.Bounded(8192)))
	require.Less(t, buf.Len(), len(in))

	out, err = c.Decode(&buf, sio.Bounded(8192))
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestSnappyDecompressedLimit(t *testing.T) {
	var c Codec[Bytes] = NewSnappy(BinaryFormat[Bytes]())
	var in Bytes = make(Bytes, 4096)
	var buf bytes.Buffer
	var err error

	require.NoError(t, c.Encode(&buf, in, sio.Unbounded))
	require.Less(t, buf.Len(), 512)

	_, err = c.Decode(&buf, sio.Bounded(512))
	requireDecodeKind(t, err, DecodeLimitExceeded)
}

func TestErrorStrings(t *testing.T) {
	var err error

	err = &DecodeError{ DecodePrematureEnd, io.ErrUnexpectedEOF }
	require.Equal(t, "decode: premature end: unexpected EOF", err.Error())
	require.ErrorIs(t, err, io.ErrUnexpectedEOF)

	err = &EncodeError{ EncodeIO, 3, io.ErrClosedPipe }
	require.Equal(t, "encode: i/o error after 3 bytes: " +
		"io: read/write on closed pipe", err.Error())
	require.ErrorIs(t, err, io.ErrClosedPipe)

	require.False(t, IsEndOfStream(io.EOF))
}
