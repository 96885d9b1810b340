package frame

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
)

const (
	Width8  = 1
	Width16 = 2
	Width32 = 4
	Width64 = 8
)

var ErrOutOfRange = errors.New("frame: offset out of range")

// Frame is one addressable byte buffer, the unit of transmission.
//
// All typed access is absolute and big-endian. There is no cursor, so reads
// at an offset always observe the last write at that offset.
type Frame struct {
	buf  []byte
	more bool
}

// New returns a zeroed frame of size bytes.
func New(size int) *Frame {
	if size < 0 {
		size = 0
	}
	return &Frame{buf: make([]byte, size)}
}

// Wrap returns a frame backed by b without copying. Writes through the frame
// are visible in b, so the caller must not reuse b while the frame is live.
func Wrap(b []byte) *Frame {
	if b == nil {
		b = []byte{}
	}
	return &Frame{buf: b}
}

// FromString returns a frame holding the UTF-8 bytes of s.
func FromString(s string) *Frame {
	return &Frame{buf: []byte(s)}
}

// Received builds a frame as delivered by a socket. more reports that further
// frames of the same multipart message follow.
func Received(b []byte, more bool) *Frame {
	f := Wrap(b)
	f.more = more
	return f
}

// More reports whether this frame was received as a non-final part.
func (f *Frame) More() bool {
	return f.more
}

// Len returns the buffer length in bytes.
func (f *Frame) Len() int {
	return len(f.buf)
}

// Data returns the live buffer.
func (f *Frame) Data() []byte {
	return f.buf
}

// Grow extends the frame by n zero bytes. Growing past capacity reallocates,
// after which a wrapped frame no longer aliases the original slice.
func (f *Frame) Grow(n int) {
	if n <= 0 {
		return
	}
	f.buf = append(f.buf, make([]byte, n)...)
}

func (f *Frame) span(off, width int) ([]byte, error) {
	if off < 0 || width < 0 || off > len(f.buf)-width {
		return nil, fmt.Errorf("%w: offset=%d width=%d len=%d", ErrOutOfRange, off, width, len(f.buf))
	}
	return f.buf[off : off+width], nil
}

func (f *Frame) Uint8(off int) (uint8, error) {
	b, err := f.span(off, Width8)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (f *Frame) Uint16(off int) (uint16, error) {
	b, err := f.span(off, Width16)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (f *Frame) Uint32(off int) (uint32, error) {
	b, err := f.span(off, Width32)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (f *Frame) Uint64(off int) (uint64, error) {
	b, err := f.span(off, Width64)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

func (f *Frame) Int8(off int) (int8, error) {
	v, err := f.Uint8(off)
	return int8(v), err
}

func (f *Frame) Int16(off int) (int16, error) {
	v, err := f.Uint16(off)
	return int16(v), err
}

func (f *Frame) Int32(off int) (int32, error) {
	v, err := f.Uint32(off)
	return int32(v), err
}

func (f *Frame) Int64(off int) (int64, error) {
	v, err := f.Uint64(off)
	return int64(v), err
}

func (f *Frame) Float32(off int) (float32, error) {
	v, err := f.Uint32(off)
	return math.Float32frombits(v), err
}

func (f *Frame) Float64(off int) (float64, error) {
	v, err := f.Uint64(off)
	return math.Float64frombits(v), err
}

// Bytes copies len(dst) bytes starting at off into dst.
func (f *Frame) Bytes(off int, dst []byte) (int, error) {
	b, err := f.span(off, len(dst))
	if err != nil {
		return 0, err
	}
	return copy(dst, b), nil
}

// StringAt decodes n bytes at off as UTF-8. Invalid sequences become U+FFFD.
func (f *Frame) StringAt(off, n int) (string, error) {
	b, err := f.span(off, n)
	if err != nil {
		return "", err
	}
	if utf8.Valid(b) {
		return string(b), nil
	}
	return strings.ToValidUTF8(string(b), string(utf8.RuneError)), nil
}

func (f *Frame) PutUint8(off int, v uint8) error {
	b, err := f.span(off, Width8)
	if err != nil {
		return err
	}
	b[0] = v
	return nil
}

func (f *Frame) PutUint16(off int, v uint16) error {
	b, err := f.span(off, Width16)
	if err != nil {
		return err
	}
	binary.BigEndian.PutUint16(b, v)
	return nil
}

func (f *Frame) PutUint32(off int, v uint32) error {
	b, err := f.span(off, Width32)
	if err != nil {
		return err
	}
	binary.BigEndian.PutUint32(b, v)
	return nil
}

func (f *Frame) PutUint64(off int, v uint64) error {
	b, err := f.span(off, Width64)
	if err != nil {
		return err
	}
	binary.BigEndian.PutUint64(b, v)
	return nil
}

func (f *Frame) PutInt8(off int, v int8) error {
	return f.PutUint8(off, uint8(v))
}

func (f *Frame) PutInt16(off int, v int16) error {
	return f.PutUint16(off, uint16(v))
}

func (f *Frame) PutInt32(off int, v int32) error {
	return f.PutUint32(off, uint32(v))
}

func (f *Frame) PutInt64(off int, v int64) error {
	return f.PutUint64(off, uint64(v))
}

func (f *Frame) PutFloat32(off int, v float32) error {
	return f.PutUint32(off, math.Float32bits(v))
}

func (f *Frame) PutFloat64(off int, v float64) error {
	return f.PutUint64(off, math.Float64bits(v))
}

// PutBytes copies src into the frame at off.
func (f *Frame) PutBytes(off int, src []byte) error {
	b, err := f.span(off, len(src))
	if err != nil {
		return err
	}
	copy(b, src)
	return nil
}

// PutString writes the UTF-8 encoding of s at off.
func (f *Frame) PutString(off int, s string) error {
	b, err := f.span(off, len(s))
	if err != nil {
		return err
	}
	copy(b, s)
	return nil
}

// Equal compares contents and the more flag.
func (f *Frame) Equal(other *Frame) bool {
	if f == other {
		return true
	}
	if f == nil || other == nil {
		return false
	}
	return f.more == other.more && bytes.Equal(f.buf, other.buf)
}

// Hash is consistent with Equal.
func (f *Frame) Hash() uint64 {
	d := xxhash.New()
	_, _ = d.Write(f.buf)
	if f.more {
		_, _ = d.Write([]byte{1})
	} else {
		_, _ = d.Write([]byte{0})
	}
	return d.Sum64()
}

// Hex returns the contents as uppercase hex.
func (f *Frame) Hex() string {
	return strings.ToUpper(hex.EncodeToString(f.buf))
}

func (f *Frame) GoString() string {
	return fmt.Sprintf("frame.Frame{len=%d more=%t data=%s}", len(f.buf), f.more, f.Hex())
}
