package frame

// Writer chains typed writes against one frame. The first failure sticks and
// every later write is skipped, so a failed chain never writes past the
// failing offset.
type Writer struct {
	f   *Frame
	err error
}

// Write starts a write chain.
func (f *Frame) Write() *Writer {
	return &Writer{f: f}
}

func (w *Writer) do(fn func() error) *Writer {
	if w.err == nil {
		w.err = fn()
	}
	return w
}

func (w *Writer) Uint8(off int, v uint8) *Writer {
	return w.do(func() error { return w.f.PutUint8(off, v) })
}

func (w *Writer) Uint16(off int, v uint16) *Writer {
	return w.do(func() error { return w.f.PutUint16(off, v) })
}

func (w *Writer) Uint32(off int, v uint32) *Writer {
	return w.do(func() error { return w.f.PutUint32(off, v) })
}

func (w *Writer) Uint64(off int, v uint64) *Writer {
	return w.do(func() error { return w.f.PutUint64(off, v) })
}

func (w *Writer) Int8(off int, v int8) *Writer {
	return w.do(func() error { return w.f.PutInt8(off, v) })
}

func (w *Writer) Int16(off int, v int16) *Writer {
	return w.do(func() error { return w.f.PutInt16(off, v) })
}

func (w *Writer) Int32(off int, v int32) *Writer {
	return w.do(func() error { return w.f.PutInt32(off, v) })
}

func (w *Writer) Int64(off int, v int64) *Writer {
	return w.do(func() error { return w.f.PutInt64(off, v) })
}

func (w *Writer) Float32(off int, v float32) *Writer {
	return w.do(func() error { return w.f.PutFloat32(off, v) })
}

func (w *Writer) Float64(off int, v float64) *Writer {
	return w.do(func() error { return w.f.PutFloat64(off, v) })
}

func (w *Writer) Bytes(off int, src []byte) *Writer {
	return w.do(func() error { return w.f.PutBytes(off, src) })
}

func (w *Writer) String(off int, s string) *Writer {
	return w.do(func() error { return w.f.PutString(off, s) })
}

// Err returns the first failure in the chain.
func (w *Writer) Err() error {
	return w.err
}

// Frame returns the frame being written.
func (w *Writer) Frame() *Frame {
	return w.f
}
