package message

import (
	"errors"
	"iter"
	"slices"

	"github.com/danmuck/zmqkit/internal/protocol/frame"
	"github.com/danmuck/zmqkit/internal/zmq"
)

var ErrEmptyMessage = errors.New("message: empty message")

// FrameSender is the socket side of Send.
type FrameSender interface {
	SendFrame(f *frame.Frame, flags zmq.Flag) error
}

// FrameReceiver is the socket side of Receive.
type FrameReceiver interface {
	RecvFrame() (*frame.Frame, error)
}

// Message is an ordered multipart sequence of frames. The front frame is the
// first sent or received. The same frame may appear more than once.
//
// A Message is not safe for concurrent use.
type Message struct {
	frames []*frame.Frame
}

// New returns a message holding frames in order. Nil frames are skipped.
func New(frames ...*frame.Frame) *Message {
	m := &Message{frames: make([]*frame.Frame, 0, len(frames))}
	m.AddAll(frames...)
	return m
}

// NewString returns a message with one UTF-8 frame per part.
func NewString(parts ...string) *Message {
	m := &Message{frames: make([]*frame.Frame, 0, len(parts))}
	for _, p := range parts {
		m.frames = append(m.frames, frame.FromString(p))
	}
	return m
}

// Add appends f at the back. It reports false for a nil frame.
func (m *Message) Add(f *frame.Frame) bool {
	if f == nil {
		return false
	}
	m.frames = append(m.frames, f)
	return true
}

// AddAll appends every non-nil frame and reports whether the message changed.
func (m *Message) AddAll(frames ...*frame.Frame) bool {
	changed := false
	for _, f := range frames {
		if m.Add(f) {
			changed = true
		}
	}
	return changed
}

// PushFront inserts f before the current front.
func (m *Message) PushFront(f *frame.Frame) bool {
	if f == nil {
		return false
	}
	m.frames = slices.Insert(m.frames, 0, f)
	return true
}

// Pop removes and returns the front frame. ok is false when the message is
// empty; that is not an error.
func (m *Message) Pop() (f *frame.Frame, ok bool) {
	if len(m.frames) == 0 {
		return nil, false
	}
	f = m.frames[0]
	m.frames[0] = nil
	m.frames = m.frames[1:]
	return f, true
}

// Peek returns the front frame without removing it.
func (m *Message) Peek() (*frame.Frame, bool) {
	if len(m.frames) == 0 {
		return nil, false
	}
	return m.frames[0], true
}

func (m *Message) Len() int {
	return len(m.frames)
}

func (m *Message) IsEmpty() bool {
	return len(m.frames) == 0
}

// Contains reports whether a structurally equal frame is present.
func (m *Message) Contains(f *frame.Frame) bool {
	return m.index(f) >= 0
}

func (m *Message) ContainsAll(frames ...*frame.Frame) bool {
	for _, f := range frames {
		if !m.Contains(f) {
			return false
		}
	}
	return true
}

// Remove deletes the first frame equal to f.
func (m *Message) Remove(f *frame.Frame) bool {
	i := m.index(f)
	if i < 0 {
		return false
	}
	m.frames = slices.Delete(m.frames, i, i+1)
	return true
}

// RemoveAll deletes every frame equal to any of frames.
func (m *Message) RemoveAll(frames ...*frame.Frame) bool {
	return m.filter(func(f *frame.Frame) bool { return !containsEqual(frames, f) })
}

// RetainAll keeps only frames equal to one of frames.
func (m *Message) RetainAll(frames ...*frame.Frame) bool {
	return m.filter(func(f *frame.Frame) bool { return containsEqual(frames, f) })
}

func (m *Message) Clear() {
	clear(m.frames)
	m.frames = m.frames[:0]
}

// All iterates front to back.
func (m *Message) All() iter.Seq2[int, *frame.Frame] {
	return slices.All(m.frames)
}

// Frames returns a copy of the sequence.
func (m *Message) Frames() []*frame.Frame {
	return slices.Clone(m.frames)
}

// Send writes every frame in order; all but the last carry SndMore.
func (m *Message) Send(s FrameSender) error {
	if len(m.frames) == 0 {
		return ErrEmptyMessage
	}
	last := len(m.frames) - 1
	for i, f := range m.frames {
		var flags zmq.Flag
		if i < last {
			flags = zmq.SndMore
		}
		if err := s.SendFrame(f, flags); err != nil {
			return err
		}
	}
	return nil
}

// Receive reads frames until one arrives without the more flag.
func Receive(r FrameReceiver) (*Message, error) {
	m := &Message{}
	for {
		f, err := r.RecvFrame()
		if err != nil {
			return nil, err
		}
		m.frames = append(m.frames, f)
		if !f.More() {
			return m, nil
		}
	}
}

func (m *Message) index(f *frame.Frame) int {
	return slices.IndexFunc(m.frames, f.Equal)
}

func (m *Message) filter(keep func(*frame.Frame) bool) bool {
	before := len(m.frames)
	m.frames = slices.DeleteFunc(m.frames, func(f *frame.Frame) bool { return !keep(f) })
	return len(m.frames) != before
}

func containsEqual(frames []*frame.Frame, f *frame.Frame) bool {
	return slices.ContainsFunc(frames, f.Equal)
}
