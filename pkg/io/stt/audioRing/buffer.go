package audioring

import (
	"encoding/binary"
	"sync"

	"github.com/smallnest/ringbuffer"
)

type OverflowPolicy int

const (
	// Reject refuses frames once the buffer is full.
	Reject OverflowPolicy = iota
	// DropOldest evicts whole frames from the front to make room.
	DropOldest
)

// UtteranceBuffer accumulates frames until the device signals the end of
// an utterance.
type UtteranceBuffer interface {
	Append(f Frame) error
	Drain() []Frame
	Reset()
	// Len is the number of buffered bytes including framing.
	Len() int
	Capacity() int
	Frames() int
}

type rbBuffer struct {
	mu     sync.Mutex
	rb     *ringbuffer.RingBuffer
	policy OverflowPolicy
	frames int
}

func New(capacity int, policy OverflowPolicy) UtteranceBuffer {
	return &rbBuffer{
		rb:     ringbuffer.New(capacity).SetBlocking(false),
		policy: policy,
	}
}

// Append implements UtteranceBuffer. Each record is a 4-byte length prefix
// followed by the encoded frame.
func (b *rbBuffer) Append(f Frame) error {
	data, err := f.MarshalBinary()
	if err != nil {
		return err
	}
	required := len(data) + 4

	b.mu.Lock()
	defer b.mu.Unlock()

	if required > b.rb.Capacity() {
		return ErrFrameTooLarge
	}
	for b.rb.Free() < required {
		if b.policy == Reject {
			return ErrBufferFull
		}
		if _, ok := b.next(); !ok {
			b.rb.Reset()
			b.frames = 0
			break
		}
	}

	record := make([]byte, 4, required)
	binary.LittleEndian.PutUint32(record, uint32(len(data)))
	record = append(record, data...)
	if _, err := b.rb.Write(record); err != nil {
		return err
	}
	b.frames++
	return nil
}

// Drain implements UtteranceBuffer; the buffer is empty afterwards.
func (b *rbBuffer) Drain() []Frame {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Frame, 0, b.frames)
	for {
		f, ok := b.next()
		if !ok {
			break
		}
		out = append(out, f)
	}
	b.rb.Reset()
	b.frames = 0
	return out
}

func (b *rbBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rb.Reset()
	b.frames = 0
}

func (b *rbBuffer) Len() int {
	return b.rb.Length()
}

func (b *rbBuffer) Capacity() int {
	return b.rb.Capacity()
}

func (b *rbBuffer) Frames() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.frames
}

// next pops one record; callers hold mu.
func (b *rbBuffer) next() (Frame, bool) {
	if b.rb.IsEmpty() {
		return Frame{}, false
	}
	prefix := make([]byte, 4)
	if n, err := b.rb.Read(prefix); err != nil || n != 4 {
		return Frame{}, false
	}
	size := int(binary.LittleEndian.Uint32(prefix))
	data := make([]byte, size)
	if n, err := b.rb.Read(data); err != nil || n != size {
		return Frame{}, false
	}
	b.frames--

	var f Frame
	if err := f.UnmarshalBinary(data); err != nil {
		return Frame{}, false
	}
	return f, true
}
