package buffer

import (
	"errors"
	"io"
	"strconv"

	"github.com/indigo-web/utils/uf"
)

// Capacity classes. Every buffer in the engine belongs to one of them.
const (
	BodySize   = 30 * 1024 * 1024
	HeaderSize = 8 * 1024
	FieldSize  = 128
)

var ErrOverflow = errors.New("buffer overflow")

// Buffer is a fixed-capacity byte container. Its memory is allocated exactly once, at
// construction, and never grows: writes that don't fit are refused as a whole, leaving
// the buffer unchanged. Slices returned by Bytes() are views and become invalid as soon
// as the buffer is Reset or Shift-ed.
type Buffer struct {
	memory []byte
	len    int
}

func New(capacity int) *Buffer {
	return &Buffer{
		memory: make([]byte, capacity),
	}
}

// Append writes data, checking whether the new amount of bytes doesn't exceed the
// capacity. In this case nothing is written and ErrOverflow is returned.
func (b *Buffer) Append(data []byte) error {
	if b.len+len(data) > len(b.memory) {
		return ErrOverflow
	}

	b.len += copy(b.memory[b.len:], data)
	return nil
}

func (b *Buffer) AppendString(str string) error {
	return b.Append(uf.S2B(str))
}

func (b *Buffer) AppendByte(c byte) error {
	if b.len+1 > len(b.memory) {
		return ErrOverflow
	}

	b.memory[b.len] = c
	b.len++
	return nil
}

// AppendInt renders the decimal representation of the value.
func (b *Buffer) AppendInt(value int64) error {
	var scratch [20]byte
	return b.Append(strconv.AppendInt(scratch[:0], value, 10))
}

// Fill reads once from the reader into the free tail of the buffer. ErrOverflow is
// returned if there's no free space left to read into.
func (b *Buffer) Fill(r io.Reader) (n int, err error) {
	if b.len == len(b.memory) {
		return 0, ErrOverflow
	}

	n, err = r.Read(b.memory[b.len:])
	b.len += n
	return n, err
}

// Bytes returns a view over [0, Len()).
func (b *Buffer) Bytes() []byte {
	return b.memory[:b.len]
}

// String returns the same view as Bytes, but as a string. No copying is made.
func (b *Buffer) String() string {
	return uf.B2S(b.Bytes())
}

func (b *Buffer) Len() int {
	return b.len
}

func (b *Buffer) Cap() int {
	return len(b.memory)
}

func (b *Buffer) Free() int {
	return len(b.memory) - b.len
}

// Truncate cuts the buffer down to n bytes. Larger values are ignored.
func (b *Buffer) Truncate(n int) {
	if n >= 0 && n < b.len {
		b.len = n
	}
}

// Shift discards the first n bytes, moving the rest to the beginning.
func (b *Buffer) Shift(n int) {
	if n >= b.len {
		b.len = 0
		return
	}

	b.len = copy(b.memory, b.memory[n:b.len])
}

// Reset empties the buffer. The storage is kept for reuse.
func (b *Buffer) Reset() {
	b.len = 0
}
