/*
Copyright (c) 2014 Dimitris Vlachos

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to
deal in the Software without restriction, including without limitation the
rights to use, copy, modify, merge, publish, distribute, sublicense, and/or
sell copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/

package bitio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Writer writes individual bits, most significant bit first, to an
// underlying io.Writer. Bits accumulate in a 64-bit register and are
// flushed to a byte buffer, then to the underlying writer, once full.
type Writer struct {
	closed    bool
	written   int64
	position  int
	freeBits  uint
	sink      io.Writer
	buffer    []byte
	current   uint64
}

// NewWriter creates a Writer flushing bytes to sink, up to
// defaultBufferSize bytes at a time.
func NewWriter(sink io.Writer) (*Writer, error) {
	if sink == nil {
		return nil, errors.New("bitio: nil sink writer")
	}

	this := &Writer{
		sink:     sink,
		buffer:   make([]byte, defaultBufferSize),
		freeBits: 64,
	}
	return this, nil
}

// WriteBit writes a single bit (the least significant bit of v).
func (this *Writer) WriteBit(v uint64) error {
	return this.Write(v&1, 1)
}

// Write writes the n (in [1..64]) least significant bits of v to the stream.
func (this *Writer) Write(v uint64, n uint) error {
	if this.closed {
		return ErrClosed
	}

	if n == 0 || n > 64 {
		return fmt.Errorf("bitio: %w: got %d", ErrInvalidBitCount, n)
	}

	v &= mask(n)

	if n <= this.freeBits {
		this.freeBits -= n
		this.current |= v << this.freeBits
	} else {
		overflow := n - this.freeBits
		this.current |= v >> overflow
		if err := this.pushCurrent(); err != nil {
			return err
		}
		this.freeBits -= overflow
		this.current |= (v & mask(overflow)) << this.freeBits
	}

	if this.freeBits == 0 {
		return this.pushCurrent()
	}
	return nil
}

func (this *Writer) pushCurrent() error {
	if this.position+8 > len(this.buffer) {
		if err := this.flushBuffer(); err != nil {
			return err
		}
	}

	binary.BigEndian.PutUint64(this.buffer[this.position:this.position+8], this.current)
	this.position += 8
	this.current = 0
	this.freeBits = 64
	return nil
}

func (this *Writer) flushBuffer() error {
	if this.position == 0 {
		return nil
	}

	n, err := this.sink.Write(this.buffer[:this.position])
	this.written += int64(n) << 3
	this.position = 0
	return err
}

// BitsWritten returns the total number of bits written so far, including
// bits still buffered but not yet flushed to the underlying writer.
func (this *Writer) BitsWritten() uint64 {
	return uint64(this.written) + uint64(this.position)<<3 + uint64(64-this.freeBits)
}

// Close flushes any partial byte (zero-padded) and the internal buffer to
// the underlying writer. It does not close the underlying writer.
func (this *Writer) Close() error {
	if this.closed {
		return nil
	}

	if this.freeBits != 64 {
		// Pad the partial word with zero bits and flush it as whole bytes.
		used := (64 - int(this.freeBits) + 7) / 8
		var tmp [8]byte
		binary.BigEndian.PutUint64(tmp[:], this.current)

		if this.position+used > len(this.buffer) {
			if err := this.flushBuffer(); err != nil {
				return err
			}
		}

		copy(this.buffer[this.position:], tmp[:used])
		this.position += used
		this.current = 0
		this.freeBits = 64
	}

	err := this.flushBuffer()
	this.closed = true
	return err
}
