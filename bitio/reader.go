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

// Package bitio provides buffered, big-endian bit-level readers and writers
// over the standard io.Reader/io.Writer interfaces. It implements the
// rangecoder.BitReader and rangecoder.BitWriter contracts used by the
// engine package.
package bitio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrInvalidBitCount is returned when a caller asks for a bit count outside [1..64].
var ErrInvalidBitCount = errors.New("bit count must be in [1..64]")

// ErrClosed is returned by reads and writes issued after Close.
var ErrClosed = errors.New("bit stream is closed")

const defaultBufferSize = 4096

// Reader reads individual bits, most significant bit first, from an
// underlying io.Reader. It keeps up to 64 not-yet-consumed bits in an
// internal accumulator so that Read(64) never needs more than one
// refill from the buffered byte slice.
type Reader struct {
	closed      bool
	read        int64
	position    int
	availBits   uint
	source      io.Reader
	buffer      []byte
	maxPosition int
	current     uint64
}

// NewReader creates a Reader pulling bytes from source, up to
// defaultBufferSize bytes at a time.
func NewReader(source io.Reader) (*Reader, error) {
	if source == nil {
		return nil, errors.New("bitio: nil source reader")
	}

	this := &Reader{
		source:      source,
		buffer:      make([]byte, defaultBufferSize),
		maxPosition: -1,
	}
	return this, nil
}

// ReadBit returns the next bit (0 or 1) read from the stream.
func (this *Reader) ReadBit() (uint64, error) {
	if this.availBits == 0 {
		if err := this.pullCurrent(); err != nil {
			return 0, err
		}
	}

	this.availBits--
	return (this.current >> this.availBits) & 1, nil
}

// Read returns the next n (in [1..64]) bits of the stream as the low bits
// of the returned uint64.
func (this *Reader) Read(n uint) (uint64, error) {
	if this.closed {
		return 0, ErrClosed
	}

	if n == 0 || n > 64 {
		return 0, fmt.Errorf("bitio: %w: got %d", ErrInvalidBitCount, n)
	}

	if n <= this.availBits {
		this.availBits -= n
		return (this.current >> this.availBits) & mask(n), nil
	}

	remaining := n - this.availBits
	high := this.current & mask(this.availBits)

	if err := this.pullCurrent(); err != nil {
		return 0, err
	}

	if remaining > this.availBits {
		return 0, io.ErrUnexpectedEOF
	}

	this.availBits -= remaining
	low := (this.current >> this.availBits) & mask(remaining)
	return (high << remaining) | low, nil
}

func mask(n uint) uint64 {
	if n >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << n) - 1
}

func (this *Reader) pullCurrent() error {
	if this.position > this.maxPosition {
		if err := this.refill(); err != nil {
			return err
		}
	}

	if this.position+7 > this.maxPosition {
		shift := uint(this.maxPosition-this.position) << 3
		this.availBits = shift + 8
		val := uint64(0)

		for this.position <= this.maxPosition {
			val |= uint64(this.buffer[this.position]) << shift
			this.position++
			if shift >= 8 {
				shift -= 8
			}
		}

		this.current = val
		return nil
	}

	this.current = binary.BigEndian.Uint64(this.buffer[this.position : this.position+8])
	this.availBits = 64
	this.position += 8
	return nil
}

func (this *Reader) refill() error {
	if this.closed {
		return ErrClosed
	}

	this.read += int64(this.maxPosition+1) << 3
	size, err := this.source.Read(this.buffer)
	this.position = 0

	if size <= 0 {
		this.maxPosition = -1
		if err == nil {
			err = io.ErrUnexpectedEOF
		}
		return err
	}

	this.maxPosition = size - 1
	return nil
}

// BitsRead returns the total number of bits consumed so far.
func (this *Reader) BitsRead() uint64 {
	return uint64(this.read + int64(this.position)<<3 - int64(this.availBits))
}

// Close makes the reader unavailable for further reads.
func (this *Reader) Close() error {
	this.closed = true
	this.availBits = 0
	this.maxPosition = -1
	return nil
}
