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

// Package rangecoder defines the top level interfaces used by the carry-less
// range encoder and decoder implemented in the engine package.
//
// The bit-level stream implementations are available in the bitio package;
// the container framing (adaptive and static modes) and CLI driver sit on
// top in the engine and cmd/arange packages respectively.
package rangecoder

// BitWriter is the sink a range Encoder writes its coded bitstream to.
type BitWriter interface {
	// Write writes the n (in [1..64]) least significant bits of v, most
	// significant bit first.
	Write(v uint64, n uint) error

	// BitsWritten returns the number of bits written so far.
	BitsWritten() uint64

	// Close flushes any buffered bits. It does not close the underlying writer.
	Close() error
}

// BitReader is the source a range Decoder reads its coded bitstream from.
type BitReader interface {
	// Read reads n (in [1..64]) bits and returns them as the low bits of
	// the returned value, most significant bit first.
	Read(n uint) (uint64, error)

	// BitsRead returns the number of bits consumed so far.
	BitsRead() uint64

	// Close makes the reader unavailable for further reads.
	Close() error
}
