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

package engine

import (
	"fmt"
	"io"

	"github.com/DimitrisVlachos/jscalable-entropy-coders"
	"github.com/DimitrisVlachos/jscalable-entropy-coders/bitio"
)

// eofSymbol terminates an adaptive-mode stream. The alphabet is bytes
// 0..255 plus this one sentinel, giving N = 257.
const eofSymbol = 256

const adaptiveAlphabet = eofSymbol + 1

// staticHeaderWords is the number of big-endian 32-bit words in a
// static-mode header: one length word followed by 256 frequency words.
const staticHeaderWords = 1 + 256

// EncodeAdaptive encodes data with a freshly initialised adaptive model
// and writes it to w. No header is written; the stream is terminated by
// the reserved EOF symbol.
func EncodeAdaptive(w io.Writer, data []byte) error {
	sink, err := bitio.NewWriter(w)
	if err != nil {
		return err
	}

	enc, err := NewEncoder(sink, adaptiveAlphabet)
	if err != nil {
		return err
	}

	for _, b := range data {
		if err := enc.EncodeSymbol(uint32(b)); err != nil {
			return err
		}
	}
	if err := enc.EncodeSymbol(eofSymbol); err != nil {
		return err
	}
	if err := enc.Flush(false); err != nil {
		return err
	}
	return sink.Close()
}

// DecodeAdaptive reads an adaptive-mode stream produced by EncodeAdaptive
// from r and returns the decoded bytes.
func DecodeAdaptive(r io.Reader) ([]byte, error) {
	source, err := bitio.NewReader(r)
	if err != nil {
		return nil, err
	}

	dec, err := NewDecoder(source, adaptiveAlphabet)
	if err != nil {
		return nil, err
	}

	var out []byte
	for {
		s, err := dec.DecodeSymbol()
		if err != nil {
			return nil, err
		}
		if s == eofSymbol {
			break
		}
		out = append(out, byte(s))
	}
	return out, nil
}

// EncodeStatic pre-scans data into a 256-entry histogram, writes a header
// carrying the input length and the histogram (each field a big-endian
// u32, matching the payload's own MSB-first bit order), then encodes the
// payload against that fixed-start model.
func EncodeStatic(w io.Writer, data []byte) error {
	var hist [256]uint32
	for _, b := range data {
		hist[b]++
	}

	sink, err := bitio.NewWriter(w)
	if err != nil {
		return err
	}

	if err := writeStaticHeader(sink, uint32(len(data)), hist); err != nil {
		return err
	}

	enc, err := NewStaticEncoder(sink, hist, uint32(len(data)), eofSymbol)
	if err != nil {
		return err
	}

	for _, b := range data {
		if err := enc.EncodeSymbol(uint32(b)); err != nil {
			return err
		}
	}
	if err := enc.Flush(false); err != nil {
		return err
	}
	return sink.Close()
}

// DecodeStatic reads a static-mode stream produced by EncodeStatic from r
// and returns the decoded bytes.
func DecodeStatic(r io.Reader) ([]byte, error) {
	source, err := bitio.NewReader(r)
	if err != nil {
		return nil, err
	}

	n, hist, err := readStaticHeader(source)
	if err != nil {
		return nil, err
	}

	dec, err := NewStaticDecoder(source, hist, n, eofSymbol)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, n)
	for i := uint32(0); i < n; i++ {
		s, err := dec.DecodeSymbol()
		if err != nil {
			return nil, err
		}
		out = append(out, byte(s))
	}
	return out, nil
}

func writeStaticHeader(sink rangecoder.BitWriter, length uint32, hist [256]uint32) error {
	if err := sink.Write(uint64(length), 32); err != nil {
		return fmt.Errorf("%w: %v", ErrIOFailure, err)
	}
	for _, f := range hist {
		if err := sink.Write(uint64(f), 32); err != nil {
			return fmt.Errorf("%w: %v", ErrIOFailure, err)
		}
	}
	return nil
}

func readStaticHeader(source rangecoder.BitReader) (uint32, [256]uint32, error) {
	var hist [256]uint32

	length, err := source.Read(32)
	if err != nil {
		return 0, hist, fmt.Errorf("%w: %v", ErrIOFailure, err)
	}

	for i := range hist {
		v, err := source.Read(32)
		if err != nil {
			return 0, hist, fmt.Errorf("%w: %v", ErrIOFailure, err)
		}
		hist[i] = uint32(v)
	}
	return uint32(length), hist, nil
}

// StaticHeaderSize returns the byte offset of the payload in a
// static-mode container: one length word plus 256 frequency words.
func StaticHeaderSize() int {
	return staticHeaderWords * 4
}
