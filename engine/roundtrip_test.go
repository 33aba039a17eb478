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
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DimitrisVlachos/jscalable-entropy-coders/bitio"
)

func TestAdaptiveRoundTripUniformByte(t *testing.T) {
	r := require.New(t)

	var buf bytes.Buffer
	r.NoError(EncodeAdaptive(&buf, []byte{0x41}))

	got, err := DecodeAdaptive(bytes.NewReader(buf.Bytes()))
	r.NoError(err)
	r.Equal([]byte{0x41}, got)
}

func TestAdaptiveRoundTripShortRun(t *testing.T) {
	r := require.New(t)
	data := []byte("AAAA")

	var buf bytes.Buffer
	r.NoError(EncodeAdaptive(&buf, data))

	got, err := DecodeAdaptive(bytes.NewReader(buf.Bytes()))
	r.NoError(err)
	r.Equal(data, got)

	// Five symbols (AAAA + EOF) from a 257-symbol alphabet, entropy coded
	// and flushed, should fit in at most 8 bytes.
	r.LessOrEqual(buf.Len(), 8)
}

func TestAdaptiveRoundTripMixedAlphabet(t *testing.T) {
	r := require.New(t)
	data := []byte("abcdefghijklmnopqrstuvwxyz")

	var buf bytes.Buffer
	r.NoError(EncodeAdaptive(&buf, data))

	got, err := DecodeAdaptive(bytes.NewReader(buf.Bytes()))
	r.NoError(err)
	r.Equal(data, got)
}

func TestAdaptiveRoundTripEmptyInput(t *testing.T) {
	r := require.New(t)

	var buf bytes.Buffer
	r.NoError(EncodeAdaptive(&buf, nil))

	got, err := DecodeAdaptive(bytes.NewReader(buf.Bytes()))
	r.NoError(err)
	r.Empty(got)
}

func TestAdaptiveDeterminism(t *testing.T) {
	r := require.New(t)
	data := []byte("the quick brown fox jumps over the lazy dog")

	var buf1, buf2 bytes.Buffer
	r.NoError(EncodeAdaptive(&buf1, data))
	r.NoError(EncodeAdaptive(&buf2, data))
	r.Equal(buf1.Bytes(), buf2.Bytes())
}

func TestStaticRoundTrip4KiB(t *testing.T) {
	r := require.New(t)

	data := make([]byte, 4096)
	seed := uint32(12345)
	for i := range data {
		seed = seed*1664525 + 1013904223
		data[i] = byte(seed >> 24)
	}

	var buf bytes.Buffer
	r.NoError(EncodeStatic(&buf, data))

	got, err := DecodeStatic(bytes.NewReader(buf.Bytes()))
	r.NoError(err)
	r.Equal(data, got)
}

func TestStaticRoundTripEmptyInput(t *testing.T) {
	r := require.New(t)

	var buf bytes.Buffer
	r.NoError(EncodeStatic(&buf, nil))

	got, err := DecodeStatic(bytes.NewReader(buf.Bytes()))
	r.NoError(err)
	r.Empty(got)
}

func TestStaticHeaderLayout(t *testing.T) {
	r := require.New(t)

	data := []byte("mississippi river")
	var buf bytes.Buffer
	r.NoError(EncodeStatic(&buf, data))

	r.GreaterOrEqual(buf.Len(), StaticHeaderSize())
}

func TestDecodeAdaptiveRejectsTruncatedStream(t *testing.T) {
	r := require.New(t)

	var buf bytes.Buffer
	r.NoError(EncodeAdaptive(&buf, []byte("hello world")))

	truncated := buf.Bytes()[:buf.Len()/4]
	_, err := DecodeAdaptive(bytes.NewReader(truncated))
	r.Error(err)
}

func TestDecodeSymbolDetectsCorruptStream(t *testing.T) {
	r := require.New(t)

	var encBuf bytes.Buffer
	r.NoError(EncodeAdaptive(&encBuf, []byte("mississippi")))

	source, err := bitio.NewReader(bytes.NewReader(encBuf.Bytes()))
	r.NoError(err)

	dec, err := NewDecoder(source, adaptiveAlphabet)
	r.NoError(err)
	_, err = dec.DecodeSymbol()
	r.NoError(err)

	// A garbled payload byte folds into code during renormalisation and can
	// push it past the narrowed [low, high] interval; simulate that directly
	// so the next locate is forced to compute p >= C[N].
	dec.code = dec.high + 1

	_, err = dec.DecodeSymbol()
	r.ErrorIs(err, ErrDecodeCorrupt)
}

func TestAdaptiveRoundTripLargeInput(t *testing.T) {
	r := require.New(t)

	data := bytes.Repeat([]byte{0x00, 0x01}, 20000)

	var buf bytes.Buffer
	r.NoError(EncodeAdaptive(&buf, data))

	got, err := DecodeAdaptive(bytes.NewReader(buf.Bytes()))
	r.NoError(err)
	r.Equal(data, got)
}
