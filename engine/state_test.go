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

func TestEncoderSnapshotNeutrality(t *testing.T) {
	r := require.New(t)

	var buf bytes.Buffer
	sink, err := bitio.NewWriter(&buf)
	r.NoError(err)

	enc, err := NewEncoder(sink, 257)
	r.NoError(err)

	r.NoError(enc.EncodeSymbol('h'))
	r.NoError(enc.EncodeSymbol('i'))

	lowBefore, highBefore := enc.low, enc.high
	modelBefore := append([]uint32{}, enc.model.c...)
	writtenBefore := sink.BitsWritten()

	snap := enc.SaveState()
	_, err = enc.EstimateCost('!')
	r.NoError(err)
	enc.RestoreState(snap)

	r.Equal(lowBefore, enc.low)
	r.Equal(highBefore, enc.high)
	r.Equal(modelBefore, enc.model.c)
	r.Equal(writtenBefore, sink.BitsWritten())
}

func TestEstimateCostAgreesWithActualEncode(t *testing.T) {
	r := require.New(t)

	var buf bytes.Buffer
	sink, err := bitio.NewWriter(&buf)
	r.NoError(err)

	enc, err := NewEncoder(sink, 257)
	r.NoError(err)
	r.NoError(enc.EncodeSymbol('x'))

	snap := enc.SaveState()
	estimated, err := enc.EstimateCost('y')
	r.NoError(err)
	enc.RestoreState(snap)

	before := sink.BitsWritten()
	r.NoError(enc.EncodeSymbol('y'))
	actual := sink.BitsWritten() - before

	r.Equal(estimated, actual)
}

func TestEstimateCostBufferMatchesSequentialEncode(t *testing.T) {
	r := require.New(t)

	symbols := make([]uint32, 40)
	for i := range symbols {
		symbols[i] = uint32('a' + i%5)
	}

	var buf bytes.Buffer
	sink, err := bitio.NewWriter(&buf)
	r.NoError(err)

	enc, err := NewEncoder(sink, 257)
	r.NoError(err)
	r.NoError(enc.EncodeSymbol('z')) // warm the model a little before measuring

	snap := enc.SaveState()
	fullCost, err := enc.EstimateCostBuffer(symbols, ^uint64(0))
	r.NoError(err)

	// EstimateCostBuffer must leave the encoder's visible state untouched.
	r.Equal(snap.low, enc.low)
	r.Equal(snap.high, enc.high)
	r.Equal(snap.model.c, enc.model.c)

	var actual uint64
	for _, s := range symbols {
		before := sink.BitsWritten()
		r.NoError(enc.EncodeSymbol(s))
		actual += sink.BitsWritten() - before
	}

	r.Equal(fullCost, actual)
}

func TestEstimateCostBufferStopsEarlyAtLimit(t *testing.T) {
	r := require.New(t)

	symbols := make([]uint32, 400)
	for i := range symbols {
		symbols[i] = uint32('a' + i%5)
	}

	newPrimedEncoder := func() *Encoder {
		var buf bytes.Buffer
		sink, err := bitio.NewWriter(&buf)
		r.NoError(err)
		enc, err := NewEncoder(sink, 257)
		r.NoError(err)
		return enc
	}

	fullCost, err := newPrimedEncoder().EstimateCostBuffer(symbols, ^uint64(0))
	r.NoError(err)

	limitedCost, err := newPrimedEncoder().EstimateCostBuffer(symbols, 1)
	r.NoError(err)

	r.Less(limitedCost, fullCost)
}

func TestEncoderExpandAfterSnapshotReallocatesModel(t *testing.T) {
	r := require.New(t)

	var buf bytes.Buffer
	sink, err := bitio.NewWriter(&buf)
	r.NoError(err)

	enc, err := NewEncoder(sink, 4)
	r.NoError(err)
	snap := enc.SaveState()

	r.NoError(enc.Expand(8))
	r.Equal(uint32(8), enc.model.N())

	enc.RestoreState(snap)
	r.Equal(uint32(4), enc.model.N())
}

func TestFlushIsIdempotent(t *testing.T) {
	r := require.New(t)

	var buf bytes.Buffer
	sink, err := bitio.NewWriter(&buf)
	r.NoError(err)

	enc, err := NewEncoder(sink, 257)
	r.NoError(err)
	r.NoError(enc.EncodeSymbol('z'))
	r.NoError(enc.Flush(false))

	written := sink.BitsWritten()
	r.NoError(enc.Flush(false))
	r.Equal(written, sink.BitsWritten())
}

func TestDecoderSnapshotNeutrality(t *testing.T) {
	r := require.New(t)

	var encBuf bytes.Buffer
	r.NoError(EncodeAdaptive(&encBuf, []byte("snapshot")))

	source, err := bitio.NewReader(bytes.NewReader(encBuf.Bytes()))
	r.NoError(err)

	dec, err := NewDecoder(source, adaptiveAlphabet)
	r.NoError(err)

	_, err = dec.DecodeSymbol()
	r.NoError(err)

	lowBefore, highBefore, codeBefore := dec.low, dec.high, dec.code
	modelBefore := append([]uint32{}, dec.model.c...)

	snap := dec.SaveState()
	_, err = dec.DecodeSymbol()
	r.NoError(err)
	dec.RestoreState(snap)

	r.Equal(lowBefore, dec.low)
	r.Equal(highBefore, dec.high)
	r.Equal(codeBefore, dec.code)
	r.Equal(modelBefore, dec.model.c)
}

func TestEncoderMethodsOnZeroValueReturnNotInitialised(t *testing.T) {
	r := require.New(t)

	var enc Encoder

	err := enc.EncodeSymbol('a')
	r.ErrorIs(err, ErrNotInitialised)

	_, err = enc.EstimateCost('a')
	r.ErrorIs(err, ErrNotInitialised)

	_, err = enc.EstimateCostBuffer([]uint32{'a', 'b'}, ^uint64(0))
	r.ErrorIs(err, ErrNotInitialised)

	err = enc.Flush(false)
	r.ErrorIs(err, ErrNotInitialised)
}

func TestDecoderMethodOnZeroValueReturnsNotInitialised(t *testing.T) {
	var dec Decoder

	_, err := dec.DecodeSymbol()
	require.ErrorIs(t, err, ErrNotInitialised)
}

func TestEncoderInitOnZeroValueMatchesNewEncoder(t *testing.T) {
	r := require.New(t)

	var buf bytes.Buffer
	sink, err := bitio.NewWriter(&buf)
	r.NoError(err)

	var enc Encoder
	r.NoError(enc.Init(sink, 257))
	r.NoError(enc.EncodeSymbol('a'))
	r.NoError(enc.Flush(false))

	var want bytes.Buffer
	wantSink, err := bitio.NewWriter(&want)
	r.NoError(err)
	wantEnc, err := NewEncoder(wantSink, 257)
	r.NoError(err)
	r.NoError(wantEnc.EncodeSymbol('a'))
	r.NoError(wantEnc.Flush(false))

	r.Equal(want.Bytes(), buf.Bytes())
}
