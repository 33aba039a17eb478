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

	"github.com/DimitrisVlachos/jscalable-entropy-coders"
)

// Decoder is the mirror image of Encoder: it narrows the same [low, high]
// interval per symbol, using a running code value fed from the bit
// source instead of an underflow counter, since underflow is resolved by
// XORing code directly rather than by deferring bit emission.
type Decoder struct {
	model *Model

	low, high uint64
	code      uint64

	source rangecoder.BitReader
}

// NewDecoder creates a Decoder reading its bitstream from source, with a
// uniformly initialised model over an alphabet of size n.
func NewDecoder(source rangecoder.BitReader, n uint32) (*Decoder, error) {
	d := &Decoder{}
	if err := d.Init(source, n); err != nil {
		return nil, err
	}
	return d, nil
}

// NewStaticDecoder creates a Decoder whose model is seeded from the same
// histogram the static encoder used.
func NewStaticDecoder(source rangecoder.BitReader, hist [256]uint32, nInput uint32, eofIndex uint32) (*Decoder, error) {
	d := &Decoder{}
	if err := d.InitFromHistogram(source, hist, nInput, eofIndex); err != nil {
		return nil, err
	}
	return d, nil
}

// Init brings a zero-value Decoder (e.g. a bare var Decoder) into a usable
// state, mirroring the reference coder's separate init() call after its
// default constructor. DecodeSymbol returns ErrNotInitialised on a Decoder
// that has not yet been through Init or InitFromHistogram.
func (this *Decoder) Init(source rangecoder.BitReader, n uint32) error {
	model, err := NewModel(n)
	if err != nil {
		return err
	}
	return this.reset(source, model)
}

// InitFromHistogram is the static-mode counterpart to Init: it seeds the
// model from a pre-scanned histogram instead of a uniform distribution.
func (this *Decoder) InitFromHistogram(source rangecoder.BitReader, hist [256]uint32, nInput uint32, eofIndex uint32) error {
	model, err := NewModelFromHistogram(hist, nInput, eofIndex)
	if err != nil {
		return err
	}
	return this.reset(source, model)
}

func (this *Decoder) reset(source rangecoder.BitReader, model *Model) error {
	this.model = model
	this.low = 0
	this.high = rangeMask
	this.source = source

	code, err := source.Read(probabilityWidth)
	if err != nil {
		this.model = nil
		return fmt.Errorf("%w: %v", ErrIOFailure, err)
	}
	this.code = code
	return nil
}

// Model returns the decoder's frequency model.
func (this *Decoder) Model() *Model {
	return this.model
}

// Expand grows the decoder's alphabet; see Model.Expand.
func (this *Decoder) Expand(m uint32) error {
	return this.model.Expand(m)
}

// DecodeSymbol locates the symbol whose cumulative slice contains the
// current code, narrows the range, pulls fresh bits into code during
// renormalisation, and applies the model's adaptive update.
func (this *Decoder) DecodeSymbol() (uint32, error) {
	if this.model == nil {
		return 0, ErrNotInitialised
	}

	total := uint64(this.model.Total())
	tmpRange := (this.high - this.low) + 1

	p := (((this.code-this.low)+1)*total - 1) / tmpRange
	if p >= total {
		return 0, ErrDecodeCorrupt
	}

	s := this.model.Locate(uint32(p))

	lo, hi, _ := this.model.Slice(s)
	this.high = this.low + (tmpRange*uint64(hi))/total - 1
	this.low = this.low + (tmpRange*uint64(lo))/total

	for {
		if (this.high & hiVal) == (this.low & hiVal) {
			// Nothing to do to code besides the shift below.
		} else if (this.low&lowVal) != 0 && (this.high&lowVal) == 0 {
			this.code ^= lowVal
			this.low &= lowMask
			this.high |= lowVal
		} else {
			break
		}

		this.low = (this.low << 1) & rangeMask
		this.high = ((this.high << 1) | 1) & rangeMask

		bit, err := this.source.Read(1)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrIOFailure, err)
		}
		this.code = ((this.code << 1) | bit) & rangeMask
	}

	this.model.Update(s)
	return s, nil
}

// DecoderSnapshot is a deep copy of a Decoder's state, independent of the
// live engine and of the external bit source.
type DecoderSnapshot struct {
	low, high uint64
	code      uint64
	model     *Model
}

// SaveState captures a deep copy of the decoder's state, including a full
// copy of the model, for later restoration.
func (this *Decoder) SaveState() *DecoderSnapshot {
	return &DecoderSnapshot{
		low:   this.low,
		high:  this.high,
		code:  this.code,
		model: this.model.clone(),
	}
}

// RestoreState overwrites the decoder's state from snapshot. If the
// alphabet size differs from the decoder's current model, the model is
// replaced outright.
func (this *Decoder) RestoreState(snapshot *DecoderSnapshot) {
	this.low = snapshot.low
	this.high = snapshot.high
	this.code = snapshot.code
	this.model = snapshot.model.clone()
}

// DeleteDecoderState exists for API symmetry with restore-with-cleanup
// callers; see DeleteState for the encoder-side rationale.
func DeleteDecoderState(snapshot *DecoderSnapshot) {
	if snapshot == nil {
		return
	}
	snapshot.model = nil
}
