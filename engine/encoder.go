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

// Encoder is a carry-less range encoder. It narrows a [low, high] interval
// per symbol and emits bits with Subbotin's underflow-deferral scheme: the
// bit stream never needs to revisit an already-emitted bit, at the cost of
// tracking a pending underflow run.
type Encoder struct {
	model *Model

	low, high      uint64
	underflowCount uint64
	flushed        bool

	sink rangecoder.BitWriter
}

// NewEncoder creates an Encoder that will write its bitstream to sink,
// with a uniformly initialised model over an alphabet of size n.
func NewEncoder(sink rangecoder.BitWriter, n uint32) (*Encoder, error) {
	e := &Encoder{}
	if err := e.Init(sink, n); err != nil {
		return nil, err
	}
	return e, nil
}

// NewStaticEncoder creates an Encoder whose model is seeded from a
// pre-scanned histogram rather than a uniform distribution.
func NewStaticEncoder(sink rangecoder.BitWriter, hist [256]uint32, nInput uint32, eofIndex uint32) (*Encoder, error) {
	e := &Encoder{}
	if err := e.InitFromHistogram(sink, hist, nInput, eofIndex); err != nil {
		return nil, err
	}
	return e, nil
}

// Init brings a zero-value Encoder (e.g. a bare var Encoder) into a usable
// state, mirroring the reference coder's separate init() call after its
// default constructor. EncodeSymbol, EstimateCost, EstimateCostBuffer and
// Flush all return ErrNotInitialised on an Encoder that has not yet been
// through Init or InitFromHistogram.
func (this *Encoder) Init(sink rangecoder.BitWriter, n uint32) error {
	model, err := NewModel(n)
	if err != nil {
		return err
	}
	this.reset(sink, model)
	return nil
}

// InitFromHistogram is the static-mode counterpart to Init: it seeds the
// model from a pre-scanned histogram instead of a uniform distribution.
func (this *Encoder) InitFromHistogram(sink rangecoder.BitWriter, hist [256]uint32, nInput uint32, eofIndex uint32) error {
	model, err := NewModelFromHistogram(hist, nInput, eofIndex)
	if err != nil {
		return err
	}
	this.reset(sink, model)
	return nil
}

func (this *Encoder) reset(sink rangecoder.BitWriter, model *Model) {
	this.model = model
	this.low = 0
	this.high = rangeMask
	this.underflowCount = 0
	this.flushed = false
	this.sink = sink
}

// Model returns the encoder's frequency model.
func (this *Encoder) Model() *Model {
	return this.model
}

// Expand grows the encoder's alphabet; see Model.Expand.
func (this *Encoder) Expand(m uint32) error {
	return this.model.Expand(m)
}

// EncodeSymbol narrows the range for symbol s, emits the bits that
// renormalisation makes determinate, and applies the model's adaptive
// update.
func (this *Encoder) EncodeSymbol(s uint32) error {
	if this.model == nil {
		return ErrNotInitialised
	}

	if _, err := this.rangeCode(s, false); err != nil {
		return err
	}

	this.model.Update(s)
	return nil
}

// EstimateCost reports the number of bits that encoding s would emit from
// the current state, without emitting anything to the sink. It brackets
// the simulated encode in its own save/restore pair, so the encoder's
// externally visible state (low, high, underflowCount, model) is
// unchanged once it returns.
func (this *Encoder) EstimateCost(s uint32) (uint64, error) {
	if this.model == nil {
		return 0, ErrNotInitialised
	}

	snap := this.SaveState()
	cost, err := this.rangeCode(s, true)
	if err == nil {
		this.model.Update(s)
	}
	this.RestoreState(snap)
	return cost, err
}

// EstimateCostBuffer estimates the cost of encoding buf from the current
// state, stopping early once the running total exceeds limit. It returns
// the accumulated cost and leaves the encoder's visible state untouched.
func (this *Encoder) EstimateCostBuffer(buf []uint32, limit uint64) (uint64, error) {
	if this.model == nil {
		return 0, ErrNotInitialised
	}

	snap := this.SaveState()
	defer this.RestoreState(snap)

	var total uint64
	for _, s := range buf {
		cost, err := this.rangeCode(s, true)
		if err != nil {
			return total, err
		}

		this.model.Update(s)
		total += cost

		if total > limit {
			break
		}
	}
	return total, nil
}

// rangeCode performs the narrow-and-renormalise loop shared by real
// encoding and cost estimation. When simulate is true, no bits are
// written; when false, bits are written via this.sink. In both cases cost
// is the number of bits the step emits (or would have emitted).
func (this *Encoder) rangeCode(s uint32, simulate bool) (uint64, error) {
	lo, hi, total := this.model.Slice(s)

	tmpRange := (this.high - this.low) + 1
	this.high = this.low + (tmpRange*uint64(hi))/uint64(total) - 1
	this.low = this.low + (tmpRange*uint64(lo))/uint64(total)

	var cost uint64

	for {
		if (this.high & hiVal) == (this.low & hiVal) {
			b := (this.high >> hiBit) & 1
			cost += this.underflowCount + 1

			if !simulate {
				if err := this.emitBit(b); err != nil {
					return cost, err
				}
				if err := this.emitUnderflowBurst(b ^ 1); err != nil {
					return cost, err
				}
			}
			this.underflowCount = 0
		} else if (this.low&lowVal) != 0 && (this.high&lowVal) == 0 {
			this.underflowCount++
			this.low &= lowMask
			this.high |= lowVal
		} else {
			break
		}

		this.low = (this.low << 1) & rangeMask
		this.high = ((this.high << 1) | 1) & rangeMask
	}

	return cost, nil
}

func (this *Encoder) emitBit(b uint64) error {
	if err := this.sink.Write(b, 1); err != nil {
		return fmt.Errorf("%w: %v", ErrIOFailure, err)
	}
	return nil
}

// emitUnderflowBurst writes underflowCount copies of bit b, in up to
// 64-bit chunks, before underflowCount is reset by the caller.
func (this *Encoder) emitUnderflowBurst(b uint64) error {
	remaining := this.underflowCount
	var word uint64
	if b != 0 {
		word = ^uint64(0)
	}

	for remaining > 0 {
		n := remaining
		if n > 64 {
			n = 64
		}
		if err := this.sink.Write(word, uint(n)); err != nil {
			return fmt.Errorf("%w: %v", ErrIOFailure, err)
		}
		remaining -= n
	}
	return nil
}

// Flush terminates the stream unambiguously. It is idempotent: calling it
// a second time without force writes nothing observable.
func (this *Encoder) Flush(force bool) error {
	if this.model == nil {
		return ErrNotInitialised
	}

	if this.flushed && !force {
		return nil
	}

	this.underflowCount++
	b := (this.low >> lowBit) & 1

	if err := this.emitBit(b); err != nil {
		return err
	}
	if err := this.emitUnderflowBurst(b ^ 1); err != nil {
		return err
	}

	this.underflowCount = 0
	this.flushed = true
	return nil
}

// EncoderSnapshot is a deep copy of an Encoder's state, independent of the
// live engine and of the external bit sink.
type EncoderSnapshot struct {
	low, high      uint64
	underflowCount uint64
	flushed        bool
	model          *Model
}

// SaveState captures a deep copy of the encoder's state, including a full
// copy of the model, for later restoration.
func (this *Encoder) SaveState() *EncoderSnapshot {
	return &EncoderSnapshot{
		low:            this.low,
		high:           this.high,
		underflowCount: this.underflowCount,
		flushed:        this.flushed,
		model:          this.model.clone(),
	}
}

// RestoreState overwrites the encoder's state from snapshot. If the
// alphabet size differs from the encoder's current model, the model is
// replaced outright.
func (this *Encoder) RestoreState(snapshot *EncoderSnapshot) {
	this.low = snapshot.low
	this.high = snapshot.high
	this.underflowCount = snapshot.underflowCount
	this.flushed = snapshot.flushed
	this.model = snapshot.model.clone()
}

// DeleteState exists for API symmetry with restore-with-cleanup callers;
// Go's garbage collector reclaims the snapshot's backing array once it is
// unreferenced, so this only drops the snapshot's model reference.
func DeleteState(snapshot *EncoderSnapshot) {
	if snapshot == nil {
		return
	}
	snapshot.model = nil
}
