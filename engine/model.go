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

import "fmt"

// probabilityWidth is WP, the bit width of each cumulative frequency
// counter (P). Fixed at 32 bits: both worked drivers in the reference
// implementation this package is modelled on instantiate their coder as
// <uint32_t counters, uint64_t range>, and the range engine below relies
// on that exact pairing to keep tmp_range*cumulative inside a uint64.
const probabilityWidth = 32

const (
	hiBit  = probabilityWidth - 1
	lowBit = probabilityWidth - 2

	hiVal  = uint64(1) << hiBit
	lowVal = uint64(1) << lowBit

	hiMask  = hiVal - 1
	lowMask = lowVal - 1

	// rangeMask is all-ones in the counter width; low/high/code never
	// carry bits above it even though they are stored in a wider uint64.
	rangeMask = (uint64(1) << probabilityWidth) - 1

	// maxTotal is the ceiling that triggers a model rescale.
	maxTotal = lowMask
)

// Model is the cumulative-frequency table shared by the encoder and the
// decoder. C has length N+1; C[s+1]-C[s] is the weight of symbol s and
// C[N] is the total.
type Model struct {
	c []uint32
	n uint32
}

// NewModel builds a uniformly distributed model over an alphabet of size n
// (C[i] = i for 0 <= i <= n), matching the original scalable_ac_c::init
// uniform fill.
func NewModel(n uint32) (*Model, error) {
	if n == 0 {
		return nil, ErrInvalidAlphabet
	}

	m := &Model{c: make([]uint32, n+1), n: n}
	for i := uint32(0); i <= n; i++ {
		m.c[i] = i
	}
	return m, nil
}

// NewModelFromHistogram builds a static-mode model from a 256-entry byte
// histogram. The alphabet keeps the same N+1 shape as the adaptive model
// by appending eofIndex as a zero-frequency sentinel slot, so the shared
// encode/decode loop below never has to special-case either mode; only
// the initial cumulative distribution differs. C[N] equals the sum of
// hist, which must equal nInput.
func NewModelFromHistogram(hist [256]uint32, nInput uint32, eofIndex uint32) (*Model, error) {
	n := eofIndex + 1
	if n == 0 {
		return nil, ErrInvalidAlphabet
	}

	m := &Model{c: make([]uint32, n+1), n: n}
	var sum uint32

	for i := uint32(0); i < uint32(len(hist)) && i < eofIndex; i++ {
		m.c[i] = sum
		sum += hist[i]
	}
	for i := uint32(len(hist)); i < eofIndex; i++ {
		m.c[i] = sum
	}

	m.c[eofIndex] = sum   // eofIndex carries zero width
	m.c[eofIndex+1] = sum // total, == nInput when hist sums to nInput

	if sum != nInput {
		return nil, fmt.Errorf("engine: histogram totals %d, want %d", sum, nInput)
	}
	return m, nil
}

// N returns the alphabet size.
func (this *Model) N() uint32 {
	return this.n
}

// Slice returns (lo, hi, total) for symbol s: C[s], C[s+1], C[N].
func (this *Model) Slice(s uint32) (uint32, uint32, uint32) {
	return this.c[s], this.c[s+1], this.c[this.n]
}

// Total returns C[N].
func (this *Model) Total() uint32 {
	return this.c[this.n]
}

// Locate returns the unique s such that C[s] <= p < C[s+1]. It scans from
// the top of the alphabet downward, matching the reference; any scan
// order that returns the same s is conformant.
func (this *Model) Locate(p uint32) uint32 {
	s := uint32(0)
	if this.n != 0 {
		s = this.n - 1
	}

	if s != 0 && this.c[s] > p {
		for s != 0 {
			s--
			if this.c[s] <= p {
				break
			}
		}
	}
	return s
}

// Update applies the adaptive increment for symbol s (C[k] += 1 for every
// k in (s, N]) and rescales if the total has reached the ceiling.
func (this *Model) Update(s uint32) {
	for k := s + 1; k <= this.n; k++ {
		this.c[k]++
	}

	if uint64(this.c[this.n]) >= maxTotal {
		this.rescale()
	}
}

// rescale halves every cumulative count, flooring each at prev+1 so that
// every symbol's slice stays at least 1 wide and relative order survives.
func (this *Model) rescale() {
	prev := this.c[0]
	for i := uint32(1); i <= this.n; i++ {
		curr := this.c[i] >> 1
		if curr <= prev {
			curr = prev + 1
		}
		this.c[i] = curr
		prev = curr
	}
}

// Expand grows the alphabet from N to m (m > N). Existing entries are
// unchanged; new entries continue the uniform pattern C[i] = i, matching
// the reference encoder's expand rule. The reference decoder instead
// restarts the new entries at 0 (C[N+1+k] = k); this package uses the
// continuation rule for both the encoder and the decoder model so the two
// never diverge after an expansion.
func (this *Model) Expand(m uint32) error {
	if m <= this.n {
		return ErrInvalidAlphabet
	}

	tmp := make([]uint32, m+1)
	copy(tmp, this.c)

	for i := this.n + 1; i <= m; i++ {
		tmp[i] = i
	}

	this.c = tmp
	this.n = m
	return nil
}

// clone returns a deep copy of the model, used by snapshotting.
func (this *Model) clone() *Model {
	c := make([]uint32, len(this.c))
	copy(c, this.c)
	return &Model{c: c, n: this.n}
}
