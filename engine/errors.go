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

import "errors"

// Sentinel errors surfaced by the frequency model, encoder and decoder.
// Callers can match them with errors.Is even after they have been wrapped
// with additional context (e.g. an I/O failure wrapping ErrIOFailure).
var (
	// ErrNotInitialised is returned when EncodeSymbol/DecodeSymbol is
	// called on an engine that has not been through Init/InitFromHistogram.
	ErrNotInitialised = errors.New("engine: coder not initialised")

	// ErrInvalidAlphabet is returned by Init with N == 0, or Expand with
	// M <= N.
	ErrInvalidAlphabet = errors.New("engine: invalid alphabet size")

	// ErrIOFailure wraps a failure reported by the underlying bit sink or
	// source.
	ErrIOFailure = errors.New("engine: bit stream I/O failure")

	// ErrDecodeCorrupt is returned when the decoder cannot locate a
	// symbol for the current code, which indicates a truncated or
	// garbled stream.
	ErrDecodeCorrupt = errors.New("engine: corrupt or truncated stream")
)
