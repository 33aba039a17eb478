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

// Command arange is a small demonstration driver for the carry-less range
// coder: it encodes or decodes a whole file at once, in either adaptive
// or static mode.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/DimitrisVlachos/jscalable-entropy-coders/engine"
)

const (
	exitOK          = 0
	exitUsage       = 1
	exitOpenFailure = 2
	exitIOFailure   = 3
	exitDecodeError = 4
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: arange [-static] encode <in> <out>")
	fmt.Fprintln(os.Stderr, "       arange [-static] decode <in> <out>")
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	static := false
	if len(args) > 0 && args[0] == "-static" {
		static = true
		args = args[1:]
	}

	if len(args) != 3 {
		usage()
		return exitUsage
	}

	verb, inPath, outPath := args[0], args[1], args[2]

	in, err := os.Open(inPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "arange:", err)
		return exitOpenFailure
	}
	defer in.Close()

	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "arange:", err)
		return exitOpenFailure
	}
	defer out.Close()

	switch verb {
	case "encode":
		return doEncode(in, out, static)
	case "decode":
		return doDecode(in, out, static)
	default:
		usage()
		return exitUsage
	}
}

func doEncode(in *os.File, out *os.File, static bool) int {
	data, err := io.ReadAll(in)
	if err != nil {
		fmt.Fprintln(os.Stderr, "arange:", err)
		return exitIOFailure
	}

	if static {
		err = engine.EncodeStatic(out, data)
	} else {
		err = engine.EncodeAdaptive(out, data)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "arange:", err)
		return exitIOFailure
	}
	return exitOK
}

func doDecode(in *os.File, out *os.File, static bool) int {
	var data []byte
	var err error

	if static {
		data, err = engine.DecodeStatic(in)
	} else {
		data, err = engine.DecodeAdaptive(in)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "arange:", err)
		if errors.Is(err, engine.ErrDecodeCorrupt) {
			return exitDecodeError
		}
		return exitIOFailure
	}

	if _, err := out.Write(data); err != nil {
		fmt.Fprintln(os.Stderr, "arange:", err)
		return exitIOFailure
	}
	return exitOK
}
