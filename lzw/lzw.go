/*
Package lzw implements the variable width LZW compressor used by GIF.

The input is a sequence of symbols drawn from an alphabet of up to 2048
values. The output is a stream of codes packed least significant bit
first, starting with a single clear code and ending with an end code.
Codes start one bit wider than the minimum code size and grow up to 12
bits; once the 12 bit code space is exhausted the dictionary is frozen
rather than reset, so no clear code is ever emitted mid-stream.
*/
package lzw

import (
	"github.com/bodgit/canvas/errs"
)

const (
	// MaxCodeSize is the widest code emitted
	MaxCodeSize = 12
	// MaxMinimumCodeSize is the largest supported minimum code size
	MaxMinimumCodeSize = MaxCodeSize - 1

	op = "lzw"
)

type entry struct {
	prefix int
	symbol int
}

type encoder struct {
	w bitWriter

	clear int
	width uint
	next  int
	dict  map[entry]int
}

func newEncoder(minimumCodeSize int) *encoder {
	clear := 1 << minimumCodeSize
	return &encoder{
		clear: clear,
		width: uint(minimumCodeSize) + 1,
		next:  clear + 2,
		dict:  make(map[entry]int),
	}
}

func (e *encoder) emit(code int) {
	e.w.pushBits(uint32(code), e.width)
}

// add records prefix+symbol as the next code, widening the code size if
// required. It reports whether the entry was added.
func (e *encoder) add(prefix, symbol int) bool {
	if e.next >= 1<<e.width {
		if e.width >= MaxCodeSize {
			return false
		}
		e.width++
	}
	e.dict[entry{prefix, symbol}] = e.next
	e.next++
	return true
}

func (e *encoder) encode(symbols []int) {
	e.emit(e.clear)

	code := -1 // code of the longest match so far, -1 when empty
	for i := 0; i < len(symbols); {
		symbol := symbols[i]

		if code < 0 {
			code = symbol
			i++
			continue
		}

		if c, ok := e.dict[entry{code, symbol}]; ok {
			code = c
			i++
			continue
		}

		// The symbol is not consumed, it starts the next match
		e.emit(code)
		e.add(code, symbol)
		code = -1
	}

	if code >= 0 {
		e.emit(code)
	}

	e.emit(e.clear + 1)
}

// MinimumCodeSize returns the smallest code size able to represent every
// symbol of an alphabet.
func MinimumCodeSize(alphabetSize int) int {
	size := 0
	for 1<<size < alphabetSize {
		size++
	}
	return size
}

// Compress encodes symbols, each of which must be in [0, alphabetSize),
// and returns the packed codes with the minimum code size used.
func Compress(symbols []int, alphabetSize int) ([]byte, int, error) {
	if alphabetSize < 1 {
		return nil, 0, errs.Errorf(errs.Config, op, "alphabet size %d must be positive", alphabetSize)
	}

	minimumCodeSize := MinimumCodeSize(alphabetSize)
	if minimumCodeSize > MaxMinimumCodeSize {
		return nil, 0, errs.Errorf(errs.Config, op, "alphabet size %d requires %d bits thus exceeding the maximum of %d bits", alphabetSize, minimumCodeSize+1, MaxCodeSize)
	}

	for i, s := range symbols {
		if s < 0 || s >= alphabetSize {
			return nil, 0, errs.Errorf(errs.Config, op, "symbol %d at position %d is outside the alphabet of %d", s, i, alphabetSize)
		}
	}

	e := newEncoder(minimumCodeSize)
	e.encode(symbols)

	return e.w.bytes(), minimumCodeSize, nil
}
