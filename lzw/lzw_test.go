package lzw

import (
	"bytes"
	"compress/lzw"
	"errors"
	"io"
	"math/rand"
	"testing"

	"github.com/bodgit/canvas/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decompress(t *testing.T, b []byte, minimumCodeSize int) []int {
	r := lzw.NewReader(bytes.NewReader(b), lzw.LSB, minimumCodeSize)
	defer r.Close()

	out, err := io.ReadAll(r)
	require.NoError(t, err)

	symbols := make([]int, len(out))
	for i, s := range out {
		symbols[i] = int(s)
	}
	return symbols
}

func TestPushBits(t *testing.T) {
	var w bitWriter
	w.pushBits(0x10, 5)
	w.pushBits(0x12, 5)
	w.pushBits(0x3ff, 10)
	w.pushBits(0x1, 1)

	// 10000 | 10010 | 1111111111 | 1
	assert.Equal(t, []byte{0x50, 0xfe, 0x1f}, w.bytes())
	assert.Equal(t, uint(21), w.n)
}

func TestCompress(t *testing.T) {
	t.Run("small alphabet", func(t *testing.T) {
		// AAABEFGAAB, Clear=16, End=17:
		//
		// Clear | A | AA (18) | B | E | F | G | AAB (19) | End
		symbols := []int{0, 0, 0, 1, 4, 5, 6, 0, 0, 1}

		b, minimumCodeSize, err := Compress(symbols, 10)
		require.NoError(t, err)
		assert.Equal(t, 4, minimumCodeSize)
		assert.Equal(t, []byte{0x10, 0xc8, 0x40, 0x8a, 0x99, 0x11}, b)
	})

	t.Run("byte alphabet", func(t *testing.T) {
		symbols := []int{40, 255, 255, 255, 40, 255, 255, 255, 255, 255, 255, 255, 255, 255, 255}

		b, minimumCodeSize, err := Compress(symbols, 256)
		require.NoError(t, err)
		assert.Equal(t, 8, minimumCodeSize)
		assert.Equal(t, []byte{0x00, 0x51, 0xfc, 0x1b, 0x28, 0x70, 0xa0, 0xc1, 0x83, 0x01, 0x01}, b)
		assert.Equal(t, symbols, decompress(t, b, minimumCodeSize))
	})

	t.Run("empty", func(t *testing.T) {
		b, minimumCodeSize, err := Compress(nil, 10)
		require.NoError(t, err)
		assert.Equal(t, 4, minimumCodeSize)
		assert.Equal(t, []byte{0x30, 0x02}, b)
	})

	t.Run("minimum code size", func(t *testing.T) {
		tables := []struct {
			alphabetSize, minimumCodeSize int
		}{
			{1, 0},
			{2, 1},
			{4, 2},
			{5, 3},
			{256, 8},
			{257, 9},
			{2048, 11},
		}
		for _, table := range tables {
			assert.Equal(t, table.minimumCodeSize, MinimumCodeSize(table.alphabetSize), "alphabet %d", table.alphabetSize)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		for _, alphabetSize := range []int{0, -1, 2049} {
			_, _, err := Compress([]int{0}, alphabetSize)
			assert.True(t, errors.Is(err, errs.ErrConfig), "alphabet %d", alphabetSize)
		}

		_, _, err := Compress([]int{0, 1, 4}, 4)
		assert.True(t, errors.Is(err, errs.ErrConfig))

		_, _, err = Compress([]int{-1}, 4)
		assert.True(t, errors.Is(err, errs.ErrConfig))
	})
}

func TestCodeWidth(t *testing.T) {
	e := newEncoder(8)
	assert.Equal(t, uint(9), e.width)
	assert.Equal(t, 258, e.next)

	for e.next < 512 {
		require.True(t, e.add(e.next, 0))
	}
	assert.Equal(t, uint(9), e.width)

	require.True(t, e.add(0, 1))
	assert.Equal(t, uint(10), e.width)
	assert.Equal(t, 512, e.dict[entry{0, 1}])

	for e.next < 1<<MaxCodeSize {
		require.True(t, e.add(e.next, 2))
	}
	assert.Equal(t, uint(MaxCodeSize), e.width)

	// The dictionary is now frozen
	assert.False(t, e.add(1, 1))
	assert.Len(t, e.dict, 1<<MaxCodeSize-258)
	assert.Equal(t, uint(MaxCodeSize), e.width)
}

func TestInterop(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	tables := []struct {
		name         string
		alphabetSize int
		length       int
		runs         bool
	}{
		{"noise", 256, 60000, false},
		{"runs", 256, 60000, true},
		{"small alphabet", 4, 200000, false},
		{"odd alphabet", 5, 10000, true},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			symbols := make([]int, 0, table.length)
			for len(symbols) < table.length {
				s, n := rng.Intn(table.alphabetSize), 1
				if table.runs {
					n += rng.Intn(20)
				}
				for i := 0; i < n && len(symbols) < table.length; i++ {
					symbols = append(symbols, s)
				}
			}

			b, minimumCodeSize, err := Compress(symbols, table.alphabetSize)
			require.NoError(t, err)

			// The standard library reader needs at least 2 bits
			if minimumCodeSize < 2 {
				minimumCodeSize = 2
			}
			assert.Equal(t, symbols, decompress(t, b, minimumCodeSize))
		})
	}
}
