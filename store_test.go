package canvas

import (
	"bytes"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	file := filepath.Join(t.TempDir(), "canvas.db")

	s, err := NewStore(file)
	require.NoError(t, err)

	key := Key{SHA1: "DA39A3EE5E6B4B0D3255BFEF95601890AFD80709", Params: "convert"}

	b, err := s.Find(key)
	require.NoError(t, err)
	assert.Nil(t, b)

	data := bytes.Repeat([]byte("GIF89a"), 100)
	require.NoError(t, s.Add(key, data))

	b, err = s.Find(key)
	require.NoError(t, err)
	assert.Equal(t, data, b)

	// Same source, different parameters
	other := Key{SHA1: key.SHA1, Params: "animate"}
	b, err = s.Find(other)
	require.NoError(t, err)
	assert.Nil(t, b)

	require.NoError(t, s.Add(other, []byte{1, 2, 3}))
	require.NoError(t, s.Add(key, []byte{4, 5, 6}))

	b, err = s.Find(key)
	require.NoError(t, err)
	assert.Equal(t, []byte{4, 5, 6}, b)

	require.NoError(t, s.Close())

	// Entries persist across reopening
	s, err = NewStore(file)
	require.NoError(t, err)
	defer s.Close()

	b, err = s.Find(other)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, b)
}

func TestStoreConcurrent(t *testing.T) {
	s, err := NewStore(filepath.Join(t.TempDir(), "canvas.db"))
	require.NoError(t, err)
	defer s.Close()

	var wg sync.WaitGroup
	errc := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errc <- s.Add(Key{SHA1: "ABCDEF", Params: string(rune('a' + i))}, []byte{byte(i)})
		}(i)
	}
	wg.Wait()
	close(errc)

	for err := range errc {
		assert.NoError(t, err)
	}

	for i := 0; i < workers; i++ {
		b, err := s.Find(Key{SHA1: "ABCDEF", Params: string(rune('a' + i))})
		require.NoError(t, err)
		assert.Equal(t, []byte{byte(i)}, b)
	}
}

func TestAddSource(t *testing.T) {
	s, err := NewStore(filepath.Join(t.TempDir(), "canvas.db"))
	require.NoError(t, err)
	defer s.Close()

	ids := make([]int64, workers)
	errc := make(chan error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := s.addSource("0123456789")
			ids[i] = id
			errc <- err
		}(i)
	}
	wg.Wait()
	close(errc)

	for err := range errc {
		require.NoError(t, err)
	}
	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}

	other, err := s.addSource("ABCDEF")
	require.NoError(t, err)
	assert.NotEqual(t, ids[0], other)

	again, err := s.addSource("0123456789")
	require.NoError(t, err)
	assert.Equal(t, ids[0], again)
}
