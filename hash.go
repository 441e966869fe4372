package canvas

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"hash"
	"io"
	"os"

	"github.com/bodgit/canvas/errs"
)

type source struct {
	file string
	b    []byte
}

// readSources reads each file, returning the contents and a SHA-1 covering
// all of them in order.
func readSources(files ...string) ([]source, string, error) {
	h := sha1.New()
	sources := make([]source, 0, len(files))
	for _, file := range files {
		b, err := readSource(h, file)
		if err != nil {
			return nil, "", err
		}
		sources = append(sources, source{file: file, b: b})
	}
	return sources, fmt.Sprintf("%X", h.Sum(nil)), nil
}

func readSource(h hash.Hash, file string) ([]byte, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, errs.E(errs.IO, op, err)
	}
	defer f.Close()

	var b bytes.Buffer
	if _, err := io.Copy(io.MultiWriter(h, &b), f); err != nil {
		return nil, errs.E(errs.IO, op, err)
	}

	// Length suffix keeps frame boundaries significant
	fmt.Fprintf(h, ":%d;", b.Len())

	return b.Bytes(), nil
}
