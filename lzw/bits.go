package lzw

// bitWriter packs variable width codes least significant bit first.
type bitWriter struct {
	b []byte
	n uint // bits written
}

func (w *bitWriter) pushBits(value uint32, width uint) {
	for width > 0 {
		if w.n%8 == 0 {
			w.b = append(w.b, 0)
		}
		used := w.n % 8
		free := 8 - used
		if free > width {
			free = width
		}
		w.b[len(w.b)-1] |= byte(value&(1<<free-1)) << used
		value >>= free
		width -= free
		w.n += free
	}
}

func (w *bitWriter) bytes() []byte {
	return w.b
}
