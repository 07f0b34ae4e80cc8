package binding

// Source is a byte-addressable view of a marker region.
//
// The marker region is rewritten on disk after compilation, so its contents
// must never be treated as known at build time. Every read in this package
// goes through a Source, and through readByte, which the compiler cannot
// inline or see through.
type Source interface {
	Len() int
	ByteAt(i int) byte
}

type byteSource []byte

// Bytes returns a Source backed by b. b is not copied.
func Bytes(b []byte) Source { return byteSource(b) }

func (s byteSource) Len() int { return len(s) }

//go:noinline
func (s byteSource) ByteAt(i int) byte { return s[i] }

type textSource string

// Text returns a Source over the bytes of s.
func Text(s string) Source { return textSource(s) }

func (s textSource) Len() int { return len(s) }

//go:noinline
func (s textSource) ByteAt(i int) byte { return s[i] }

type sliceSource struct {
	src Source
	off int
}

// Slice returns a window of src starting at off.
func Slice(src Source, off int) Source {
	if off < 0 {
		off = 0
	}
	if off > src.Len() {
		off = src.Len()
	}
	return sliceSource{src: src, off: off}
}

func (s sliceSource) Len() int { return s.src.Len() - s.off }

//go:noinline
func (s sliceSource) ByteAt(i int) byte { return s.src.ByteAt(s.off + i) }

//go:noinline
func readByte(src Source, i int) byte {
	return src.ByteAt(i)
}

// CompareRange reports whether the first length bytes of a and b are equal.
// Bytes are read one at a time and the loop stops at the first mismatch.
// A length beyond either source compares unequal without reading past it.
//
//go:noinline
func CompareRange(a, b Source, length int) bool {
	if length < 0 || length > a.Len() || length > b.Len() {
		return false
	}
	for i := 0; i < length; i++ {
		if readByte(a, i) != readByte(b, i) {
			return false
		}
	}
	return true
}

// CopyRange copies up to length bytes of src into dst, one byte at a time,
// and returns the number of bytes copied.
//
//go:noinline
func CopyRange(dst []byte, src Source, length int) int {
	n := length
	if n > len(dst) {
		n = len(dst)
	}
	if n > src.Len() {
		n = src.Len()
	}
	for i := 0; i < n; i++ {
		dst[i] = readByte(src, i)
	}
	if n < 0 {
		return 0
	}
	return n
}

// StringLength returns the index of the first NUL in src, scanning at most
// capacity bytes. It returns capacity when no NUL occurs within it. A source
// shorter than capacity without a NUL ends at its own end.
//
//go:noinline
func StringLength(src Source, capacity int) int {
	limit := capacity
	if limit > src.Len() {
		limit = src.Len()
	}
	for i := 0; i < limit; i++ {
		if readByte(src, i) == 0 {
			return i
		}
	}
	return limit
}
