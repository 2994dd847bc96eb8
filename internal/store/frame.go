package store

import (
	"encoding/binary"
	"fmt"
)

// Serialization uses length-prefixed framing rather than the narrative
// delimiters in spec.md §4.2 ("key=value;", "key|field|value", ...) so that
// keys/fields/values containing those delimiter bytes still round-trip —
// the open question spec.md §9 item 6 flags and recommends resolving this
// way. Each store's blob is still one record stream per type tag; only the
// field separator changed from a byte to a length prefix.
//
// Record shape: one or more big-endian uint32 length prefixes, each
// immediately followed by that many raw bytes, back to back with no
// separators.

func putField(buf []byte, s string) []byte {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(s)))
	buf = append(buf, lenBuf[:]...)
	buf = append(buf, s...)
	return buf
}

// fieldReader walks a length-prefixed byte stream produced by putField.
type fieldReader struct {
	data []byte
	pos  int
}

func newFieldReader(data []byte) *fieldReader {
	return &fieldReader{data: data}
}

func (r *fieldReader) done() bool {
	return r.pos >= len(r.data)
}

func (r *fieldReader) next() (string, error) {
	if r.pos+4 > len(r.data) {
		return "", fmt.Errorf("truncated length prefix at offset %d", r.pos)
	}
	n := binary.BigEndian.Uint32(r.data[r.pos : r.pos+4])
	r.pos += 4
	if r.pos+int(n) > len(r.data) {
		return "", fmt.Errorf("truncated field at offset %d (want %d bytes)", r.pos, n)
	}
	s := string(r.data[r.pos : r.pos+int(n)])
	r.pos += int(n)
	return s, nil
}
