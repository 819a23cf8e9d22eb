package seal

import "encoding/binary"

// LenPrefixed encodes an ordered list of byte strings into the canonical
// associated-data form: an 8-byte little-endian piece count, then for each
// piece an 8-byte little-endian length followed by the raw bytes.
//
// The encoding is unambiguous: no piece boundary can be moved without
// changing the output, so authenticating the result authenticates the exact
// piece structure. The byte layout is a wire compatibility contract and must
// never change.
func LenPrefixed(pieces ...[]byte) []byte {
	size := 8
	for _, p := range pieces {
		size += 8 + len(p)
	}

	out := make([]byte, 0, size)
	var length [8]byte

	binary.LittleEndian.PutUint64(length[:], uint64(len(pieces)))
	out = append(out, length[:]...)

	for _, p := range pieces {
		binary.LittleEndian.PutUint64(length[:], uint64(len(p)))
		out = append(out, length[:]...)
		out = append(out, p...)
	}

	return out
}
