package memory

import "encoding/binary"

// Argon2Index maps the little-endian 32-bit prefix of seed and the index of
// the element under construction to a dependency index, in the manner of
// RFC 9106 section 3.4.2. Subtraction wraps modulo 2^64.
func Argon2Index(seed []byte, i uint64) uint64 {
	u := uint64(binary.LittleEndian.Uint32(seed))
	x := (u * u) >> 32
	y := (i * x) >> 32
	return i - 1 - y
}

// PhiVariant selects an antecedent position in [0, i) for the element at
// index i, using one of twelve selection rules keyed by variant mod 12.
// For i == 0 the result is 0.
func PhiVariant(i, argon2Index, variant uint64) uint64 {
	if i == 0 {
		return 0
	}
	var idx uint64
	switch variant % 12 {
	case 0:
		idx = i - 1
	case 1:
		idx = argon2Index
	case 2:
		idx = (argon2Index + i) / 2
	case 3:
		idx = i * 7 / 8
	case 4:
		idx = (argon2Index + i*3) / 4
	case 5:
		idx = (argon2Index + i*5) / 8
	case 6:
		idx = i * 3 / 4
	case 7:
		idx = i / 2
	case 8:
		idx = i / 4
	case 9:
		idx = 0
	case 10:
		idx = argon2Index * 7 / 8
	case 11:
		idx = i * 7 / 8
	}
	return idx % i
}
