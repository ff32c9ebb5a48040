/*
Package lz77 implements the LZ77 variant understood by the Game Boy Advance
BIOS decompression routines.

The stream starts with a 32-bit little-endian header of the uncompressed
length shifted left by 8 bits ORed with 0x10. Each following flag byte
describes up to eight blocks, most significant bit first; a set bit is a two
byte back-reference of 3 to 18 bytes, a clear bit is a literal byte. The
output is padded to a multiple of four bytes.
*/
package lz77

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	magic     = 0x10
	minLength = 3
	maxLength = 18
	// Back-references never point at the previous 7 bytes so the stream is
	// safe to decompress straight into VRAM
	minDistance = 8
	maxDistance = 0x1000
	maxInput    = 1<<24 - 1
)

// Negative results from compress.
const (
	errBadArgs = -1
	errDstFull = -3
)

var (
	// ErrCompression is returned when the input could not be compressed
	ErrCompression = errors.New("lz77: compression failed")

	errMalformed = errors.New("lz77: malformed data")
)

// CompressBound returns the largest possible compressed size for an input
// of n bytes.
func CompressBound(n int) int {
	return 4 + n*2 + 3
}

// findToken returns the negative distance to an earlier match of length
// bytes at offset, or zero if there is none.
func findToken(buf []byte, offset, length int) int {
	if offset+length > len(buf) {
		return 0
	}
	for p := offset - minDistance; p >= 0; p-- {
		delta := p - offset
		if -delta > maxDistance {
			return 0
		}
		if bytes.Equal(buf[p:p+length], buf[offset:offset+length]) {
			return delta
		}
	}
	return 0
}

type writer struct {
	b []byte
	n int
}

func (w *writer) writeByte(c byte) bool {
	if w.n >= len(w.b) {
		return false
	}
	w.b[w.n] = c
	w.n++
	return true
}

// compress writes the compressed form of src to dst and returns the number
// of bytes written or a negative error code.
func compress(dst, src []byte) int {
	if len(src) > maxInput {
		return errBadArgs
	}

	w := writer{b: dst}

	if len(dst) < 4 {
		return errDstFull
	}
	binary.LittleEndian.PutUint32(dst, uint32(len(src))<<8|magic)
	w.n = 4

	var (
		flagPosition int
		flagBits     int
		flags        byte
	)

	for i := 0; i < len(src); {
		if flagBits == 0 {
			flagPosition = w.n
			if !w.writeByte(0) {
				return errDstFull
			}
		}

		if findToken(src, i, minLength) != 0 {
			var size, delta int
			for l := minLength; l <= maxLength; l++ {
				d := findToken(src, i, l)
				if d == 0 {
					break
				}
				size, delta = l, d
			}

			disp := -delta - 1
			if !w.writeByte(byte((size-minLength)<<4|disp>>8&0x0f)) || !w.writeByte(byte(disp)) {
				return errDstFull
			}

			i += size
			flags |= 0x80 >> flagBits
		} else {
			if !w.writeByte(src[i]) {
				return errDstFull
			}
			i++
		}

		flagBits++
		if flagBits == 8 || i >= len(src) {
			dst[flagPosition] = flags
			flagBits, flags = 0, 0
		}
	}

	for w.n%4 != 0 {
		if !w.writeByte(0) {
			return errDstFull
		}
	}

	return w.n
}

// Compress returns the compressed form of src.
func Compress(src []byte) ([]byte, error) {
	dst := make([]byte, CompressBound(len(src)))
	n := compress(dst, src)
	if n < 0 {
		return nil, fmt.Errorf("%w: error %d", ErrCompression, n)
	}
	return dst[:n], nil
}

// Decompress reverses Compress. It accepts any valid stream, not just ones
// produced by Compress.
func Decompress(src []byte) ([]byte, error) {
	if len(src) < 4 || src[0] != magic {
		return nil, errMalformed
	}
	size := int(binary.LittleEndian.Uint32(src) >> 8)
	src = src[4:]

	data := make([]byte, 0, size)
	for len(data) < size {
		if len(src) == 0 {
			return nil, errMalformed
		}
		bits := src[0]
		src = src[1:]

		for i := 0; i < 8 && len(data) < size; i, bits = i+1, bits<<1 {
			if bits&0x80 == 0 {
				if len(src) < 1 {
					return nil, errMalformed
				}
				data = append(data, src[0])
				src = src[1:]
				continue
			}

			if len(src) < 2 {
				return nil, errMalformed
			}
			n := int(src[0])<<8 | int(src[1])
			src = src[2:]

			count := n>>12 + minLength
			disp := n&0xfff + 1
			if disp > len(data) {
				return nil, errMalformed
			}
			for j := 0; j < count && len(data) < size; j++ {
				data = append(data, data[len(data)-disp])
			}
		}
	}

	return data, nil
}
