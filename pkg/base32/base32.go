// Package base32 decodes RFC 4648 Base32 text into raw bytes.
//
// The decoder is strict: input length must be a multiple of 8, only the
// uppercase alphabet A-Z2-7 is accepted, padding must form one of the
// suffixes the encoding can produce, and any bits left over after the final
// full byte must be zero.
package base32

import (
	"errors"
	"fmt"
)

// ErrFormat indicates input that is not canonical RFC 4648 Base32.
var ErrFormat = errors.New("base32: malformed input")

// leftoverBits maps a padding length to the number of bits that remain
// after the data symbols of the final block have been drained into bytes.
var leftoverBits = map[int]uint{0: 0, 1: 3, 3: 1, 4: 4, 6: 2}

// Decode converts Base32 text into the bytes it encodes. The empty string
// decodes to no bytes. All failures wrap ErrFormat.
func Decode(s string) ([]byte, error) {
	if len(s)%8 != 0 {
		return nil, fmt.Errorf("%w: length %d is not a multiple of 8", ErrFormat, len(s))
	}

	pad := 0
	for pad < len(s) && s[len(s)-1-pad] == '=' {
		pad++
	}
	want, ok := leftoverBits[pad]
	if !ok {
		return nil, fmt.Errorf("%w: %d padding characters", ErrFormat, pad)
	}

	data := s[:len(s)-pad]
	out := make([]byte, 0, len(data)*5/8)

	// Accumulate 5-bit symbol values most significant bit first, emitting a
	// byte whenever eight or more bits are held.
	var buf, bits uint
	for i := 0; i < len(data); i++ {
		var v uint
		switch c := data[i]; {
		case c >= 'A' && c <= 'Z':
			v = uint(c - 'A')
		case c >= '2' && c <= '7':
			v = uint(c-'2') + 26
		default:
			return nil, fmt.Errorf("%w: invalid symbol %q at offset %d", ErrFormat, c, i)
		}
		buf = buf<<5 | v
		bits += 5
		if bits >= 8 {
			bits -= 8
			out = append(out, byte(buf>>bits))
		}
	}

	if bits != want {
		return nil, fmt.Errorf("%w: %d leftover bits, want %d for %d padding characters", ErrFormat, bits, want, pad)
	}
	if buf&(1<<bits-1) != 0 {
		return nil, fmt.Errorf("%w: non-zero bits after the final byte", ErrFormat)
	}
	return out, nil
}
