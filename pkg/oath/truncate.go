package oath

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Truncation errors.
var (
	// ErrInvalidDigits indicates a requested code length outside 6 to 8.
	ErrInvalidDigits = errors.New("oath: invalid digits")
	// ErrShortDigest indicates a digest too small for dynamic truncation.
	ErrShortDigest = errors.New("oath: digest too short")
)

// pow10 holds 10^n up to the widest supported code.
var pow10 = [...]uint64{1, 10, 100, 1_000, 10_000, 100_000, 1_000_000, 10_000_000, 100_000_000}

// Truncate reduces an HMAC digest to a decimal code of exactly digits
// characters using RFC 4226 dynamic truncation: the low nibble of the final
// digest byte selects a 4-byte window, whose 31-bit big-endian value is
// reduced modulo 10^digits and left-padded with zeros.
func Truncate(digest []byte, digits uint) (string, error) {
	if digits < 6 || digits > 8 {
		return "", fmt.Errorf("%w: %d is not 6, 7, or 8", ErrInvalidDigits, digits)
	}
	if len(digest) == 0 {
		return "", fmt.Errorf("%w: digest is empty", ErrShortDigest)
	}

	offset := int(digest[len(digest)-1] & 0x0f)
	if offset+4 > len(digest) {
		return "", fmt.Errorf("%w: offset %d needs 4 bytes, digest has %d", ErrShortDigest, offset, len(digest))
	}

	value := binary.BigEndian.Uint32(digest[offset:offset+4]) & 0x7fffffff
	return fmt.Sprintf("%0*d", int(digits), uint64(value)%pow10[digits]), nil
}
