// Package oath implements the primitives shared by the HOTP and TOTP
// generators: hash algorithm selection, HMAC digest computation, and the
// dynamic truncation scheme defined in RFC 4226 section 5.3.
package oath

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"errors"
	"fmt"
	"hash"
)

// Algorithm represents the hash algorithm used for HMAC digests.
type Algorithm string

const (
	// AlgorithmSHA1 uses SHA1 (the RFC 4226 default, universally supported).
	AlgorithmSHA1 Algorithm = "SHA1"
	// AlgorithmSHA256 uses SHA256.
	AlgorithmSHA256 Algorithm = "SHA256"
	// AlgorithmSHA512 uses SHA512.
	AlgorithmSHA512 Algorithm = "SHA512"
)

// ErrInvalidAlgorithm indicates an unsupported hash algorithm name.
var ErrInvalidAlgorithm = errors.New("oath: invalid algorithm")

// Valid reports whether a names a supported hash algorithm.
func (a Algorithm) Valid() bool {
	switch a {
	case AlgorithmSHA1, AlgorithmSHA256, AlgorithmSHA512:
		return true
	}
	return false
}

// Hash returns the constructor for a's hash function.
func (a Algorithm) Hash() (func() hash.Hash, error) {
	switch a {
	case AlgorithmSHA1:
		return sha1.New, nil
	case AlgorithmSHA256:
		return sha256.New, nil
	case AlgorithmSHA512:
		return sha512.New, nil
	}
	return nil, fmt.Errorf("%w: %q must be SHA1, SHA256, or SHA512", ErrInvalidAlgorithm, a)
}

// Digest computes the HMAC digest of msg under key using a's hash function.
func Digest(a Algorithm, key, msg []byte) ([]byte, error) {
	h, err := a.Hash()
	if err != nil {
		return nil, err
	}

	mac := hmac.New(h, key)
	mac.Write(msg)
	return mac.Sum(nil), nil
}
