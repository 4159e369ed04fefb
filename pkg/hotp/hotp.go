// Package hotp implements HMAC-based one-time passwords (RFC 4226).
//
// A Generator is built from raw key bytes and computes a fixed number of
// decimal digits for any counter value. Counter persistence and
// resynchronization policy are left to the caller.
package hotp

import (
	"crypto/subtle"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/jhahn/go-otp/pkg/oath"
)

// Common errors returned by the HOTP generator.
var (
	// ErrInvalidConfig indicates the configuration is invalid.
	ErrInvalidConfig = errors.New("hotp: invalid configuration")
	// ErrNilGenerator indicates a nil generator was used.
	ErrNilGenerator = errors.New("hotp: generator is nil")
)

// Config holds HOTP generator configuration.
type Config struct {
	// Secret is the raw shared key (required).
	Secret []byte
	// Digits specifies the number of digits in the code (6, 7, or 8).
	// Default: 6
	Digits uint
	// Algorithm specifies the HMAC hash algorithm.
	// Default: SHA1
	Algorithm oath.Algorithm
}

// validate checks that the configuration is valid.
func (c Config) validate() error {
	if len(c.Secret) == 0 {
		return fmt.Errorf("%w: secret must not be empty", ErrInvalidConfig)
	}
	if c.Digits != 0 && (c.Digits < 6 || c.Digits > 8) {
		return fmt.Errorf("%w: digits must be 6, 7, or 8", ErrInvalidConfig)
	}
	if c.Algorithm != "" && !c.Algorithm.Valid() {
		return fmt.Errorf("%w: algorithm must be SHA1, SHA256, or SHA512", ErrInvalidConfig)
	}
	return nil
}

// Option configures a Generator.
type Option func(*Generator)

// WithTrace attaches a sink that receives each step of the computation.
func WithTrace(sink oath.TraceSink) Option {
	return func(g *Generator) {
		g.trace = sink
	}
}

// Generator computes HOTP codes.
// It is immutable after construction and safe for concurrent use.
type Generator struct {
	secret    []byte
	digits    uint
	algorithm oath.Algorithm
	trace     oath.TraceSink
}

// New creates an HOTP generator.
// The configuration is validated and an error is returned if invalid.
func New(cfg Config, opts ...Option) (*Generator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Apply defaults
	if cfg.Digits == 0 {
		cfg.Digits = 6
	}
	if cfg.Algorithm == "" {
		cfg.Algorithm = oath.AlgorithmSHA1
	}

	g := &Generator{
		secret:    append([]byte(nil), cfg.Secret...),
		digits:    cfg.Digits,
		algorithm: cfg.Algorithm,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g, nil
}

// Generate computes the code for a counter value.
func (g *Generator) Generate(counter uint64) (string, error) {
	if g == nil {
		return "", ErrNilGenerator
	}

	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], counter)
	g.tracef("hotp: counter %d message %x", counter, msg)

	digest, err := oath.Digest(g.algorithm, g.secret, msg[:])
	if err != nil {
		return "", err
	}
	g.tracef("hotp: %s digest %x", g.algorithm, digest)

	code, err := oath.Truncate(digest, g.digits)
	if err != nil {
		return "", err
	}
	g.tracef("hotp: offset %d code %s", digest[len(digest)-1]&0x0f, code)

	return code, nil
}

// Verify reports whether code matches the code for counter.
// The comparison is constant time.
func (g *Generator) Verify(code string, counter uint64) (bool, error) {
	if g == nil {
		return false, ErrNilGenerator
	}

	want, err := g.Generate(counter)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare([]byte(code), []byte(want)) == 1, nil
}

func (g *Generator) tracef(format string, args ...any) {
	if g.trace != nil {
		g.trace.Tracef(format, args...)
	}
}
