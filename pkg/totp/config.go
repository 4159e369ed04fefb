package totp

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jhahn/go-otp/pkg/base32"
	"github.com/jhahn/go-otp/pkg/oath"
)

// SecretEncoding identifies how Config.Secret is turned into key bytes.
type SecretEncoding string

const (
	// EncodingBase32 treats the secret as RFC 4648 Base32 text.
	EncodingBase32 SecretEncoding = "base32"
	// EncodingString treats the secret as the raw key bytes.
	EncodingString SecretEncoding = "string"
)

// Common errors returned by the TOTP generator.
var (
	// ErrInvalidConfig indicates the configuration is invalid.
	ErrInvalidConfig = errors.New("totp: invalid configuration")
	// ErrTimeBeforeStart indicates a requested time earlier than T0.
	ErrTimeBeforeStart = errors.New("totp: time precedes the first period")
	// ErrNilGenerator indicates a nil generator was used.
	ErrNilGenerator = errors.New("totp: generator is nil")
)

// maxT0 is 2000-01-01T00:00:00Z, the latest supported reference time.
const maxT0 = 946684800

// Config holds TOTP generator configuration.
type Config struct {
	// T0 is the Unix time at which the first period starts.
	// Must lie between 0 and 946684800 (2000-01-01T00:00:00Z).
	// Default: 0
	T0 int64
	// Period specifies the length of a time step in seconds.
	// Default: 30
	Period uint
	// Digits specifies the number of digits in the code (6, 7, or 8).
	// Default: 6
	Digits uint
	// Algorithm specifies the HMAC hash algorithm.
	// Default: SHA1
	Algorithm oath.Algorithm
	// Secret is the shared secret (required), interpreted according to
	// SecretEncoding.
	Secret string
	// SecretEncoding specifies how Secret is decoded into key bytes.
	// Default: base32
	SecretEncoding SecretEncoding
}

// validate checks that the configuration is valid.
func (c Config) validate() error {
	if c.T0 < 0 || c.T0 > maxT0 {
		return fmt.Errorf("%w: t0 must be between 0 and %d", ErrInvalidConfig, maxT0)
	}

	// Validate digits (if specified)
	if c.Digits != 0 && (c.Digits < 6 || c.Digits > 8) {
		return fmt.Errorf("%w: digits must be 6, 7, or 8", ErrInvalidConfig)
	}

	// Validate algorithm (if specified)
	if c.Algorithm != "" && !c.Algorithm.Valid() {
		return fmt.Errorf("%w: algorithm must be SHA1, SHA256, or SHA512", ErrInvalidConfig)
	}

	// Validate secret encoding (if specified)
	switch c.SecretEncoding {
	case "", EncodingBase32, EncodingString:
	default:
		return fmt.Errorf("%w: secret_encoding must be 'base32' or 'string'", ErrInvalidConfig)
	}

	if c.Secret == "" {
		return fmt.Errorf("%w: secret must not be empty", ErrInvalidConfig)
	}

	return nil
}

// applyDefaults fills unset optional fields with their documented defaults.
func (c Config) applyDefaults() Config {
	if c.Period == 0 {
		c.Period = 30
	}
	if c.Digits == 0 {
		c.Digits = 6
	}
	if c.Algorithm == "" {
		c.Algorithm = oath.AlgorithmSHA1
	}
	if c.SecretEncoding == "" {
		c.SecretEncoding = EncodingBase32
	}
	return c
}

// Key returns the raw key bytes the secret resolves to. Base32 secrets are
// decoded strictly; string secrets are used byte for byte.
func (c Config) Key() ([]byte, error) {
	if c.SecretEncoding == EncodingString {
		return []byte(c.Secret), nil
	}

	key, err := base32.Decode(c.Secret)
	if err != nil {
		return nil, fmt.Errorf("%w: secret must be valid base32: %v", ErrInvalidConfig, err)
	}
	return key, nil
}

// rawConfig mirrors the wire document. Pointer fields distinguish keys that
// are absent, which take defaults, from keys that are present with an
// unusable value, which fail validation.
type rawConfig struct {
	T0             *int64          `json:"t0"`
	Period         *uint           `json:"period"`
	Digits         *uint           `json:"digits"`
	Algorithm      *oath.Algorithm `json:"algorithm"`
	Secret         *string         `json:"secret"`
	SecretEncoding *SecretEncoding `json:"secret_encoding"`
}

// ParseConfig decodes a JSON configuration document into a validated Config
// with defaults applied. Documents with unknown keys, trailing data, or a
// present key holding an invalid value are rejected, so "period": 0 is an
// error rather than a request for the default.
func ParseConfig(data []byte) (Config, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var raw rawConfig
	if err := dec.Decode(&raw); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if dec.More() {
		return Config{}, fmt.Errorf("%w: trailing data after the document", ErrInvalidConfig)
	}

	var cfg Config
	if raw.T0 != nil {
		cfg.T0 = *raw.T0
	}
	if raw.Period != nil {
		if *raw.Period == 0 {
			return Config{}, fmt.Errorf("%w: period must be a positive integer", ErrInvalidConfig)
		}
		cfg.Period = *raw.Period
	}
	if raw.Digits != nil {
		if *raw.Digits == 0 {
			return Config{}, fmt.Errorf("%w: digits must be 6, 7, or 8", ErrInvalidConfig)
		}
		cfg.Digits = *raw.Digits
	}
	if raw.Algorithm != nil {
		if *raw.Algorithm == "" {
			return Config{}, fmt.Errorf("%w: algorithm must be SHA1, SHA256, or SHA512", ErrInvalidConfig)
		}
		cfg.Algorithm = *raw.Algorithm
	}
	if raw.Secret != nil {
		cfg.Secret = *raw.Secret
	}
	if raw.SecretEncoding != nil {
		if *raw.SecretEncoding == "" {
			return Config{}, fmt.Errorf("%w: secret_encoding must be 'base32' or 'string'", ErrInvalidConfig)
		}
		cfg.SecretEncoding = *raw.SecretEncoding
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	cfg = cfg.applyDefaults()

	// Resolve the secret now so malformed Base32 fails the parse.
	if _, err := cfg.Key(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
