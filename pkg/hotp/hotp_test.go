package hotp

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jhahn/go-otp/pkg/oath"
)

// rfc4226Key is the shared secret used throughout RFC 4226 Appendix D.
var rfc4226Key = []byte("12345678901234567890")

// TestGenerateReferenceVectors tests the RFC 4226 Appendix D code table
func TestGenerateReferenceVectors(t *testing.T) {
	want := []string{
		"755224", "287082", "359152", "969429", "338314",
		"254676", "287922", "162583", "399871", "520489",
	}

	gen, err := New(Config{Secret: rfc4226Key})
	if err != nil {
		t.Fatalf("failed to create generator: %v", err)
	}

	for counter, expected := range want {
		t.Run(fmt.Sprintf("counter_%d", counter), func(t *testing.T) {
			code, err := gen.Generate(uint64(counter))
			if err != nil {
				t.Fatalf("failed to generate code: %v", err)
			}
			if code != expected {
				t.Errorf("expected code %s, got %s", expected, code)
			}
		})
	}
}

// TestNew tests generator construction
func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{
			name: "valid config",
			cfg: Config{
				Secret:    rfc4226Key,
				Digits:    6,
				Algorithm: oath.AlgorithmSHA1,
			},
			wantErr: nil,
		},
		{
			name:    "defaults only",
			cfg:     Config{Secret: rfc4226Key},
			wantErr: nil,
		},
		{
			name:    "valid SHA512 8 digits",
			cfg:     Config{Secret: rfc4226Key, Digits: 8, Algorithm: oath.AlgorithmSHA512},
			wantErr: nil,
		},
		{
			name:    "missing secret",
			cfg:     Config{Digits: 6},
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "invalid digits",
			cfg:     Config{Secret: rfc4226Key, Digits: 5},
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "invalid algorithm",
			cfg:     Config{Secret: rfc4226Key, Algorithm: "MD5"},
			wantErr: ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen, err := New(tt.cfg)
			if tt.wantErr != nil {
				if err == nil {
					t.Fatalf("expected error %v, got nil", tt.wantErr)
				}
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if gen == nil {
				t.Fatal("expected generator, got nil")
			}
		})
	}
}

// TestGenerateDigits tests code width across digits and algorithms
func TestGenerateDigits(t *testing.T) {
	for _, digits := range []uint{6, 7, 8} {
		for _, algorithm := range []oath.Algorithm{oath.AlgorithmSHA1, oath.AlgorithmSHA256, oath.AlgorithmSHA512} {
			t.Run(fmt.Sprintf("%s_%d", algorithm, digits), func(t *testing.T) {
				gen, err := New(Config{Secret: rfc4226Key, Digits: digits, Algorithm: algorithm})
				if err != nil {
					t.Fatalf("failed to create generator: %v", err)
				}

				code, err := gen.Generate(1)
				if err != nil {
					t.Fatalf("failed to generate code: %v", err)
				}
				if len(code) != int(digits) {
					t.Errorf("expected %d digit code, got %d digits", digits, len(code))
				}
				for _, c := range code {
					if c < '0' || c > '9' {
						t.Errorf("expected decimal code, got %q", code)
					}
				}
			})
		}
	}
}

// TestSecretCopied tests that the generator keeps its own copy of the key
func TestSecretCopied(t *testing.T) {
	secret := append([]byte(nil), rfc4226Key...)
	gen, err := New(Config{Secret: secret})
	if err != nil {
		t.Fatalf("failed to create generator: %v", err)
	}

	before, err := gen.Generate(0)
	if err != nil {
		t.Fatalf("failed to generate code: %v", err)
	}

	secret[0] = 'x'

	after, err := gen.Generate(0)
	if err != nil {
		t.Fatalf("failed to generate code: %v", err)
	}
	if before != after {
		t.Error("mutating the caller's secret changed the generated code")
	}
}

// TestVerify tests code verification
func TestVerify(t *testing.T) {
	gen, err := New(Config{Secret: rfc4226Key})
	if err != nil {
		t.Fatalf("failed to create generator: %v", err)
	}

	tests := []struct {
		name    string
		code    string
		counter uint64
		want    bool
	}{
		{"valid counter 0", "755224", 0, true},
		{"valid counter 9", "520489", 9, true},
		{"neighboring counter", "755224", 1, false},
		{"wrong code", "000000", 0, false},
		{"wrong length", "75522", 0, false},
		{"empty code", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := gen.Verify(tt.code, tt.counter)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ok != tt.want {
				t.Errorf("expected %v, got %v", tt.want, ok)
			}
		})
	}
}

// TestTrace tests that computation steps reach the sink
func TestTrace(t *testing.T) {
	var events []string
	sink := oath.TraceFunc(func(format string, args ...any) {
		events = append(events, fmt.Sprintf(format, args...))
	})

	gen, err := New(Config{Secret: rfc4226Key}, WithTrace(sink))
	if err != nil {
		t.Fatalf("failed to create generator: %v", err)
	}

	if _, err := gen.Generate(0); err != nil {
		t.Fatalf("failed to generate code: %v", err)
	}

	if len(events) != 3 {
		t.Fatalf("expected 3 trace events, got %d", len(events))
	}
	if !strings.Contains(events[0], "counter 0") {
		t.Errorf("expected counter event, got %q", events[0])
	}
	if !strings.Contains(events[1], "digest") {
		t.Errorf("expected digest event, got %q", events[1])
	}
	if !strings.Contains(events[2], "code 755224") {
		t.Errorf("expected code event, got %q", events[2])
	}
}

// TestNoTrace tests that a missing sink keeps generation silent
func TestNoTrace(t *testing.T) {
	gen, err := New(Config{Secret: rfc4226Key})
	if err != nil {
		t.Fatalf("failed to create generator: %v", err)
	}

	code, err := gen.Generate(0)
	if err != nil {
		t.Fatalf("failed to generate code: %v", err)
	}
	if code != "755224" {
		t.Errorf("expected code 755224, got %s", code)
	}
}

// TestNilGenerator tests operations on a nil generator
func TestNilGenerator(t *testing.T) {
	var gen *Generator

	t.Run("Generate", func(t *testing.T) {
		_, err := gen.Generate(0)
		if !errors.Is(err, ErrNilGenerator) {
			t.Errorf("expected ErrNilGenerator, got %v", err)
		}
	})

	t.Run("Verify", func(t *testing.T) {
		_, err := gen.Verify("755224", 0)
		if !errors.Is(err, ErrNilGenerator) {
			t.Errorf("expected ErrNilGenerator, got %v", err)
		}
	})
}
