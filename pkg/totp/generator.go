package totp

import (
	"fmt"
	"time"

	"github.com/jhahn/go-otp/pkg/hotp"
	"github.com/jhahn/go-otp/pkg/oath"
)

// Option configures a Generator.
type Option func(*Generator)

// WithTrace attaches a sink that receives each step of the computation.
func WithTrace(sink oath.TraceSink) Option {
	return func(g *Generator) {
		g.trace = sink
	}
}

// WithSkew accepts codes from up to n periods before or after the target
// period during verification. Generation is unaffected.
// Default: 0
func WithSkew(n uint) Option {
	return func(g *Generator) {
		g.skew = n
	}
}

// WithNow overrides the clock used by Generate (used in tests).
func WithNow(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// Generator computes TOTP codes.
// It is immutable after construction and safe for concurrent use.
type Generator struct {
	cfg   Config
	inner *hotp.Generator
	skew  uint
	now   func() time.Time
	trace oath.TraceSink
}

// New creates a TOTP generator.
// The configuration is validated, defaults are applied to unset optional
// fields, and the secret is resolved once into raw key bytes.
func New(cfg Config, opts ...Option) (*Generator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg = cfg.applyDefaults()

	key, err := cfg.Key()
	if err != nil {
		return nil, err
	}

	g := &Generator{
		cfg: cfg,
		now: time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}

	inner, err := hotp.New(hotp.Config{
		Secret:    key,
		Digits:    cfg.Digits,
		Algorithm: cfg.Algorithm,
	}, hotp.WithTrace(g.trace))
	if err != nil {
		return nil, err
	}
	g.inner = inner

	g.tracef("totp: configured t0=%d period=%d digits=%d algorithm=%s key bytes=%d",
		cfg.T0, cfg.Period, cfg.Digits, cfg.Algorithm, len(key))
	return g, nil
}

// Counter returns the zero-based index of the period containing t.
// Times before T0 are rejected with ErrTimeBeforeStart.
func (g *Generator) Counter(t time.Time) (uint64, error) {
	if g == nil {
		return 0, ErrNilGenerator
	}

	unix := t.Unix()
	if unix < g.cfg.T0 {
		return 0, fmt.Errorf("%w: time %d is before t0 %d", ErrTimeBeforeStart, unix, g.cfg.T0)
	}

	counter := uint64(unix-g.cfg.T0) / uint64(g.cfg.Period)
	g.tracef("totp: time %d is period %d", unix, counter)
	return counter, nil
}

// GenerateAt computes the code for the period containing t.
func (g *Generator) GenerateAt(t time.Time) (string, error) {
	if g == nil {
		return "", ErrNilGenerator
	}

	counter, err := g.Counter(t)
	if err != nil {
		return "", err
	}
	return g.inner.Generate(counter)
}

// Generate computes the code for the current time.
func (g *Generator) Generate() (string, error) {
	if g == nil {
		return "", ErrNilGenerator
	}
	return g.GenerateAt(g.now())
}

// Verify reports whether code is valid for the period containing t or any
// period within the configured skew. The comparison is constant time.
func (g *Generator) Verify(code string, t time.Time) (bool, error) {
	if g == nil {
		return false, ErrNilGenerator
	}

	counter, err := g.Counter(t)
	if err != nil {
		return false, err
	}

	lo := counter - uint64(g.skew)
	if uint64(g.skew) > counter {
		lo = 0
	}
	for c := lo; c <= counter+uint64(g.skew); c++ {
		ok, err := g.inner.Verify(code, c)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func (g *Generator) tracef(format string, args ...any) {
	if g.trace != nil {
		g.trace.Tracef(format, args...)
	}
}
