// Package totp generates time-based one-time passwords (RFC 6238).
//
// A Generator is built from a Config describing the shared secret and the
// shape of the codes. The Config can be constructed directly or parsed from
// the JSON wire form with ParseConfig, which rejects unknown keys and
// applies the documented defaults to absent ones.
//
// # Configuration
//
// The wire document carries up to six keys:
//
//	cfg, err := totp.ParseConfig([]byte(`{
//	    "t0": 0,
//	    "period": 30,
//	    "digits": 6,
//	    "algorithm": "SHA1",
//	    "secret": "JBSWY3DPEHPK3PXP",
//	    "secret_encoding": "base32"
//	}`))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	gen, err := totp.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Secrets are Base32 text by default; "secret_encoding": "string" treats the
// secret as the raw key bytes instead.
//
// # Generating and verifying codes
//
// Codes are computed for explicit times with GenerateAt or for the current
// clock with Generate:
//
//	code, err := gen.GenerateAt(time.Unix(1111111109, 0))
//
//	ok, err := gen.Verify(code, time.Now())
//
// Verification compares in constant time and can tolerate clock drift
// between the parties when the generator is built with WithSkew.
//
// # Tracing
//
// Passing WithTrace exposes every step of a computation (period counter,
// HMAC digest, truncation result) to an oath.TraceSink. Without a sink the
// generator is silent.
//
// # Thread Safety
//
// A Generator is immutable after construction and safe for concurrent use.
// Multiple goroutines can call its methods simultaneously.
package totp
