package passgen

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand/v2"
	"sync"
)

// RandomSource yields uniform values in [0, 1).
// Secure reports whether the values come from a cryptographically strong generator.
type RandomSource interface {
	Float64() float64
	Secure() bool
}

// CryptoSource draws 32-bit integers from crypto/rand and scales them to [0, 1).
type CryptoSource struct{}

// NewCryptoSource returns the cryptographically secure source.
func NewCryptoSource() CryptoSource {
	return CryptoSource{}
}

func (CryptoSource) Float64() float64 {
	var b [4]byte
	// crypto/rand.Read never returns an error on supported platforms.
	rand.Read(b[:])
	return float64(binary.BigEndian.Uint32(b[:])) / (1 << 32)
}

func (CryptoSource) Secure() bool { return true }

// PseudoSource is the degraded, non-cryptographic fallback.
// Passwords produced from it must not be treated as secure.
type PseudoSource struct {
	mu  sync.Mutex
	rng *mrand.Rand
}

// NewPseudoSource returns a PCG-backed source. A fixed seed makes output reproducible.
func NewPseudoSource(seed uint64) *PseudoSource {
	return &PseudoSource{rng: mrand.New(mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *PseudoSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

func (s *PseudoSource) Secure() bool { return false }
