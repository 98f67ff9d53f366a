// Package sample draws uniform values from a source of randomness.
package sample

import (
	cryptorand "crypto/rand"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/pkg/errors"
	"github.com/zeebo/blake3"
)

// maxIterations bounds rejection sampling; for any modulus the probability
// of exhausting it is below 2⁻¹²⁸.
const maxIterations = 255

var ErrMaxIterations = errors.New("sample: failed to generate after 255 iterations")

// Reader returns rand, or crypto/rand.Reader if rand is nil.
func Reader(rand io.Reader) io.Reader {
	if rand == nil {
		return cryptorand.Reader
	}
	return rand
}

// ModN samples an element of ℤₙ uniformly by rejection.
func ModN(rand io.Reader, n *saferith.Modulus) (*saferith.Nat, error) {
	rand = Reader(rand)
	bitLen := n.BitLen()
	buf := make([]byte, (bitLen+7)/8)
	// clear the excess high bits so that each draw succeeds with probability ≥ ½
	mask := byte(0xff >> (uint(len(buf)*8-bitLen) % 8))
	out := new(saferith.Nat)
	for i := 0; i < maxIterations; i++ {
		if _, err := io.ReadFull(rand, buf); err != nil {
			return nil, errors.WithMessage(err, "sample: failed to read randomness")
		}
		buf[0] &= mask
		out.SetBytes(buf)
		if _, _, lt := out.CmpMod(n); lt == 1 {
			return out, nil
		}
	}
	return nil, ErrMaxIterations
}

// UnitModN samples an element of ℤₙ \ {0} uniformly by rejection.
func UnitModN(rand io.Reader, n *saferith.Modulus) (*saferith.Nat, error) {
	for i := 0; i < maxIterations; i++ {
		x, err := ModN(rand, n)
		if err != nil {
			return nil, err
		}
		if x.EqZero() != 1 {
			return x, nil
		}
	}
	return nil, ErrMaxIterations
}

// Deterministic returns an endless reader whose output is fully determined
// by seed. It is meant for reproducible proofs in tests and for callers that
// derive their randomness themselves; it must never be reused across proofs.
func Deterministic(seed []byte) io.Reader {
	h := blake3.New()
	_, _ = h.WriteString("sample.Deterministic")
	_, _ = h.Write(seed)
	return h.Digest()
}
