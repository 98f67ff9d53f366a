package arith

import (
	"errors"

	"github.com/cronokirby/saferith"
)

// primalityRounds is the number of Miller-Rabin rounds used when checking
// a safe prime.
const primalityRounds = 32

var ErrNotSafePrime = errors.New("arith: not a safe prime")

// SafePrime wraps a prime p = 2⋅q + 1 where q is also prime.
// The quadratic residues modulo p form a cyclic subgroup of order q.
type SafePrime struct {
	// represents modulus p
	*saferith.Modulus
	// q = (p - 1) / 2
	q *saferith.Modulus
	// qNat = q, used as exponent in membership checks
	qNat *saferith.Nat
}

// NewSafePrime checks that p and (p-1)/2 are prime and caches q.
func NewSafePrime(p *saferith.Nat) (*SafePrime, error) {
	if p == nil {
		return nil, ErrNotSafePrime
	}
	pBig := p.Big()
	if pBig.Bit(0) == 0 || pBig.BitLen() < 3 || !pBig.ProbablyPrime(primalityRounds) {
		return nil, ErrNotSafePrime
	}
	qBig := pBig.Rsh(pBig, 1)
	if !qBig.ProbablyPrime(primalityRounds) {
		return nil, ErrNotSafePrime
	}
	qNat := new(saferith.Nat).SetBig(qBig, qBig.BitLen())
	return &SafePrime{
		Modulus: saferith.ModulusFromNat(p),
		q:       saferith.ModulusFromNat(qNat),
		qNat:    qNat,
	}, nil
}

// SafePrimeFromUint64 is NewSafePrime for small primes.
func SafePrimeFromUint64(p uint64) (*SafePrime, error) {
	return NewSafePrime(new(saferith.Nat).SetUint64(p))
}

// Q returns the order q of the quadratic residue subgroup.
func (p *SafePrime) Q() *saferith.Modulus {
	return p.q
}

// Exp returns xᵉ (mod p).
func (p *SafePrime) Exp(x, e *saferith.Nat) *saferith.Nat {
	return new(saferith.Nat).Exp(x, e, p.Modulus)
}

// IsQuadraticResidue returns true if 0 < x < p and x^q ≡ 1 (mod p),
// i.e. x lies in the subgroup of order q.
func (p *SafePrime) IsQuadraticResidue(x *saferith.Nat) bool {
	if x.EqZero() == 1 {
		return false
	}
	if _, _, lt := x.CmpMod(p.Modulus); lt != 1 {
		return false
	}
	one := new(saferith.Nat).SetUint64(1)
	return p.Exp(x, p.qNat).Eq(one) == 1
}
