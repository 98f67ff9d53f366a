package zmod

import (
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/mr-shifu/sigma-lib/core/math/arith"
	"github.com/mr-shifu/sigma-lib/core/math/group"
	"github.com/mr-shifu/sigma-lib/core/math/sample"
)

// GStarMod is the subgroup 𝔾_q ⊂ ℤ*ₚ of quadratic residues modulo a safe
// prime p = 2⋅q + 1. It is cyclic of prime order q, written multiplicatively.
type GStarMod struct {
	p    *arith.SafePrime
	size int
}

// NewGStarMod returns 𝔾_q for the safe prime p.
func NewGStarMod(p *saferith.Nat) (*GStarMod, error) {
	sp, err := arith.NewSafePrime(p)
	if err != nil {
		return nil, fmt.Errorf("zmod: %w", err)
	}
	return newGStarMod(sp), nil
}

// GStarModFromUint64 is NewGStarMod for small primes.
func GStarModFromUint64(p uint64) (*GStarMod, error) {
	sp, err := arith.SafePrimeFromUint64(p)
	if err != nil {
		return nil, fmt.Errorf("zmod: %w", err)
	}
	return newGStarMod(sp), nil
}

func newGStarMod(sp *arith.SafePrime) *GStarMod {
	return &GStarMod{p: sp, size: (sp.BitLen() + 7) / 8}
}

// P returns the modulus p.
func (g *GStarMod) P() *saferith.Modulus { return g.p.Modulus }

func (g *GStarMod) Name() string { return "GStarMod(" + g.p.Hex() + ")" }

// Order returns q.
func (g *GStarMod) Order() *saferith.Modulus { return g.p.Q() }

// ZModOrder returns ℤ_q, the natural exponent group.
func (g *GStarMod) ZModOrder() *ZMod {
	z, _ := New(g.p.Q())
	return z
}

func (g *GStarMod) Identity() group.Element {
	return &GStarElement{g: g, v: new(saferith.Nat).SetUint64(1)}
}

// DefaultGenerator returns 4 = 2², a quadratic residue of order q for any
// safe prime p > 5.
func (g *GStarMod) DefaultGenerator() *GStarElement {
	e, _ := g.ElementFromUint64(4)
	return e
}

// Random squares a uniform unit of ℤₚ, which is uniform over 𝔾_q.
func (g *GStarMod) Random(rand io.Reader) (group.Element, error) {
	u, err := sample.UnitModN(rand, g.p.Modulus)
	if err != nil {
		return nil, fmt.Errorf("zmod: %w", err)
	}
	return &GStarElement{g: g, v: new(saferith.Nat).ModMul(u, u, g.p.Modulus)}, nil
}

func (g *GStarMod) Contains(e group.Element) bool {
	x, ok := e.(*GStarElement)
	return ok && x != nil && x.g != nil && x.v != nil && x.g.Equal(g)
}

func (g *GStarMod) Decode(data []byte) (group.Element, error) {
	if len(data) != g.size {
		return nil, fmt.Errorf("%w: %s expects %d bytes, got %d", group.ErrInvalidLength, g.Name(), g.size, len(data))
	}
	return g.Element(new(saferith.Nat).SetBytes(data))
}

func (g *GStarMod) Equal(other group.Space) bool {
	o, ok := other.(*GStarMod)
	if !ok || o == nil || g == nil {
		return false
	}
	return o == g || o.p.Nat().Eq(g.p.Nat()) == 1
}

// Element returns v if it is a quadratic residue modulo p.
func (g *GStarMod) Element(v *saferith.Nat) (*GStarElement, error) {
	if !g.p.IsQuadraticResidue(v) {
		return nil, fmt.Errorf("%w: %s", group.ErrNotMember, g.Name())
	}
	return &GStarElement{g: g, v: new(saferith.Nat).SetNat(v)}, nil
}

func (g *GStarMod) ElementFromUint64(v uint64) (*GStarElement, error) {
	return g.Element(new(saferith.Nat).SetUint64(v))
}

// GStarElement is a quadratic residue modulo p.
type GStarElement struct {
	g *GStarMod
	v *saferith.Nat
}

func (x *GStarElement) Space() group.Space { return x.g }

// Nat returns a copy of the representative in [1, p).
func (x *GStarElement) Nat() *saferith.Nat { return new(saferith.Nat).SetNat(x.v) }

// Combine returns x⋅y mod p.
func (x *GStarElement) Combine(y group.Element) group.Element {
	o, ok := y.(*GStarElement)
	if !ok || !o.g.Equal(x.g) {
		panic("zmod: element of " + y.Space().Name() + " combined with " + x.g.Name())
	}
	return &GStarElement{g: x.g, v: new(saferith.Nat).ModMul(x.v, o.v, x.g.p.Modulus)}
}

// Invert returns x⁻¹ mod p.
func (x *GStarElement) Invert() group.Element {
	return &GStarElement{g: x.g, v: new(saferith.Nat).ModInverse(x.v, x.g.p.Modulus)}
}

// Scale returns xᵏ mod p.
func (x *GStarElement) Scale(k *saferith.Nat) group.Element {
	return &GStarElement{g: x.g, v: x.g.p.Exp(x.v, k)}
}

func (x *GStarElement) Equal(y group.Element) bool {
	o, ok := y.(*GStarElement)
	if !ok || o == nil || o.v == nil || x.v == nil || !o.g.Equal(x.g) {
		return false
	}
	return x.v.Eq(o.v) == 1
}

func (x *GStarElement) IsIdentity() bool {
	return x.v.Eq(new(saferith.Nat).SetUint64(1)) == 1
}

func (x *GStarElement) MarshalBinary() ([]byte, error) {
	return x.v.FillBytes(make([]byte, x.g.size)), nil
}

func (x *GStarElement) String() string { return x.v.Big().String() }
