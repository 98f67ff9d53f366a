// Package zmod implements groups of integers modulo n: the additive group ℤₙ
// and the multiplicative subgroup of quadratic residues modulo a safe prime.
package zmod

import (
	"errors"
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/mr-shifu/sigma-lib/core/math/group"
	"github.com/mr-shifu/sigma-lib/core/math/sample"
)

var ErrInvalidModulus = errors.New("zmod: invalid modulus")

// ZMod is the additive group ℤₙ = {0, …, n-1}.
type ZMod struct {
	n    *saferith.Modulus
	size int
}

// New returns ℤₙ for n ≥ 1.
func New(n *saferith.Modulus) (*ZMod, error) {
	if n == nil || n.Nat().EqZero() == 1 {
		return nil, ErrInvalidModulus
	}
	return &ZMod{n: n, size: (n.BitLen() + 7) / 8}, nil
}

// FromUint64 returns ℤₙ for n ≥ 1.
func FromUint64(n uint64) (*ZMod, error) {
	if n == 0 {
		return nil, ErrInvalidModulus
	}
	return New(saferith.ModulusFromUint64(n))
}

// Modulus returns n.
func (z *ZMod) Modulus() *saferith.Modulus { return z.n }

func (z *ZMod) Name() string { return "ZMod(" + z.n.Hex() + ")" }

func (z *ZMod) Order() *saferith.Modulus { return z.n }

func (z *ZMod) Identity() group.Element {
	return z.ElementFromUint64(0)
}

func (z *ZMod) Random(rand io.Reader) (group.Element, error) {
	v, err := sample.ModN(rand, z.n)
	if err != nil {
		return nil, fmt.Errorf("zmod: %w", err)
	}
	return &Element{z: z, v: v}, nil
}

// RandomElement is Random with a concrete result type.
func (z *ZMod) RandomElement(rand io.Reader) (*Element, error) {
	e, err := z.Random(rand)
	if err != nil {
		return nil, err
	}
	return e.(*Element), nil
}

func (z *ZMod) Contains(e group.Element) bool {
	x, ok := e.(*Element)
	return ok && x != nil && x.z != nil && x.v != nil && x.z.Equal(z)
}

// Decode parses a fixed-width big-endian integer below n.
func (z *ZMod) Decode(data []byte) (group.Element, error) {
	if len(data) != z.size {
		return nil, fmt.Errorf("%w: %s expects %d bytes, got %d", group.ErrInvalidLength, z.Name(), z.size, len(data))
	}
	v := new(saferith.Nat).SetBytes(data)
	if _, _, lt := v.CmpMod(z.n); lt != 1 {
		return nil, fmt.Errorf("%w: %s", group.ErrNotMember, z.Name())
	}
	return &Element{z: z, v: v}, nil
}

func (z *ZMod) Equal(other group.Space) bool {
	o, ok := other.(*ZMod)
	if !ok || o == nil || z == nil {
		return false
	}
	if o == z {
		return true
	}
	return o.n.Nat().Eq(z.n.Nat()) == 1
}

// Element returns v mod n.
func (z *ZMod) Element(v *saferith.Nat) *Element {
	return &Element{z: z, v: new(saferith.Nat).Mod(v, z.n)}
}

// ElementFromUint64 returns v mod n.
func (z *ZMod) ElementFromUint64(v uint64) *Element {
	return z.Element(new(saferith.Nat).SetUint64(v))
}

// Element is an integer in ℤₙ.
type Element struct {
	z *ZMod
	v *saferith.Nat
}

func (x *Element) Space() group.Space { return x.z }

// Nat returns a copy of the canonical representative in [0, n).
func (x *Element) Nat() *saferith.Nat { return new(saferith.Nat).SetNat(x.v) }

// Combine returns x + y mod n.
func (x *Element) Combine(y group.Element) group.Element { return x.Add(x.must(y)) }

// Invert returns -x mod n.
func (x *Element) Invert() group.Element { return x.Neg() }

// Scale returns x⋅k mod n.
func (x *Element) Scale(k *saferith.Nat) group.Element {
	k = new(saferith.Nat).Mod(k, x.z.n)
	return &Element{z: x.z, v: new(saferith.Nat).ModMul(x.v, k, x.z.n)}
}

func (x *Element) Add(y *Element) *Element {
	return &Element{z: x.z, v: new(saferith.Nat).ModAdd(x.v, y.v, x.z.n)}
}

func (x *Element) Sub(y *Element) *Element {
	return &Element{z: x.z, v: new(saferith.Nat).ModSub(x.v, y.v, x.z.n)}
}

func (x *Element) Neg() *Element {
	return &Element{z: x.z, v: new(saferith.Nat).ModNeg(x.v, x.z.n)}
}

func (x *Element) Equal(y group.Element) bool {
	o, ok := y.(*Element)
	if !ok || o == nil || o.v == nil || x.v == nil || !o.z.Equal(x.z) {
		return false
	}
	return x.v.Eq(o.v) == 1
}

func (x *Element) IsZero() bool { return x.v.EqZero() == 1 }

// MarshalBinary returns v as a big-endian integer of the byte length of n.
func (x *Element) MarshalBinary() ([]byte, error) {
	return x.v.FillBytes(make([]byte, x.z.size)), nil
}

func (x *Element) String() string { return x.v.Big().String() }

func (x *Element) must(y group.Element) *Element {
	o, ok := y.(*Element)
	if !ok || !o.z.Equal(x.z) {
		panic("zmod: element of " + y.Space().Name() + " combined with " + x.z.Name())
	}
	return o
}
