package curve

import (
	"fmt"
	"io"

	circl "github.com/cloudflare/circl/group"
	"github.com/cronokirby/saferith"
	"github.com/mr-shifu/sigma-lib/core/math/group"
	"github.com/mr-shifu/sigma-lib/core/math/sample"
	"github.com/pkg/errors"
)

const ristretto255Size = 32

// Ristretto255 is the prime-order group built on edwards25519, order ℓ.
type Ristretto255 struct{}

func (Ristretto255) Name() string { return "ristretto255" }

func (Ristretto255) Order() *saferith.Modulus { return ed25519Order }

func (Ristretto255) Identity() group.Element {
	return &Ristretto255Point{e: circl.Ristretto255.Identity()}
}

func (Ristretto255) Generator() *Ristretto255Point {
	return &Ristretto255Point{e: circl.Ristretto255.Generator()}
}

func (Ristretto255) Random(rand io.Reader) (group.Element, error) {
	k, err := sample.ModN(rand, ed25519Order)
	if err != nil {
		return nil, errors.WithMessage(err, "ristretto255: failed to sample scalar")
	}
	return &Ristretto255Point{e: circl.Ristretto255.NewElement().MulGen(ristretto255Scalar(k))}, nil
}

func (Ristretto255) Contains(e group.Element) bool {
	p, ok := e.(*Ristretto255Point)
	return ok && p != nil && p.e != nil
}

func (Ristretto255) Decode(data []byte) (group.Element, error) {
	if len(data) != ristretto255Size {
		return nil, fmt.Errorf("%w: ristretto255 expects %d bytes, got %d", group.ErrInvalidLength, ristretto255Size, len(data))
	}
	e := circl.Ristretto255.NewElement()
	if err := e.UnmarshalBinary(data); err != nil {
		return nil, fmt.Errorf("%w: ristretto255: %v", group.ErrNotMember, err)
	}
	return &Ristretto255Point{e: e}, nil
}

func (Ristretto255) Equal(other group.Space) bool {
	_, ok := other.(Ristretto255)
	return ok
}

func ristretto255Scalar(k *saferith.Nat) circl.Scalar {
	return circl.Ristretto255.NewScalar().SetBigInt(new(saferith.Nat).Mod(k, ed25519Order).Big())
}

type Ristretto255Point struct {
	e circl.Element
}

func (*Ristretto255Point) Space() group.Space { return Ristretto255{} }

func (p *Ristretto255Point) Combine(other group.Element) group.Element {
	o, ok := other.(*Ristretto255Point)
	if !ok {
		panic(mismatch(Ristretto255{}, other))
	}
	return &Ristretto255Point{e: circl.Ristretto255.NewElement().Add(p.e, o.e)}
}

func (p *Ristretto255Point) Invert() group.Element {
	return &Ristretto255Point{e: circl.Ristretto255.NewElement().Neg(p.e)}
}

func (p *Ristretto255Point) Scale(k *saferith.Nat) group.Element {
	return &Ristretto255Point{e: circl.Ristretto255.NewElement().Mul(p.e, ristretto255Scalar(k))}
}

func (p *Ristretto255Point) Equal(other group.Element) bool {
	o, ok := other.(*Ristretto255Point)
	if !ok || o == nil {
		return false
	}
	return p.e.IsEqual(o.e)
}

func (p *Ristretto255Point) MarshalBinary() ([]byte, error) {
	return p.e.MarshalBinary()
}
