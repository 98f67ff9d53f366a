package curve

import (
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/mr-shifu/sigma-lib/core/math/group"
	"github.com/mr-shifu/sigma-lib/core/math/sample"
	"github.com/pkg/errors"
)

const (
	secp256k1ScalarSize = 32
	secp256k1PointSize  = 33
)

var secp256k1Order = saferith.ModulusFromBytes(secp256k1.Params().N.Bytes())

// Secp256k1 is the group of points of the secp256k1 curve.
// The identity is encoded as the single byte 0x00, other points in
// compressed SEC1 form.
type Secp256k1 struct{}

func (Secp256k1) Name() string { return "secp256k1" }

func (Secp256k1) Order() *saferith.Modulus { return secp256k1Order }

func (Secp256k1) Identity() group.Element { return &Secp256k1Point{} }

// Generator returns the standard base point G.
func (Secp256k1) Generator() *Secp256k1Point {
	var k secp256k1.ModNScalar
	k.SetInt(1)
	p := &Secp256k1Point{}
	secp256k1.ScalarBaseMultNonConst(&k, &p.p)
	p.p.ToAffine()
	return p
}

func (Secp256k1) Random(rand io.Reader) (group.Element, error) {
	k, err := sample.ModN(rand, secp256k1Order)
	if err != nil {
		return nil, errors.WithMessage(err, "secp256k1: failed to sample scalar")
	}
	s := secp256k1Scalar(k)
	p := &Secp256k1Point{}
	secp256k1.ScalarBaseMultNonConst(&s, &p.p)
	p.p.ToAffine()
	return p, nil
}

func (Secp256k1) Contains(e group.Element) bool {
	p, ok := e.(*Secp256k1Point)
	return ok && p != nil
}

func (Secp256k1) Decode(data []byte) (group.Element, error) {
	if len(data) == 1 && data[0] == 0 {
		return &Secp256k1Point{}, nil
	}
	if len(data) != secp256k1PointSize {
		return nil, fmt.Errorf("%w: secp256k1 expects %d bytes, got %d", group.ErrInvalidLength, secp256k1PointSize, len(data))
	}
	pk, err := secp256k1.ParsePubKey(data)
	if err != nil {
		return nil, fmt.Errorf("%w: secp256k1: %v", group.ErrNotMember, err)
	}
	p := &Secp256k1Point{}
	pk.AsJacobian(&p.p)
	p.p.ToAffine()
	return p, nil
}

func (Secp256k1) Equal(other group.Space) bool {
	_, ok := other.(Secp256k1)
	return ok
}

func secp256k1Scalar(k *saferith.Nat) secp256k1.ModNScalar {
	var buf [secp256k1ScalarSize]byte
	copy(buf[:], reduce(k, secp256k1Order, secp256k1ScalarSize))
	var s secp256k1.ModNScalar
	s.SetBytes(&buf)
	return s
}

// Secp256k1Point is a point in affine coordinates; (0, 0) is the identity.
type Secp256k1Point struct {
	p secp256k1.JacobianPoint
}

func (*Secp256k1Point) Space() group.Space { return Secp256k1{} }

func (p *Secp256k1Point) IsIdentity() bool {
	return p.p.X.IsZero() && p.p.Y.IsZero()
}

func (p *Secp256k1Point) Combine(other group.Element) group.Element {
	o, ok := other.(*Secp256k1Point)
	if !ok {
		panic(mismatch(Secp256k1{}, other))
	}
	r := &Secp256k1Point{}
	secp256k1.AddNonConst(&p.p, &o.p, &r.p)
	r.p.ToAffine()
	return r
}

func (p *Secp256k1Point) Invert() group.Element {
	r := &Secp256k1Point{}
	r.p.Set(&p.p)
	r.p.Y.Negate(1)
	r.p.Y.Normalize()
	return r
}

func (p *Secp256k1Point) Scale(k *saferith.Nat) group.Element {
	r := &Secp256k1Point{}
	if p.IsIdentity() {
		return r
	}
	s := secp256k1Scalar(k)
	secp256k1.ScalarMultNonConst(&s, &p.p, &r.p)
	r.p.ToAffine()
	return r
}

func (p *Secp256k1Point) Equal(other group.Element) bool {
	o, ok := other.(*Secp256k1Point)
	if !ok || o == nil {
		return false
	}
	return p.p.X.Equals(&o.p.X) && p.p.Y.Equals(&o.p.Y)
}

func (p *Secp256k1Point) MarshalBinary() ([]byte, error) {
	if p.IsIdentity() {
		return []byte{0}, nil
	}
	return secp256k1.NewPublicKey(&p.p.X, &p.p.Y).SerializeCompressed(), nil
}
