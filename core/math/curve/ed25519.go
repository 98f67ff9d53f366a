package curve

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"

	ed "filippo.io/edwards25519"
	"github.com/cronokirby/saferith"
	"github.com/mr-shifu/sigma-lib/core/math/group"
	"github.com/mr-shifu/sigma-lib/core/math/sample"
	"github.com/pkg/errors"
)

const ed25519Size = 32

var (
	// ℓ = 2²⁵² + 27742317777372353535851937790883648493
	ed25519Order = saferith.ModulusFromBytes(mustDecodeHex("1000000000000000000000000000000014def9dea2f79cd65812631a5cf5d3ed"))

	// ℓ - 1, used for the subgroup check [ℓ-1]P + P = 0
	ed25519OrderMinusOne = ed25519Scalar(new(saferith.Nat).ModSub(
		new(saferith.Nat).SetUint64(0), new(saferith.Nat).SetUint64(1), ed25519Order))
)

func mustDecodeHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

// Ed25519 is the prime-order subgroup of the edwards25519 curve.
// Decoding rejects non-canonical encodings and points outside the subgroup.
type Ed25519 struct{}

func (Ed25519) Name() string { return "edwards25519" }

func (Ed25519) Order() *saferith.Modulus { return ed25519Order }

func (Ed25519) Identity() group.Element { return &Ed25519Point{p: ed.NewIdentityPoint()} }

// Generator returns the standard base point B.
func (Ed25519) Generator() *Ed25519Point { return &Ed25519Point{p: ed.NewGeneratorPoint()} }

func (Ed25519) Random(rand io.Reader) (group.Element, error) {
	s, err := sample.Ed25519Scalar(rand)
	if err != nil {
		return nil, errors.WithMessage(err, "edwards25519: failed to sample scalar")
	}
	return &Ed25519Point{p: new(ed.Point).ScalarBaseMult(s)}, nil
}

func (Ed25519) Contains(e group.Element) bool {
	p, ok := e.(*Ed25519Point)
	return ok && p != nil && p.p != nil
}

func (Ed25519) Decode(data []byte) (group.Element, error) {
	if len(data) != ed25519Size {
		return nil, fmt.Errorf("%w: edwards25519 expects %d bytes, got %d", group.ErrInvalidLength, ed25519Size, len(data))
	}
	p, err := new(ed.Point).SetBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: edwards25519: %v", group.ErrNotMember, err)
	}
	if !bytes.Equal(p.Bytes(), data) {
		return nil, fmt.Errorf("%w: edwards25519: non-canonical encoding", group.ErrNotMember)
	}
	check := new(ed.Point).ScalarMult(ed25519OrderMinusOne, p)
	check.Add(check, p)
	if check.Equal(ed.NewIdentityPoint()) != 1 {
		return nil, fmt.Errorf("%w: edwards25519: point outside the prime-order subgroup", group.ErrNotMember)
	}
	return &Ed25519Point{p: p}, nil
}

func (Ed25519) Equal(other group.Space) bool {
	_, ok := other.(Ed25519)
	return ok
}

func ed25519Scalar(k *saferith.Nat) *ed.Scalar {
	s, err := ed.NewScalar().SetCanonicalBytes(reverse(reduce(k, ed25519Order, ed25519Size)))
	if err != nil {
		// unreachable: the value is reduced modulo ℓ
		panic(err)
	}
	return s
}

type Ed25519Point struct {
	p *ed.Point
}

func (*Ed25519Point) Space() group.Space { return Ed25519{} }

func (p *Ed25519Point) Combine(other group.Element) group.Element {
	o, ok := other.(*Ed25519Point)
	if !ok {
		panic(mismatch(Ed25519{}, other))
	}
	return &Ed25519Point{p: new(ed.Point).Add(p.p, o.p)}
}

func (p *Ed25519Point) Invert() group.Element {
	return &Ed25519Point{p: new(ed.Point).Negate(p.p)}
}

func (p *Ed25519Point) Scale(k *saferith.Nat) group.Element {
	return &Ed25519Point{p: new(ed.Point).ScalarMult(ed25519Scalar(k), p.p)}
}

func (p *Ed25519Point) Equal(other group.Element) bool {
	o, ok := other.(*Ed25519Point)
	if !ok || o == nil {
		return false
	}
	return p.p.Equal(o.p) == 1
}

func (p *Ed25519Point) MarshalBinary() ([]byte, error) {
	return p.p.Bytes(), nil
}
