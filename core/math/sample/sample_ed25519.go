package sample

import (
	"io"

	ed "filippo.io/edwards25519"
	"github.com/pkg/errors"
)

const (
	// WideSeedSize is reduced modulo the group order, leaving a bias below 2⁻²⁵⁰.
	WideSeedSize = 64
)

// Ed25519Scalar samples a scalar uniformly modulo the order of the
// edwards25519 prime-order subgroup.
func Ed25519Scalar(rand io.Reader) (*ed.Scalar, error) {
	seed := make([]byte, WideSeedSize)
	if _, err := io.ReadFull(Reader(rand), seed); err != nil {
		return nil, errors.WithMessage(err, "sample_ed25519: failed to read random seed")
	}

	s, err := ed.NewScalar().SetUniformBytes(seed)
	if err != nil {
		return nil, errors.WithMessage(err, "sample_ed25519: internal error: setting scalar failed")
	}

	return s, nil
}
