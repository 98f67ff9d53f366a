package elgamal

import (
	"errors"
	"fmt"
	"io"

	"github.com/mr-shifu/sigma-lib/core/math/group"
)

var ErrInvalidCiphertext = errors.New("elgamal: invalid ciphertext")

type Ciphertext struct {
	// L = gʳ
	L group.Element
	// M = m⋅pkʳ
	M group.Element
}

// Valid returns true if both components are members of space.
func (c *Ciphertext) Valid(space group.Space) bool {
	if c == nil || !group.Member(space, c.L) || !group.Member(space, c.M) {
		return false
	}
	return true
}

// Tuple returns (L, M).
func (c *Ciphertext) Tuple() *group.Tuple {
	return group.NewTuple(c.L, c.M)
}

// MarshalBinary returns the byte-tree node (L, M).
func (c *Ciphertext) MarshalBinary() ([]byte, error) {
	if c == nil || c.L == nil || c.M == nil {
		return nil, ErrInvalidCiphertext
	}
	return c.Tuple().MarshalBinary()
}

// UnmarshalCiphertext parses the encoding of a ciphertext over space.
func UnmarshalCiphertext(space group.Space, data []byte) (*Ciphertext, error) {
	e, err := group.Power(space, 2).Decode(data)
	if err != nil {
		return nil, fmt.Errorf("elgamal: %w", err)
	}
	t := e.(*group.Tuple)
	return &Ciphertext{L: t.At(0), M: t.At(1)}, nil
}

func (c *Ciphertext) WriteTo(w io.Writer) (int64, error) {
	if c == nil || c.L == nil || c.M == nil {
		return 0, ErrInvalidCiphertext
	}
	tree, err := c.Tuple().ByteTree()
	if err != nil {
		return 0, err
	}
	return tree.WriteTo(w)
}

func (Ciphertext) Domain() string {
	return "ElGamal Ciphertext"
}
