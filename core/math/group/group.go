// Package group defines the narrow algebraic contract consumed by the proof
// generators: a Space of Elements closed under a group operation, and
// homomorphisms between spaces.
package group

import (
	"errors"
	"io"

	"github.com/cronokirby/saferith"
)

var (
	ErrNotMember     = errors.New("group: element is not a member of the space")
	ErrInvalidLength = errors.New("group: invalid encoding length")
)

// Space is the set a group Element belongs to.
type Space interface {
	// Name identifies the space. Equal spaces have equal names.
	Name() string
	// Order returns the number of elements, or nil if it is infinite or unknown.
	Order() *saferith.Modulus
	// Identity returns the neutral element.
	Identity() Element
	// Random returns a uniformly distributed element.
	Random(rand io.Reader) (Element, error)
	// Contains reports whether e is a valid element of this space.
	Contains(e Element) bool
	// Decode parses canonical bytes produced by Element.MarshalBinary.
	// It fails on any input that does not denote a member of the space.
	Decode(data []byte) (Element, error)
	// Equal reports whether both spaces denote the same set.
	Equal(other Space) bool
}

// Element is an immutable value of a Space.
//
// Operations are written multiplicatively regardless of the notation of the
// underlying group: Combine is the group operation, Invert the inverse and
// Scale repeated combination. Mixing elements of different spaces is a
// programming error and panics; callers handling untrusted input check
// Space.Contains first.
type Element interface {
	Space() Space
	Combine(other Element) Element
	Invert() Element
	Scale(n *saferith.Nat) Element
	Equal(other Element) bool
	// MarshalBinary returns the canonical encoding.
	MarshalBinary() ([]byte, error)
}

// Homomorphism is a map f: Domain → Codomain with f(a·b) = f(a)·f(b).
type Homomorphism interface {
	Domain() Space
	Codomain() Space
	// Apply evaluates f on an element of Domain.
	Apply(x Element) Element
}

// Member reports whether e is non-nil and belongs to s.
func Member(s Space, e Element) bool {
	return s != nil && e != nil && s.Contains(e)
}

// Divide returns a·b⁻¹.
func Divide(a, b Element) Element {
	return a.Combine(b.Invert())
}

// MinimalOrder returns the smallest order among the components of s, or the
// order of s itself if it is not a product. It returns nil if any component
// order is unknown.
func MinimalOrder(s Space) *saferith.Modulus {
	p, ok := s.(*ProductSpace)
	if !ok {
		return s.Order()
	}
	var min *saferith.Modulus
	for _, component := range p.spaces {
		order := MinimalOrder(component)
		if order == nil {
			return nil
		}
		if min == nil {
			min = order
			continue
		}
		if _, _, lt := order.Nat().CmpMod(min); lt == 1 {
			min = order
		}
	}
	return min
}

func mustMatch(s Space, e Element) {
	if !s.Contains(e) {
		panic("group: element of " + e.Space().Name() + " used with " + s.Name())
	}
}
