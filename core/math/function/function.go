// Package function provides group homomorphisms used as proof statements.
package function

import (
	"errors"
	"fmt"

	"github.com/mr-shifu/sigma-lib/core/math/group"
	"github.com/mr-shifu/sigma-lib/core/math/zmod"
)

var (
	ErrNilArgument       = errors.New("function: nil argument")
	ErrUnknownOrder      = errors.New("function: generator of unknown order")
	ErrDomainMismatch    = errors.New("function: domains differ")
	ErrNoFunctions       = errors.New("function: no functions")
	ErrIdentityGenerator = errors.New("function: identity is not a generator")
)

// Generator is the map ℤ_q → ⟨g⟩, x ↦ gˣ, for g of order q.
type Generator struct {
	g      group.Element
	domain *zmod.ZMod
}

// NewGenerator returns x ↦ gˣ. The domain is ℤ_q where q is the order of
// the space of g, which must be prime for g to generate it.
func NewGenerator(g group.Element) (*Generator, error) {
	if g == nil {
		return nil, ErrNilArgument
	}
	order := g.Space().Order()
	if order == nil {
		return nil, ErrUnknownOrder
	}
	if g.Equal(g.Space().Identity()) {
		return nil, ErrIdentityGenerator
	}
	domain, err := zmod.New(order)
	if err != nil {
		return nil, fmt.Errorf("function: %w", err)
	}
	return &Generator{g: g, domain: domain}, nil
}

func (f *Generator) Domain() group.Space { return f.domain }

func (f *Generator) Codomain() group.Space { return f.g.Space() }

// Base returns g.
func (f *Generator) Base() group.Element { return f.g }

func (f *Generator) Apply(x group.Element) group.Element {
	e, ok := x.(*zmod.Element)
	if !ok || !f.domain.Contains(e) {
		panic("function: generator applied outside its domain")
	}
	return f.g.Scale(e.Nat())
}

// Fanout is the map x ↦ (f₁(x), …, fₙ(x)) for functions sharing a domain.
type Fanout struct {
	fs       []group.Homomorphism
	codomain *group.ProductSpace
}

func NewFanout(fs ...group.Homomorphism) (*Fanout, error) {
	if len(fs) == 0 {
		return nil, ErrNoFunctions
	}
	codomains := make([]group.Space, len(fs))
	for i, f := range fs {
		if f == nil {
			return nil, ErrNilArgument
		}
		if !f.Domain().Equal(fs[0].Domain()) {
			return nil, fmt.Errorf("%w: %s and %s", ErrDomainMismatch, fs[0].Domain().Name(), f.Domain().Name())
		}
		codomains[i] = f.Codomain()
	}
	return &Fanout{
		fs:       append([]group.Homomorphism(nil), fs...),
		codomain: group.NewProductSpace(codomains...),
	}, nil
}

func (f *Fanout) Domain() group.Space { return f.fs[0].Domain() }

func (f *Fanout) Codomain() group.Space { return f.codomain }

func (f *Fanout) Apply(x group.Element) group.Element {
	images := make([]group.Element, len(f.fs))
	for i, fi := range f.fs {
		images[i] = fi.Apply(x)
	}
	t, err := f.codomain.Element(images...)
	if err != nil {
		panic(err)
	}
	return t
}

// Product is the map (x₁, …, xₙ) ↦ (f₁(x₁), …, fₙ(xₙ)).
type Product struct {
	fs       []group.Homomorphism
	domain   *group.ProductSpace
	codomain *group.ProductSpace
}

func NewProduct(fs ...group.Homomorphism) (*Product, error) {
	if len(fs) == 0 {
		return nil, ErrNoFunctions
	}
	domains := make([]group.Space, len(fs))
	codomains := make([]group.Space, len(fs))
	for i, f := range fs {
		if f == nil {
			return nil, ErrNilArgument
		}
		domains[i] = f.Domain()
		codomains[i] = f.Codomain()
	}
	return &Product{
		fs:       append([]group.Homomorphism(nil), fs...),
		domain:   group.NewProductSpace(domains...),
		codomain: group.NewProductSpace(codomains...),
	}, nil
}

func (f *Product) Domain() group.Space { return f.domain }

func (f *Product) Codomain() group.Space { return f.codomain }

// Arity returns the number of component functions.
func (f *Product) Arity() int { return len(f.fs) }

// At returns the i-th component function.
func (f *Product) At(i int) group.Homomorphism { return f.fs[i] }

func (f *Product) Apply(x group.Element) group.Element {
	t, ok := x.(*group.Tuple)
	if !ok || !f.domain.Contains(t) {
		panic("function: product applied outside its domain")
	}
	images := make([]group.Element, len(f.fs))
	for i, fi := range f.fs {
		images[i] = fi.Apply(t.At(i))
	}
	out, err := f.codomain.Element(images...)
	if err != nil {
		panic(err)
	}
	return out
}
