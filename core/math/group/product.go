package group

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/cronokirby/saferith"
	"github.com/mr-shifu/sigma-lib/core/bytetree"
)

// ProductSpace is the direct product S₁ × … × Sₙ; its elements are Tuples.
type ProductSpace struct {
	spaces []Space
	name   string
}

// NewProductSpace returns S₁ × … × Sₙ. It panics on a nil component.
func NewProductSpace(spaces ...Space) *ProductSpace {
	names := make([]string, len(spaces))
	for i, s := range spaces {
		if s == nil {
			panic(fmt.Sprintf("group: nil component %d of product space", i))
		}
		names[i] = s.Name()
	}
	cp := make([]Space, len(spaces))
	copy(cp, spaces)
	return &ProductSpace{
		spaces: cp,
		name:   "(" + strings.Join(names, " × ") + ")",
	}
}

// Power returns Sⁿ.
func Power(s Space, n int) *ProductSpace {
	spaces := make([]Space, n)
	for i := range spaces {
		spaces[i] = s
	}
	return NewProductSpace(spaces...)
}

func (p *ProductSpace) Arity() int { return len(p.spaces) }

func (p *ProductSpace) At(i int) Space { return p.spaces[i] }

func (p *ProductSpace) Name() string { return p.name }

// Order returns the product of the component orders.
func (p *ProductSpace) Order() *saferith.Modulus {
	acc := new(saferith.Nat).SetUint64(1)
	for _, s := range p.spaces {
		order := s.Order()
		if order == nil {
			return nil
		}
		acc = new(saferith.Nat).Mul(acc, order.Nat(), -1)
	}
	return saferith.ModulusFromNat(acc)
}

func (p *ProductSpace) Identity() Element {
	elements := make([]Element, len(p.spaces))
	for i, s := range p.spaces {
		elements[i] = s.Identity()
	}
	return &Tuple{space: p, elements: elements}
}

func (p *ProductSpace) Random(rand io.Reader) (Element, error) {
	elements := make([]Element, len(p.spaces))
	for i, s := range p.spaces {
		e, err := s.Random(rand)
		if err != nil {
			return nil, err
		}
		elements[i] = e
	}
	return &Tuple{space: p, elements: elements}, nil
}

func (p *ProductSpace) Contains(e Element) bool {
	t, ok := e.(*Tuple)
	if !ok || t == nil || len(t.elements) != len(p.spaces) {
		return false
	}
	for i, s := range p.spaces {
		if !Member(s, t.elements[i]) {
			return false
		}
	}
	return true
}

func (p *ProductSpace) Decode(data []byte) (Element, error) {
	tree, err := bytetree.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return FromByteTree(p, tree)
}

func (p *ProductSpace) Equal(other Space) bool {
	o, ok := other.(*ProductSpace)
	if !ok || len(o.spaces) != len(p.spaces) {
		return false
	}
	for i := range p.spaces {
		if !p.spaces[i].Equal(o.spaces[i]) {
			return false
		}
	}
	return true
}

// Element builds a tuple of the given components, checking membership.
func (p *ProductSpace) Element(elements ...Element) (*Tuple, error) {
	t := &Tuple{space: p, elements: append([]Element(nil), elements...)}
	if !p.Contains(t) {
		return nil, fmt.Errorf("%w: %s", ErrNotMember, p.name)
	}
	return t, nil
}

// Tuple is an element of a ProductSpace.
type Tuple struct {
	space    *ProductSpace
	elements []Element

	// the encoding is computed at most once
	encodeOnce sync.Once
	encoded    []byte
	encodeErr  error
}

// NewTuple returns the tuple (e₁, …, eₙ) in the product of the element spaces.
func NewTuple(elements ...Element) *Tuple {
	spaces := make([]Space, len(elements))
	for i, e := range elements {
		spaces[i] = e.Space()
	}
	return &Tuple{
		space:    NewProductSpace(spaces...),
		elements: append([]Element(nil), elements...),
	}
}

func (t *Tuple) Space() Space { return t.space }

func (t *Tuple) Arity() int { return len(t.elements) }

func (t *Tuple) At(i int) Element { return t.elements[i] }

// Elements returns a copy of the components.
func (t *Tuple) Elements() []Element {
	return append([]Element(nil), t.elements...)
}

func (t *Tuple) Combine(other Element) Element {
	mustMatch(t.space, other)
	o := other.(*Tuple)
	elements := make([]Element, len(t.elements))
	for i := range elements {
		elements[i] = t.elements[i].Combine(o.elements[i])
	}
	return &Tuple{space: t.space, elements: elements}
}

func (t *Tuple) Invert() Element {
	elements := make([]Element, len(t.elements))
	for i := range elements {
		elements[i] = t.elements[i].Invert()
	}
	return &Tuple{space: t.space, elements: elements}
}

func (t *Tuple) Scale(n *saferith.Nat) Element {
	elements := make([]Element, len(t.elements))
	for i := range elements {
		elements[i] = t.elements[i].Scale(n)
	}
	return &Tuple{space: t.space, elements: elements}
}

func (t *Tuple) Equal(other Element) bool {
	o, ok := other.(*Tuple)
	if !ok || len(o.elements) != len(t.elements) {
		return false
	}
	for i := range t.elements {
		if !t.elements[i].Equal(o.elements[i]) {
			return false
		}
	}
	return true
}

// MarshalBinary returns the byte-tree encoding of the tuple.
func (t *Tuple) MarshalBinary() ([]byte, error) {
	t.encodeOnce.Do(func() {
		tree, err := t.ByteTree()
		if err != nil {
			t.encodeErr = err
			return
		}
		t.encoded = tree.Marshal()
	})
	if t.encodeErr != nil {
		return nil, t.encodeErr
	}
	return append([]byte(nil), t.encoded...), nil
}

func (t *Tuple) ByteTree() (bytetree.ByteTree, error) {
	node := make(bytetree.Node, len(t.elements))
	for i, e := range t.elements {
		child, err := ToByteTree(e)
		if err != nil {
			return nil, err
		}
		node[i] = child
	}
	return node, nil
}

func (t *Tuple) String() string {
	parts := make([]string, len(t.elements))
	for i, e := range t.elements {
		parts[i] = fmt.Sprint(e)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// ToByteTree returns a node for tuples and a leaf holding the canonical
// bytes for any other element.
func ToByteTree(e Element) (bytetree.ByteTree, error) {
	if t, ok := e.(*Tuple); ok {
		return t.ByteTree()
	}
	data, err := e.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return bytetree.Leaf(data), nil
}

// FromByteTree decodes tree as an element of s, the inverse of ToByteTree.
func FromByteTree(s Space, tree bytetree.ByteTree) (Element, error) {
	p, ok := s.(*ProductSpace)
	if !ok {
		leaf, ok := bytetree.AsLeaf(tree)
		if !ok {
			return nil, fmt.Errorf("group: expected leaf for %s", s.Name())
		}
		return s.Decode(leaf)
	}
	node, ok := bytetree.AsNode(tree, len(p.spaces))
	if !ok {
		return nil, fmt.Errorf("group: expected node of arity %d for %s", len(p.spaces), p.name)
	}
	elements := make([]Element, len(node))
	for i, child := range node {
		e, err := FromByteTree(p.spaces[i], child)
		if err != nil {
			return nil, err
		}
		elements[i] = e
	}
	return &Tuple{space: p, elements: elements}, nil
}
