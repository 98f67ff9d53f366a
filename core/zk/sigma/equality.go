package sigma

import (
	"fmt"
	"io"

	"github.com/mr-shifu/sigma-lib/core/math/group"
	"github.com/mr-shifu/sigma-lib/core/math/sample"
	"github.com/mr-shifu/sigma-lib/core/math/zmod"
	"github.com/mr-shifu/sigma-lib/core/zk/challenge"
)

// Equality proves knowledge of one x with fⱼ(x) = yⱼ for every j, using a
// single randomness, challenge and response for all homomorphisms.
type Equality struct {
	fs          []group.Homomorphism
	challenge   challenge.Generator
	public      *group.ProductSpace
	commitments []group.Space
	domain      group.Space
	proofSpace  *group.ProductSpace
}

// NewEquality returns the generator for fs, which must number at least two
// and share the same domain.
func NewEquality(fs []group.Homomorphism, opts ...Option) (*Equality, error) {
	if err := checkFunctions(fs); err != nil {
		return nil, err
	}
	domain := fs[0].Domain()
	for i, f := range fs[1:] {
		if !f.Domain().Equal(domain) {
			return nil, fmt.Errorf("%w: %s at index %d, expected %s", ErrDomainMismatch, f.Domain().Name(), i+1, domain.Name())
		}
	}
	fs = append([]group.Homomorphism(nil), fs...)
	c, err := newConfig(fs, opts)
	if err != nil {
		return nil, err
	}
	commitments := codomains(fs)
	return &Equality{
		fs:          fs,
		challenge:   c.challenge,
		public:      group.NewProductSpace(commitments...),
		commitments: commitments,
		domain:      domain,
		proofSpace:  proofSpace(commitments, c.challenge.Space(), 1, []group.Space{domain}),
	}, nil
}

// Arity returns the number of homomorphisms.
func (e *Equality) Arity() int { return len(e.fs) }

// Public returns the public input (y₀, …, yₙ₋₁).
func (e *Equality) Public(ys ...group.Element) (*group.Tuple, error) {
	return e.public.Element(ys...)
}

func (e *Equality) PublicInputSpace() group.Space   { return e.public }
func (e *Equality) CommitmentSpace() group.Space    { return group.NewProductSpace(e.commitments...) }
func (e *Equality) ChallengeSpace() *zmod.ZMod      { return e.challenge.Space() }
func (e *Equality) ResponseSpace() group.Space      { return e.domain }
func (e *Equality) ProofSpace() *group.ProductSpace { return e.proofSpace }

func (e *Equality) DecodeProof(data []byte) (*Proof, error) {
	return decodeProof(e.proofSpace, data)
}

// Generate computes tⱼ = fⱼ(r), one challenge c over all commitments and
// s = r⋅xᶜ.
func (e *Equality) Generate(private PrivateInput, public group.Element, proverID []byte, rand io.Reader) (*Proof, error) {
	if private.Index != 0 {
		return nil, fmt.Errorf("%w: %d", ErrIndexOutOfRange, private.Index)
	}
	if !group.Member(e.domain, private.Secret) {
		return nil, ErrInvalidSecret
	}
	if !e.public.Contains(public) {
		return nil, ErrInvalidPublicInput
	}

	r, err := e.domain.Random(sample.Reader(rand))
	if err != nil {
		return nil, fmt.Errorf("sigma: sample randomness: %w", err)
	}
	commitments := make([]group.Element, len(e.fs))
	for j, f := range e.fs {
		commitments[j] = f.Apply(r)
	}
	c, err := e.challenge.Challenge(public, group.NewTuple(commitments...), proverID)
	if err != nil {
		return nil, err
	}

	return &Proof{
		Commitments: commitments,
		Challenges:  []*zmod.Element{c},
		Responses:   []group.Element{respond(r, private.Secret, c)},
	}, nil
}

// Verify recomputes c and checks fⱼ(s) = tⱼ⋅yⱼᶜ for every j.
func (e *Equality) Verify(proof *Proof, public group.Element, proverID []byte) bool {
	if !e.public.Contains(public) {
		return false
	}
	if !proof.conforms(e.commitments, e.challenge.Space(), 1, []group.Space{e.domain}) {
		return false
	}
	ys := public.(*group.Tuple)
	c, s := proof.Challenges[0], proof.Responses[0]

	expected, err := e.challenge.Challenge(public, group.NewTuple(proof.Commitments...), proverID)
	if err != nil || !expected.Equal(c) {
		return false
	}
	for j, f := range e.fs {
		if !holds(f, proof.Commitments[j], c, s, ys.At(j)) {
			return false
		}
	}
	return true
}
