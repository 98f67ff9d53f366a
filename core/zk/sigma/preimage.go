package sigma

import (
	"fmt"
	"io"

	"github.com/mr-shifu/sigma-lib/core/math/group"
	"github.com/mr-shifu/sigma-lib/core/math/sample"
	"github.com/mr-shifu/sigma-lib/core/math/zmod"
	"github.com/mr-shifu/sigma-lib/core/zk/challenge"
)

// Preimage proves knowledge of x such that f(x) = y.
type Preimage struct {
	f          group.Homomorphism
	challenge  challenge.Generator
	proofSpace *group.ProductSpace
}

// NewPreimage returns the generator for preimages under f.
func NewPreimage(f group.Homomorphism, opts ...Option) (*Preimage, error) {
	if f == nil {
		return nil, ErrNilFunction
	}
	c, err := newConfig([]group.Homomorphism{f}, opts)
	if err != nil {
		return nil, err
	}
	return &Preimage{
		f:          f,
		challenge:  c.challenge,
		proofSpace: proofSpace([]group.Space{f.Codomain()}, c.challenge.Space(), 1, []group.Space{f.Domain()}),
	}, nil
}

// Function returns f.
func (p *Preimage) Function() group.Homomorphism { return p.f }

func (p *Preimage) PublicInputSpace() group.Space   { return p.f.Codomain() }
func (p *Preimage) CommitmentSpace() group.Space    { return p.f.Codomain() }
func (p *Preimage) ChallengeSpace() *zmod.ZMod      { return p.challenge.Space() }
func (p *Preimage) ResponseSpace() group.Space      { return p.f.Domain() }
func (p *Preimage) ProofSpace() *group.ProductSpace { return p.proofSpace }

func (p *Preimage) DecodeProof(data []byte) (*Proof, error) {
	return decodeProof(p.proofSpace, data)
}

// Generate computes t = f(r), c = H(y, t, proverID) and s = r⋅xᶜ.
func (p *Preimage) Generate(private PrivateInput, public group.Element, proverID []byte, rand io.Reader) (*Proof, error) {
	if private.Index != 0 {
		return nil, fmt.Errorf("%w: %d", ErrIndexOutOfRange, private.Index)
	}
	if !group.Member(p.f.Domain(), private.Secret) {
		return nil, ErrInvalidSecret
	}
	if !group.Member(p.f.Codomain(), public) {
		return nil, ErrInvalidPublicInput
	}

	r, err := p.f.Domain().Random(sample.Reader(rand))
	if err != nil {
		return nil, fmt.Errorf("sigma: sample randomness: %w", err)
	}
	t := p.f.Apply(r)
	c, err := p.challenge.Challenge(public, t, proverID)
	if err != nil {
		return nil, err
	}

	return &Proof{
		Commitments: []group.Element{t},
		Challenges:  []*zmod.Element{c},
		Responses:   []group.Element{respond(r, private.Secret, c)},
	}, nil
}

// Verify recomputes the challenge from (y, t, proverID) and checks f(s) = t⋅yᶜ.
func (p *Preimage) Verify(proof *Proof, public group.Element, proverID []byte) bool {
	if !group.Member(p.f.Codomain(), public) {
		return false
	}
	if !proof.conforms([]group.Space{p.f.Codomain()}, p.challenge.Space(), 1, []group.Space{p.f.Domain()}) {
		return false
	}
	t, c, s := proof.Commitments[0], proof.Challenges[0], proof.Responses[0]

	expected, err := p.challenge.Challenge(public, t, proverID)
	if err != nil || !expected.Equal(c) {
		return false
	}
	return holds(p.f, t, c, s, public)
}
