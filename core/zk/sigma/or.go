package sigma

import (
	"fmt"
	"io"

	"github.com/mr-shifu/sigma-lib/core/math/group"
	"github.com/mr-shifu/sigma-lib/core/math/sample"
	"github.com/mr-shifu/sigma-lib/core/math/zmod"
	"github.com/mr-shifu/sigma-lib/core/zk/challenge"
)

// Or proves knowledge of a preimage of yⱼ under fⱼ for one secret index j.
//
// The branches other than the real one are simulated: their challenge and
// response are drawn first and the commitment solved for. The challenges of
// all branches sum to the Fiat–Shamir challenge, so the prover controls all
// but one of them, and the proof has the same shape whichever branch is real.
type Or struct {
	fs          []group.Homomorphism
	challenge   challenge.Generator
	public      *group.ProductSpace
	commitments []group.Space
	responses   []group.Space
	proofSpace  *group.ProductSpace
}

// NewOr returns the generator for the disjunction of preimages under fs.
// At least two homomorphisms are required; the public input is a tuple with
// one element of each codomain.
func NewOr(fs []group.Homomorphism, opts ...Option) (*Or, error) {
	if err := checkFunctions(fs); err != nil {
		return nil, err
	}
	fs = append([]group.Homomorphism(nil), fs...)
	c, err := newConfig(fs, opts)
	if err != nil {
		return nil, err
	}
	commitments, responses := codomains(fs), domains(fs)
	return &Or{
		fs:          fs,
		challenge:   c.challenge,
		public:      group.NewProductSpace(commitments...),
		commitments: commitments,
		responses:   responses,
		proofSpace:  proofSpace(commitments, c.challenge.Space(), len(fs), responses),
	}, nil
}

// Arity returns the number of branches.
func (o *Or) Arity() int { return len(o.fs) }

// Public returns the public input (y₀, …, yₙ₋₁).
func (o *Or) Public(ys ...group.Element) (*group.Tuple, error) {
	return o.public.Element(ys...)
}

func (o *Or) PublicInputSpace() group.Space   { return o.public }
func (o *Or) CommitmentSpace() group.Space    { return group.NewProductSpace(o.commitments...) }
func (o *Or) ChallengeSpace() *zmod.ZMod      { return o.challenge.Space() }
func (o *Or) ResponseSpace() group.Space      { return group.NewProductSpace(o.responses...) }
func (o *Or) ProofSpace() *group.ProductSpace { return o.proofSpace }

func (o *Or) DecodeProof(data []byte) (*Proof, error) {
	return decodeProof(o.proofSpace, data)
}

// Generate simulates every branch j ≠ Index and proves branch Index honestly,
// with challenge c_Index = c - Σⱼ cⱼ.
func (o *Or) Generate(private PrivateInput, public group.Element, proverID []byte, rand io.Reader) (*Proof, error) {
	index := private.Index
	if index < 0 || index >= len(o.fs) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, index, len(o.fs))
	}
	if !group.Member(o.fs[index].Domain(), private.Secret) {
		return nil, ErrInvalidSecret
	}
	if !o.public.Contains(public) {
		return nil, ErrInvalidPublicInput
	}
	ys := public.(*group.Tuple)
	rand = sample.Reader(rand)
	space := o.challenge.Space()

	n := len(o.fs)
	proof := &Proof{
		Commitments: make([]group.Element, n),
		Challenges:  make([]*zmod.Element, n),
		Responses:   make([]group.Element, n),
	}
	simulated := space.ElementFromUint64(0)
	for j, f := range o.fs {
		if j == index {
			continue
		}
		cj, err := space.RandomElement(rand)
		if err != nil {
			return nil, fmt.Errorf("sigma: sample challenge: %w", err)
		}
		sj, err := f.Domain().Random(rand)
		if err != nil {
			return nil, fmt.Errorf("sigma: sample response: %w", err)
		}
		proof.Commitments[j] = group.Divide(f.Apply(sj), ys.At(j).Scale(cj.Nat()))
		proof.Challenges[j] = cj
		proof.Responses[j] = sj
		simulated = simulated.Add(cj)
	}

	f := o.fs[index]
	r, err := f.Domain().Random(rand)
	if err != nil {
		return nil, fmt.Errorf("sigma: sample randomness: %w", err)
	}
	proof.Commitments[index] = f.Apply(r)

	c, err := o.challenge.Challenge(public, group.NewTuple(proof.Commitments...), proverID)
	if err != nil {
		return nil, err
	}
	ci := c.Sub(simulated)
	proof.Challenges[index] = ci
	proof.Responses[index] = respond(r, private.Secret, ci)
	return proof, nil
}

// Verify checks fⱼ(sⱼ) = tⱼ⋅yⱼ^cⱼ for every branch and that the branch
// challenges sum to the challenge of the transcript.
func (o *Or) Verify(proof *Proof, public group.Element, proverID []byte) bool {
	if !o.public.Contains(public) {
		return false
	}
	if !proof.conforms(o.commitments, o.challenge.Space(), len(o.fs), o.responses) {
		return false
	}
	ys := public.(*group.Tuple)

	sum := o.challenge.Space().ElementFromUint64(0)
	for j, f := range o.fs {
		if !holds(f, proof.Commitments[j], proof.Challenges[j], proof.Responses[j], ys.At(j)) {
			return false
		}
		sum = sum.Add(proof.Challenges[j])
	}

	c, err := o.challenge.Challenge(public, group.NewTuple(proof.Commitments...), proverID)
	if err != nil {
		return false
	}
	return c.Equal(sum)
}
