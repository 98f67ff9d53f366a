// Package sigma implements Sigma protocols proving knowledge of preimages
// under group homomorphisms, made non-interactive with Fiat–Shamir.
//
// Three generators are provided:
//
//   - Preimage proves knowledge of x with f(x) = y.
//   - Or proves knowledge of a preimage for one of f₀, …, fₙ₋₁ without
//     revealing which one, by simulating the other branches.
//   - Equality proves knowledge of a single x with fⱼ(x) = yⱼ for all j.
//
// Every generator follows the same contract: Generate either returns a
// complete proof or an error, and Verify reports validity as a boolean
// without panicking on malformed or adversarial proofs.
package sigma

import (
	"errors"
	"fmt"
	"io"

	"github.com/mr-shifu/sigma-lib/core/math/group"
	"github.com/mr-shifu/sigma-lib/core/math/zmod"
	"github.com/mr-shifu/sigma-lib/core/zk/challenge"
)

var (
	ErrNilFunction        = errors.New("sigma: nil homomorphism")
	ErrTooFewFunctions    = errors.New("sigma: composition requires at least 2 homomorphisms")
	ErrDomainMismatch     = errors.New("sigma: homomorphisms do not share a domain")
	ErrNilChallenge       = errors.New("sigma: nil challenge generator")
	ErrInvalidSecret      = errors.New("sigma: secret is not in the domain")
	ErrInvalidPublicInput = errors.New("sigma: public input is not in the codomain")
	ErrIndexOutOfRange    = errors.New("sigma: private input index out of range")
	ErrMalformedProof     = errors.New("sigma: malformed proof")
)

// Generator generates and verifies proofs for a fixed statement shape.
type Generator interface {
	// Generate proves knowledge of private for the public input.
	// A nil proverID is left out of the transcript. A nil rand uses crypto/rand.
	Generate(private PrivateInput, public group.Element, proverID []byte, rand io.Reader) (*Proof, error)
	// Verify reports whether proof is valid for public and proverID.
	Verify(proof *Proof, public group.Element, proverID []byte) bool

	PublicInputSpace() group.Space
	CommitmentSpace() group.Space
	ChallengeSpace() *zmod.ZMod
	ResponseSpace() group.Space
	// ProofSpace is the space (commitments, challenges, responses) whose
	// components are products of the arity of the proof.
	ProofSpace() *group.ProductSpace
	// DecodeProof parses the byte-tree encoding returned by Proof.MarshalBinary.
	DecodeProof(data []byte) (*Proof, error)
}

// PrivateInput is the prover's witness.
//
// Index selects the branch the secret belongs to for an Or proof and must be
// zero otherwise. It never appears in a proof or transcript.
type PrivateInput struct {
	Secret group.Element
	Index  int
}

// Secret is the private input of a Preimage or Equality proof.
func Secret(x group.Element) PrivateInput {
	return PrivateInput{Secret: x}
}

// Branch is the private input of an Or proof whose secret x is a preimage
// under the homomorphism at index.
func Branch(x group.Element, index int) PrivateInput {
	return PrivateInput{Secret: x, Index: index}
}

// Option configures a generator.
type Option func(*config)

type config struct {
	challenge challenge.Generator
	err       error
}

// WithChallenge sets the challenge generator. By default a Fiat–Shamir
// generator over the smallest order among the codomains is used.
func WithChallenge(ch challenge.Generator) Option {
	return func(c *config) {
		if ch == nil {
			c.err = ErrNilChallenge
			return
		}
		c.challenge = ch
	}
}

// DefaultChallenge returns the Fiat–Shamir generator used when no
// WithChallenge option is given: BLAKE3 into ℤₘ, where m is the smallest order
// among the codomains of fs.
func DefaultChallenge(fs ...group.Homomorphism) (*challenge.FiatShamir, error) {
	spaces := make([]group.Space, len(fs))
	for i, f := range fs {
		if f == nil {
			return nil, ErrNilFunction
		}
		spaces[i] = f.Codomain()
	}
	space, err := challenge.SpaceFor(spaces...)
	if err != nil {
		return nil, fmt.Errorf("sigma: default challenge space: %w", err)
	}
	return challenge.NewFiatShamir(space)
}

func newConfig(fs []group.Homomorphism, opts []Option) (*config, error) {
	c := &config{}
	for _, opt := range opts {
		opt(c)
	}
	if c.err != nil {
		return nil, c.err
	}
	if c.challenge == nil {
		fsg, err := DefaultChallenge(fs...)
		if err != nil {
			return nil, err
		}
		c.challenge = fsg
	}
	if c.challenge.Space() == nil {
		return nil, challenge.ErrInvalidSpace
	}
	return c, nil
}

func checkFunctions(fs []group.Homomorphism) error {
	if len(fs) < 2 {
		return ErrTooFewFunctions
	}
	for i, f := range fs {
		if f == nil {
			return fmt.Errorf("%w at index %d", ErrNilFunction, i)
		}
	}
	return nil
}

// respond returns r⋅xᶜ.
func respond(r, x group.Element, c *zmod.Element) group.Element {
	return r.Combine(x.Scale(c.Nat()))
}

// holds reports whether f(s) = t⋅yᶜ. All arguments must already be members
// of their spaces.
func holds(f group.Homomorphism, t group.Element, c *zmod.Element, s, y group.Element) bool {
	return f.Apply(s).Equal(t.Combine(y.Scale(c.Nat())))
}

func codomains(fs []group.Homomorphism) []group.Space {
	spaces := make([]group.Space, len(fs))
	for i, f := range fs {
		spaces[i] = f.Codomain()
	}
	return spaces
}

func domains(fs []group.Homomorphism) []group.Space {
	spaces := make([]group.Space, len(fs))
	for i, f := range fs {
		spaces[i] = f.Domain()
	}
	return spaces
}

func proofSpace(commitments []group.Space, ch *zmod.ZMod, challenges int, responses []group.Space) *group.ProductSpace {
	return group.NewProductSpace(
		group.NewProductSpace(commitments...),
		group.Power(ch, challenges),
		group.NewProductSpace(responses...),
	)
}
