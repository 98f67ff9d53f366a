package sigma

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/mr-shifu/sigma-lib/core/math/group"
	"github.com/mr-shifu/sigma-lib/core/math/zmod"
)

// Proof is the transcript (commitments, challenges, responses) of a Sigma
// protocol. The arities depend on the generator: 1/1/1 for Preimage, n/n/n
// for Or and n/1/1 for Equality.
type Proof struct {
	Commitments []group.Element
	Challenges  []*zmod.Element
	Responses   []group.Element
}

type rawProof struct {
	Commitments [][]byte
	Challenges  [][]byte
	Responses   [][]byte
}

// Tuple returns the proof as an element of the generator's ProofSpace.
func (p *Proof) Tuple() (*group.Tuple, error) {
	if p == nil {
		return nil, ErrMalformedProof
	}
	challenges := make([]group.Element, len(p.Challenges))
	for i, c := range p.Challenges {
		if c == nil {
			return nil, ErrMalformedProof
		}
		challenges[i] = c
	}
	for _, e := range append(append([]group.Element(nil), p.Commitments...), p.Responses...) {
		if e == nil {
			return nil, ErrMalformedProof
		}
	}
	return group.NewTuple(
		group.NewTuple(p.Commitments...),
		group.NewTuple(challenges...),
		group.NewTuple(p.Responses...),
	), nil
}

// MarshalBinary returns the byte-tree encoding of the proof.
func (p *Proof) MarshalBinary() ([]byte, error) {
	t, err := p.Tuple()
	if err != nil {
		return nil, err
	}
	return t.MarshalBinary()
}

// MarshalCBOR encodes the canonical bytes of every component. Use
// UnmarshalProof to decode against a generator.
func (p *Proof) MarshalCBOR() ([]byte, error) {
	if _, err := p.Tuple(); err != nil {
		return nil, err
	}
	raw := &rawProof{
		Commitments: make([][]byte, len(p.Commitments)),
		Challenges:  make([][]byte, len(p.Challenges)),
		Responses:   make([][]byte, len(p.Responses)),
	}
	var err error
	for i, e := range p.Commitments {
		if raw.Commitments[i], err = e.MarshalBinary(); err != nil {
			return nil, err
		}
	}
	for i, c := range p.Challenges {
		if raw.Challenges[i], err = c.MarshalBinary(); err != nil {
			return nil, err
		}
	}
	for i, e := range p.Responses {
		if raw.Responses[i], err = e.MarshalBinary(); err != nil {
			return nil, err
		}
	}
	return cbor.Marshal(raw)
}

// UnmarshalProof decodes the CBOR encoding of a proof for g, checking arity
// and membership of every component.
func UnmarshalProof(g Generator, data []byte) (*Proof, error) {
	raw := &rawProof{}
	if err := cbor.Unmarshal(data, raw); err != nil {
		return nil, fmt.Errorf("sigma: %w", err)
	}
	cs, chs, rs, err := split(g.ProofSpace())
	if err != nil {
		return nil, err
	}
	proof := &Proof{}
	if proof.Commitments, err = decodeAll(cs, raw.Commitments); err != nil {
		return nil, err
	}
	if proof.Responses, err = decodeAll(rs, raw.Responses); err != nil {
		return nil, err
	}
	challenges, err := decodeAll(chs, raw.Challenges)
	if err != nil {
		return nil, err
	}
	if proof.Challenges, err = asChallenges(challenges); err != nil {
		return nil, err
	}
	return proof, nil
}

func decodeAll(space *group.ProductSpace, data [][]byte) ([]group.Element, error) {
	if len(data) != space.Arity() {
		return nil, fmt.Errorf("%w: expected %d components, got %d", ErrMalformedProof, space.Arity(), len(data))
	}
	elements := make([]group.Element, len(data))
	for i, d := range data {
		e, err := space.At(i).Decode(d)
		if err != nil {
			return nil, fmt.Errorf("sigma: component %d: %w", i, err)
		}
		elements[i] = e
	}
	return elements, nil
}

func decodeProof(space *group.ProductSpace, data []byte) (*Proof, error) {
	e, err := space.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("sigma: %w", err)
	}
	t := e.(*group.Tuple)
	challenges, err := asChallenges(t.At(1).(*group.Tuple).Elements())
	if err != nil {
		return nil, err
	}
	return &Proof{
		Commitments: t.At(0).(*group.Tuple).Elements(),
		Challenges:  challenges,
		Responses:   t.At(2).(*group.Tuple).Elements(),
	}, nil
}

func split(space *group.ProductSpace) (commitments, challenges, responses *group.ProductSpace, err error) {
	if space == nil || space.Arity() != 3 {
		return nil, nil, nil, ErrMalformedProof
	}
	var ok [3]bool
	commitments, ok[0] = space.At(0).(*group.ProductSpace)
	challenges, ok[1] = space.At(1).(*group.ProductSpace)
	responses, ok[2] = space.At(2).(*group.ProductSpace)
	if !ok[0] || !ok[1] || !ok[2] {
		return nil, nil, nil, ErrMalformedProof
	}
	return commitments, challenges, responses, nil
}

func asChallenges(elements []group.Element) ([]*zmod.Element, error) {
	challenges := make([]*zmod.Element, len(elements))
	for i, e := range elements {
		c, ok := e.(*zmod.Element)
		if !ok {
			return nil, fmt.Errorf("%w: challenge %d is not an integer", ErrMalformedProof, i)
		}
		challenges[i] = c
	}
	return challenges, nil
}

// conforms reports whether the proof has the given arities and every
// component lies in its space.
func (p *Proof) conforms(commitments []group.Space, ch *zmod.ZMod, challenges int, responses []group.Space) bool {
	if p == nil ||
		len(p.Commitments) != len(commitments) ||
		len(p.Challenges) != challenges ||
		len(p.Responses) != len(responses) {
		return false
	}
	for i, s := range commitments {
		if !group.Member(s, p.Commitments[i]) {
			return false
		}
	}
	for _, c := range p.Challenges {
		if c == nil || !ch.Contains(c) {
			return false
		}
	}
	for i, s := range responses {
		if !group.Member(s, p.Responses[i]) {
			return false
		}
	}
	return true
}
