package elgamal

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"github.com/mr-shifu/sigma-lib/core/math/function"
	"github.com/mr-shifu/sigma-lib/core/math/group"
	"github.com/mr-shifu/sigma-lib/core/math/sample"
	"github.com/mr-shifu/sigma-lib/core/zk/sigma"
)

// decryption is the statement gˣ = pk ∧ Lˣ = M⋅m⁻¹.
func (s *Scheme) decryption(public PublicKey, c *Ciphertext, message group.Element) (*sigma.Equality, *group.Tuple, error) {
	if !s.validKey(public) {
		return nil, nil, ErrInvalidKey
	}
	if !c.Valid(s.Space()) {
		return nil, nil, ErrInvalidCiphertext
	}
	if !group.Member(s.Space(), message) {
		return nil, nil, ErrInvalidMessage
	}
	l, err := function.NewGenerator(c.L)
	if err != nil {
		return nil, nil, fmt.Errorf("elgamal: %w", err)
	}
	eq, err := sigma.NewEquality([]group.Homomorphism{s.g, l})
	if err != nil {
		return nil, nil, err
	}
	statement, err := eq.Public(public, group.Divide(c.M, message))
	if err != nil {
		return nil, nil, err
	}
	return eq, statement, nil
}

// ProveDecryption decrypts c and proves that the returned message is its
// decryption under the key matching public.
func (s *Scheme) ProveDecryption(private PrivateKey, public PublicKey, c *Ciphertext, proverID []byte, rand io.Reader) (group.Element, *sigma.Proof, error) {
	m, err := s.Decrypt(private, c)
	if err != nil {
		return nil, nil, err
	}
	eq, statement, err := s.decryption(public, c, m)
	if err != nil {
		return nil, nil, err
	}
	proof, err := eq.Generate(sigma.Secret(private), statement, proverID, rand)
	if err != nil {
		return nil, nil, err
	}
	return m, proof, nil
}

// VerifyDecryption reports whether proof shows that message is the decryption
// of c under the key matching public.
func (s *Scheme) VerifyDecryption(proof *sigma.Proof, public PublicKey, c *Ciphertext, message group.Element, proverID []byte) bool {
	eq, statement, err := s.decryption(public, c, message)
	if err != nil {
		return false
	}
	return eq.Verify(proof, statement, proverID)
}

// Ballot is an encrypted vote with a proof that it encrypts one of the
// candidates.
type Ballot struct {
	Ciphertext *Ciphertext
	Proof      *sigma.Proof
}

type rawBallot struct {
	Ciphertext []byte
	Proof      cbor.RawMessage
}

func (b *Ballot) MarshalCBOR() ([]byte, error) {
	if b == nil || b.Proof == nil {
		return nil, sigma.ErrMalformedProof
	}
	c, err := b.Ciphertext.MarshalBinary()
	if err != nil {
		return nil, err
	}
	proof, err := cbor.Marshal(b.Proof)
	if err != nil {
		return nil, err
	}
	return cbor.Marshal(&rawBallot{Ciphertext: c, Proof: proof})
}

// VoteProver proves that a ciphertext under a fixed public key encrypts one
// of k candidate messages, without revealing which.
//
// Branch j is the statement (L, M⋅mⱼ⁻¹) = (gʳ, pkʳ), a preimage under the
// encryption function r ↦ (gʳ, pkʳ).
type VoteProver struct {
	scheme     *Scheme
	public     PublicKey
	candidates []group.Element
	or         *sigma.Or
}

// NewVoteProver returns the prover for ballots under public choosing among
// candidates. At least two distinct candidates are required.
func NewVoteProver(s *Scheme, public PublicKey, candidates []group.Element, opts ...sigma.Option) (*VoteProver, error) {
	f, err := s.EncryptionFunction(public)
	if err != nil {
		return nil, err
	}
	for i, m := range candidates {
		if !group.Member(s.Space(), m) {
			return nil, fmt.Errorf("%w: candidate %d", ErrInvalidMessage, i)
		}
		for _, prev := range candidates[:i] {
			if prev.Equal(m) {
				return nil, fmt.Errorf("elgamal: duplicate candidate %d", i)
			}
		}
	}
	fs := make([]group.Homomorphism, len(candidates))
	for i := range fs {
		fs[i] = f
	}
	or, err := sigma.NewOr(fs, opts...)
	if err != nil {
		return nil, err
	}
	return &VoteProver{
		scheme:     s,
		public:     public,
		candidates: append([]group.Element(nil), candidates...),
		or:         or,
	}, nil
}

// Generator returns the underlying Or generator.
func (v *VoteProver) Generator() *sigma.Or { return v.or }

// Candidates returns the number of candidates.
func (v *VoteProver) Candidates() int { return len(v.candidates) }

// Statement returns the public input ((L, M⋅mⱼ⁻¹))ⱼ of the Or proof for c.
func (v *VoteProver) Statement(c *Ciphertext) (*group.Tuple, error) {
	if !c.Valid(v.scheme.Space()) {
		return nil, ErrInvalidCiphertext
	}
	branches := make([]group.Element, len(v.candidates))
	for j, m := range v.candidates {
		branches[j] = group.NewTuple(c.L, group.Divide(c.M, m))
	}
	return v.or.Public(branches...)
}

// Vote encrypts the candidate at choice and proves the ballot well formed,
// bound to voterID.
func (v *VoteProver) Vote(choice int, voterID []byte, rand io.Reader) (*Ballot, error) {
	if choice < 0 || choice >= len(v.candidates) {
		return nil, fmt.Errorf("%w: %d", sigma.ErrIndexOutOfRange, choice)
	}
	rand = sample.Reader(rand)
	c, r, err := v.scheme.Encrypt(v.public, v.candidates[choice], rand)
	if err != nil {
		return nil, err
	}
	statement, err := v.Statement(c)
	if err != nil {
		return nil, err
	}
	proof, err := v.or.Generate(sigma.Branch(r, choice), statement, voterID, rand)
	if err != nil {
		return nil, err
	}
	return &Ballot{Ciphertext: c, Proof: proof}, nil
}

// Verify reports whether ballot is a well formed vote of voterID.
func (v *VoteProver) Verify(ballot *Ballot, voterID []byte) bool {
	if ballot == nil {
		return false
	}
	statement, err := v.Statement(ballot.Ciphertext)
	if err != nil {
		return false
	}
	return v.or.Verify(ballot.Proof, statement, voterID)
}

// UnmarshalBallot decodes the CBOR encoding of a ballot for v.
func (v *VoteProver) UnmarshalBallot(data []byte) (*Ballot, error) {
	raw := &rawBallot{}
	if err := cbor.Unmarshal(data, raw); err != nil {
		return nil, fmt.Errorf("elgamal: %w", err)
	}
	c, err := UnmarshalCiphertext(v.scheme.Space(), raw.Ciphertext)
	if err != nil {
		return nil, err
	}
	proof, err := sigma.UnmarshalProof(v.or, raw.Proof)
	if err != nil {
		return nil, err
	}
	return &Ballot{Ciphertext: c, Proof: proof}, nil
}
