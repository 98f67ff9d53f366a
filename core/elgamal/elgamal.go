// Package elgamal implements ElGamal encryption over any prime-order group
// together with the proofs used to publish encrypted ballots.
package elgamal

import (
	"errors"
	"fmt"
	"io"

	"github.com/mr-shifu/sigma-lib/core/math/function"
	"github.com/mr-shifu/sigma-lib/core/math/group"
	"github.com/mr-shifu/sigma-lib/core/math/sample"
	"github.com/mr-shifu/sigma-lib/core/math/zmod"
	"github.com/mr-shifu/sigma-lib/core/zk/sigma"
)

var (
	ErrInvalidKey     = errors.New("elgamal: invalid key")
	ErrInvalidMessage = errors.New("elgamal: message is not in the group")
)

type (
	PublicKey  = group.Element
	PrivateKey = *zmod.Element
	Nonce      = *zmod.Element
)

// Scheme is ElGamal over the group generated by g.
type Scheme struct {
	g   *function.Generator
	key *sigma.Preimage
}

// New returns the scheme over ⟨g⟩.
func New(g group.Element) (*Scheme, error) {
	f, err := function.NewGenerator(g)
	if err != nil {
		return nil, fmt.Errorf("elgamal: %w", err)
	}
	key, err := sigma.NewPreimage(f)
	if err != nil {
		return nil, err
	}
	return &Scheme{g: f, key: key}, nil
}

// Generator returns g.
func (s *Scheme) Generator() group.Element { return s.g.Base() }

// Space returns the message and ciphertext component space.
func (s *Scheme) Space() group.Space { return s.g.Codomain() }

// RandomizationSpace returns ℤ_q, the space of private keys and nonces.
func (s *Scheme) RandomizationSpace() *zmod.ZMod { return s.g.Domain().(*zmod.ZMod) }

// GenerateKey returns a fresh key pair (x, gˣ) with x ≠ 0.
func (s *Scheme) GenerateKey(rand io.Reader) (PrivateKey, PublicKey, error) {
	space := s.RandomizationSpace()
	n, err := sample.UnitModN(rand, space.Modulus())
	if err != nil {
		return nil, nil, fmt.Errorf("elgamal: %w", err)
	}
	x := space.Element(n)
	return x, s.g.Apply(x), nil
}

// Encrypt returns the encryption of message as (L=gʳ, M=m⋅pkʳ), as well as
// the nonce r.
func (s *Scheme) Encrypt(public PublicKey, message group.Element, rand io.Reader) (*Ciphertext, Nonce, error) {
	r, err := s.RandomizationSpace().RandomElement(sample.Reader(rand))
	if err != nil {
		return nil, nil, fmt.Errorf("elgamal: %w", err)
	}
	c, err := s.EncryptWithNonce(public, message, r)
	if err != nil {
		return nil, nil, err
	}
	return c, r, nil
}

// EncryptWithNonce is Encrypt with a caller-chosen nonce.
func (s *Scheme) EncryptWithNonce(public PublicKey, message group.Element, r Nonce) (*Ciphertext, error) {
	if !s.validKey(public) {
		return nil, ErrInvalidKey
	}
	if !group.Member(s.Space(), message) {
		return nil, ErrInvalidMessage
	}
	if r == nil || !s.RandomizationSpace().Contains(r) {
		return nil, fmt.Errorf("elgamal: nonce: %w", group.ErrNotMember)
	}
	return &Ciphertext{
		L: s.g.Apply(r),
		M: message.Combine(public.Scale(r.Nat())),
	}, nil
}

// ReEncrypt returns (L⋅gʳ, M⋅pkʳ) for a fresh r, an encryption of the same
// message unlinkable to c.
func (s *Scheme) ReEncrypt(public PublicKey, c *Ciphertext, rand io.Reader) (*Ciphertext, Nonce, error) {
	if !c.Valid(s.Space()) {
		return nil, nil, ErrInvalidCiphertext
	}
	fresh, r, err := s.Encrypt(public, s.Space().Identity(), rand)
	if err != nil {
		return nil, nil, err
	}
	return &Ciphertext{
		L: c.L.Combine(fresh.L),
		M: c.M.Combine(fresh.M),
	}, r, nil
}

// Decrypt returns M⋅L⁻ˣ.
func (s *Scheme) Decrypt(private PrivateKey, c *Ciphertext) (group.Element, error) {
	if private == nil || !s.RandomizationSpace().Contains(private) {
		return nil, ErrInvalidKey
	}
	if !c.Valid(s.Space()) {
		return nil, ErrInvalidCiphertext
	}
	return group.Divide(c.M, c.L.Scale(private.Nat())), nil
}

// EncryptionFunction returns r ↦ (gʳ, pkʳ). An encryption of m under pk with
// nonce r is its image times (1, m).
func (s *Scheme) EncryptionFunction(public PublicKey) (*function.Fanout, error) {
	if !s.validKey(public) {
		return nil, ErrInvalidKey
	}
	pk, err := function.NewGenerator(public)
	if err != nil {
		return nil, fmt.Errorf("elgamal: %w", err)
	}
	return function.NewFanout(s.g, pk)
}

// ProveKey proves knowledge of the private key of public, bound to proverID.
func (s *Scheme) ProveKey(private PrivateKey, public PublicKey, proverID []byte, rand io.Reader) (*sigma.Proof, error) {
	return s.key.Generate(sigma.Secret(private), public, proverID, rand)
}

// VerifyKey verifies a proof produced by ProveKey.
func (s *Scheme) VerifyKey(proof *sigma.Proof, public PublicKey, proverID []byte) bool {
	return s.key.Verify(proof, public, proverID)
}

// KeyProver returns the generator behind ProveKey.
func (s *Scheme) KeyProver() *sigma.Preimage { return s.key }

func (s *Scheme) validKey(public PublicKey) bool {
	return group.Member(s.Space(), public) && !public.Equal(s.Space().Identity())
}
