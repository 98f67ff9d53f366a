// Package challenge derives the challenge of a Sigma protocol.
//
// In the non-interactive setting the challenge is the Fiat–Shamir hash of the
// transcript (public input, commitment, prover id), reduced into a fixed
// challenge space ℤₘ. In the interactive setting it is chosen by the
// verifier and simply handed to the prover.
package challenge

import (
	"errors"
	"fmt"
	"io"

	"github.com/cronokirby/saferith"
	"github.com/mr-shifu/sigma-lib/core/bytetree"
	"github.com/mr-shifu/sigma-lib/core/hash"
	"github.com/mr-shifu/sigma-lib/core/math/group"
	"github.com/mr-shifu/sigma-lib/core/math/zmod"
)

// DefaultDomain labels transcripts hashed by a FiatShamir generator unless
// WithDomain is given.
const DefaultDomain = "sigma-lib/fiat-shamir"

var (
	ErrInvalidSpace    = errors.New("challenge: challenge space must be finite with at least 2 elements")
	ErrInvalidSecurity = errors.New("challenge: security parameter must be positive")
	ErrNilChallenge    = errors.New("challenge: nil challenge")
)

// Generator derives challenges in a fixed space.
type Generator interface {
	// Space returns the challenge space ℤₘ. It never changes after construction.
	Space() *zmod.ZMod
	// Challenge returns the challenge for the transcript (public, commitment, proverID).
	// A nil proverID is omitted from the transcript.
	Challenge(public, commitment group.Element, proverID []byte) (*zmod.Element, error)
}

// wideBytes are read from the digest beyond the size of the modulus, so
// that the reduction bias is below 2⁻¹²⁸.
const wideBytes = 16

// FiatShamir is the non-interactive challenge generator.
type FiatShamir struct {
	space  *zmod.ZMod
	alg    hash.Algorithm
	domain string
	// prefix has absorbed the domain and the modulus; it is only ever forked.
	prefix *hash.Hash
}

// Option configures a FiatShamir generator.
type Option func(*FiatShamir)

// WithAlgorithm selects the hash algorithm; the default is hash.BLAKE3.
func WithAlgorithm(alg hash.Algorithm) Option {
	return func(fs *FiatShamir) {
		fs.alg = alg
	}
}

// WithDomain sets the label hashed ahead of every transcript, separating
// challenges of unrelated protocols.
func WithDomain(domain string) Option {
	return func(fs *FiatShamir) {
		fs.domain = domain
	}
}

// NewFiatShamir returns a generator hashing into space.
func NewFiatShamir(space *zmod.ZMod, opts ...Option) (*FiatShamir, error) {
	if err := validateSpace(space); err != nil {
		return nil, err
	}
	fs := &FiatShamir{
		space:  space,
		alg:    hash.Default,
		domain: DefaultDomain,
	}
	for _, opt := range opts {
		opt(fs)
	}
	if !fs.alg.Valid() {
		return nil, fmt.Errorf("challenge: %w: %s", hash.ErrInvalidAlgorithm, fs.alg)
	}
	prefix, err := hash.NewWithAlgorithm(fs.alg)
	if err != nil {
		return nil, err
	}
	if err = prefix.WriteAny([]byte(fs.domain), space.Modulus()); err != nil {
		return nil, fmt.Errorf("challenge: %w", err)
	}
	fs.prefix = prefix
	return fs, nil
}

func (fs *FiatShamir) Space() *zmod.ZMod { return fs.space }

// Algorithm returns the configured hash algorithm.
func (fs *FiatShamir) Algorithm() hash.Algorithm { return fs.alg }

// Challenge hashes the byte tree (public, commitment[, proverID]) after the
// domain and the modulus, and reduces the digest, read as a big-endian
// integer, modulo the order of the space.
func (fs *FiatShamir) Challenge(public, commitment group.Element, proverID []byte) (*zmod.Element, error) {
	if public == nil || commitment == nil {
		return nil, errors.New("challenge: nil transcript element")
	}
	transcript, err := Transcript(public, commitment, proverID)
	if err != nil {
		return nil, err
	}
	h, err := fs.prefix.Fork(transcript)
	if err != nil {
		return nil, fmt.Errorf("challenge: %w", err)
	}
	out := make([]byte, (fs.space.Modulus().BitLen()+7)/8+wideBytes)
	if _, err = io.ReadFull(h.Digest(), out); err != nil {
		return nil, fmt.Errorf("challenge: %w", err)
	}
	return fs.space.Element(new(saferith.Nat).SetBytes(out)), nil
}

// Transcript returns the canonical byte tree of (public, commitment[, proverID]).
func Transcript(public, commitment group.Element, proverID []byte) (bytetree.ByteTree, error) {
	pub, err := group.ToByteTree(public)
	if err != nil {
		return nil, fmt.Errorf("challenge: encode public input: %w", err)
	}
	com, err := group.ToByteTree(commitment)
	if err != nil {
		return nil, fmt.Errorf("challenge: encode commitment: %w", err)
	}
	node := bytetree.Node{pub, com}
	if proverID != nil {
		node = append(node, bytetree.Leaf(proverID))
	}
	return node, nil
}

// Interactive returns a challenge chosen by the verifier, independent of the
// transcript.
type Interactive struct {
	space     *zmod.ZMod
	challenge *zmod.Element
}

// NewInteractive fixes the verifier's challenge c, which must lie in space.
func NewInteractive(space *zmod.ZMod, c *zmod.Element) (*Interactive, error) {
	if err := validateSpace(space); err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNilChallenge
	}
	if !space.Contains(c) {
		return nil, fmt.Errorf("challenge: %w: %s", group.ErrNotMember, space.Name())
	}
	return &Interactive{space: space, challenge: c}, nil
}

func (i *Interactive) Space() *zmod.ZMod { return i.space }

func (i *Interactive) Challenge(group.Element, group.Element, []byte) (*zmod.Element, error) {
	return i.challenge, nil
}

// SpaceFor returns ℤₘ where m is the smallest order among the given spaces
// and their components.
func SpaceFor(spaces ...group.Space) (*zmod.ZMod, error) {
	if len(spaces) == 0 {
		return nil, ErrInvalidSpace
	}
	var min *saferith.Modulus
	for _, s := range spaces {
		if s == nil {
			return nil, ErrInvalidSpace
		}
		order := group.MinimalOrder(s)
		if order == nil {
			return nil, fmt.Errorf("%w: %s has unknown order", ErrInvalidSpace, s.Name())
		}
		if min == nil {
			min = order
			continue
		}
		if _, _, lt := order.Nat().CmpMod(min); lt == 1 {
			min = order
		}
	}
	space, err := zmod.New(min)
	if err != nil {
		return nil, err
	}
	if err = validateSpace(space); err != nil {
		return nil, err
	}
	return space, nil
}

// SpaceFromSecurity returns ℤₘ with m = 2ᵏ for a security parameter of k bits.
func SpaceFromSecurity(bits int) (*zmod.ZMod, error) {
	if bits < 1 {
		return nil, ErrInvalidSecurity
	}
	m := new(saferith.Nat).Lsh(new(saferith.Nat).SetUint64(1), uint(bits), bits+1)
	return zmod.New(saferith.ModulusFromNat(m))
}

func validateSpace(space *zmod.ZMod) error {
	// m ≥ 2 iff m needs at least 2 bits
	if space == nil || space.Modulus().BitLen() < 2 {
		return ErrInvalidSpace
	}
	return nil
}
