package challenge

import (
	"io"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/mr-shifu/sigma-lib/core/hash"
	"github.com/mr-shifu/sigma-lib/core/math/curve"
	"github.com/mr-shifu/sigma-lib/core/math/group"
	"github.com/mr-shifu/sigma-lib/core/math/zmod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func transcript(t *testing.T) (group.Element, group.Element) {
	g := curve.Secp256k1{}.Generator()
	x, err := curve.Secp256k1{}.Random(nil)
	require.NoError(t, err)
	return g, x
}

func TestFiatShamir_Deterministic(t *testing.T) {
	space, err := SpaceFromSecurity(128)
	require.NoError(t, err)
	fs, err := NewFiatShamir(space)
	require.NoError(t, err)
	assert.Equal(t, hash.BLAKE3, fs.Algorithm())

	public, commitment := transcript(t)
	c1, err := fs.Challenge(public, commitment, []byte("alice"))
	require.NoError(t, err)
	c2, err := fs.Challenge(public, commitment, []byte("alice"))
	require.NoError(t, err)
	assert.True(t, c1.Equal(c2))
	assert.True(t, space.Contains(c1))

	other, err := fs.Challenge(public, commitment, []byte("bob"))
	require.NoError(t, err)
	assert.False(t, c1.Equal(other), "prover id is bound")

	absent, err := fs.Challenge(public, commitment, nil)
	require.NoError(t, err)
	empty, err := fs.Challenge(public, commitment, []byte{})
	require.NoError(t, err)
	assert.False(t, absent.Equal(empty), "an empty id differs from no id")

	swapped, err := fs.Challenge(commitment, public, []byte("alice"))
	require.NoError(t, err)
	assert.False(t, c1.Equal(swapped), "transcript is ordered")
}

func TestFiatShamir_Options(t *testing.T) {
	space, err := SpaceFromSecurity(128)
	require.NoError(t, err)
	public, commitment := transcript(t)

	seen := make(map[string]bool)
	for _, alg := range []hash.Algorithm{hash.BLAKE3, hash.SHA256, hash.SHA512, hash.SHA3_256} {
		fs, err := NewFiatShamir(space, WithAlgorithm(alg))
		require.NoError(t, err, alg.String())
		c, err := fs.Challenge(public, commitment, nil)
		require.NoError(t, err)
		assert.True(t, space.Contains(c))
		seen[c.String()] = true
	}
	assert.Len(t, seen, 4)

	a, err := NewFiatShamir(space, WithDomain("protocol-a"))
	require.NoError(t, err)
	b, err := NewFiatShamir(space, WithDomain("protocol-b"))
	require.NoError(t, err)
	ca, err := a.Challenge(public, commitment, nil)
	require.NoError(t, err)
	cb, err := b.Challenge(public, commitment, nil)
	require.NoError(t, err)
	assert.False(t, ca.Equal(cb))

	_, err = NewFiatShamir(space, WithAlgorithm(hash.Algorithm(0)))
	assert.ErrorIs(t, err, hash.ErrInvalidAlgorithm)
}

func TestFiatShamir_SmallSpace(t *testing.T) {
	g, err := zmod.GStarModFromUint64(167)
	require.NoError(t, err)
	space, err := SpaceFor(g)
	require.NoError(t, err)
	assert.Equal(t, uint64(83), space.Modulus().Nat().Uint64())

	fs, err := NewFiatShamir(space)
	require.NoError(t, err)
	y, err := g.ElementFromUint64(64)
	require.NoError(t, err)
	c, err := fs.Challenge(y, g.DefaultGenerator(), nil)
	require.NoError(t, err)
	assert.True(t, space.Contains(c))
	assert.Less(t, c.Nat().Uint64(), uint64(83))

	_, err = fs.Challenge(nil, y, nil)
	assert.Error(t, err)
}

func TestInteractive(t *testing.T) {
	space, err := zmod.FromUint64(83)
	require.NoError(t, err)
	c := space.ElementFromUint64(17)

	i, err := NewInteractive(space, c)
	require.NoError(t, err)
	public, commitment := transcript(t)
	got, err := i.Challenge(public, commitment, []byte("anyone"))
	require.NoError(t, err)
	assert.True(t, got.Equal(c))
	assert.True(t, i.Space().Equal(space))

	other, err := zmod.FromUint64(7)
	require.NoError(t, err)
	_, err = NewInteractive(space, other.ElementFromUint64(1))
	assert.ErrorIs(t, err, group.ErrNotMember)
	_, err = NewInteractive(space, nil)
	assert.ErrorIs(t, err, ErrNilChallenge)
}

func TestSpaces(t *testing.T) {
	s, err := SpaceFromSecurity(128)
	require.NoError(t, err)
	assert.Equal(t, 129, s.Modulus().BitLen())
	s, err = SpaceFromSecurity(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), s.Modulus().Nat().Uint64())
	_, err = SpaceFromSecurity(0)
	assert.ErrorIs(t, err, ErrInvalidSecurity)

	g, err := zmod.GStarModFromUint64(167)
	require.NoError(t, err)
	z7, err := zmod.FromUint64(7)
	require.NoError(t, err)
	s, err = SpaceFor(curve.Ed25519{}, group.NewProductSpace(g, z7))
	require.NoError(t, err)
	assert.Equal(t, uint64(7), s.Modulus().Nat().Uint64())

	one, err := zmod.FromUint64(1)
	require.NoError(t, err)
	_, err = SpaceFor(one)
	assert.ErrorIs(t, err, ErrInvalidSpace)
	_, err = NewFiatShamir(one)
	assert.ErrorIs(t, err, ErrInvalidSpace)
	_, err = NewFiatShamir(nil)
	assert.ErrorIs(t, err, ErrInvalidSpace)
	_, err = SpaceFor()
	assert.ErrorIs(t, err, ErrInvalidSpace)
}

func TestFiatShamir_Reduction(t *testing.T) {
	g, err := zmod.GStarModFromUint64(167)
	require.NoError(t, err)
	space, err := SpaceFor(g)
	require.NoError(t, err)
	y, err := g.ElementFromUint64(64)
	require.NoError(t, err)
	id := []byte("alice")

	for _, alg := range []hash.Algorithm{hash.BLAKE3, hash.SHA256} {
		fs, err := NewFiatShamir(space, WithAlgorithm(alg), WithDomain("reduction"))
		require.NoError(t, err)
		c, err := fs.Challenge(y, g.DefaultGenerator(), id)
		require.NoError(t, err)

		tree, err := Transcript(y, g.DefaultGenerator(), id)
		require.NoError(t, err)
		h, err := hash.NewWithAlgorithm(alg)
		require.NoError(t, err)
		require.NoError(t, h.WriteAny([]byte("reduction"), space.Modulus(), tree))
		out := make([]byte, 1+wideBytes)
		_, err = io.ReadFull(h.Digest(), out)
		require.NoError(t, err)
		expected := space.Element(new(saferith.Nat).SetBytes(out))
		assert.True(t, expected.Equal(c), alg.String())
	}
}

func TestFiatShamir_Concurrent(t *testing.T) {
	space, err := SpaceFromSecurity(256)
	require.NoError(t, err)
	fs, err := NewFiatShamir(space, WithAlgorithm(hash.SHA512))
	require.NoError(t, err)
	public, commitment := transcript(t)
	expected, err := fs.Challenge(public, commitment, nil)
	require.NoError(t, err)

	var eg errgroup.Group
	for i := 0; i < 16; i++ {
		eg.Go(func() error {
			c, err := fs.Challenge(public, commitment, nil)
			if err != nil {
				return err
			}
			if !c.Equal(expected) {
				return ErrNilChallenge
			}
			return nil
		})
	}
	assert.NoError(t, eg.Wait())
}
