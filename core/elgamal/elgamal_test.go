package elgamal

import (
	"bytes"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/mr-shifu/sigma-lib/core/hash"
	"github.com/mr-shifu/sigma-lib/core/math/curve"
	"github.com/mr-shifu/sigma-lib/core/math/group"
	"github.com/mr-shifu/sigma-lib/core/math/zmod"
	"github.com/mr-shifu/sigma-lib/core/zk/challenge"
	"github.com/mr-shifu/sigma-lib/core/zk/sigma"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// large returns the schemes whose challenge space makes a false statement
// pass with negligible probability.
func large(t *testing.T) []*Scheme { return schemes(t)[1:] }

func schemes(t *testing.T) []*Scheme {
	g, err := zmod.GStarModFromUint64(167)
	require.NoError(t, err)
	var out []*Scheme
	for _, gen := range []group.Element{
		g.DefaultGenerator(),
		curve.Secp256k1{}.Generator(),
		curve.Ristretto255{}.Generator(),
	} {
		s, err := New(gen)
		require.NoError(t, err)
		out = append(out, s)
	}
	return out
}

func TestEncryptDecrypt(t *testing.T) {
	for _, s := range schemes(t) {
		t.Run(s.Space().Name(), func(t *testing.T) {
			x, pk, err := s.GenerateKey(nil)
			require.NoError(t, err)
			m, err := s.Space().Random(nil)
			require.NoError(t, err)

			c, r, err := s.Encrypt(pk, m, nil)
			require.NoError(t, err)
			assert.True(t, c.L.Equal(s.Generator().Scale(r.Nat())))
			got, err := s.Decrypt(x, c)
			require.NoError(t, err)
			assert.True(t, got.Equal(m))

			c2, _, err := s.ReEncrypt(pk, c, nil)
			require.NoError(t, err)
			got, err = s.Decrypt(x, c2)
			require.NoError(t, err)
			assert.True(t, got.Equal(m))

			// the encryption function maps r to the ciphertext of the identity
			f, err := s.EncryptionFunction(pk)
			require.NoError(t, err)
			image := f.Apply(r).(*group.Tuple)
			assert.True(t, image.At(0).Equal(c.L))
			assert.True(t, image.At(1).Combine(m).Equal(c.M))
		})
	}
}

func TestCiphertextEncoding(t *testing.T) {
	s := schemes(t)[1]
	_, pk, err := s.GenerateKey(nil)
	require.NoError(t, err)
	c, _, err := s.Encrypt(pk, s.Generator(), nil)
	require.NoError(t, err)

	data, err := c.MarshalBinary()
	require.NoError(t, err)
	decoded, err := UnmarshalCiphertext(s.Space(), data)
	require.NoError(t, err)
	assert.True(t, decoded.L.Equal(c.L))
	assert.True(t, decoded.M.Equal(c.M))
	_, err = UnmarshalCiphertext(curve.Ed25519{}, data)
	assert.Error(t, err)

	var buf bytes.Buffer
	n, err := c.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), n)
	assert.Equal(t, data, buf.Bytes())

	h := hash.New()
	require.NoError(t, h.WriteAny(c))
	_, err = (&Ciphertext{}).MarshalBinary()
	assert.ErrorIs(t, err, ErrInvalidCiphertext)
}

func TestErrors(t *testing.T) {
	s := schemes(t)[0]
	x, pk, err := s.GenerateKey(nil)
	require.NoError(t, err)
	r := s.RandomizationSpace().ElementFromUint64(5)

	_, err = s.EncryptWithNonce(s.Space().Identity(), s.Generator(), r)
	assert.ErrorIs(t, err, ErrInvalidKey)
	_, err = s.EncryptWithNonce(pk, curve.Secp256k1{}.Generator(), r)
	assert.ErrorIs(t, err, ErrInvalidMessage)
	_, err = s.EncryptWithNonce(pk, s.Generator(), nil)
	assert.ErrorIs(t, err, group.ErrNotMember)
	_, err = s.Decrypt(x, &Ciphertext{L: s.Generator()})
	assert.ErrorIs(t, err, ErrInvalidCiphertext)
	_, err = s.Decrypt(nil, &Ciphertext{L: s.Generator(), M: s.Generator()})
	assert.ErrorIs(t, err, ErrInvalidKey)
	_, err = New(s.Space().Identity())
	assert.Error(t, err)
}

func TestKeyProof(t *testing.T) {
	for _, s := range large(t) {
		x, pk, err := s.GenerateKey(nil)
		require.NoError(t, err)
		proof, err := s.ProveKey(x, pk, []byte("trustee"), nil)
		require.NoError(t, err)
		assert.True(t, s.VerifyKey(proof, pk, []byte("trustee")))
		assert.False(t, s.VerifyKey(proof, pk, []byte("other")))
		assert.False(t, s.VerifyKey(proof, pk.Combine(s.Generator()), []byte("trustee")))
		assert.True(t, s.KeyProver().PublicInputSpace().Equal(s.Space()))
	}
}

func TestDecryptionProof(t *testing.T) {
	for _, s := range large(t) {
		t.Run(s.Space().Name(), func(t *testing.T) {
			x, pk, err := s.GenerateKey(nil)
			require.NoError(t, err)
			m, err := s.Space().Random(nil)
			require.NoError(t, err)
			c, _, err := s.Encrypt(pk, m, nil)
			require.NoError(t, err)

			got, proof, err := s.ProveDecryption(x, pk, c, nil, nil)
			require.NoError(t, err)
			assert.True(t, got.Equal(m))
			assert.True(t, s.VerifyDecryption(proof, pk, c, m, nil))
			assert.False(t, s.VerifyDecryption(proof, pk, c, m.Combine(s.Generator()), nil))
			assert.False(t, s.VerifyDecryption(proof, pk, &Ciphertext{L: c.L}, m, nil))

			// a wrong key yields a wrong plaintext whose proof fails
			y := x.Add(s.RandomizationSpace().ElementFromUint64(1))
			wrong, proof, err := s.ProveDecryption(y, pk, c, nil, nil)
			require.NoError(t, err)
			assert.False(t, s.VerifyDecryption(proof, pk, c, wrong, nil))
		})
	}
}

func TestVote(t *testing.T) {
	for _, s := range large(t) {
		t.Run(s.Space().Name(), func(t *testing.T) {
			_, pk, err := s.GenerateKey(nil)
			require.NoError(t, err)
			g := s.Generator()
			candidates := []group.Element{g, g.Combine(g), g.Combine(g).Combine(g)}

			v, err := NewVoteProver(s, pk, candidates)
			require.NoError(t, err)
			assert.Equal(t, 3, v.Candidates())

			voter := []byte("voter-7")
			for choice := range candidates {
				ballot, err := v.Vote(choice, voter, nil)
				require.NoError(t, err)
				assert.True(t, v.Verify(ballot, voter), "choice %d", choice)
				assert.False(t, v.Verify(ballot, []byte("voter-8")))

				data, err := cbor.Marshal(ballot)
				require.NoError(t, err)
				decoded, err := v.UnmarshalBallot(data)
				require.NoError(t, err)
				assert.True(t, v.Verify(decoded, voter))
			}
		})
	}
}

func TestVote_Invalid(t *testing.T) {
	s := large(t)[0]
	_, pk, err := s.GenerateKey(nil)
	require.NoError(t, err)
	g := s.Generator()
	candidates := []group.Element{g, g.Combine(g)}
	v, err := NewVoteProver(s, pk, candidates)
	require.NoError(t, err)

	// a ciphertext of a non-candidate with a simulated-looking proof
	c, r, err := s.Encrypt(pk, g.Combine(g).Combine(g), nil)
	require.NoError(t, err)
	statement, err := v.Statement(c)
	require.NoError(t, err)
	proof, err := v.Generator().Generate(sigma.Branch(r, 0), statement, nil, nil)
	require.NoError(t, err)
	assert.False(t, v.Verify(&Ballot{Ciphertext: c, Proof: proof}, nil))

	ballot, err := v.Vote(1, nil, nil)
	require.NoError(t, err)
	// replacing the ciphertext breaks the statement
	other, _, err := s.ReEncrypt(pk, ballot.Ciphertext, nil)
	require.NoError(t, err)
	assert.False(t, v.Verify(&Ballot{Ciphertext: other, Proof: ballot.Proof}, nil))
	assert.False(t, v.Verify(nil, nil))
	assert.False(t, v.Verify(&Ballot{Proof: ballot.Proof}, nil))

	_, err = v.Vote(2, nil, nil)
	assert.ErrorIs(t, err, sigma.ErrIndexOutOfRange)
	_, err = NewVoteProver(s, pk, []group.Element{g})
	assert.ErrorIs(t, err, sigma.ErrTooFewFunctions)
	_, err = NewVoteProver(s, pk, []group.Element{g, g})
	assert.Error(t, err)
	_, err = NewVoteProver(s, pk, []group.Element{g, curve.Secp256k1{}.Generator()})
	assert.ErrorIs(t, err, ErrInvalidMessage)

	space, err := challenge.SpaceFromSecurity(4)
	require.NoError(t, err)
	fs, err := challenge.NewFiatShamir(space, challenge.WithAlgorithm(hash.SHA256))
	require.NoError(t, err)
	small, err := NewVoteProver(s, pk, candidates, sigma.WithChallenge(fs))
	require.NoError(t, err)
	assert.Equal(t, uint64(16), small.Generator().ChallengeSpace().Modulus().Nat().Uint64())
	ballot, err = small.Vote(0, nil, nil)
	require.NoError(t, err)
	assert.True(t, small.Verify(ballot, nil))
}
