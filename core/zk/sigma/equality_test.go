package sigma

import (
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/mr-shifu/sigma-lib/core/math/curve"
	"github.com/mr-shifu/sigma-lib/core/math/function"
	"github.com/mr-shifu/sigma-lib/core/math/group"
	"github.com/mr-shifu/sigma-lib/core/math/sample"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEquality_Scenario(t *testing.T) {
	g, f4, f2 := gstar167(t)
	eq, err := NewEquality([]group.Homomorphism{f4, f2})
	require.NoError(t, err)
	x := exponent(f4, 3)

	public, err := eq.Public(residue(t, g, 64), residue(t, g, 8))
	require.NoError(t, err)
	proof, err := eq.Generate(Secret(x), public, nil, nil)
	require.NoError(t, err)
	assert.True(t, eq.Verify(proof, public, nil))
	assert.Len(t, proof.Commitments, 2)
	assert.Len(t, proof.Challenges, 1)
	assert.Len(t, proof.Responses, 1)

	// 4³ = 64 but 2³ ≠ 16
	inconsistent, err := eq.Public(residue(t, g, 64), residue(t, g, 16))
	require.NoError(t, err)
	// the second equation fails unless c = 0
	for i := 0; i < 8; i++ {
		proof, err = eq.Generate(Secret(x), inconsistent, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, proof.Challenges[0].IsZero(), eq.Verify(proof, inconsistent, nil))
	}
}

func TestEquality_Curve(t *testing.T) {
	g := curve.Secp256k1{}.Generator()
	k, err := curve.Secp256k1{}.Random(nil)
	require.NoError(t, err)
	fg, err := function.NewGenerator(g)
	require.NoError(t, err)
	fh, err := function.NewGenerator(k)
	require.NoError(t, err)

	eq, err := NewEquality([]group.Homomorphism{fg, fh, fg})
	require.NoError(t, err)
	x := randomExponent(t, fg)
	public, err := eq.Public(fg.Apply(x), fh.Apply(x), fg.Apply(x))
	require.NoError(t, err)
	id := []byte("dealer")

	proof, err := eq.Generate(Secret(x), public, id, sample.Deterministic([]byte("seed")))
	require.NoError(t, err)
	assert.True(t, eq.Verify(proof, public, id))
	assert.False(t, eq.Verify(proof, public, []byte("other")))
	assert.True(t, proof.Commitments[0].Equal(proof.Commitments[2]))

	out, err := cbor.Marshal(proof)
	require.NoError(t, err)
	decoded, err := UnmarshalProof(eq, out)
	require.NoError(t, err)
	assert.True(t, eq.Verify(decoded, public, id))

	data, err := proof.MarshalBinary()
	require.NoError(t, err)
	decoded, err = eq.DecodeProof(data)
	require.NoError(t, err)
	assert.True(t, eq.Verify(decoded, public, id))

	y := randomExponent(t, fg)
	mixed, err := eq.Public(fg.Apply(x), fh.Apply(y), fg.Apply(x))
	require.NoError(t, err)
	proof, err = eq.Generate(Secret(x), mixed, id, nil)
	require.NoError(t, err)
	assert.False(t, eq.Verify(proof, mixed, id))
}

func TestEquality_Soundness(t *testing.T) {
	g, f4, f2 := gstar167(t)
	eq, err := NewEquality([]group.Homomorphism{f4, f2})
	require.NoError(t, err)
	public, err := eq.Public(residue(t, g, 64), residue(t, g, 8))
	require.NoError(t, err)
	id := []byte("alice")

	proof, err := eq.Generate(Secret(exponent(f4, 3)), public, id, nil)
	require.NoError(t, err)
	assertBitFlipsRejected(t, eq, proof, public, id)
}

func TestEquality_Errors(t *testing.T) {
	g, f4, f2 := gstar167(t)
	fs, err := function.NewGenerator(curve.Secp256k1{}.Generator())
	require.NoError(t, err)

	_, err = NewEquality([]group.Homomorphism{f4, fs})
	assert.ErrorIs(t, err, ErrDomainMismatch)
	// OR only needs a common challenge space
	_, err = NewOr([]group.Homomorphism{f4, fs})
	assert.NoError(t, err)

	eq, err := NewEquality([]group.Homomorphism{f4, f2})
	require.NoError(t, err)
	public, err := eq.Public(residue(t, g, 64), residue(t, g, 8))
	require.NoError(t, err)

	_, err = eq.Generate(Branch(exponent(f4, 3), 1), public, nil, nil)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = eq.Generate(Secret(residue(t, g, 4)), public, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidSecret)
	_, err = eq.Generate(Secret(exponent(f4, 3)), nil, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidPublicInput)

	proof, err := eq.Generate(Secret(exponent(f4, 3)), public, nil, nil)
	require.NoError(t, err)
	assert.NotPanics(t, func() {
		assert.False(t, eq.Verify(&Proof{
			Commitments: proof.Commitments[:1],
			Challenges:  proof.Challenges,
			Responses:   proof.Responses,
		}, public, nil))
		assert.False(t, eq.Verify(&Proof{
			Commitments: proof.Commitments,
			Challenges:  proof.Challenges,
			Responses:   proof.Commitments[:1],
		}, public, nil))
		assert.False(t, eq.Verify(proof, group.NewTuple(residue(t, g, 64), exponent(f4, 8)), nil))
	})

	assert.True(t, eq.ResponseSpace().Equal(f4.Domain()))
	assert.True(t, eq.CommitmentSpace().Equal(eq.PublicInputSpace()))
	assert.Equal(t, 3, eq.ProofSpace().Arity())
}
