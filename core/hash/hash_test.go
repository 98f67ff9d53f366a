package hash

import (
	"encoding/hex"
	"io"
	"math/big"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/mr-shifu/sigma-lib/core/bytetree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash_WriteAny(t *testing.T) {
	var err error

	testFunc := func(vs ...interface{}) error {
		h := New()
		for _, v := range vs {
			err = h.WriteAny(v)
			if err != nil {
				return err
			}
		}
		return nil
	}
	b := big.NewInt(35)
	n := new(saferith.Nat).SetBig(b, b.BitLen())
	m := saferith.ModulusFromBytes(b.Bytes())

	assert.NoError(t, testFunc(b, n, m))
	assert.NoError(t, testFunc(bytetree.Node{bytetree.Leaf("x")}))
	assert.NoError(t, testFunc([]byte{1, 4, 6}))

	assert.Error(t, testFunc([]byte(nil)))
	assert.Error(t, testFunc((*big.Int)(nil)))
	assert.Error(t, testFunc(42))
}

func TestHash_WriteAny_Collision(t *testing.T) {
	var err error

	testFunc := func(vs ...interface{}) ([]byte, error) {
		h := New()
		for _, v := range vs {
			err = h.WriteAny(v)
			if err != nil {
				return nil, err
			}
		}
		return h.Sum(), nil
	}
	b1 := []byte("1)(big.Int\x02*data_added*")
	b2 := []byte("3")
	n2 := new(big.Int)
	n2.SetString(hex.EncodeToString(b2), 16)
	h1, err := testFunc(b1, n2)
	assert.NoError(t, err)

	b1 = []byte("1")
	b2 = []byte("*data_added*)(big.Int\x023")
	n2 = new(big.Int)
	n2.SetString(hex.EncodeToString(b2), 16)
	h2, err := testFunc(b1, n2)
	assert.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestHash_Algorithms(t *testing.T) {
	for _, alg := range []Algorithm{BLAKE3, SHA256, SHA512, SHA3_256} {
		h, err := NewWithAlgorithm(alg)
		require.NoError(t, err, alg.String())
		require.NoError(t, h.WriteAny([]byte("transcript")))

		sum := h.Sum()
		assert.Len(t, sum, alg.Size(), alg.String())
		assert.Equal(t, sum, h.Sum(), "Sum must not change the state")

		parsed, err := ParseAlgorithm(alg.String())
		require.NoError(t, err)
		assert.Equal(t, alg, parsed)

		out := make([]byte, 3*alg.Size()+7)
		_, err = io.ReadFull(h.Digest(), out)
		require.NoError(t, err)
		again := make([]byte, len(out))
		_, err = io.ReadFull(h.Digest(), again)
		require.NoError(t, err)
		assert.Equal(t, out, again, "digest stream must be deterministic")
	}

	_, err := NewWithAlgorithm(Algorithm(0))
	assert.ErrorIs(t, err, ErrInvalidAlgorithm)
	_, err = NewWithAlgorithm(SHA3_256 + 1)
	assert.ErrorIs(t, err, ErrInvalidAlgorithm)
	_, err = ParseAlgorithm("MD5")
	assert.Error(t, err)
}

func TestHash_AlgorithmsDiffer(t *testing.T) {
	sha, err := NewWithAlgorithm(SHA256)
	require.NoError(t, err)
	sha3, err := NewWithAlgorithm(SHA3_256)
	require.NoError(t, err)
	assert.NotEqual(t, sha.Sum(), sha3.Sum())
}

func TestHash_Clone(t *testing.T) {
	for _, alg := range []Algorithm{BLAKE3, SHA256} {
		h, err := NewWithAlgorithm(alg)
		require.NoError(t, err)
		require.NoError(t, h.WriteAny([]byte("123")))

		h1 := h.Clone()
		h2 := h.Clone()
		assert.Equal(t, h.Sum(), h1.Sum())

		require.NoError(t, h1.WriteAny([]byte("456")))
		require.NoError(t, h2.WriteAny([]byte("456")))
		assert.Equal(t, h1.Sum(), h2.Sum())
		assert.NotEqual(t, h.Sum(), h1.Sum(), "clone must not share state with its parent")

		h3, err := h.Fork([]byte("456"))
		require.NoError(t, err)
		assert.Equal(t, h1.Sum(), h3.Sum())
	}
}
