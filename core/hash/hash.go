package hash

import (
	"bytes"
	"encoding"
	"encoding/binary"
	"errors"
	"fmt"
	stdhash "hash"
	"io"
	"math/big"
	"reflect"

	"github.com/cronokirby/saferith"
	"github.com/zeebo/blake3"
)

// domainSeparator is written before any data, so that digests of this package
// never collide with plain digests of the same algorithm.
const domainSeparator = "SIGMA-LIB"

var ErrInvalidAlgorithm = errors.New("hash: invalid algorithm")

// Hash is the hash function used to derive challenges from transcripts.
//
// Every item written through WriteAny is framed as
// `(<domain_size><domain><data_size><data>)`, so that each domain separated
// piece of data is distinguished from others.
type Hash struct {
	alg   Algorithm
	h     stdhash.Hash
	state []BytesWithDomain
}

// New creates a BLAKE3 Hash and writes initialData to it.
func New(initialData ...WriterToWithDomain) *Hash {
	hash, _ := NewWithAlgorithm(Default, initialData...)
	return hash
}

// NewWithAlgorithm creates a Hash backed by alg and writes initialData to it.
func NewWithAlgorithm(alg Algorithm, initialData ...WriterToWithDomain) (*Hash, error) {
	if !alg.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAlgorithm, alg)
	}
	hash := &Hash{alg: alg, h: alg.newDigest()}
	_, _ = hash.h.Write([]byte(domainSeparator))
	for _, d := range initialData {
		if err := hash.WriteAny(d); err != nil {
			return nil, err
		}
	}
	return hash, nil
}

// Algorithm returns the underlying digest algorithm.
func (hash *Hash) Algorithm() Algorithm {
	return hash.alg
}

// Digest returns a reader for the current output of the function.
//
// This finalizes the current state of the hash, and returns what's
// essentially a stream of random bytes. BLAKE3 uses its native XOF;
// the other algorithms are expanded in counter mode.
func (hash *Hash) Digest() io.Reader {
	if b, ok := hash.h.(*blake3.Hasher); ok {
		return b.Digest()
	}
	return &counterReader{alg: hash.alg, seed: hash.h.Sum(nil)}
}

// Sum returns a slice of length Algorithm().Size() resulting from the current hash state.
func (hash *Hash) Sum() []byte {
	if b, ok := hash.h.(*blake3.Hasher); ok {
		out := make([]byte, blake3SumLength)
		if _, err := io.ReadFull(b.Digest(), out); err != nil {
			panic(fmt.Sprintf("hash.Sum: internal hash failure: %v", err))
		}
		return out
	}
	return hash.h.Sum(nil)
}

// WriteAny takes many different data types and writes them to the hash state.
//
// Currently supported types:
//
//   - []byte
//   - *big.Int
//   - *saferith.Nat
//   - *saferith.Modulus
//   - hash.WriterToWithDomain
//   - encoding.BinaryMarshaler
//
// This function will apply its own domain separation for all types except
// WriterToWithDomain, whose domain is respected.
func (hash *Hash) WriteAny(data ...interface{}) error {
	var toBeWritten BytesWithDomain
	for _, d := range data {
		switch t := d.(type) {
		case []byte:
			if t == nil {
				return errors.New("hash.WriteAny: nil []byte")
			}
			toBeWritten = BytesWithDomain{"[]byte", t}
		case *big.Int:
			if t == nil {
				return errors.New("hash.WriteAny: write *big.Int: nil")
			}
			bytes, _ := t.GobEncode()
			toBeWritten = BytesWithDomain{"big.Int", bytes}
		case *saferith.Nat:
			if t == nil {
				return errors.New("hash.WriteAny: write *saferith.Nat: nil")
			}
			toBeWritten = BytesWithDomain{"saferith.Nat", t.Bytes()}
		case *saferith.Modulus:
			if t == nil {
				return errors.New("hash.WriteAny: write *saferith.Modulus: nil")
			}
			toBeWritten = BytesWithDomain{"saferith.Modulus", t.Bytes()}
		case WriterToWithDomain:
			var buf = new(bytes.Buffer)
			_, err := t.WriteTo(buf)
			if err != nil {
				name := reflect.TypeOf(t)
				return fmt.Errorf("hash.WriteAny: %s: %w", name.String(), err)
			}
			toBeWritten = BytesWithDomain{t.Domain(), buf.Bytes()}
		case encoding.BinaryMarshaler:
			name := reflect.TypeOf(t)
			bytes, err := t.MarshalBinary()
			if err != nil {
				return fmt.Errorf("hash.WriteAny: %s: %w", name.String(), err)
			}
			toBeWritten = BytesWithDomain{
				TheDomain: name.String(),
				Bytes:     bytes,
			}
		default:
			return fmt.Errorf("hash.WriteAny: invalid type %T provided as input", d)
		}

		hash.state = append(hash.state, toBeWritten)
		hash.writeBytesWithDomain(toBeWritten)
	}
	return nil
}

func (hash *Hash) writeBytesWithDomain(toBeWritten BytesWithDomain) {
	var sizeBuf [8]byte

	_, _ = hash.h.Write([]byte("("))
	// <domain_size>
	binary.BigEndian.PutUint64(sizeBuf[:], uint64(len(toBeWritten.TheDomain)))
	_, _ = hash.h.Write(sizeBuf[:])
	// <domain>
	_, _ = hash.h.Write([]byte(toBeWritten.TheDomain))
	// <data_size>
	binary.BigEndian.PutUint64(sizeBuf[:], uint64(len(toBeWritten.Bytes)))
	_, _ = hash.h.Write(sizeBuf[:])
	// <data>
	_, _ = hash.h.Write(toBeWritten.Bytes)
	// )
	_, _ = hash.h.Write([]byte(")"))
}

// Clone returns a copy of the Hash in its current state.
//
// The copy is rebuilt by replaying the recorded items, since not every
// algorithm can copy its internal state.
func (hash *Hash) Clone() *Hash {
	clone := &Hash{
		alg:   hash.alg,
		h:     hash.alg.newDigest(),
		state: make([]BytesWithDomain, len(hash.state)),
	}
	copy(clone.state, hash.state)
	_, _ = clone.h.Write([]byte(domainSeparator))
	for _, d := range clone.state {
		clone.writeBytesWithDomain(d)
	}
	return clone
}

// Fork clones this hash, and then writes some data.
func (hash *Hash) Fork(data ...interface{}) (*Hash, error) {
	newHash := hash.Clone()
	if err := newHash.WriteAny(data...); err != nil {
		return nil, err
	}
	return newHash, nil
}

// counterReader expands seed into the stream H(seed ‖ 0) ‖ H(seed ‖ 1) ‖ …
type counterReader struct {
	alg     Algorithm
	seed    []byte
	counter uint64
	buf     []byte
}

func (r *counterReader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if len(r.buf) == 0 {
			h := r.alg.newDigest()
			var ctr [8]byte
			binary.BigEndian.PutUint64(ctr[:], r.counter)
			_, _ = h.Write(r.seed)
			_, _ = h.Write(ctr[:])
			r.buf = h.Sum(nil)
			r.counter++
		}
		copied := copy(p[n:], r.buf)
		r.buf = r.buf[copied:]
		n += copied
	}
	return n, nil
}
