package hash

import (
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	stdhash "hash"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/sha3"
)

// Algorithm selects the digest primitive behind a Hash.
type Algorithm uint8

const (
	BLAKE3 Algorithm = iota + 1
	SHA256
	SHA512
	SHA3_256
)

// Default is used when no algorithm is configured.
const Default = BLAKE3

// blake3SumLength is the output length read from the BLAKE3 XOF by Sum.
const blake3SumLength = 64

func (a Algorithm) Valid() bool {
	return a >= BLAKE3 && a <= SHA3_256
}

// Size returns the length in bytes of Sum.
func (a Algorithm) Size() int {
	switch a {
	case BLAKE3:
		return blake3SumLength
	case SHA256:
		return sha256.Size
	case SHA512:
		return sha512.Size
	case SHA3_256:
		return 32
	default:
		return 0
	}
}

func (a Algorithm) String() string {
	switch a {
	case BLAKE3:
		return "BLAKE3"
	case SHA256:
		return "SHA-256"
	case SHA512:
		return "SHA-512"
	case SHA3_256:
		return "SHA3-256"
	default:
		return fmt.Sprintf("Algorithm(%d)", uint8(a))
	}
}

// ParseAlgorithm returns the algorithm named s, as printed by String.
func ParseAlgorithm(s string) (Algorithm, error) {
	for a := BLAKE3; a <= SHA3_256; a++ {
		if a.String() == s {
			return a, nil
		}
	}
	return 0, fmt.Errorf("hash: unknown algorithm %q", s)
}

func (a Algorithm) newDigest() stdhash.Hash {
	switch a {
	case BLAKE3:
		return blake3.New()
	case SHA256:
		return sha256.New()
	case SHA512:
		return sha512.New()
	case SHA3_256:
		return sha3.New256()
	default:
		return nil
	}
}
