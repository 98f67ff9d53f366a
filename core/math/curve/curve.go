// Package curve provides elliptic-curve groups of prime order.
//
// Points are written additively by the underlying libraries; on the
// group.Element contract Combine is point addition, Invert is negation and
// Scale is scalar multiplication.
package curve

import (
	"fmt"

	"github.com/cronokirby/saferith"
	"github.com/mr-shifu/sigma-lib/core/math/group"
)

// reduce returns k mod order as a big-endian byte string of length size.
func reduce(k *saferith.Nat, order *saferith.Modulus, size int) []byte {
	return new(saferith.Nat).Mod(k, order).FillBytes(make([]byte, size))
}

func reverse(b []byte) []byte {
	out := make([]byte, len(b))
	for i := range b {
		out[len(b)-1-i] = b[i]
	}
	return out
}

func mismatch(s group.Space, e group.Element) string {
	return fmt.Sprintf("curve: element of %s combined with %s", e.Space().Name(), s.Name())
}
