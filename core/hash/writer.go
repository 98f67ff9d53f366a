package hash

import "io"

// WriterToWithDomain is a value that writes its own canonical bytes and
// names the domain they belong to.
type WriterToWithDomain interface {
	io.WriterTo
	// Domain separates values of different types with equal encodings.
	Domain() string
}

// BytesWithDomain is one framed item of the hash input.
type BytesWithDomain struct {
	TheDomain string
	Bytes     []byte
}

func (b BytesWithDomain) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.Bytes)
	return int64(n), err
}

func (b BytesWithDomain) Domain() string {
	return b.TheDomain
}
