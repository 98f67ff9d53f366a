// Package bytetree implements the canonical byte-tree encoding of nested
// tuples of byte strings.
//
// A leaf is written as 0x01 ‖ len ‖ bytes and a node as 0x00 ‖ count ‖ children,
// with len and count as 4-byte big-endian integers. Two equal trees always
// produce identical bytes and, since every part is length-prefixed, no two
// distinct trees share an encoding.
package bytetree

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	nodeTag byte = 0x00
	leafTag byte = 0x01

	headerSize = 5

	// MaxDepth bounds the nesting accepted by Unmarshal.
	MaxDepth = 64
)

var (
	ErrTruncated     = errors.New("bytetree: truncated input")
	ErrTrailingBytes = errors.New("bytetree: trailing bytes")
	ErrUnknownTag    = errors.New("bytetree: unknown tag")
	ErrTooDeep       = errors.New("bytetree: nesting too deep")
)

// ByteTree is either a Leaf or a Node.
type ByteTree interface {
	// Size returns the length of the encoding.
	Size() int
	// Marshal returns the encoding.
	Marshal() []byte
	// WriteTo writes the encoding to w.
	WriteTo(w io.Writer) (int64, error)
	// Domain implements hash.WriterToWithDomain.
	Domain() string

	appendTo(buf []byte) []byte
}

// Leaf holds raw bytes.
type Leaf []byte

// Node holds an ordered list of children.
type Node []ByteTree

func (l Leaf) Size() int { return headerSize + len(l) }

func (l Leaf) Marshal() []byte { return l.appendTo(make([]byte, 0, l.Size())) }

func (l Leaf) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(l.Marshal())
	return int64(n), err
}

func (Leaf) Domain() string { return "ByteTree" }

func (l Leaf) appendTo(buf []byte) []byte {
	buf = append(buf, leafTag)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(l)))
	return append(buf, l...)
}

func (n Node) Size() int {
	size := headerSize
	for _, child := range n {
		size += child.Size()
	}
	return size
}

func (n Node) Marshal() []byte { return n.appendTo(make([]byte, 0, n.Size())) }

func (n Node) WriteTo(w io.Writer) (int64, error) {
	written, err := w.Write(n.Marshal())
	return int64(written), err
}

func (Node) Domain() string { return "ByteTree" }

func (n Node) appendTo(buf []byte) []byte {
	buf = append(buf, nodeTag)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(n)))
	for _, child := range n {
		buf = child.appendTo(buf)
	}
	return buf
}

// Unmarshal parses a complete encoding. It fails if data holds anything
// after the tree.
func Unmarshal(data []byte) (ByteTree, error) {
	tree, rest, err := parse(data, 0)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, ErrTrailingBytes
	}
	return tree, nil
}

func parse(data []byte, depth int) (ByteTree, []byte, error) {
	if depth > MaxDepth {
		return nil, nil, ErrTooDeep
	}
	if len(data) < headerSize {
		return nil, nil, ErrTruncated
	}
	tag, length := data[0], binary.BigEndian.Uint32(data[1:headerSize])
	data = data[headerSize:]

	switch tag {
	case leafTag:
		if uint64(length) > uint64(len(data)) {
			return nil, nil, ErrTruncated
		}
		leaf := make(Leaf, length)
		copy(leaf, data[:length])
		return leaf, data[length:], nil
	case nodeTag:
		// every child takes at least a header
		if uint64(length)*headerSize > uint64(len(data)) {
			return nil, nil, ErrTruncated
		}
		node := make(Node, length)
		var err error
		for i := range node {
			node[i], data, err = parse(data, depth+1)
			if err != nil {
				return nil, nil, err
			}
		}
		return node, data, nil
	default:
		return nil, nil, fmt.Errorf("%w: 0x%02x", ErrUnknownTag, tag)
	}
}

// AsLeaf returns t as a Leaf.
func AsLeaf(t ByteTree) (Leaf, bool) {
	l, ok := t.(Leaf)
	return l, ok
}

// AsNode returns t as a Node with exactly arity children.
func AsNode(t ByteTree, arity int) (Node, bool) {
	n, ok := t.(Node)
	if !ok || len(n) != arity {
		return nil, false
	}
	return n, true
}
