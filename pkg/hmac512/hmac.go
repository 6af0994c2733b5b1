// Package hmac512 implements RFC 2104 HMAC keyed on the SHA-512 engine in
// package sha512.
package hmac512

import (
	"hash"

	"github.com/rinoapp/gwauth/pkg/sha512"
)

const (
	Size      = sha512.Size
	BlockSize = sha512.BlockSize

	ipad = 0x36
	opad = 0x5c
)

type Key []byte

// block returns k in its block-sized form: hashed when longer than a block,
// zero-padded on the right otherwise.
func (k Key) block() [BlockSize]byte {
	var b [BlockSize]byte
	if len(k) > BlockSize {
		sum := sha512.Sum512(k)
		copy(b[:], sum[:])
		return b
	}
	copy(b[:], k)
	return b
}

type mac struct {
	inner hash.Hash
	outer hash.Hash
	ipad  [BlockSize]byte
	opad  [BlockSize]byte
}

var _ hash.Hash = (*mac)(nil)

func New(k Key) hash.Hash {
	m := &mac{
		inner: sha512.New(),
		outer: sha512.New(),
	}
	kb := k.block()
	for i := range kb {
		m.ipad[i] = kb[i] ^ ipad
		m.opad[i] = kb[i] ^ opad
	}
	m.inner.Write(m.ipad[:])
	return m
}

// Sum returns HMAC-SHA512(k, msg).
func Sum(k Key, msg []byte) [Size]byte {
	var out [Size]byte
	m := New(k)
	m.Write(msg)
	copy(out[:], m.Sum(nil))
	return out
}

func (m *mac) Write(p []byte) (int, error) {
	return m.inner.Write(p)
}

func (m *mac) Sum(in []byte) []byte {
	innerSum := m.inner.Sum(nil)
	m.outer.Reset()
	m.outer.Write(m.opad[:])
	m.outer.Write(innerSum)
	return m.outer.Sum(in)
}

func (m *mac) Reset() {
	m.inner.Reset()
	m.inner.Write(m.ipad[:])
}

func (m *mac) Size() int { return Size }

func (m *mac) BlockSize() int { return BlockSize }

// Equal compares two MACs in time independent of where they differ.
func Equal(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	var v byte
	for i := range a {
		v |= a[i] ^ b[i]
	}
	return v == 0
}
