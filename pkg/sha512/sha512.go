// Package sha512 implements the SHA-512 hash function of FIPS 180-4 on plain
// uint64 word arithmetic. It does not call into crypto/sha512.
package sha512

import (
	"encoding/binary"
	"hash"
)

const (
	// Size is the length of a SHA-512 digest in bytes.
	Size = 64

	// BlockSize is the SHA-512 input block size in bytes.
	BlockSize = 128

	// lengthSize is the width of the trailing bit-length field.
	lengthSize = 16
)

var initial = [8]uint64{
	0x6a09e667f3bcc908,
	0xbb67ae8584caa73b,
	0x3c6ef372fe94f82b,
	0xa54ff53a5f1d36f1,
	0x510e527fade682d1,
	0x9b05688c2b3e6c1f,
	0x1f83d9abfb41bd6b,
	0x5be0cd19137e2179,
}

type digest struct {
	h   [8]uint64
	x   [BlockSize]byte
	nx  int
	len uint64
}

var _ hash.Hash = (*digest)(nil)

// New returns a hash.Hash computing SHA-512.
func New() hash.Hash {
	d := new(digest)
	d.Reset()
	return d
}

// Sum512 returns the SHA-512 digest of data.
func Sum512(data []byte) [Size]byte {
	var d digest
	d.Reset()
	d.Write(data)
	return d.checkSum()
}

func (d *digest) Reset() {
	d.h = initial
	d.nx = 0
	d.len = 0
}

func (d *digest) Size() int { return Size }

func (d *digest) BlockSize() int { return BlockSize }

func (d *digest) Write(p []byte) (int, error) {
	n := len(p)
	d.len += uint64(n)
	if d.nx > 0 {
		c := copy(d.x[d.nx:], p)
		d.nx += c
		if d.nx == BlockSize {
			block(&d.h, d.x[:])
			d.nx = 0
		}
		p = p[c:]
	}
	if len(p) >= BlockSize {
		m := len(p) &^ (BlockSize - 1)
		block(&d.h, p[:m])
		p = p[m:]
	}
	if len(p) > 0 {
		d.nx = copy(d.x[:], p)
	}
	return n, nil
}

// Sum appends the digest of the data written so far to in. The running state
// is left untouched so callers may keep writing.
func (d *digest) Sum(in []byte) []byte {
	d0 := *d
	sum := d0.checkSum()
	return append(in, sum[:]...)
}

func (d *digest) checkSum() [Size]byte {
	d.Write(padding(d.len))
	if d.nx != 0 {
		panic("sha512: padding did not end on a block boundary")
	}

	var out [Size]byte
	for i, v := range d.h {
		binary.BigEndian.PutUint64(out[i*8:], v)
	}
	return out
}

// padding returns the 0x80 marker, the zero fill up to 112 mod 128 and the
// 128-bit big-endian bit length for a message of n bytes.
func padding(n uint64) []byte {
	r := n % BlockSize
	fill := 2*BlockSize - lengthSize - r
	if r < BlockSize-lengthSize {
		fill -= BlockSize
	}

	p := make([]byte, fill+lengthSize)
	p[0] = 0x80
	binary.BigEndian.PutUint64(p[fill:], n>>61)
	binary.BigEndian.PutUint64(p[fill+8:], n<<3)
	return p
}
