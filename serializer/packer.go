// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package serializer

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/holiman/uint256"
	"github.com/multiformats/go-varint"

	"github.com/ava-labs/movecodec/layout"
	"github.com/ava-labs/movecodec/values"
)

const (
	// MaxSequenceLen bounds vector length prefixes.
	MaxSequenceLen = math.MaxInt32

	initialPackerSize = 64
)

// packer appends the wire form of values to a growing buffer.
type packer struct {
	bytes []byte
}

func newPacker() *packer {
	return &packer{bytes: make([]byte, 0, initialPackerSize)}
}

func (p *packer) packLen(n int) error {
	if n > MaxSequenceLen {
		return fmt.Errorf("%w: vector length %d exceeds %d", ErrLayoutMismatch, n, MaxSequenceLen)
	}
	p.bytes = append(p.bytes, varint.ToUvarint(uint64(n))...)
	return nil
}

func (p *packer) packFixed(b []byte) { p.bytes = append(p.bytes, b...) }

func (p *packer) packWords(words []uint64) {
	for _, w := range words {
		p.bytes = binary.LittleEndian.AppendUint64(p.bytes, w)
	}
}

// packPrimitive writes [v], which must be of the kind [prim] describes.
func (p *packer) packPrimitive(v values.Value, prim layout.Primitive) error {
	switch prim {
	case layout.Bool:
		b, ok := v.(values.Bool)
		if !ok {
			return mismatch(v, prim)
		}
		if b {
			p.bytes = append(p.bytes, 1)
		} else {
			p.bytes = append(p.bytes, 0)
		}
	case layout.U8:
		n, ok := v.(values.U8)
		if !ok {
			return mismatch(v, prim)
		}
		p.bytes = append(p.bytes, byte(n))
	case layout.U16:
		n, ok := v.(values.U16)
		if !ok {
			return mismatch(v, prim)
		}
		p.bytes = binary.LittleEndian.AppendUint16(p.bytes, uint16(n))
	case layout.U32:
		n, ok := v.(values.U32)
		if !ok {
			return mismatch(v, prim)
		}
		p.bytes = binary.LittleEndian.AppendUint32(p.bytes, uint32(n))
	case layout.U64:
		n, ok := v.(values.U64)
		if !ok {
			return mismatch(v, prim)
		}
		p.bytes = binary.LittleEndian.AppendUint64(p.bytes, uint64(n))
	case layout.U128:
		n, ok := v.(values.U128)
		if !ok || !n.Fits() {
			return mismatch(v, prim)
		}
		p.packWords(n[:2])
	case layout.U256:
		n, ok := v.(values.U256)
		if !ok {
			return mismatch(v, prim)
		}
		p.packWords(n[:])
	case layout.Address:
		a, ok := v.(values.Address)
		if !ok {
			return mismatch(v, prim)
		}
		p.packFixed(a[:])
	case layout.Signer:
		s, ok := v.(values.Signer)
		if !ok {
			return mismatch(v, prim)
		}
		p.packFixed(s.Address[:])
	default:
		return fmt.Errorf("%w: unknown primitive %s", ErrLayoutMismatch, prim)
	}
	return nil
}

// unpacker consumes the wire form of values from a byte slice.
type unpacker struct {
	bytes  []byte
	offset int
}

func (u *unpacker) remaining() int { return len(u.bytes) - u.offset }

func (u *unpacker) take(n int, what fmt.Stringer) ([]byte, error) {
	if u.remaining() < n {
		return nil, fmt.Errorf("%w: %s needs %d bytes at offset %d, %d left",
			ErrTruncatedInput, what, n, u.offset, u.remaining())
	}
	b := u.bytes[u.offset : u.offset+n]
	u.offset += n
	return b, nil
}

func (u *unpacker) unpackLen(l fmt.Stringer) (int, error) {
	n, read, err := varint.FromUvarint(u.bytes[u.offset:])
	switch {
	case errors.Is(err, varint.ErrUnderflow):
		return 0, fmt.Errorf("%w: length prefix of %s at offset %d", ErrTruncatedInput, l, u.offset)
	case err != nil:
		return 0, fmt.Errorf("%w: length prefix of %s at offset %d: %s", ErrLayoutMismatch, l, u.offset, err)
	case n > MaxSequenceLen:
		return 0, fmt.Errorf("%w: vector length %d exceeds %d", ErrLayoutMismatch, n, MaxSequenceLen)
	}
	u.offset += read
	return int(n), nil
}

func (u *unpacker) unpackWords(n int, prim layout.Primitive) (uint256.Int, error) {
	var x uint256.Int
	b, err := u.take(n*wrappers.LongLen, prim)
	if err != nil {
		return x, err
	}
	for i := 0; i < n; i++ {
		x[i] = binary.LittleEndian.Uint64(b[i*wrappers.LongLen:])
	}
	return x, nil
}

func (u *unpacker) unpackPrimitive(prim layout.Primitive) (values.Value, error) {
	switch prim {
	case layout.Bool:
		b, err := u.take(wrappers.ByteLen, prim)
		if err != nil {
			return nil, err
		}
		switch b[0] {
		case 0:
			return values.Bool(false), nil
		case 1:
			return values.Bool(true), nil
		default:
			return nil, fmt.Errorf("%w: invalid bool byte %#x at offset %d", ErrLayoutMismatch, b[0], u.offset-1)
		}
	case layout.U8:
		b, err := u.take(wrappers.ByteLen, prim)
		if err != nil {
			return nil, err
		}
		return values.U8(b[0]), nil
	case layout.U16:
		b, err := u.take(wrappers.ShortLen, prim)
		if err != nil {
			return nil, err
		}
		return values.U16(binary.LittleEndian.Uint16(b)), nil
	case layout.U32:
		b, err := u.take(wrappers.IntLen, prim)
		if err != nil {
			return nil, err
		}
		return values.U32(binary.LittleEndian.Uint32(b)), nil
	case layout.U64:
		b, err := u.take(wrappers.LongLen, prim)
		if err != nil {
			return nil, err
		}
		return values.U64(binary.LittleEndian.Uint64(b)), nil
	case layout.U128:
		x, err := u.unpackWords(2, prim)
		return values.U128(x), err
	case layout.U256:
		x, err := u.unpackWords(4, prim)
		return values.U256(x), err
	case layout.Address:
		b, err := u.take(values.AddressLen, prim)
		if err != nil {
			return nil, err
		}
		return values.BytesToAddress(b), nil
	case layout.Signer:
		b, err := u.take(values.AddressLen, prim)
		if err != nil {
			return nil, err
		}
		return values.Signer{Address: values.BytesToAddress(b)}, nil
	default:
		return nil, fmt.Errorf("%w: unknown primitive %s", ErrLayoutMismatch, prim)
	}
}
