package abi

import (
	"fmt"
	"math/big"
)

// Decode parses ABI-encoded data back into Go values, the inverse of
// Encode. Integers come back as *big.Int, addresses as [20]byte, bytesN
// and bytes as []byte, strings as string, arrays and tuples as []any.
func Decode(types []Type, data []byte) ([]any, error) {
	return decodeSequence(types, data)
}

// DecodeSingle parses data holding exactly one encoded value.
func DecodeSingle(t Type, data []byte) (any, error) {
	out, err := decodeSequence([]Type{t}, data)
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// decodeSequence walks the head, reading static values inline and
// following offset words into the tail for dynamic ones. Offsets are
// relative to the start of the region, mirroring encodeSequence.
func decodeSequence(types []Type, data []byte) ([]any, error) {
	out := make([]any, len(types))
	pos := 0
	for i, t := range types {
		if t.Dynamic() {
			offset, err := readWordUint(data, pos)
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", i, err)
			}
			if offset > uint64(len(data)) {
				return nil, fmt.Errorf("argument %d: %w: offset %d beyond %d bytes",
					i, ErrShortData, offset, len(data))
			}
			out[i], err = decodeValue(t, data[offset:])
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", i, err)
			}
			pos += wordSize
		} else {
			if pos+t.staticSize > len(data) {
				return nil, fmt.Errorf("argument %d: %w", i, ErrShortData)
			}
			v, err := decodeValue(t, data[pos:pos+t.staticSize])
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", i, err)
			}
			out[i] = v
			pos += t.staticSize
		}
	}
	return out, nil
}

// decodeValue decodes one value whose encoding starts at the beginning of
// data. For dynamic types data is the value's tail region.
func decodeValue(t Type, data []byte) (any, error) {
	switch t.kind {
	case KindUint:
		word, err := readWord(data, 0)
		if err != nil {
			return nil, err
		}
		return new(big.Int).SetBytes(word), nil

	case KindInt:
		word, err := readWord(data, 0)
		if err != nil {
			return nil, err
		}
		n := new(big.Int).SetBytes(word)
		// Sign-extend from the 256-bit two's-complement form.
		if word[0]&0x80 != 0 {
			n.Sub(n, two256)
		}
		return n, nil

	case KindAddress:
		word, err := readWord(data, 0)
		if err != nil {
			return nil, err
		}
		var addr [20]byte
		copy(addr[:], word[wordSize-20:])
		return addr, nil

	case KindBool:
		word, err := readWord(data, 0)
		if err != nil {
			return nil, err
		}
		return word[wordSize-1] != 0, nil

	case KindFixedBytes:
		word, err := readWord(data, 0)
		if err != nil {
			return nil, err
		}
		out := make([]byte, t.size)
		copy(out, word)
		return out, nil

	case KindBytes:
		return readLengthPrefixed(data)

	case KindString:
		b, err := readLengthPrefixed(data)
		if err != nil {
			return nil, err
		}
		return string(b), nil

	case KindFixedArray:
		return decodeHomogeneous(*t.elem, t.size, data)

	case KindDynamicArray:
		length, err := readWordUint(data, 0)
		if err != nil {
			return nil, err
		}
		// Each element needs at least one head slot; anything claiming
		// more elements than the buffer could hold is corrupt.
		if length > uint64(len(data)/wordSize) {
			return nil, fmt.Errorf("%w: array claims %d elements", ErrShortData, length)
		}
		return decodeHomogeneous(*t.elem, int(length), data[wordSize:])

	case KindTuple:
		return decodeSequence(t.components, data)

	default:
		return nil, fmt.Errorf("%w: invalid descriptor", ErrMalformed)
	}
}

func decodeHomogeneous(elem Type, n int, data []byte) ([]any, error) {
	types := make([]Type, n)
	for i := range types {
		types[i] = elem
	}
	return decodeSequence(types, data)
}

func readWord(data []byte, pos int) ([]byte, error) {
	if pos+wordSize > len(data) {
		return nil, ErrShortData
	}
	return data[pos : pos+wordSize], nil
}

func readWordUint(data []byte, pos int) (uint64, error) {
	word, err := readWord(data, pos)
	if err != nil {
		return 0, err
	}
	// Offsets and lengths beyond 64 bits cannot address real data.
	for _, b := range word[:wordSize-8] {
		if b != 0 {
			return 0, fmt.Errorf("%w: oversized length or offset", ErrShortData)
		}
	}
	var v uint64
	for _, b := range word[wordSize-8:] {
		v = v<<8 | uint64(b)
	}
	return v, nil
}

func readLengthPrefixed(data []byte) ([]byte, error) {
	length, err := readWordUint(data, 0)
	if err != nil {
		return nil, err
	}
	if length > uint64(len(data)-wordSize) {
		return nil, fmt.Errorf("%w: payload claims %d bytes", ErrShortData, length)
	}
	out := make([]byte, length)
	copy(out, data[wordSize:wordSize+length])
	return out, nil
}
