// Package rlp implements Ethereum's Recursive Length Prefix encoding, the
// canonical binary form for nested byte-strings and lists.
//
// Values are modeled as an Item, a closed variant over byte strings and
// lists of further Items. Integers are re-expressed as their minimal
// big-endian byte form (zero becomes the empty string) at construction time;
// that is the only implicit conversion the codec performs.
package rlp

import (
	"errors"
	"math/big"
)

// Validation error values returned by the decoder and the Item accessors.
var (
	ErrEmptyInput     = errors.New("rlp: empty input")
	ErrLengthOverflow = errors.New("rlp: length prefix exceeds remaining buffer")
	ErrNonCanonical   = errors.New("rlp: non-canonical length encoding")
	ErrTrailingBytes  = errors.New("rlp: trailing bytes after value")
	ErrNotBytes       = errors.New("rlp: item is a list, not a byte string")
	ErrNotList        = errors.New("rlp: item is a byte string, not a list")
	ErrValueTooLarge  = errors.New("rlp: integer value exceeds 64 bits")
)

// Kind discriminates the two shapes an RLP item can take.
type Kind int

const (
	KindBytes Kind = iota
	KindList
)

// Item is a single RLP value: either a byte string or an ordered list of
// further items. Items are values; constructors copy their input and no
// operation mutates an existing Item.
type Item struct {
	kind Kind
	str  []byte
	list []Item
}

// Bytes builds a byte-string item from a copy of b.
func Bytes(b []byte) Item {
	cp := make([]byte, len(b))
	copy(cp, b)
	return Item{kind: KindBytes, str: cp}
}

// String builds a byte-string item from the UTF-8 bytes of s.
func String(s string) Item {
	return Item{kind: KindBytes, str: []byte(s)}
}

// Uint builds a byte-string item holding the minimal big-endian form of v.
// Zero encodes as the empty byte string.
func Uint(v uint64) Item {
	return Item{kind: KindBytes, str: minimalBigEndian(v)}
}

// BigInt builds a byte-string item from the minimal big-endian form of v.
// Nil and zero both encode as the empty byte string; negative values are
// not representable in RLP and map to empty as well.
func BigInt(v *big.Int) Item {
	if v == nil || v.Sign() <= 0 {
		return Item{kind: KindBytes}
	}
	return Item{kind: KindBytes, str: v.Bytes()}
}

// List builds a list item from the given items, in order.
func List(items ...Item) Item {
	cp := make([]Item, len(items))
	copy(cp, items)
	return Item{kind: KindList, list: cp}
}

// Kind reports whether the item is a byte string or a list.
func (it Item) Kind() Kind { return it.kind }

// IsList reports whether the item is a list.
func (it Item) IsList() bool { return it.kind == KindList }

// Str returns the payload of a byte-string item.
func (it Item) Str() ([]byte, error) {
	if it.kind != KindBytes {
		return nil, ErrNotBytes
	}
	cp := make([]byte, len(it.str))
	copy(cp, it.str)
	return cp, nil
}

// Items returns the elements of a list item.
func (it Item) Items() ([]Item, error) {
	if it.kind != KindList {
		return nil, ErrNotList
	}
	cp := make([]Item, len(it.list))
	copy(cp, it.list)
	return cp, nil
}

// Uint64 interprets a byte-string item as a big-endian unsigned integer.
// The empty string is zero. Strings longer than 8 bytes do not fit and
// return ErrValueTooLarge.
func (it Item) Uint64() (uint64, error) {
	if it.kind != KindBytes {
		return 0, ErrNotBytes
	}
	if len(it.str) > 8 {
		return 0, ErrValueTooLarge
	}
	var v uint64
	for _, b := range it.str {
		v = v<<8 | uint64(b)
	}
	return v, nil
}

// BigInt interprets a byte-string item as a big-endian unsigned integer of
// arbitrary size.
func (it Item) BigInt() (*big.Int, error) {
	if it.kind != KindBytes {
		return nil, ErrNotBytes
	}
	return new(big.Int).SetBytes(it.str), nil
}

// Encode serializes the item into a single contiguous buffer. Encoding
// never fails for a well-formed Item.
func Encode(it Item) []byte {
	out := make([]byte, 0, encodedSize(it))
	return appendItem(out, it)
}

// encodedSize computes the exact length of the encoding so the output
// buffer can be allocated once.
func encodedSize(it Item) int {
	if it.kind == KindBytes {
		if len(it.str) == 1 && it.str[0] < 0x80 {
			return 1
		}
		return prefixSize(len(it.str)) + len(it.str)
	}
	payload := 0
	for _, sub := range it.list {
		payload += encodedSize(sub)
	}
	return prefixSize(payload) + payload
}

func prefixSize(payloadLen int) int {
	if payloadLen <= 55 {
		return 1
	}
	return 1 + lengthOfLength(payloadLen)
}

func appendItem(out []byte, it Item) []byte {
	if it.kind == KindBytes {
		// A single byte below 0x80 is its own encoding.
		if len(it.str) == 1 && it.str[0] < 0x80 {
			return append(out, it.str[0])
		}
		out = appendPrefix(out, 0x80, len(it.str))
		return append(out, it.str...)
	}

	payload := 0
	for _, sub := range it.list {
		payload += encodedSize(sub)
	}
	out = appendPrefix(out, 0xC0, payload)
	for _, sub := range it.list {
		out = appendItem(out, sub)
	}
	return out
}

// appendPrefix writes the one- or two-tier length prefix for a payload of
// the given length, using base for the short form (0x80 for strings, 0xC0
// for lists) and base+0x37 for the length-of-length form.
func appendPrefix(out []byte, base byte, payloadLen int) []byte {
	if payloadLen <= 55 {
		return append(out, base+byte(payloadLen))
	}
	lenLen := lengthOfLength(payloadLen)
	out = append(out, base+0x37+byte(lenLen))
	for i := lenLen - 1; i >= 0; i-- {
		out = append(out, byte(payloadLen>>(8*i)))
	}
	return out
}

func lengthOfLength(n int) int {
	size := 0
	for n > 0 {
		size++
		n >>= 8
	}
	return size
}

func minimalBigEndian(v uint64) []byte {
	if v == 0 {
		return nil
	}
	size := 0
	for tmp := v; tmp > 0; tmp >>= 8 {
		size++
	}
	out := make([]byte, size)
	for i := size - 1; i >= 0; i-- {
		out[i] = byte(v)
		v >>= 8
	}
	return out
}
