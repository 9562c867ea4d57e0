// Package abi implements the Solidity contract ABI: typed value
// encoding/decoding, signature parsing, function selectors, event topics,
// JSON-ABI descriptors and EIP-712 typed-data hashing.
//
// Type descriptors form a closed sum over the shapes the ABI specification
// defines; there is no open-ended extension point. Whether a descriptor is
// dynamic, and how many head bytes a static descriptor occupies, are
// computed once at construction time and reused for every offset
// calculation afterwards, so the head layout can never disagree with
// itself.
package abi

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// wordSize is the ABI's universal 32-byte slot size.
const wordSize = 32

var (
	ErrMalformed     = errors.New("abi: malformed type or signature")
	ErrArgumentCount = errors.New("abi: argument count mismatch")
	ErrTypeMismatch  = errors.New("abi: value does not match type")
	ErrShortData     = errors.New("abi: data too short")
	ErrUnknownType   = errors.New("abi: unknown typed-data struct")
)

// Kind enumerates the shapes a descriptor can take.
type Kind int

const (
	KindUint Kind = iota
	KindInt
	KindAddress
	KindBool
	KindFixedBytes
	KindBytes
	KindString
	KindFixedArray
	KindDynamicArray
	KindTuple
)

// Type describes a single ABI type. Descriptors are immutable after
// construction; the dynamic flag and static size are finalized by the
// constructor and never recomputed.
type Type struct {
	kind Kind

	// bits is the width of a uint/int type; size is the byte width of a
	// bytesN type or the length of a fixed array.
	bits int
	size int

	elem       *Type
	components []Type

	dynamic    bool
	staticSize int
}

// Uint returns a uintN descriptor. bits must be a multiple of 8 in 8..256.
func Uint(bits int) (Type, error) {
	if bits < 8 || bits > 256 || bits%8 != 0 {
		return Type{}, fmt.Errorf("%w: uint%d", ErrMalformed, bits)
	}
	return Type{kind: KindUint, bits: bits, staticSize: wordSize}, nil
}

// Int returns an intN descriptor with the same width rules as Uint.
func Int(bits int) (Type, error) {
	if bits < 8 || bits > 256 || bits%8 != 0 {
		return Type{}, fmt.Errorf("%w: int%d", ErrMalformed, bits)
	}
	return Type{kind: KindInt, bits: bits, staticSize: wordSize}, nil
}

// Address returns the 20-byte address descriptor.
func Address() Type {
	return Type{kind: KindAddress, staticSize: wordSize}
}

// Bool returns the boolean descriptor.
func Bool() Type {
	return Type{kind: KindBool, staticSize: wordSize}
}

// FixedBytes returns a bytesN descriptor for 1 <= n <= 32.
func FixedBytes(n int) (Type, error) {
	if n < 1 || n > 32 {
		return Type{}, fmt.Errorf("%w: bytes%d", ErrMalformed, n)
	}
	return Type{kind: KindFixedBytes, size: n, staticSize: wordSize}, nil
}

// Bytes returns the dynamic bytes descriptor.
func Bytes() Type {
	return Type{kind: KindBytes, dynamic: true}
}

// String returns the dynamic string descriptor.
func StringType() Type {
	return Type{kind: KindString, dynamic: true}
}

// FixedArray returns an elem[n] descriptor. The array is dynamic iff its
// element is; a static array's head size is n times its element's slot.
func FixedArray(elem Type, n int) (Type, error) {
	if n < 0 {
		return Type{}, fmt.Errorf("%w: negative array length", ErrMalformed)
	}
	t := Type{kind: KindFixedArray, size: n, elem: &elem}
	t.dynamic = elem.dynamic
	if !t.dynamic {
		t.staticSize = n * elem.headSize()
	}
	return t, nil
}

// DynamicArray returns an elem[] descriptor, always dynamic.
func DynamicArray(elem Type) Type {
	return Type{kind: KindDynamicArray, elem: &elem, dynamic: true}
}

// Tuple returns a tuple descriptor over the given components. The tuple is
// dynamic iff any component is; a static tuple's size is the sum of its
// components' slots.
func Tuple(components ...Type) Type {
	cp := make([]Type, len(components))
	copy(cp, components)
	t := Type{kind: KindTuple, components: cp}
	for _, c := range cp {
		if c.dynamic {
			t.dynamic = true
			break
		}
	}
	if !t.dynamic {
		sum := 0
		for _, c := range cp {
			sum += c.headSize()
		}
		t.staticSize = sum
	}
	return t
}

// Kind reports the descriptor's shape.
func (t Type) Kind() Kind { return t.kind }

// Dynamic reports whether the type's encoding lives in the tail with an
// offset pointer in the head.
func (t Type) Dynamic() bool { return t.dynamic }

// StaticSize returns the number of head bytes a non-dynamic value of this
// type occupies. It is not defined for dynamic types.
func (t Type) StaticSize() (int, error) {
	if t.dynamic {
		return 0, fmt.Errorf("%w: static size of dynamic type %s", ErrTypeMismatch, t)
	}
	return t.staticSize, nil
}

// Elem returns the element descriptor of an array type.
func (t Type) Elem() *Type { return t.elem }

// Components returns the component descriptors of a tuple type.
func (t Type) Components() []Type {
	cp := make([]Type, len(t.components))
	copy(cp, t.components)
	return cp
}

// headSize is the number of bytes the type occupies in its parent's head:
// its static size when static, one pointer word when dynamic. Every offset
// computation in the codec goes through this single definition.
func (t Type) headSize() int {
	if t.dynamic {
		return wordSize
	}
	return t.staticSize
}

// String renders the canonical type string, the exact form hashed by
// Selector and EventTopic. Tuples are always spelled with parentheses.
func (t Type) String() string {
	switch t.kind {
	case KindUint:
		return "uint" + strconv.Itoa(t.bits)
	case KindInt:
		return "int" + strconv.Itoa(t.bits)
	case KindAddress:
		return "address"
	case KindBool:
		return "bool"
	case KindFixedBytes:
		return "bytes" + strconv.Itoa(t.size)
	case KindBytes:
		return "bytes"
	case KindString:
		return "string"
	case KindFixedArray:
		return fmt.Sprintf("%s[%d]", t.elem, t.size)
	case KindDynamicArray:
		return t.elem.String() + "[]"
	case KindTuple:
		parts := make([]string, len(t.components))
		for i, c := range t.components {
			parts[i] = c.String()
		}
		return "(" + strings.Join(parts, ",") + ")"
	default:
		return "<invalid>"
	}
}
