package abi

import (
	"fmt"
	"math/big"
	"reflect"
)

// Encode serializes values against their descriptors into the head/tail
// layout of the contract ABI. Static values are placed inline in the head;
// dynamic values leave a 32-byte offset in the head and append their
// encoding to the tail. The head size is computed once, up front, and used
// for every offset.
func Encode(types []Type, values []any) ([]byte, error) {
	if len(types) != len(values) {
		return nil, fmt.Errorf("%w: %d types, %d values", ErrArgumentCount, len(types), len(values))
	}
	return encodeSequence(types, values)
}

// EncodeSingle serializes one value as a one-element argument list.
func EncodeSingle(t Type, value any) ([]byte, error) {
	return encodeSequence([]Type{t}, []any{value})
}

// encodeSequence implements the shared head/tail layout used by top-level
// argument lists, tuples and array elements alike.
func encodeSequence(types []Type, values []any) ([]byte, error) {
	headSize := 0
	for _, t := range types {
		headSize += t.headSize()
	}

	head := make([]byte, 0, headSize)
	var tail []byte
	for i, t := range types {
		enc, err := encodeValue(t, values[i])
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		if t.Dynamic() {
			head = append(head, encodeWordUint(uint64(headSize+len(tail)))...)
			tail = append(tail, enc...)
		} else {
			head = append(head, enc...)
		}
	}
	return append(head, tail...), nil
}

// encodeValue encodes one value of the given type: a fixed-size slab for
// static types, a self-contained tail region for dynamic ones.
func encodeValue(t Type, value any) ([]byte, error) {
	switch t.kind {
	case KindUint, KindInt:
		n, err := toBigInt(value)
		if err != nil {
			return nil, err
		}
		return encodeWordInt(n, t.kind == KindInt, t.bits)

	case KindAddress:
		b, err := toAddressBytes(value)
		if err != nil {
			return nil, err
		}
		word := make([]byte, wordSize)
		copy(word[wordSize-20:], b)
		return word, nil

	case KindBool:
		v, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: want bool, got %T", ErrTypeMismatch, value)
		}
		word := make([]byte, wordSize)
		if v {
			word[wordSize-1] = 1
		}
		return word, nil

	case KindFixedBytes:
		b, err := toByteSlice(value)
		if err != nil {
			return nil, err
		}
		if len(b) != t.size {
			return nil, fmt.Errorf("%w: want %d bytes, got %d", ErrTypeMismatch, t.size, len(b))
		}
		// bytesN is right-padded, unlike integers.
		word := make([]byte, wordSize)
		copy(word, b)
		return word, nil

	case KindBytes:
		b, err := toByteSlice(value)
		if err != nil {
			return nil, err
		}
		return encodeLengthPrefixed(b), nil

	case KindString:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: want string, got %T", ErrTypeMismatch, value)
		}
		// Strings encode as their UTF-8 bytes; Go strings already are.
		return encodeLengthPrefixed([]byte(s)), nil

	case KindFixedArray:
		elems, err := toSlice(value)
		if err != nil {
			return nil, err
		}
		if len(elems) != t.size {
			return nil, fmt.Errorf("%w: want %d elements, got %d", ErrTypeMismatch, t.size, len(elems))
		}
		return encodeHomogeneous(*t.elem, elems)

	case KindDynamicArray:
		elems, err := toSlice(value)
		if err != nil {
			return nil, err
		}
		body, err := encodeHomogeneous(*t.elem, elems)
		if err != nil {
			return nil, err
		}
		return append(encodeWordUint(uint64(len(elems))), body...), nil

	case KindTuple:
		fields, err := toSlice(value)
		if err != nil {
			return nil, err
		}
		if len(fields) != len(t.components) {
			return nil, fmt.Errorf("%w: %d components, %d values",
				ErrArgumentCount, len(t.components), len(fields))
		}
		return encodeSequence(t.components, fields)

	default:
		return nil, fmt.Errorf("%w: invalid descriptor", ErrMalformed)
	}
}

// encodeHomogeneous encodes array elements through the same head/tail
// machinery as tuples, with every slot sharing one element type.
func encodeHomogeneous(elem Type, values []any) ([]byte, error) {
	types := make([]Type, len(values))
	for i := range types {
		types[i] = elem
	}
	return encodeSequence(types, values)
}

// encodeLengthPrefixed emits a length word followed by the payload
// right-padded with zeros to a 32-byte boundary.
func encodeLengthPrefixed(b []byte) []byte {
	padded := (len(b) + wordSize - 1) / wordSize * wordSize
	out := make([]byte, wordSize+padded)
	copy(out, encodeWordUint(uint64(len(b))))
	copy(out[wordSize:], b)
	return out
}

func encodeWordUint(v uint64) []byte {
	word := make([]byte, wordSize)
	for i := 0; v > 0; i++ {
		word[wordSize-1-i] = byte(v)
		v >>= 8
	}
	return word
}

var two256 = new(big.Int).Lsh(big.NewInt(1), 256)

// encodeWordInt encodes an integer into one 32-byte big-endian word,
// two's-complementing negative signed values and range-checking against
// the declared bit width.
func encodeWordInt(n *big.Int, signed bool, bits int) ([]byte, error) {
	if !signed && n.Sign() < 0 {
		return nil, fmt.Errorf("%w: negative value for uint%d", ErrTypeMismatch, bits)
	}

	limit := new(big.Int).Lsh(big.NewInt(1), uint(bits))
	if signed {
		// Signed range is [-2^(bits-1), 2^(bits-1)).
		half := new(big.Int).Rsh(limit, 1)
		if n.Cmp(half) >= 0 || n.Cmp(new(big.Int).Neg(half)) < 0 {
			return nil, fmt.Errorf("%w: value out of range for int%d", ErrTypeMismatch, bits)
		}
	} else if n.Cmp(limit) >= 0 {
		return nil, fmt.Errorf("%w: value out of range for uint%d", ErrTypeMismatch, bits)
	}

	v := n
	if n.Sign() < 0 {
		v = new(big.Int).Add(two256, n)
	}
	word := make([]byte, wordSize)
	v.FillBytes(word)
	return word, nil
}

// toBigInt accepts the integer representations callers commonly hold.
func toBigInt(value any) (*big.Int, error) {
	switch v := value.(type) {
	case *big.Int:
		if v == nil {
			return nil, fmt.Errorf("%w: nil *big.Int", ErrTypeMismatch)
		}
		return v, nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), nil
	case int64:
		return big.NewInt(v), nil
	case int32:
		return big.NewInt(int64(v)), nil
	case int:
		return big.NewInt(int64(v)), nil
	default:
		return nil, fmt.Errorf("%w: want integer, got %T", ErrTypeMismatch, value)
	}
}

func toAddressBytes(value any) ([]byte, error) {
	switch v := value.(type) {
	case [20]byte:
		return v[:], nil
	case []byte:
		if len(v) != 20 {
			return nil, fmt.Errorf("%w: address needs 20 bytes, got %d", ErrTypeMismatch, len(v))
		}
		return v, nil
	default:
		// go-ethereum's common.Address and similar named 20-byte arrays.
		rv := reflect.ValueOf(value)
		if rv.Kind() == reflect.Array && rv.Len() == 20 && rv.Type().Elem().Kind() == reflect.Uint8 {
			out := make([]byte, 20)
			reflect.Copy(reflect.ValueOf(out), rv)
			return out, nil
		}
		return nil, fmt.Errorf("%w: want address, got %T", ErrTypeMismatch, value)
	}
}

func toByteSlice(value any) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	default:
		rv := reflect.ValueOf(value)
		if rv.Kind() == reflect.Array && rv.Type().Elem().Kind() == reflect.Uint8 {
			out := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(out), rv)
			return out, nil
		}
		return nil, fmt.Errorf("%w: want bytes, got %T", ErrTypeMismatch, value)
	}
}

// toSlice flattens any slice or array value into []any so tuples and
// arrays can carry typed slices ([]*big.Int, []string, ...) as naturally
// as []any.
func toSlice(value any) ([]any, error) {
	if v, ok := value.([]any); ok {
		return v, nil
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("%w: want slice, got %T", ErrTypeMismatch, value)
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}
