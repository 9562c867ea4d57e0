package abi

import (
	"fmt"
	"sort"
	"strings"

	"github.com/grendel/walletcore/pkg/hashes"
)

// TypedField is one named field of an EIP-712 struct type.
type TypedField struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// TypedData is an EIP-712 typed-data document: a set of struct type
// definitions, the primary type being signed, the domain values and the
// message values. Hashing it yields the 32-byte digest handed to a signer
// outside this package.
type TypedData struct {
	Types       map[string][]TypedField `json:"types"`
	PrimaryType string                  `json:"primaryType"`
	Domain      map[string]any          `json:"domain"`
	Message     map[string]any          `json:"message"`
}

// domainTypeName is the struct type every EIP-712 domain separator hashes.
const domainTypeName = "EIP712Domain"

// SigningHash computes keccak256(0x19 0x01 ‖ domainSeparator ‖
// hashStruct(primaryType, message)), the digest a wallet signs.
func (d TypedData) SigningHash() ([32]byte, error) {
	var out [32]byte
	domainSep, err := d.DomainSeparator()
	if err != nil {
		return out, err
	}
	structHash, err := d.HashStruct(d.PrimaryType, d.Message)
	if err != nil {
		return out, err
	}
	copy(out[:], hashes.Keccak256([]byte{0x19, 0x01}, domainSep[:], structHash[:]))
	return out, nil
}

// DomainSeparator hashes the domain values under the EIP712Domain type.
func (d TypedData) DomainSeparator() ([32]byte, error) {
	return d.HashStruct(domainTypeName, d.Domain)
}

// HashStruct computes keccak256(typeHash ‖ encodeData(fields)).
func (d TypedData) HashStruct(typeName string, data map[string]any) ([32]byte, error) {
	var out [32]byte
	encoded, err := d.encodeData(typeName, data)
	if err != nil {
		return out, err
	}
	copy(out[:], hashes.Keccak256(encoded))
	return out, nil
}

// TypeHash returns keccak256 of the canonical type encoding.
func (d TypedData) TypeHash(typeName string) ([32]byte, error) {
	var out [32]byte
	enc, err := d.encodeType(typeName)
	if err != nil {
		return out, err
	}
	copy(out[:], hashes.Keccak256([]byte(enc)))
	return out, nil
}

// encodeType renders "Primary(type name,...)" followed by every
// transitively referenced struct type, sorted by name.
func (d TypedData) encodeType(typeName string) (string, error) {
	fields, ok := d.Types[typeName]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownType, typeName)
	}

	deps := map[string]bool{}
	d.collectDeps(typeName, deps)
	delete(deps, typeName)
	sorted := make([]string, 0, len(deps))
	for name := range deps {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	var sb strings.Builder
	renderOne := func(name string, fields []TypedField) {
		sb.WriteString(name)
		sb.WriteByte('(')
		for i, f := range fields {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(f.Type)
			sb.WriteByte(' ')
			sb.WriteString(f.Name)
		}
		sb.WriteByte(')')
	}
	renderOne(typeName, fields)
	for _, name := range sorted {
		renderOne(name, d.Types[name])
	}
	return sb.String(), nil
}

func (d TypedData) collectDeps(typeName string, seen map[string]bool) {
	if seen[typeName] {
		return
	}
	fields, ok := d.Types[typeName]
	if !ok {
		return
	}
	seen[typeName] = true
	for _, f := range fields {
		d.collectDeps(baseTypeName(f.Type), seen)
	}
}

// baseTypeName strips array suffixes so "Person[]" references "Person".
func baseTypeName(t string) string {
	if i := strings.IndexByte(t, '['); i != -1 {
		return t[:i]
	}
	return t
}

// encodeData concatenates the type hash with one 32-byte word per field.
func (d TypedData) encodeData(typeName string, data map[string]any) ([]byte, error) {
	fields, ok := d.Types[typeName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, typeName)
	}

	typeHash, err := d.TypeHash(typeName)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, wordSize*(1+len(fields)))
	out = append(out, typeHash[:]...)
	for _, f := range fields {
		value, present := data[f.Name]
		if !present {
			return nil, fmt.Errorf("%w: missing field %q of %s", ErrTypeMismatch, f.Name, typeName)
		}
		word, err := d.encodeField(f.Type, value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		out = append(out, word...)
	}
	return out, nil
}

// encodeField reduces any field value to a single 32-byte word. Unlike
// plain ABI encoding, EIP-712 struct encoding never embeds dynamic data:
// strings and bytes are replaced by their keccak256 hash, nested structs
// by their struct hash, and arrays by the hash of their concatenated
// encoded members.
func (d TypedData) encodeField(fieldType string, value any) ([]byte, error) {
	// Nested struct reference.
	if _, isStruct := d.Types[baseTypeName(fieldType)]; isStruct {
		if strings.ContainsRune(fieldType, '[') {
			return d.encodeArrayField(fieldType, value)
		}
		nested, ok := value.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: want struct map for %s, got %T", ErrTypeMismatch, fieldType, value)
		}
		h, err := d.HashStruct(fieldType, nested)
		if err != nil {
			return nil, err
		}
		return h[:], nil
	}

	switch {
	case fieldType == "string":
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: want string, got %T", ErrTypeMismatch, value)
		}
		return hashes.Keccak256([]byte(s)), nil

	case fieldType == "bytes":
		b, err := toByteSlice(value)
		if err != nil {
			return nil, err
		}
		return hashes.Keccak256(b), nil

	case strings.ContainsRune(fieldType, '['):
		return d.encodeArrayField(fieldType, value)

	default:
		t, err := ParseType(fieldType)
		if err != nil {
			return nil, err
		}
		return encodeValue(t, value)
	}
}

// encodeArrayField hashes the concatenation of the members' encodings.
func (d TypedData) encodeArrayField(fieldType string, value any) ([]byte, error) {
	open := strings.LastIndexByte(fieldType, '[')
	elemType := fieldType[:open]

	elems, err := toSlice(value)
	if err != nil {
		return nil, err
	}
	var concat []byte
	for i, elem := range elems {
		word, err := d.encodeField(elemType, elem)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		concat = append(concat, word...)
	}
	return hashes.Keccak256(concat), nil
}
