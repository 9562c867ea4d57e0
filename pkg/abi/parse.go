package abi

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseType parses a single canonical type string such as "uint256",
// "(address,uint256)[]" or "bytes32[4]".
func ParseType(s string) (Type, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Type{}, fmt.Errorf("%w: empty type", ErrMalformed)
	}

	base, suffix, err := splitArraySuffix(s)
	if err != nil {
		return Type{}, err
	}

	var t Type
	if strings.HasPrefix(base, "(") {
		if !strings.HasSuffix(base, ")") {
			return Type{}, fmt.Errorf("%w: unbalanced tuple in %q", ErrMalformed, s)
		}
		parts, err := splitTopLevel(base[1 : len(base)-1])
		if err != nil {
			return Type{}, err
		}
		components := make([]Type, len(parts))
		for i, p := range parts {
			components[i], err = ParseType(p)
			if err != nil {
				return Type{}, err
			}
		}
		t = Tuple(components...)
	} else {
		t, err = parseElementary(base)
		if err != nil {
			return Type{}, err
		}
	}

	return applyArraySuffix(t, suffix)
}

// parseElementary handles the non-composite type names.
func parseElementary(s string) (Type, error) {
	switch {
	case s == "address":
		return Address(), nil
	case s == "bool":
		return Bool(), nil
	case s == "string":
		return StringType(), nil
	case s == "bytes":
		return Bytes(), nil
	case s == "uint":
		return Uint(256)
	case s == "int":
		return Int(256)
	case strings.HasPrefix(s, "uint"):
		bits, err := strconv.Atoi(s[4:])
		if err != nil {
			return Type{}, fmt.Errorf("%w: %q", ErrMalformed, s)
		}
		return Uint(bits)
	case strings.HasPrefix(s, "int"):
		bits, err := strconv.Atoi(s[3:])
		if err != nil {
			return Type{}, fmt.Errorf("%w: %q", ErrMalformed, s)
		}
		return Int(bits)
	case strings.HasPrefix(s, "bytes"):
		n, err := strconv.Atoi(s[5:])
		if err != nil {
			return Type{}, fmt.Errorf("%w: %q", ErrMalformed, s)
		}
		return FixedBytes(n)
	default:
		return Type{}, fmt.Errorf("%w: unknown type %q", ErrMalformed, s)
	}
}

// splitArraySuffix separates "base[3][]" into "base" and "[3][]". The base
// may itself contain brackets inside a tuple, so scanning runs from the
// right and stops at the first character that is not part of a trailing
// bracket group.
func splitArraySuffix(s string) (string, string, error) {
	end := len(s)
	for end > 0 && s[end-1] == ']' {
		open := strings.LastIndexByte(s[:end-1], '[')
		if open == -1 {
			return "", "", fmt.Errorf("%w: unbalanced brackets in %q", ErrMalformed, s)
		}
		inner := s[open+1 : end-1]
		if inner != "" {
			if _, err := strconv.Atoi(inner); err != nil {
				// Not an array suffix after all (for example a tuple type
				// ending in "]") — stop scanning.
				break
			}
		}
		end = open
	}
	return s[:end], s[end:], nil
}

// applyArraySuffix wraps t in array descriptors, left to right, for a
// suffix such as "[3][]".
func applyArraySuffix(t Type, suffix string) (Type, error) {
	for suffix != "" {
		if suffix[0] != '[' {
			return Type{}, fmt.Errorf("%w: bad array suffix %q", ErrMalformed, suffix)
		}
		close := strings.IndexByte(suffix, ']')
		if close == -1 {
			return Type{}, fmt.Errorf("%w: bad array suffix %q", ErrMalformed, suffix)
		}
		inner := suffix[1:close]
		if inner == "" {
			t = DynamicArray(t)
		} else {
			n, err := strconv.Atoi(inner)
			if err != nil {
				return Type{}, fmt.Errorf("%w: bad array length %q", ErrMalformed, inner)
			}
			t, err = FixedArray(t, n)
			if err != nil {
				return Type{}, err
			}
		}
		suffix = suffix[close+1:]
	}
	return t, nil
}

// splitTopLevel splits a comma-separated argument list on top-level commas
// only, tracking nesting depth across both parentheses and brackets so
// that "(address,uint256)[],bool" is not split inside the tuple.
func splitTopLevel(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("%w: unbalanced nesting in %q", ErrMalformed, s)
			}
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("%w: unbalanced nesting in %q", ErrMalformed, s)
	}
	parts = append(parts, strings.TrimSpace(s[start:]))

	for _, p := range parts {
		if p == "" {
			return nil, fmt.Errorf("%w: empty argument in %q", ErrMalformed, s)
		}
	}
	return parts, nil
}

// ParseSignature parses a full function or event signature such as
// "transfer(address,uint256)" into its name and argument descriptors.
func ParseSignature(sig string) (string, []Type, error) {
	sig = strings.TrimSpace(sig)
	open := strings.IndexByte(sig, '(')
	if open <= 0 || !strings.HasSuffix(sig, ")") {
		return "", nil, fmt.Errorf("%w: %q", ErrMalformed, sig)
	}
	name := sig[:open]

	parts, err := splitTopLevel(sig[open+1 : len(sig)-1])
	if err != nil {
		return "", nil, err
	}
	types := make([]Type, len(parts))
	for i, p := range parts {
		types[i], err = ParseType(p)
		if err != nil {
			return "", nil, err
		}
	}
	return name, types, nil
}

// CanonicalSignature re-renders a parsed signature in the exact form used
// for selector and topic hashing: no whitespace, tuples in parentheses.
func CanonicalSignature(name string, types []Type) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = t.String()
	}
	return name + "(" + strings.Join(parts, ",") + ")"
}
