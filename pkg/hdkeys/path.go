package hdkeys

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidPath = errors.New("hdkeys: invalid derivation path")

// ParsePath parses a BIP-44 style derivation path such as
// "m/44'/60'/0'/0/0" into child indices. A trailing apostrophe, "h" or "H"
// marks a hardened index. The leading "m" component is optional.
func ParsePath(path string) ([]uint32, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	parts := strings.Split(path, "/")
	if parts[0] == "m" || parts[0] == "M" {
		parts = parts[1:]
	}

	indices := make([]uint32, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("%w: empty component in %q", ErrInvalidPath, path)
		}

		hardened := false
		switch part[len(part)-1] {
		case '\'', 'h', 'H':
			hardened = true
			part = part[:len(part)-1]
		}

		n, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: component %q", ErrInvalidPath, part)
		}
		if n >= uint64(HardenedKeyStart) {
			return nil, fmt.Errorf("%w: index %d out of range", ErrInvalidPath, n)
		}

		index := uint32(n)
		if hardened {
			index += HardenedKeyStart
		}
		indices = append(indices, index)
	}
	return indices, nil
}

// DerivePath derives the key at the given path below k, one child at a
// time.
func (k *ExtendedKey) DerivePath(path string) (*ExtendedKey, error) {
	indices, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	key := k
	for _, index := range indices {
		key, err = key.Derive(index)
		if err != nil {
			return nil, fmt.Errorf("deriving index %d: %w", index, err)
		}
	}
	return key, nil
}

// FormatPath renders child indices back into the apostrophe path form.
func FormatPath(indices []uint32) string {
	var sb strings.Builder
	sb.WriteByte('m')
	for _, index := range indices {
		sb.WriteByte('/')
		if index >= HardenedKeyStart {
			sb.WriteString(strconv.FormatUint(uint64(index-HardenedKeyStart), 10))
			sb.WriteByte('\'')
		} else {
			sb.WriteString(strconv.FormatUint(uint64(index), 10))
		}
	}
	return sb.String()
}
