package abi

import (
	"github.com/grendel/walletcore/pkg/hashes"
)

// Selector returns the 4-byte function selector: the first four bytes of
// the Keccak-256 hash of the canonical signature's UTF-8 bytes. The
// signature is parsed and re-rendered first, so spacing or non-canonical
// spellings cannot change the hash.
func Selector(sig string) ([4]byte, error) {
	var out [4]byte
	canonical, err := canonicalize(sig)
	if err != nil {
		return out, err
	}
	copy(out[:], hashes.Keccak256([]byte(canonical)))
	return out, nil
}

// EventTopic returns the full 32-byte Keccak-256 hash of the canonical
// signature, used as an event's topic0 or a custom error's identifier.
func EventTopic(sig string) ([32]byte, error) {
	var out [32]byte
	canonical, err := canonicalize(sig)
	if err != nil {
		return out, err
	}
	copy(out[:], hashes.Keccak256([]byte(canonical)))
	return out, nil
}

func canonicalize(sig string) (string, error) {
	name, types, err := ParseSignature(sig)
	if err != nil {
		return "", err
	}
	return CanonicalSignature(name, types), nil
}
