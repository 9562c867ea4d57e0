package bech32

import (
	"errors"
	"fmt"
)

// ErrInvalidWitnessProgram covers the SegWit-specific version/length rules
// layered on top of the plain Bech32 encoding.
var ErrInvalidWitnessProgram = errors.New("bech32: invalid witness program")

// EncodeSegWit builds a SegWit address: the witness version as a single
// 5-bit symbol followed by the 8-to-5-bit regrouped program. Version 0 uses
// the Bech32 checksum, versions 1 through 16 use Bech32m (BIP-350).
func EncodeSegWit(hrp string, version byte, program []byte) (string, error) {
	if err := validateWitnessProgram(version, program); err != nil {
		return "", err
	}

	converted, err := ConvertBits(program, 8, 5, true)
	if err != nil {
		return "", err
	}
	data := append([]byte{version}, converted...)

	if version == 0 {
		return Encode(hrp, data)
	}
	return EncodeM(hrp, data)
}

// DecodeSegWit parses a SegWit address, returning the HRP, witness version
// and witness program. The checksum variant must agree with the witness
// version and the program must satisfy the version's length rules.
func DecodeSegWit(addr string) (string, byte, []byte, error) {
	hrp, data, variant, err := Decode(addr)
	if err != nil {
		return "", 0, nil, err
	}
	if len(data) < 1 {
		return "", 0, nil, fmt.Errorf("%w: missing witness version", ErrInvalidWitnessProgram)
	}

	version := data[0]
	program, err := ConvertBits(data[1:], 5, 8, false)
	if err != nil {
		return "", 0, nil, err
	}
	if err := validateWitnessProgram(version, program); err != nil {
		return "", 0, nil, err
	}

	// BIP-350: v0 must carry a Bech32 checksum, v1+ a Bech32m one.
	if version == 0 && variant != VariantBech32 {
		return "", 0, nil, fmt.Errorf("%w: version 0 requires bech32", ErrInvalidWitnessProgram)
	}
	if version != 0 && variant != VariantBech32m {
		return "", 0, nil, fmt.Errorf("%w: version %d requires bech32m", ErrInvalidWitnessProgram, version)
	}
	return hrp, version, program, nil
}

func validateWitnessProgram(version byte, program []byte) error {
	if version > 16 {
		return fmt.Errorf("%w: version %d out of range", ErrInvalidWitnessProgram, version)
	}
	if len(program) < 2 || len(program) > 40 {
		return fmt.Errorf("%w: program length %d", ErrInvalidWitnessProgram, len(program))
	}
	if version == 0 && len(program) != 20 && len(program) != 32 {
		return fmt.Errorf("%w: version 0 program must be 20 or 32 bytes, got %d",
			ErrInvalidWitnessProgram, len(program))
	}
	return nil
}

// EncodeWithHRP encodes an arbitrary 8-bit payload under the given HRP with
// a plain Bech32 checksum. Cosmos-style account addresses and similar
// chain-specific formats are thin parameterizations of this; they carry no
// checksum logic of their own.
func EncodeWithHRP(hrp string, payload []byte) (string, error) {
	converted, err := ConvertBits(payload, 8, 5, true)
	if err != nil {
		return "", err
	}
	return Encode(hrp, converted)
}

// DecodeWithHRP decodes a Bech32 string produced by EncodeWithHRP,
// verifying that it carries the expected HRP, and returns the 8-bit
// payload.
func DecodeWithHRP(expectedHRP, text string) ([]byte, error) {
	hrp, data, variant, err := Decode(text)
	if err != nil {
		return nil, err
	}
	if hrp != expectedHRP {
		return nil, fmt.Errorf("%w: got %q, want %q", ErrInvalidHRP, hrp, expectedHRP)
	}
	if variant != VariantBech32 {
		return nil, ErrChecksum
	}
	return ConvertBits(data, 5, 8, false)
}
