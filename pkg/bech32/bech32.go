// Package bech32 implements the BIP-173 Bech32 and BIP-350 Bech32m
// checksummed text encodings, including the SegWit address layer on top of
// them. A single BCH polymod engine serves both variants; the only
// difference between them is the constant XORed into the final checksum.
package bech32

import (
	"errors"
	"fmt"
	"strings"
)

// charset is the 32-symbol data alphabet shared by both variants.
const charset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

// maxLength is the combined HRP + separator + data + checksum limit.
const maxLength = 90

// Variant selects which checksum constant an encoding uses.
type Variant int

const (
	VariantBech32 Variant = iota
	VariantBech32m
)

// Checksum constants. The different final XOR is the entire difference
// between Bech32 and Bech32m.
const (
	bech32Const  = 1
	bech32mConst = 0x2bc830a3
)

var (
	ErrInvalidCharacter = errors.New("bech32: invalid character")
	ErrInvalidLength    = errors.New("bech32: invalid length")
	ErrMixedCase        = errors.New("bech32: mixed-case string")
	ErrNoSeparator      = errors.New("bech32: missing separator")
	ErrInvalidHRP       = errors.New("bech32: invalid human-readable part")
	ErrChecksum         = errors.New("bech32: checksum mismatch")
	ErrInvalidPadding   = errors.New("bech32: invalid padding bits")
)

// charsetRev maps an ASCII byte to its 5-bit value, or 0xFF when not in the
// charset.
var charsetRev [256]byte

func init() {
	for i := range charsetRev {
		charsetRev[i] = 0xFF
	}
	for i := 0; i < len(charset); i++ {
		charsetRev[charset[i]] = byte(i)
	}
}

// polymod is the BCH checksum state machine over 5-bit groups.
func polymod(values []byte) uint32 {
	generator := [5]uint32{0x3b6a57b2, 0x26508e6d, 0x1ea119fa, 0x3d4233dd, 0x2a1462b3}
	chk := uint32(1)
	for _, v := range values {
		top := chk >> 25
		chk = (chk&0x1ffffff)<<5 ^ uint32(v)
		for i := 0; i < 5; i++ {
			if (top>>uint(i))&1 == 1 {
				chk ^= generator[i]
			}
		}
	}
	return chk
}

// hrpExpand splits each HRP byte into its high and low 5-bit halves,
// separated by a zero, as the checksum definition requires.
func hrpExpand(hrp string) []byte {
	out := make([]byte, 0, len(hrp)*2+1)
	for i := 0; i < len(hrp); i++ {
		out = append(out, hrp[i]>>5)
	}
	out = append(out, 0)
	for i := 0; i < len(hrp); i++ {
		out = append(out, hrp[i]&31)
	}
	return out
}

func checksumConst(variant Variant) uint32 {
	if variant == VariantBech32m {
		return bech32mConst
	}
	return bech32Const
}

// createChecksum computes the six 5-bit checksum symbols for the given HRP,
// data and variant.
func createChecksum(hrp string, data []byte, variant Variant) []byte {
	values := append(hrpExpand(hrp), data...)
	values = append(values, 0, 0, 0, 0, 0, 0)
	mod := polymod(values) ^ checksumConst(variant)
	out := make([]byte, 6)
	for i := 0; i < 6; i++ {
		out[i] = byte(mod >> uint(5*(5-i)) & 31)
	}
	return out
}

func verifyChecksum(hrp string, data []byte, variant Variant) bool {
	return polymod(append(hrpExpand(hrp), data...)) == checksumConst(variant)
}

func validHRP(hrp string) bool {
	if len(hrp) < 1 || len(hrp) > 83 {
		return false
	}
	for i := 0; i < len(hrp); i++ {
		if hrp[i] < 33 || hrp[i] > 126 {
			return false
		}
	}
	return true
}

// Encode produces a Bech32 string from an HRP and a sequence of 5-bit
// groups. The HRP is lowercased in the output.
func Encode(hrp string, data []byte) (string, error) {
	return encode(hrp, data, VariantBech32)
}

// EncodeM is Encode with the Bech32m checksum constant.
func EncodeM(hrp string, data []byte) (string, error) {
	return encode(hrp, data, VariantBech32m)
}

func encode(hrp string, data []byte, variant Variant) (string, error) {
	if !validHRP(hrp) {
		return "", ErrInvalidHRP
	}
	if len(hrp)+1+len(data)+6 > maxLength {
		return "", ErrInvalidLength
	}
	for _, v := range data {
		if v >= 32 {
			return "", fmt.Errorf("%w: 5-bit group out of range", ErrInvalidCharacter)
		}
	}

	hrp = strings.ToLower(hrp)
	var sb strings.Builder
	sb.Grow(len(hrp) + 1 + len(data) + 6)
	sb.WriteString(hrp)
	sb.WriteByte('1')
	for _, v := range data {
		sb.WriteByte(charset[v])
	}
	for _, v := range createChecksum(hrp, data, variant) {
		sb.WriteByte(charset[v])
	}
	return sb.String(), nil
}

// Decode parses a Bech32 or Bech32m string, returning the HRP, the 5-bit
// data groups (checksum stripped) and the variant whose checksum matched.
// Mixed-case strings, strings without a separator and strings whose
// recomputed checksum does not match are rejected.
func Decode(text string) (string, []byte, Variant, error) {
	if len(text) > maxLength {
		return "", nil, 0, ErrInvalidLength
	}
	if strings.ToLower(text) != text && strings.ToUpper(text) != text {
		return "", nil, 0, ErrMixedCase
	}
	text = strings.ToLower(text)

	sep := strings.LastIndexByte(text, '1')
	if sep == -1 {
		return "", nil, 0, ErrNoSeparator
	}
	hrp := text[:sep]
	if !validHRP(hrp) {
		return "", nil, 0, ErrInvalidHRP
	}
	if len(text)-sep-1 < 6 {
		return "", nil, 0, ErrInvalidLength
	}

	data := make([]byte, 0, len(text)-sep-1)
	for i := sep + 1; i < len(text); i++ {
		v := charsetRev[text[i]]
		if v == 0xFF {
			return "", nil, 0, ErrInvalidCharacter
		}
		data = append(data, v)
	}

	var variant Variant
	switch {
	case verifyChecksum(hrp, data, VariantBech32):
		variant = VariantBech32
	case verifyChecksum(hrp, data, VariantBech32m):
		variant = VariantBech32m
	default:
		return "", nil, 0, ErrChecksum
	}
	return hrp, data[:len(data)-6], variant, nil
}

// ConvertBits re-groups data from fromBits-wide to toBits-wide groups. With
// pad set, leftover bits are flushed zero-padded (the encode direction);
// without pad, leftover bits must be exactly zero or the conversion fails
// (the decode direction).
func ConvertBits(data []byte, fromBits, toBits uint8, pad bool) ([]byte, error) {
	if fromBits < 1 || fromBits > 8 || toBits < 1 || toBits > 8 {
		return nil, fmt.Errorf("bech32: bit group size out of range")
	}

	var acc uint32
	var bits uint8
	maxv := uint32(1)<<toBits - 1
	out := make([]byte, 0, (len(data)*int(fromBits)+int(toBits)-1)/int(toBits))

	for _, b := range data {
		if uint32(b)>>fromBits != 0 {
			return nil, fmt.Errorf("%w: value exceeds source width", ErrInvalidCharacter)
		}
		acc = acc<<fromBits | uint32(b)
		bits += fromBits
		for bits >= toBits {
			bits -= toBits
			out = append(out, byte(acc>>bits&maxv))
		}
	}

	if pad {
		if bits > 0 {
			out = append(out, byte(acc<<(toBits-bits)&maxv))
		}
	} else if bits >= fromBits || acc<<(toBits-bits)&maxv != 0 {
		return nil, ErrInvalidPadding
	}
	return out, nil
}
