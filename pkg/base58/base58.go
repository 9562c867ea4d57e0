// Package base58 implements the 58-character text encoding used for legacy
// addresses, WIF keys and BIP-32 extended keys, together with the
// checksummed Base58Check layer on top of it.
package base58

import (
	"errors"
	"math/big"
)

// Alphabet is the standard Base58 alphabet. It deliberately excludes the
// visually ambiguous characters 0, O, I and l.
const Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

var (
	ErrInvalidCharacter = errors.New("base58: invalid character")
	ErrChecksum         = errors.New("base58: checksum mismatch")
	ErrInvalidFormat    = errors.New("base58: payload too short")
)

// decodeTable maps an ASCII byte to its alphabet index, or 0xFF when the
// byte is not part of the alphabet.
var decodeTable [256]byte

func init() {
	for i := range decodeTable {
		decodeTable[i] = 0xFF
	}
	for i := 0; i < len(Alphabet); i++ {
		decodeTable[Alphabet[i]] = byte(i)
	}
}

var bigRadix = big.NewInt(58)

// Encode converts input to its Base58 text form. Each leading zero byte
// maps to exactly one leading '1' character; the big-integer conversion
// below would otherwise collapse them.
func Encode(input []byte) string {
	zeros := 0
	for zeros < len(input) && input[zeros] == 0 {
		zeros++
	}

	n := new(big.Int).SetBytes(input[zeros:])
	mod := new(big.Int)

	// Worst case expansion is log(256)/log(58) ≈ 1.37 characters per byte.
	out := make([]byte, 0, zeros+(len(input)-zeros)*137/100+1)
	for n.Sign() > 0 {
		n.DivMod(n, bigRadix, mod)
		out = append(out, Alphabet[mod.Int64()])
	}
	for i := 0; i < zeros; i++ {
		out = append(out, Alphabet[0])
	}

	// Digits were produced least significant first.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return string(out)
}

// Decode converts Base58 text back to bytes, restoring one leading zero
// byte per leading '1' character. Any character outside the alphabet fails
// with ErrInvalidCharacter.
func Decode(text string) ([]byte, error) {
	zeros := 0
	for zeros < len(text) && text[zeros] == Alphabet[0] {
		zeros++
	}

	n := new(big.Int)
	for i := zeros; i < len(text); i++ {
		digit := decodeTable[text[i]]
		if digit == 0xFF {
			return nil, ErrInvalidCharacter
		}
		n.Mul(n, bigRadix)
		n.Add(n, big.NewInt(int64(digit)))
	}

	numBytes := n.Bytes()
	out := make([]byte, zeros+len(numBytes))
	copy(out[zeros:], numBytes)
	return out, nil
}
