// Package hdkeys implements hierarchical deterministic wallet keys:
// BIP-39 mnemonic sentences, BIP-32 extended key derivation and BIP-44
// style derivation paths.
package hdkeys

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/tyler-smith/go-bip39/wordlists"

	"github.com/grendel/walletcore/pkg/hashes"
)

var (
	ErrInvalidEntropy  = errors.New("hdkeys: entropy must be 16, 20, 24, 28 or 32 bytes")
	ErrInvalidMnemonic = errors.New("hdkeys: invalid mnemonic")
	ErrChecksumWord    = errors.New("hdkeys: mnemonic checksum mismatch")
)

const (
	// wordBits is the number of entropy+checksum bits one mnemonic word
	// carries.
	wordBits = 11

	seedIterations = 2048
	seedLength     = 64
	seedSaltPrefix = "mnemonic"
)

// wordIndex maps each English wordlist entry back to its 11-bit value.
var wordIndex = func() map[string]int {
	m := make(map[string]int, len(wordlists.English))
	for i, w := range wordlists.English {
		m[w] = i
	}
	return m
}()

// NewEntropy returns cryptographically random entropy of the given bit
// size. Valid sizes are 128, 160, 192, 224 and 256.
func NewEntropy(bits int) ([]byte, error) {
	if bits < 128 || bits > 256 || bits%32 != 0 {
		return nil, ErrInvalidEntropy
	}
	entropy := make([]byte, bits/8)
	if _, err := rand.Read(entropy); err != nil {
		return nil, fmt.Errorf("hdkeys: reading entropy: %w", err)
	}
	return entropy, nil
}

// NewMnemonic encodes entropy as a BIP-39 mnemonic sentence. The checksum
// is the first len(entropy)*8/32 bits of SHA256(entropy), appended before
// the bits are cut into 11-bit word indices.
func NewMnemonic(entropy []byte) (string, error) {
	bits := len(entropy) * 8
	if bits < 128 || bits > 256 || bits%32 != 0 {
		return "", ErrInvalidEntropy
	}
	checksumBits := bits / 32
	wordCount := (bits + checksumBits) / wordBits

	// Assemble entropy followed by the checksum bits into one big integer,
	// then peel off 11 bits per word from the low end.
	v := new(big.Int).SetBytes(entropy)
	v.Lsh(v, uint(checksumBits))
	checksum := hashes.Sha256(entropy)[0] >> (8 - checksumBits)
	v.Or(v, big.NewInt(int64(checksum)))

	mask := big.NewInt(1<<wordBits - 1)
	words := make([]string, wordCount)
	scratch := new(big.Int)
	for i := wordCount - 1; i >= 0; i-- {
		scratch.And(v, mask)
		words[i] = wordlists.English[scratch.Uint64()]
		v.Rsh(v, wordBits)
	}
	return strings.Join(words, " "), nil
}

// MnemonicToEntropy reverses NewMnemonic, verifying both the wordlist
// membership of every word and the checksum bits.
func MnemonicToEntropy(mnemonic string) ([]byte, error) {
	words := strings.Fields(mnemonic)
	if len(words) < 12 || len(words) > 24 || len(words)%3 != 0 {
		return nil, fmt.Errorf("%w: %d words", ErrInvalidMnemonic, len(words))
	}

	v := new(big.Int)
	for _, w := range words {
		idx, ok := wordIndex[w]
		if !ok {
			return nil, fmt.Errorf("%w: unknown word %q", ErrInvalidMnemonic, w)
		}
		v.Lsh(v, wordBits)
		v.Or(v, big.NewInt(int64(idx)))
	}

	totalBits := len(words) * wordBits
	checksumBits := totalBits / 33
	entropyBytes := (totalBits - checksumBits) / 8

	checksum := new(big.Int).And(v, big.NewInt(int64(1)<<checksumBits-1))
	v.Rsh(v, uint(checksumBits))

	entropy := make([]byte, entropyBytes)
	v.FillBytes(entropy)

	want := hashes.Sha256(entropy)[0] >> (8 - checksumBits)
	if checksum.Uint64() != uint64(want) {
		return nil, ErrChecksumWord
	}
	return entropy, nil
}

// ValidateMnemonic reports whether the sentence is a well-formed BIP-39
// mnemonic with a correct checksum.
func ValidateMnemonic(mnemonic string) bool {
	_, err := MnemonicToEntropy(mnemonic)
	return err == nil
}

// Seed stretches a mnemonic sentence into the 64-byte wallet seed using
// PBKDF2-HMAC-SHA512 with 2048 iterations and the salt "mnemonic" followed
// by the passphrase. The mnemonic is not validated; per BIP-39 any string
// stretches to a seed.
func Seed(mnemonic, passphrase string) []byte {
	return hashes.Pbkdf2Sha512(
		[]byte(mnemonic),
		[]byte(seedSaltPrefix+passphrase),
		seedIterations,
		seedLength,
	)
}
