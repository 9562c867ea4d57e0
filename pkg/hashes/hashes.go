// Package hashes collects the hash and KDF primitives shared by the codec
// and key-derivation packages. Every other package in the module goes
// through these wrappers instead of importing crypto packages directly, so
// there is exactly one place where each primitive is chosen.
package hashes

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/ripemd160"
)

// Sha256 computes a single SHA-256 hash of the input
func Sha256(data []byte) []byte {
	h := sha256.Sum256(data)
	return h[:]
}

// DoubleSha256 computes SHA256(SHA256(data)), the checksum hash used by
// Base58Check and extended-key serialization
func DoubleSha256(data []byte) []byte {
	first := sha256.Sum256(data)
	second := sha256.Sum256(first[:])
	return second[:]
}

// Sha512 computes a single SHA-512 hash of the input
func Sha512(data []byte) []byte {
	h := sha512.Sum512(data)
	return h[:]
}

// HmacSha256 computes an HMAC-SHA256 MAC over data with the given key
func HmacSha256(key, data []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}

// HmacSha512 computes an HMAC-SHA512 MAC over data with the given key.
// BIP-32 master and child derivation are built on this.
func HmacSha512(key, data []byte) []byte {
	mac := hmac.New(sha512.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}

// Pbkdf2Sha512 stretches a password and salt into keyLen bytes using
// PBKDF2-HMAC-SHA512 with the given iteration count
func Pbkdf2Sha512(password, salt []byte, iterations, keyLen int) []byte {
	return pbkdf2.Key(password, salt, iterations, keyLen, sha512.New)
}

// Ripemd160 computes a RIPEMD-160 hash of the input
func Ripemd160(data []byte) []byte {
	h := ripemd160.New()
	h.Write(data)
	return h.Sum(nil)
}

// Hash160 computes RIPEMD160(SHA256(data)), the public-key hash used for
// legacy addresses and BIP-32 fingerprints
func Hash160(data []byte) []byte {
	return Ripemd160(Sha256(data))
}

// Keccak256 computes a legacy Keccak-256 hash (the pre-NIST padding used by
// Ethereum). The implementation is supplied by go-ethereum.
func Keccak256(data ...[]byte) []byte {
	return ethcrypto.Keccak256(data...)
}
