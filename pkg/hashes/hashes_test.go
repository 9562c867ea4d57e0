package hashes

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func fromHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

// TestShaVectors pins the SHA-2 wrappers against FIPS 180 test vectors.
func TestShaVectors(t *testing.T) {
	require.Equal(t,
		fromHex(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"),
		Sha256(nil))
	require.Equal(t,
		fromHex(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"),
		Sha256([]byte("abc")))
	require.Equal(t,
		fromHex(t, "ddaf35a193617abacc417349ae20413112e6fa4e89a97ea20a9eeee64b55d39a"+
			"2192992a274fc1a836ba3c23a3feebbd454d4423643ce80e2a9ac94fa54ca49f"),
		Sha512([]byte("abc")))
}

func TestDoubleSha256(t *testing.T) {
	inner := Sha256([]byte("hello"))
	require.Equal(t, Sha256(inner), DoubleSha256([]byte("hello")))
}

// TestHmacVectors uses RFC 4231 test case 2 (short key, short data).
func TestHmacVectors(t *testing.T) {
	key := []byte("Jefe")
	data := []byte("what do ya want for nothing?")

	require.Equal(t,
		fromHex(t, "5bdcc146bf60754e6a042426089575c75a003f089d2739839dec58b964ec3843"),
		HmacSha256(key, data))
	require.Equal(t,
		fromHex(t, "164b7a7bfcf819e2e395fbe73b56e0a387bd64222e831fd610270cd7ea250554"+
			"9758bf75c05a994a6d034f65f8f0e6fdcaeab1a34d4a6b4b636e070a38bce737"),
		HmacSha512(key, data))
}

func TestRipemd160Vectors(t *testing.T) {
	require.Equal(t,
		fromHex(t, "9c1185a5c5e9fc54612808977ee8f548b2258d31"),
		Ripemd160(nil))
	require.Equal(t,
		fromHex(t, "8eb208f7e05d987a9b044a8e98c6b087f15a0bfc"),
		Ripemd160([]byte("abc")))
}

func TestHash160(t *testing.T) {
	data := []byte("walletcore")
	require.Equal(t, Ripemd160(Sha256(data)), Hash160(data))
	require.Len(t, Hash160(data), 20)
}

func TestKeccak256Vector(t *testing.T) {
	// Keccak-256 of the empty string, the hash every Ethereum tool agrees on.
	require.Equal(t,
		fromHex(t, "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"),
		Keccak256())
}

func TestPbkdf2Sha512(t *testing.T) {
	out := Pbkdf2Sha512([]byte("password"), []byte("salt"), 2048, 64)
	require.Len(t, out, 64)

	// Deterministic across calls.
	again := Pbkdf2Sha512([]byte("password"), []byte("salt"), 2048, 64)
	require.Equal(t, out, again)

	// Salt-sensitive.
	other := Pbkdf2Sha512([]byte("password"), []byte("pepper"), 2048, 64)
	require.NotEqual(t, out, other)
}
