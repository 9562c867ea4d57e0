package wallet

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIdentifyAddress(t *testing.T) {
	tests := []struct {
		addr  string
		chain string
	}{
		// Genesis block coinbase address.
		{"1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa", "bitcoin"},
		{"bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4", "bitcoin-segwit"},
		{"0x9858EfFD232B4033E47d90003D41EC34EcaEda94", "ethereum"},
		{"0x9858effd232b4033e47d90003d41ec34ecaeda94", "ethereum"},
	}
	for _, tc := range tests {
		got, err := IdentifyAddress(tc.addr)
		require.NoError(t, err, tc.addr)
		require.Equal(t, tc.chain, got.Chain.Name, tc.addr)
		require.Len(t, got.Payload, 20, tc.addr)
	}
}

func TestIdentifyDerivedAddresses(t *testing.T) {
	// Every address we derive must classify back to its own chain.
	accounts, err := DeriveFromMnemonic(testMnemonic, "", 0)
	require.NoError(t, err)
	for _, a := range accounts {
		got, err := IdentifyAddress(a.Address)
		require.NoError(t, err, a.Chain.Name)
		require.Equal(t, a.Chain.Name, got.Chain.Name)
	}
}

func TestIdentifyAddressRejects(t *testing.T) {
	for _, addr := range []string{
		"",
		"notanaddress",
		// Flipped final character breaks the Base58Check checksum.
		"1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNb",
		// Mixed case with a wrong EIP-55 checksum.
		"0x9858EFFD232B4033E47d90003D41EC34EcaEda94",
		// Valid bech32, unknown hrp.
		"a12uel5l",
		"0x1234",
	} {
		_, err := IdentifyAddress(addr)
		require.ErrorIs(t, err, ErrUnrecognizedAddress, addr)
	}
}
