package hdkeys

import (
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"

	"github.com/stretchr/testify/require"

	"github.com/grendel/walletcore/pkg/base58"
)

// bip32Seed1 is the first seed from the BIP-32 test vectors.
var bip32Seed1 = "000102030405060708090a0b0c0d0e0f"

func seed1(t *testing.T) []byte {
	t.Helper()
	seed, err := hex.DecodeString(bip32Seed1)
	require.NoError(t, err)
	return seed
}

func TestNewMasterVector1(t *testing.T) {
	master, err := NewMaster(seed1(t), MainNetVersions)
	require.NoError(t, err)

	require.True(t, master.IsPrivate())
	require.EqualValues(t, 0, master.Depth())
	require.EqualValues(t, 0, master.ChildIndex())
	require.Equal(t, [4]byte{}, master.ParentFingerprint())

	priv, err := master.ECPrivKey()
	require.NoError(t, err)
	require.Equal(t,
		"e8f32e723decf4051aefac8e2c93c9c5b214313817cdb01a1494b917c8436b35",
		hex.EncodeToString(priv.Serialize()))
	require.Equal(t,
		"873dff81c02f525623fd1fe5167eac3a55a049de3d314bb42ee227ffed37d508",
		hex.EncodeToString(master.ChainCode()))
	require.Equal(t, "3442193e", hex.EncodeToString(func() []byte {
		fp := master.Fingerprint()
		return fp[:]
	}()))
}

func TestNewMasterSeedBounds(t *testing.T) {
	_, err := NewMaster(make([]byte, 15), MainNetVersions)
	require.ErrorIs(t, err, ErrInvalidSeedLength)
	_, err = NewMaster(make([]byte, 65), MainNetVersions)
	require.ErrorIs(t, err, ErrInvalidSeedLength)
}

// The serialized form must match the reference implementation bit for bit
// across private, public, hardened and normal derivations.
func TestSerializationAgainstReference(t *testing.T) {
	seed := seed1(t)

	master, err := NewMaster(seed, MainNetVersions)
	require.NoError(t, err)
	refMaster, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	require.NoError(t, err)

	require.Equal(t, refMaster.String(), master.String())

	// BIP-32 vector 1 chain: m/0'/1/2'/2/1000000000.
	path := []uint32{
		HardenedKeyStart, 1, HardenedKeyStart + 2, 2, 1000000000,
	}
	key, refKey := master, refMaster
	for _, index := range path {
		key, err = key.Derive(index)
		require.NoError(t, err)
		refKey, err = refKey.Derive(index)
		require.NoError(t, err)

		require.Equal(t, refKey.String(), key.String())

		refNeutered, err := refKey.Neuter()
		require.NoError(t, err)
		require.Equal(t, refNeutered.String(), key.Neuter().String())
	}
}

func TestPublicDerivationMatchesPrivate(t *testing.T) {
	master, err := NewMaster(seed1(t), MainNetVersions)
	require.NoError(t, err)

	account, err := master.DerivePath("m/44'/0'/0'")
	require.NoError(t, err)

	// Deriving the normal chain from the neutered account key must land on
	// the same public keys as neutering after private derivation.
	accountPub := account.Neuter()
	for _, index := range []uint32{0, 1, 7} {
		fromPriv, err := account.Derive(index)
		require.NoError(t, err)
		fromPub, err := accountPub.Derive(index)
		require.NoError(t, err)
		require.Equal(t, fromPriv.Neuter().String(), fromPub.String())
	}
}

func TestHardenedFromPublicFails(t *testing.T) {
	master, err := NewMaster(seed1(t), MainNetVersions)
	require.NoError(t, err)

	_, err = master.Neuter().Derive(HardenedKeyStart)
	require.ErrorIs(t, err, ErrDeriveHardenedFromPub)
}

func TestParseExtendedKeyRoundTrip(t *testing.T) {
	master, err := NewMaster(seed1(t), MainNetVersions)
	require.NoError(t, err)
	child, err := master.DerivePath("m/44'/60'/0'/0/0")
	require.NoError(t, err)

	for _, key := range []*ExtendedKey{master, child, child.Neuter()} {
		parsed, err := ParseExtendedKey(key.String())
		require.NoError(t, err)
		require.Equal(t, key.String(), parsed.String())
		require.Equal(t, key.IsPrivate(), parsed.IsPrivate())
		require.Equal(t, key.Depth(), parsed.Depth())
		require.Equal(t, key.ChildIndex(), parsed.ChildIndex())
		require.Equal(t, key.ChainCode(), parsed.ChainCode())
		require.Equal(t, key.Fingerprint(), parsed.Fingerprint())
	}

	// A parsed private key still neuters to the right public form.
	parsed, err := ParseExtendedKey(child.String())
	require.NoError(t, err)
	require.Equal(t, child.Neuter().String(), parsed.Neuter().String())
}

func TestParseExtendedKeyErrors(t *testing.T) {
	_, err := ParseExtendedKey("not base58 at all!")
	require.Error(t, err)

	// Valid Base58Check, wrong payload length.
	_, err = ParseExtendedKey(base58.CheckEncodeRaw(make([]byte, 10)))
	require.ErrorIs(t, err, ErrInvalidKeyData)
}

func TestTestNetVersionPrefix(t *testing.T) {
	master, err := NewMaster(seed1(t), TestNetVersions)
	require.NoError(t, err)
	refMaster, err := hdkeychain.NewMaster(seed1(t), &chaincfg.TestNet3Params)
	require.NoError(t, err)
	require.Equal(t, refMaster.String(), master.String())
}

func TestParsePath(t *testing.T) {
	indices, err := ParsePath("m/44'/60'/0'/0/0")
	require.NoError(t, err)
	require.Equal(t, []uint32{
		HardenedKeyStart + 44, HardenedKeyStart + 60, HardenedKeyStart, 0, 0,
	}, indices)
	require.Equal(t, "m/44'/60'/0'/0/0", FormatPath(indices))

	// h and H spellings of hardened, and a path without the m prefix.
	indices2, err := ParsePath("44h/60H/0'/0/0")
	require.NoError(t, err)
	require.Equal(t, indices, indices2)

	for _, bad := range []string{"", "m//0", "m/x", "m/2147483648", "m/-1"} {
		_, err := ParsePath(bad)
		require.ErrorIs(t, err, ErrInvalidPath, bad)
	}
}
