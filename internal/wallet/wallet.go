// Package wallet derives chain-specific accounts and addresses from a
// BIP-39 mnemonic, tying the generic key derivation in pkg/hdkeys to the
// address encodings each chain uses.
package wallet

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg"

	"github.com/grendel/walletcore/pkg/base58"
	"github.com/grendel/walletcore/pkg/bech32"
	"github.com/grendel/walletcore/pkg/hashes"
	"github.com/grendel/walletcore/pkg/hdkeys"
)

var ErrUnknownChain = errors.New("wallet: unknown chain")

// AddressFormat selects how a derived public key becomes an address.
type AddressFormat int

const (
	// FormatP2PKH is the Base58Check pay-to-pubkey-hash form.
	FormatP2PKH AddressFormat = iota
	// FormatP2WPKH is the native SegWit bech32 form.
	FormatP2WPKH
	// FormatEthereum is the 0x-prefixed EIP-55 checksummed form.
	FormatEthereum
	// FormatBech32Hash160 is the Cosmos-style bech32 wrapping of
	// HASH160 of the compressed public key.
	FormatBech32Hash160
)

// Chain describes one derivable chain: its BIP-44 coordinates and the
// address encoding its accounts use.
type Chain struct {
	Name     string
	Symbol   string
	Purpose  uint32 // BIP-43 purpose: 44 for legacy, 84 for native SegWit
	CoinType uint32 // BIP-44 registered coin type
	Format   AddressFormat

	pubKeyHashID byte   // Base58Check version for FormatP2PKH
	hrp          string // human-readable part for the bech32 formats
}

// Supported chains. Bitcoin appears twice because its legacy and native
// SegWit accounts live under different purposes.
var chains = []Chain{
	{
		Name: "bitcoin", Symbol: "BTC", Purpose: 44, CoinType: 0,
		Format:       FormatP2PKH,
		pubKeyHashID: chaincfg.MainNetParams.PubKeyHashAddrID,
	},
	{
		Name: "bitcoin-segwit", Symbol: "BTC", Purpose: 84, CoinType: 0,
		Format: FormatP2WPKH,
		hrp:    chaincfg.MainNetParams.Bech32HRPSegwit,
	},
	{
		Name: "litecoin", Symbol: "LTC", Purpose: 44, CoinType: 2,
		Format:       FormatP2PKH,
		pubKeyHashID: 0x30,
	},
	{
		Name: "ethereum", Symbol: "ETH", Purpose: 44, CoinType: 60,
		Format: FormatEthereum,
	},
	{
		Name: "cosmos", Symbol: "ATOM", Purpose: 44, CoinType: 118,
		Format: FormatBech32Hash160,
		hrp:    "cosmos",
	},
}

// Chains returns the supported chains in registration order.
func Chains() []Chain {
	out := make([]Chain, len(chains))
	copy(out, chains)
	return out
}

// ChainByName finds a chain by its registry name, case-insensitively.
func ChainByName(name string) (Chain, error) {
	for _, c := range chains {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return Chain{}, fmt.Errorf("%w: %q", ErrUnknownChain, name)
}

// Account is one derived address with the material needed to audit it.
type Account struct {
	Chain     Chain
	Path      string
	Address   string
	PublicKey string // compressed public key, hex
}

// DeriveAccount derives the address at m/purpose'/coin'/account'/0/index
// below the given master key.
func DeriveAccount(master *hdkeys.ExtendedKey, chain Chain, account, index uint32) (Account, error) {
	path := fmt.Sprintf("m/%d'/%d'/%d'/0/%d", chain.Purpose, chain.CoinType, account, index)

	key, err := master.DerivePath(path)
	if err != nil {
		return Account{}, fmt.Errorf("wallet: deriving %s: %w", path, err)
	}
	pub, err := key.ECPubKey()
	if err != nil {
		return Account{}, fmt.Errorf("wallet: %s: %w", path, err)
	}

	addr, err := chain.Address(pub)
	if err != nil {
		return Account{}, err
	}
	return Account{
		Chain:     chain,
		Path:      path,
		Address:   addr,
		PublicKey: hex.EncodeToString(pub.SerializeCompressed()),
	}, nil
}

// DeriveFromMnemonic is the mnemonic-to-address convenience path: it
// stretches the mnemonic into a seed, builds the master key and derives
// one account per supported chain at the given index.
func DeriveFromMnemonic(mnemonic, passphrase string, index uint32) ([]Account, error) {
	if !hdkeys.ValidateMnemonic(mnemonic) {
		return nil, hdkeys.ErrInvalidMnemonic
	}

	master, err := hdkeys.NewMaster(hdkeys.Seed(mnemonic, passphrase), hdkeys.MainNetVersions)
	if err != nil {
		return nil, err
	}

	accounts := make([]Account, 0, len(chains))
	for _, chain := range chains {
		account, err := DeriveAccount(master, chain, 0, index)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}

// Address encodes a public key in the chain's address format.
func (c Chain) Address(pub *btcec.PublicKey) (string, error) {
	switch c.Format {
	case FormatP2PKH:
		return base58.CheckEncode(c.pubKeyHashID, hashes.Hash160(pub.SerializeCompressed())), nil

	case FormatP2WPKH:
		return bech32.EncodeSegWit(c.hrp, 0, hashes.Hash160(pub.SerializeCompressed()))

	case FormatEthereum:
		return ethereumAddress(pub), nil

	case FormatBech32Hash160:
		return bech32.EncodeWithHRP(c.hrp, hashes.Hash160(pub.SerializeCompressed()))

	default:
		return "", fmt.Errorf("%w: address format %d", ErrUnknownChain, c.Format)
	}
}

// ethereumAddress hashes the uncompressed public key point and keeps the
// low 20 bytes, rendered with the EIP-55 mixed-case checksum.
func ethereumAddress(pub *btcec.PublicKey) string {
	raw := pub.SerializeUncompressed()
	return checksummedHex(hashes.Keccak256(raw[1:])[12:])
}

// checksummedHex renders addr per EIP-55: each hex letter is uppercased
// when the corresponding nibble of keccak256 of the lowercase address is
// 8 or more.
func checksummedHex(addr []byte) string {
	lower := hex.EncodeToString(addr)
	digest := hashes.Keccak256([]byte(lower))

	out := []byte(lower)
	for i, ch := range out {
		if ch < 'a' || ch > 'f' {
			continue
		}
		nibble := digest[i/2] >> 4
		if i%2 == 1 {
			nibble = digest[i/2] & 0x0f
		}
		if nibble >= 8 {
			out[i] = ch - ('a' - 'A')
		}
	}
	return "0x" + string(out)
}
