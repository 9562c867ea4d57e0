package wallet

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/grendel/walletcore/pkg/base58"
	"github.com/grendel/walletcore/pkg/bech32"
)

var ErrUnrecognizedAddress = errors.New("wallet: unrecognized address")

// Identified is the result of classifying an address string: the chain it
// belongs to and the raw payload carried inside the encoding.
type Identified struct {
	Chain   Chain
	Payload []byte // HASH160, witness program or the raw 20 Ethereum bytes
}

// IdentifyAddress classifies an address string against the chain table,
// verifying whichever checksum its encoding carries.
func IdentifyAddress(addr string) (Identified, error) {
	addr = strings.TrimSpace(addr)

	if strings.HasPrefix(addr, "0x") || strings.HasPrefix(addr, "0X") {
		return identifyEthereum(addr)
	}

	// Base58Check pay-to-pubkey-hash.
	if version, payload, err := base58.CheckDecode(addr); err == nil {
		for _, c := range chains {
			if c.Format == FormatP2PKH && c.pubKeyHashID == version && len(payload) == 20 {
				return Identified{Chain: c, Payload: payload}, nil
			}
		}
		return Identified{}, fmt.Errorf("%w: base58 version 0x%02x", ErrUnrecognizedAddress, version)
	}

	// SegWit, then plain bech32-wrapped HASH160.
	if hrp, _, program, err := bech32.DecodeSegWit(addr); err == nil {
		for _, c := range chains {
			if c.Format == FormatP2WPKH && c.hrp == hrp {
				return Identified{Chain: c, Payload: program}, nil
			}
		}
		return Identified{}, fmt.Errorf("%w: segwit hrp %q", ErrUnrecognizedAddress, hrp)
	}
	for _, c := range chains {
		if c.Format != FormatBech32Hash160 {
			continue
		}
		if payload, err := bech32.DecodeWithHRP(c.hrp, addr); err == nil && len(payload) == 20 {
			return Identified{Chain: c, Payload: payload}, nil
		}
	}

	return Identified{}, ErrUnrecognizedAddress
}

// identifyEthereum validates a 0x address, enforcing the EIP-55 checksum
// whenever the hex is mixed-case. All-lower and all-upper forms carry no
// checksum and pass on shape alone.
func identifyEthereum(addr string) (Identified, error) {
	body := addr[2:]
	if len(body) != 40 {
		return Identified{}, fmt.Errorf("%w: ethereum address needs 40 hex chars", ErrUnrecognizedAddress)
	}
	raw, err := hex.DecodeString(body)
	if err != nil {
		return Identified{}, fmt.Errorf("%w: %s", ErrUnrecognizedAddress, addr)
	}

	hasLower := strings.ContainsAny(body, "abcdef")
	hasUpper := strings.ContainsAny(body, "ABCDEF")
	if hasLower && hasUpper && checksummedHex(raw) != "0x"+body {
		return Identified{}, fmt.Errorf("%w: bad EIP-55 checksum", ErrUnrecognizedAddress)
	}

	eth, err := ChainByName("ethereum")
	if err != nil {
		return Identified{}, err
	}
	return Identified{Chain: eth, Payload: raw}, nil
}
