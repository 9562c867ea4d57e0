package cli

import (
	"fmt"

	"github.com/grendel/walletcore/pkg/ui"
)

// DisplayHelp shows usage information for the application
func DisplayHelp(cs *ui.ColorScheme) {
	ui.PrintHeader(cs, "Walletcore - Multi-Chain Wallet Toolkit")

	ui.PrintSectionHeader(cs, "USAGE:")
	cs.Normal.Println("  walletcore [options]")
	fmt.Println()

	ui.PrintSectionHeader(cs, "OPTIONS:")
	ui.PrintOption(cs, "-generate   ", "Generate a new mnemonic and derive addresses for all chains")
	ui.PrintOption(cs, "-bits       ", "Entropy size for -generate: 128..256 in steps of 32 (default: 128)")
	ui.PrintOption(cs, "-mnemonic   ", "Derive addresses from an existing mnemonic sentence")
	ui.PrintOption(cs, "-passphrase ", "Optional BIP-39 passphrase for -generate/-mnemonic")
	ui.PrintOption(cs, "-chain      ", "Restrict derivation to one chain (e.g. ethereum, bitcoin)")
	ui.PrintOption(cs, "-index      ", "Address index to derive (default: 0)")
	ui.PrintOption(cs, "-decode     ", "Identify and validate an address string")
	ui.PrintOption(cs, "-selector   ", "Print the 4-byte selector of a function signature")
	ui.PrintOption(cs, "-help       ", "Display help information")
	fmt.Println()

	ui.PrintSectionHeader(cs, "EXAMPLES:")
	ui.PrintExample(cs, "walletcore -generate                   ", "New 12-word wallet, all chains")
	ui.PrintExample(cs, "walletcore -generate -bits 256         ", "New 24-word wallet")
	ui.PrintExample(cs, "walletcore -mnemonic \"abandon ...\"     ", "Derive from an existing mnemonic")
	ui.PrintExample(cs, "walletcore -mnemonic \"...\" -chain ethereum -index 3", "One chain, fourth address")
	ui.PrintExample(cs, "walletcore -decode bc1qw508d6qejxtd... ", "Classify and check an address")
	ui.PrintExample(cs, "walletcore -selector \"transfer(address,uint256)\"", "ERC-20 transfer selector")
	fmt.Println()

	ui.PrintSectionHeader(cs, "DESCRIPTION:")
	cs.Normal.Println("")
	cs.Normal.Println("  Walletcore derives hierarchical deterministic wallet accounts and")
	cs.Normal.Println("  validates chain addresses entirely offline:")
	cs.Normal.Println("")
	cs.Normal.Println("  • BIP-39 mnemonics (12, 15, 18, 21, or 24 words) and seeds")
	cs.Normal.Println("  • BIP-32/44 key derivation for Bitcoin, Litecoin, Ethereum, Cosmos")
	cs.Normal.Println("  • Base58Check, Bech32/Bech32m and EIP-55 address encodings")
	cs.Normal.Println("  • Contract ABI selectors and calldata encoding")
	cs.Normal.Println("")
	cs.Normal.Println("  Nothing is written to disk and no network connection is made; keys")
	cs.Normal.Println("  stay in process memory only.")
	cs.Normal.Println("")
}
