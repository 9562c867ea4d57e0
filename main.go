package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/grendel/walletcore/internal/cli"
	"github.com/grendel/walletcore/internal/wallet"
	"github.com/grendel/walletcore/pkg/abi"
	"github.com/grendel/walletcore/pkg/hdkeys"
	"github.com/grendel/walletcore/pkg/ui"
)

func main() {
	// Define command line flags
	generate := flag.Bool("generate", false, "Generate a new mnemonic and derive addresses")
	bits := flag.Int("bits", 128, "Entropy size for -generate (128..256 in steps of 32)")
	mnemonic := flag.String("mnemonic", "", "Derive addresses from an existing mnemonic")
	passphrase := flag.String("passphrase", "", "Optional BIP-39 passphrase")
	chainName := flag.String("chain", "", "Restrict derivation to one chain")
	index := flag.Uint("index", 0, "Address index to derive")
	decode := flag.String("decode", "", "Identify and validate an address string")
	selector := flag.String("selector", "", "Print the 4-byte selector of a function signature")
	help := flag.Bool("help", false, "Display help information")

	// Parse the flags
	flag.Parse()

	// Initialize color scheme for consistent formatting
	cs := ui.DefaultColorScheme()

	// Check if no arguments or help flag is provided
	if len(os.Args) == 1 || *help {
		cli.DisplayHelp(cs)
		return
	}

	switch {
	case *selector != "":
		runSelector(cs, *selector)
	case *decode != "":
		runDecode(cs, *decode)
	case *generate:
		phrase, err := newMnemonic(*bits)
		if err != nil {
			log.Fatalf("Generate error: %v", err)
		}
		runDerive(cs, phrase, *passphrase, *chainName, uint32(*index), true)
	case *mnemonic != "":
		runDerive(cs, *mnemonic, *passphrase, *chainName, uint32(*index), false)
	default:
		cli.DisplayHelp(cs)
	}
}

// newMnemonic draws fresh entropy and encodes it as a mnemonic sentence.
func newMnemonic(bits int) (string, error) {
	entropy, err := hdkeys.NewEntropy(bits)
	if err != nil {
		return "", err
	}
	return hdkeys.NewMnemonic(entropy)
}

// runDerive prints the accounts derived from a mnemonic, optionally
// restricted to one chain. showMnemonic is set for freshly generated
// wallets so the user can record the sentence.
func runDerive(cs *ui.ColorScheme, mnemonic, passphrase, chainName string, index uint32, showMnemonic bool) {
	ui.PrintHeader(cs, "Walletcore - Derived Accounts")

	if showMnemonic {
		cs.Result.Print("Mnemonic: ")
		cs.Key.Println(mnemonic)
		cs.Normal.Println("Write this sentence down; it is the only backup of the wallet.")
		fmt.Println()
	}

	if !hdkeys.ValidateMnemonic(mnemonic) {
		log.Fatalf("Derivation error: %v", hdkeys.ErrInvalidMnemonic)
	}
	master, err := hdkeys.NewMaster(hdkeys.Seed(mnemonic, passphrase), hdkeys.MainNetVersions)
	if err != nil {
		log.Fatalf("Derivation error: %v", err)
	}

	chains := wallet.Chains()
	if chainName != "" {
		chain, err := wallet.ChainByName(chainName)
		if err != nil {
			log.Fatalf("Derivation error: %v", err)
		}
		chains = []wallet.Chain{chain}
	}

	for _, chain := range chains {
		account, err := wallet.DeriveAccount(master, chain, 0, index)
		if err != nil {
			log.Fatalf("Derivation error (%s): %v", chain.Name, err)
		}
		ui.PrintAccount(cs, account.Chain.Name, account.Path, account.Address, account.PublicKey)
	}

	ui.PrintFooter(cs, fmt.Sprintf("Derived %d account(s) at index %d", len(chains), index))
}

// runDecode classifies an address string and reports what it carries.
func runDecode(cs *ui.ColorScheme, addr string) {
	ui.PrintHeader(cs, "Walletcore - Address Check")

	identified, err := wallet.IdentifyAddress(addr)
	if err != nil {
		cs.Error.Printf("Invalid address: %v\n", err)
		os.Exit(1)
	}

	cs.Success.Println("Address is valid")
	ui.PrintField(cs, "Chain", identified.Chain.Name)
	ui.PrintField(cs, "Symbol", identified.Chain.Symbol)
	ui.PrintField(cs, "Payload", hex.EncodeToString(identified.Payload))
}

// runSelector prints the selector of a canonicalized function signature.
func runSelector(cs *ui.ColorScheme, sig string) {
	sel, err := abi.Selector(sig)
	if err != nil {
		log.Fatalf("Selector error: %v", err)
	}
	cs.Result.Print("Selector: ")
	cs.Key.Printf("0x%s\n", hex.EncodeToString(sel[:]))
}
