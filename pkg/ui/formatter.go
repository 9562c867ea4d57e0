package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

const (
	// BoxWidth is the standard width for display boxes
	BoxWidth = 80
)

// ColorScheme defines a set of colors for consistent UI formatting
type ColorScheme struct {
	Header   *color.Color // For box borders and section headers
	Title    *color.Color // For main titles
	Subtitle *color.Color // For section titles
	Normal   *color.Color // For normal text
	Param    *color.Color // For parameter names
	Path     *color.Color // For derivation paths
	Address  *color.Color // For derived addresses
	Chain    *color.Color // For chain names
	Result   *color.Color // For result messages
	Key      *color.Color // For key and mnemonic material
	Example  *color.Color // For example commands
	Success  *color.Color // For success messages (valid checks)
	Error    *color.Color // For error messages (failed checks)
}

// DefaultColorScheme returns the default color scheme for the application
func DefaultColorScheme() *ColorScheme {
	return &ColorScheme{
		Header:   color.New(color.FgBlue, color.Bold),
		Title:    color.New(color.FgHiWhite, color.Bold),
		Subtitle: color.New(color.FgBlue),
		Normal:   color.New(color.FgWhite),
		Param:    color.New(color.FgCyan),
		Path:     color.New(color.FgCyan),
		Address:  color.New(color.FgGreen),
		Chain:    color.New(color.FgHiWhite, color.Bold),
		Result:   color.New(color.FgBlue),
		Key:      color.New(color.FgHiCyan),
		Example:  color.New(color.FgGreen),
		Success:  color.New(color.FgGreen, color.Bold),
		Error:    color.New(color.FgRed),
	}
}

// PrintHeader prints a formatted header box with the given title
func PrintHeader(cs *ColorScheme, title string) {
	padding := BoxWidth - 4 - len(title) // 4 is for "│  " and "│"

	fmt.Println()
	cs.Header.Println("╭─────────────────────────────────────────────────────────────────────────────╮")
	cs.Header.Printf("│  ")
	cs.Title.Print(title)
	cs.Header.Printf("%s│\n", strings.Repeat(" ", padding))
	cs.Header.Println("╰─────────────────────────────────────────────────────────────────────────────╯")
	fmt.Println()
}

// PrintFooter prints a formatted footer box with the given message
func PrintFooter(cs *ColorScheme, message string) {
	// If message is too long, truncate it
	if len(message) > BoxWidth-6 { // Allow 6 chars for "│  " and " │"
		message = message[:BoxWidth-9] + "..."
	}

	padding := BoxWidth - 4 - len(message)
	if padding < 0 {
		padding = 0
	}

	fmt.Println()
	cs.Header.Println("╭──────────────────────────────────────────────────────────────────────────────╮")
	cs.Header.Printf("│  ")
	cs.Result.Print(message)
	cs.Header.Printf("%s│\n", strings.Repeat(" ", padding))
	cs.Header.Println("╰──────────────────────────────────────────────────────────────────────────────╯")
	fmt.Println()
}

// PrintOption prints a command line option with description
func PrintOption(cs *ColorScheme, flag, description string) {
	cs.Normal.Print("  ")
	cs.Param.Print(flag)
	cs.Normal.Println(description)
}

// PrintExample prints a usage example
func PrintExample(cs *ColorScheme, example, description string) {
	cs.Example.Printf("  %s", example)
	if description != "" {
		cs.Example.Printf("  # %s", description)
	}
	fmt.Println()
}

// PrintSectionHeader prints a section header
func PrintSectionHeader(cs *ColorScheme, title string) {
	cs.Subtitle.Println(title)
}

// PrintField prints an aligned label/value pair
func PrintField(cs *ColorScheme, label, value string) {
	cs.Param.Printf("  %-12s", label)
	cs.Normal.Println(value)
}

// PrintAccount prints one derived account block
func PrintAccount(cs *ColorScheme, chainName, path, address, publicKey string) {
	cs.Chain.Printf("%s\n", chainName)
	cs.Param.Printf("  %-12s", "Path")
	cs.Path.Println(path)
	cs.Param.Printf("  %-12s", "Address")
	cs.Address.Println(address)
	if publicKey != "" {
		cs.Param.Printf("  %-12s", "Public key")
		cs.Key.Println(publicKey)
	}
	fmt.Println()
}
