package ui

import "github.com/charmbracelet/lipgloss"

// Color palette.
var (
	ColorSuccess   = lipgloss.Color("#00D26A") // green  — mined, supported
	ColorWarning   = lipgloss.Color("#FFB800") // yellow — pending, confirming
	ColorError     = lipgloss.Color("#FF4444") // red    — reverted, rejected
	ColorAddress   = lipgloss.Color("#00B4D8") // cyan   — addresses, hashes
	ColorValue     = lipgloss.Color("#FFFFFF") // white bold — token amounts
	ColorMeta      = lipgloss.Color("#555555") // dim gray  — block numbers, metadata
	ColorBorder    = lipgloss.Color("#1E3A5F") // dark blue — UI chrome
	ColorToken     = lipgloss.Color("#9B5DE5") // purple    — token ids, networks
	ColorHighlight = lipgloss.Color("#F15BB5") // pink      — selected rows
)

// Base styles.
var (
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StyleAddress = lipgloss.NewStyle().Foreground(ColorAddress)
	StyleValue   = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	StyleMeta    = lipgloss.NewStyle().Foreground(ColorMeta)
	StyleToken   = lipgloss.NewStyle().Foreground(ColorToken).Bold(true)

	StyleBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorHighlight).
			Bold(true).
			Underline(true)

	StyleSelected = lipgloss.NewStyle().
			Background(ColorHighlight).
			Foreground(lipgloss.Color("#000000")).
			Bold(true)

	StyleTitle = lipgloss.NewStyle().
			Foreground(ColorToken).
			Bold(true).
			MarginBottom(1)

	StyleDim = lipgloss.NewStyle().Foreground(ColorMeta)
)

// Banner returns the m1155 ASCII banner.
func Banner() string {
	art := `
  ███╗   ███╗ ██╗ ██╗███████╗███████╗
  ████╗ ████║███║███║██╔════╝██╔════╝
  ██╔████╔██║╚██║╚██║███████╗███████╗
  ██║╚██╔╝██║ ██║ ██║╚════██║╚════██║
  ██║ ╚═╝ ██║ ██║ ██║███████║███████║
  ╚═╝     ╚═╝ ╚═╝ ╚═╝╚══════╝╚══════╝`

	tagline := StyleMeta.Render("     Multi-token terminal for Arbitrum Stylus  ⚡  v" + "1.0.0")
	features := StyleMeta.Render("  ✦ ERC-1155  ✦ Capability probes  ✦ One-shot deploys")

	return StyleToken.Render(art) + "\n" + tagline + "\n" + features + "\n"
}

// Success formats a success message.
func Success(msg string) string { return StyleSuccess.Render("✓ " + msg) }

// Warn formats a warning message.
func Warn(msg string) string { return StyleWarning.Render("⚠ " + msg) }

// Err formats an error message.
func Err(msg string) string { return StyleError.Render("✗ " + msg) }

// Addr formats an address or hash.
func Addr(a string) string { return StyleAddress.Render(a) }

// Val formats a token amount.
func Val(v string) string { return StyleValue.Render(v) }

// Meta formats metadata text.
func Meta(m string) string { return StyleMeta.Render(m) }

// TokenID formats a token id.
func TokenID(id string) string { return StyleToken.Render("#" + id) }

// Hint formats a follow-up suggestion.
func Hint(msg string) string { return StyleMeta.Render("  ↳ " + msg) }

// TruncateAddr shortens an address for display: 0x1234…5678.
func TruncateAddr(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}
