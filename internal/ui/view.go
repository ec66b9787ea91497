package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"verse-tui/internal/reader"
	"verse-tui/internal/reference"
	"verse-tui/internal/wallet"
)

const welcomeMarkdown = `### Start Your Journey

Search for any Bible verse or pick a popular verse to begin exploring the
scriptures. Press **/** to search or **r** for a random verse.
`

func renderWelcome(width int) string {
	wrap := width - 4
	if wrap < 20 {
		wrap = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return welcomeMarkdown
	}
	out, err := r.Render(welcomeMarkdown)
	if err != nil {
		return welcomeMarkdown
	}
	return out
}

func (m Model) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	var header string
	switch m.mode {
	case modeSearch:
		header = m.styles.Header.Render(m.styles.Title.Render("Search") + "\n" + m.textInput.View())
	default:
		title := m.styles.Title.Render("Verse Reader")
		header = m.styles.Header.Render(lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", m.walletButton()))
	}

	var footer strings.Builder
	footer.WriteString(m.quickVerses())
	footer.WriteString("\n")
	footer.WriteString(m.styles.Help.Render(m.help()))
	if m.toast != "" {
		footer.WriteString("\n")
		footer.WriteString(m.styles.Toast.Render(m.toast))
	}

	return header + "\n" + m.viewport.View() + "\n" + footer.String()
}

func (m Model) content() string {
	if m.mode == modeWallet {
		return m.walletPanel()
	}

	var sb strings.Builder
	if !m.walletState.Connected {
		sb.WriteString(m.styles.Subtitle.Render("Connect your wallet to unlock the full experience (w)"))
		sb.WriteString("\n\n")
	}

	switch {
	case m.state.Busy:
		sb.WriteString(m.spinner.View() + " Loading...")
	case m.state.Message != "":
		sb.WriteString(m.styles.Error.Render(m.state.Message))
	case m.state.Current != nil:
		sb.WriteString(m.verseCard(m.state.Current))
	default:
		sb.WriteString(m.welcome)
	}
	return sb.String()
}

func (m Model) verseCard(v *reader.Verse) string {
	title := m.styles.Reference.Render(v.RawReference)
	badge := m.styles.Badge.Render(v.Translation)
	if m.isFavorite(v) {
		title += " " + m.styles.Highlight.Render("♥")
	}

	var sb strings.Builder
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", badge))
	sb.WriteString("\n\n")
	sb.WriteString(m.styles.VerseText.Render(v.Text))
	sb.WriteString("\n\n")

	actions := []string{"s share", "f favorite"}
	if v.Navigable() {
		if _, ok := reference.Previous(*v.Ref); ok {
			actions = append(actions, "← previous")
		}
		actions = append(actions, "next →")
	}
	sb.WriteString(m.styles.Help.Render(strings.Join(actions, "  ·  ")))

	return m.styles.Card.Render(sb.String())
}

func (m Model) walletButton() string {
	if !m.walletState.Connected {
		return m.styles.Subtitle.Render("Connect Wallet (w)")
	}
	button := m.styles.Reference.Render(wallet.ShortAddress(m.walletState.Address))
	badge := wallet.Badge(m.walletState)
	if m.walletState.OnSupportedNetwork() {
		return button + " " + m.styles.BadgeOK.Render("✓ "+badge)
	}
	return button + " " + m.styles.BadgeError.Render("✗ "+badge)
}

func (m Model) walletPanel() string {
	var lines []string

	switch {
	case m.wallet == nil || !m.wallet.Configured():
		lines = append(lines,
			m.styles.Title.Render("Choose Wallet"),
			m.styles.Subtitle.Render("No wallet provider configured. Set wallet.rpc_url in the config file."))
	case !m.walletState.Connected:
		lines = append(lines,
			m.styles.Title.Render("Choose Wallet"),
			"c  connect")
	default:
		address := m.walletState.Address
		if address == "" {
			address = "(no address configured)"
		}
		lines = append(lines,
			m.styles.Title.Render("Connected Wallet"),
			address,
			"Network: "+m.walletState.Network())
		if !m.walletState.OnSupportedNetwork() {
			lines = append(lines,
				m.styles.Error.Render("Please switch to Base network"),
				"x  switch to Base")
		}
		lines = append(lines, "d  disconnect")
	}

	if m.walletBusy {
		lines = append(lines, m.spinner.View()+" Waiting for wallet...")
	}
	if m.walletErr != "" {
		lines = append(lines, m.styles.Error.Render(m.walletErr))
	}
	return m.styles.WalletPanel.Render(strings.Join(lines, "\n"))
}

func (m Model) quickVerses() string {
	if len(m.settings.QuickVerses) == 0 {
		return ""
	}
	labels := make([]string, 0, len(m.settings.QuickVerses))
	for i, ref := range m.settings.QuickVerses {
		if i >= 9 {
			break
		}
		labels = append(labels, m.styles.QuickVerse.Render(quickVerseLabel(i, ref)))
	}
	return m.styles.Subtitle.Render("Popular: ") + strings.Join(labels, "  ")
}

func (m Model) help() string {
	switch m.mode {
	case modeSearch:
		return "enter: search | esc: cancel"
	case modeWallet:
		return "c: connect | x: switch to Base | d: disconnect | esc: back"
	}
	help := "/: search | r: random | 1-9: popular | t: translation | T: theme | w: wallet | q: quit"
	if m.state.Current.Navigable() {
		help = "n/p: next/prev | " + help
	}
	return help
}
