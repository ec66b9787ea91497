package theme

import "github.com/charmbracelet/lipgloss"

// Styles are the lipgloss styles the reader draws with.
type Styles struct {
	Header      lipgloss.Style
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Card        lipgloss.Style
	Reference   lipgloss.Style
	VerseText   lipgloss.Style
	Badge       lipgloss.Style
	BadgeOK     lipgloss.Style
	BadgeError  lipgloss.Style
	Help        lipgloss.Style
	Error       lipgloss.Style
	Toast       lipgloss.Style
	QuickVerse  lipgloss.Style
	Highlight   lipgloss.Style
	WalletPanel lipgloss.Style
}

// NewStyles builds the styles for t. width bounds the verse card.
func NewStyles(t Theme, width int) Styles {
	cardWidth := width - 4
	if cardWidth > 80 {
		cardWidth = 80
	}
	if cardWidth < 20 {
		cardWidth = 20
	}

	badge := lipgloss.NewStyle().Padding(0, 1).Bold(true)

	return Styles{
		Header: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Border),
		Title:    lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		Subtitle: lipgloss.NewStyle().Foreground(t.Muted),
		Card: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderActive).
			Padding(1, 2).
			Width(cardWidth),
		Reference:   lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		VerseText:   lipgloss.NewStyle().Foreground(t.Primary).Width(cardWidth - 6),
		Badge:       badge.Foreground(t.Background).Background(t.Secondary),
		BadgeOK:     badge.Foreground(t.Background).Background(t.Success),
		BadgeError:  badge.Foreground(t.Background).Background(t.Error),
		Help:        lipgloss.NewStyle().Foreground(t.Muted),
		Error:       lipgloss.NewStyle().Foreground(t.Error).Bold(true),
		Toast:       lipgloss.NewStyle().Foreground(t.Success),
		QuickVerse:  lipgloss.NewStyle().Foreground(t.Secondary),
		Highlight:   lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
		WalletPanel: lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(t.Border).Padding(0, 1),
	}
}
