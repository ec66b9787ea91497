package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme is a named palette for the reader.
type Theme struct {
	Key  string
	Name string

	// Text colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Muted     lipgloss.Color
	Error     lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color

	// UI element colors
	Border       lipgloss.Color
	BorderActive lipgloss.Color
	Background   lipgloss.Color
	Highlight    lipgloss.Color
}

// Available themes
var (
	CatppuccinMocha = Theme{
		Key:          "catppuccin-mocha",
		Name:         "Catppuccin Mocha",
		Primary:      lipgloss.Color("#cdd6f4"),
		Secondary:    lipgloss.Color("#a6adc8"),
		Accent:       lipgloss.Color("#f5c2e7"),
		Muted:        lipgloss.Color("#6c7086"),
		Error:        lipgloss.Color("#f38ba8"),
		Success:      lipgloss.Color("#a6e3a1"),
		Warning:      lipgloss.Color("#f9e2af"),
		Border:       lipgloss.Color("#45475a"),
		BorderActive: lipgloss.Color("#89b4fa"),
		Background:   lipgloss.Color("#313244"),
		Highlight:    lipgloss.Color("#45475a"),
	}

	CatppuccinLatte = Theme{
		Key:          "catppuccin-latte",
		Name:         "Catppuccin Latte",
		Primary:      lipgloss.Color("#4c4f69"),
		Secondary:    lipgloss.Color("#5c5f77"),
		Accent:       lipgloss.Color("#ea76cb"),
		Muted:        lipgloss.Color("#9ca0b0"),
		Error:        lipgloss.Color("#d20f39"),
		Success:      lipgloss.Color("#40a02b"),
		Warning:      lipgloss.Color("#df8e1d"),
		Border:       lipgloss.Color("#dce0e8"),
		BorderActive: lipgloss.Color("#1e66f5"),
		Background:   lipgloss.Color("#e6e9ef"),
		Highlight:    lipgloss.Color("#ccd0da"),
	}

	Dracula = Theme{
		Key:          "dracula",
		Name:         "Dracula",
		Primary:      lipgloss.Color("#f8f8f2"),
		Secondary:    lipgloss.Color("#6272a4"),
		Accent:       lipgloss.Color("#ff79c6"),
		Muted:        lipgloss.Color("#6272a4"),
		Error:        lipgloss.Color("#ff5555"),
		Success:      lipgloss.Color("#50fa7b"),
		Warning:      lipgloss.Color("#f1fa8c"),
		Border:       lipgloss.Color("#44475a"),
		BorderActive: lipgloss.Color("#bd93f9"),
		Background:   lipgloss.Color("#282a36"),
		Highlight:    lipgloss.Color("#44475a"),
	}

	RosePineMoon = Theme{
		Key:          "rosepine-moon",
		Name:         "Rosé Pine Moon",
		Primary:      lipgloss.Color("#e0def4"),
		Secondary:    lipgloss.Color("#908caa"),
		Accent:       lipgloss.Color("#ebbcba"),
		Muted:        lipgloss.Color("#6e6a86"),
		Error:        lipgloss.Color("#eb6f92"),
		Success:      lipgloss.Color("#9ccfd8"),
		Warning:      lipgloss.Color("#f6c177"),
		Border:       lipgloss.Color("#403d52"),
		BorderActive: lipgloss.Color("#c4a7e7"),
		Background:   lipgloss.Color("#2a273f"),
		Highlight:    lipgloss.Color("#393552"),
	}
)

// AllThemes returns every built-in palette in cycling order.
func AllThemes() []Theme {
	return []Theme{CatppuccinMocha, CatppuccinLatte, Dracula, RosePineMoon}
}

// Lookup finds a palette by key or display name.
func Lookup(name string) (Theme, bool) {
	for _, t := range AllThemes() {
		if strings.EqualFold(t.Key, name) || strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return Theme{}, false
}

// GetTheme is Lookup with Catppuccin Mocha as the fallback.
func GetTheme(name string) Theme {
	if t, ok := Lookup(name); ok {
		return t
	}
	return CatppuccinMocha
}

// Cycle resolves keys to the palettes the theme key steps through. Unknown
// keys are skipped; an empty result means every built-in palette.
func Cycle(keys []string) []Theme {
	var out []Theme
	for _, k := range keys {
		if t, ok := Lookup(k); ok {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return AllThemes()
	}
	return out
}

// Next returns the palette after t in cycle, wrapping around. A t outside
// cycle moves to its first entry.
func Next(t Theme, cycle []Theme) Theme {
	if len(cycle) == 0 {
		cycle = AllThemes()
	}
	for i, candidate := range cycle {
		if candidate.Key == t.Key {
			return cycle[(i+1)%len(cycle)]
		}
	}
	return cycle[0]
}
