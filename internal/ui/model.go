package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"verse-tui/internal/api"
	"verse-tui/internal/reader"
	"verse-tui/internal/reference"
	"verse-tui/internal/settings"
	"verse-tui/internal/theme"
	"verse-tui/internal/wallet"
)

type viewMode int

const (
	modeReader viewMode = iota
	modeSearch
	modeWallet
)

const defaultToastDuration = 3 * time.Second

// WalletProvider is the wallet connection the header and wallet panel show.
type WalletProvider interface {
	Configured() bool
	Connect(ctx context.Context) (wallet.State, error)
	SwitchChain(ctx context.Context, chainID uint64) (wallet.State, error)
	Disconnect()
}

// TranslationSwitcher changes the translation subsequent lookups use.
type TranslationSwitcher interface {
	Translation() string
	SetTranslation(id string)
}

type Options struct {
	Context      context.Context
	Reader       *reader.Reader
	Translations TranslationSwitcher
	Wallet       WalletProvider
	Settings     settings.Settings
	SettingsPath string
	InitialQuery string
	Clipboard    func(string) error
	Logger       *zap.Logger
}

type Model struct {
	ctx          context.Context
	reader       *reader.Reader
	translations TranslationSwitcher
	wallet       WalletProvider
	settings     settings.Settings
	settingsPath string
	initialQuery string
	copy         func(string) error
	logger       *zap.Logger

	viewport  viewport.Model
	textInput textinput.Model
	spinner   spinner.Model
	theme     theme.Theme
	themes    []theme.Theme
	styles    theme.Styles
	welcome   string

	state       reader.State
	favorites   map[string]bool
	walletState wallet.State
	walletErr   string
	walletBusy  bool

	toast         string
	toastID       int
	toastDuration time.Duration

	mode   viewMode
	width  int
	height int
	ready  bool
}

func NewModel(opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "Search for a verse (e.g., John 3:16, Romans 8:28)"
	ti.CharLimit = 80
	ti.Width = 50

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	th := theme.GetTheme(opts.Settings.Theme)
	m := Model{
		ctx:           opts.Context,
		reader:        opts.Reader,
		translations:  opts.Translations,
		wallet:        opts.Wallet,
		settings:      opts.Settings,
		settingsPath:  opts.SettingsPath,
		initialQuery:  strings.TrimSpace(opts.InitialQuery),
		copy:          opts.Clipboard,
		logger:        opts.Logger.Named("ui"),
		textInput:     ti,
		spinner:       sp,
		theme:         th,
		themes:        theme.Cycle(opts.Settings.ThemeCycle),
		styles:        theme.NewStyles(th, 80),
		favorites:     make(map[string]bool),
		toastDuration: defaultToastDuration,
		mode:          modeReader,
	}
	m.spinner.Style = m.styles.Title
	m.welcome = renderWelcome(80)
	return m
}

func (m Model) Init() tea.Cmd {
	if m.initialQuery == "" {
		return nil
	}
	return func() tea.Msg { return searchMsg{query: m.initialQuery} }
}

// searchMsg starts a lookup as if query had been submitted.
type searchMsg struct{ query string }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if next, cmd, handled := m.handleKey(msg); handled {
			return next, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		height := max(msg.Height-8, 1)

		if !m.ready {
			m.viewport = viewport.New(max(msg.Width, 1), height)
			m.ready = true
		} else {
			m.viewport.Width = max(msg.Width, 1)
			m.viewport.Height = height
		}
		m.styles = theme.NewStyles(m.theme, msg.Width)
		m.welcome = renderWelcome(msg.Width)
		m.refreshContent()

	case searchMsg:
		return m.startLookup(msg.query)

	case verseLoadedMsg:
		if msg.noop {
			m.state.Cancel(msg.seq)
			m.refreshContent()
			return m, nil
		}
		if !m.state.Resolve(msg.seq, msg.verse, msg.err, msg.failMsg) {
			m.logger.Debug("dropped stale lookup", zap.Uint64("seq", msg.seq))
			return m, nil
		}
		if msg.err != nil {
			m.logger.Warn("lookup failed", zap.Error(msg.err))
		}
		m.refreshContent()
		m.viewport.GotoTop()

	case walletMsg:
		m.walletBusy = false
		if msg.err != nil {
			m.walletErr = wallet.ErrorMessage(msg.err, msg.fallback)
			m.logger.Warn("wallet request failed", zap.Error(msg.err))
		} else {
			m.walletErr = ""
			m.walletState = msg.state
		}
		m.refreshContent()

	case clipboardMsg:
		text := "Copied to clipboard"
		if msg.err != nil {
			m.logger.Warn("copy to clipboard failed", zap.Error(msg.err))
			text = "Could not copy verse"
		}
		cmd = m.showToast(text)
		return m, cmd

	case settingsSavedMsg:
		if msg.err != nil {
			m.logger.Warn("saving settings failed", zap.Error(msg.err))
		}

	case toastExpiredMsg:
		if msg.id == m.toastID {
			m.toast = ""
		}

	case spinner.TickMsg:
		if m.state.Busy || m.walletBusy {
			m.spinner, cmd = m.spinner.Update(msg)
			m.refreshContent()
			return m, cmd
		}
		return m, nil
	}

	if m.mode == modeSearch {
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	} else if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit, true
	}

	switch m.mode {
	case modeSearch:
		switch key {
		case "enter":
			query := strings.TrimSpace(m.textInput.Value())
			if query == "" || m.state.Busy {
				return m, nil, true
			}
			m.textInput.SetValue("")
			m.textInput.Blur()
			m.mode = modeReader
			next, cmd := m.startLookup(query)
			return next.(Model), cmd, true
		case "esc":
			m.textInput.Blur()
			m.mode = modeReader
			return m, nil, true
		}
		return m, nil, false

	case modeWallet:
		switch key {
		case "esc", "w":
			m.mode = modeReader
			m.refreshContent()
			return m, nil, true
		case "c":
			if m.wallet == nil || m.walletBusy || m.walletState.Connected {
				return m, nil, true
			}
			m.walletBusy = true
			m.walletErr = ""
			m.refreshContent()
			return m, tea.Batch(connectWallet(m.ctx, m.wallet), m.spinner.Tick), true
		case "x":
			if m.wallet == nil || m.walletBusy || !m.walletState.Connected || m.walletState.OnSupportedNetwork() {
				return m, nil, true
			}
			m.walletBusy = true
			m.walletErr = ""
			m.refreshContent()
			return m, tea.Batch(switchChain(m.ctx, m.wallet, wallet.BaseMainnet), m.spinner.Tick), true
		case "d":
			if m.wallet != nil && !m.walletBusy && m.walletState.Connected {
				m.wallet.Disconnect()
				m.walletState = wallet.State{}
				m.walletErr = ""
				m.refreshContent()
			}
			return m, nil, true
		case "q":
			return m, tea.Quit, true
		}
		return m, nil, false
	}

	switch key {
	case "q":
		return m, tea.Quit, true
	case "/":
		m.mode = modeSearch
		cmd := m.textInput.Focus()
		return m, cmd, true
	case "r":
		if m.state.Busy {
			return m, nil, true
		}
		seq := m.state.Begin()
		m.refreshContent()
		return m, tea.Batch(randomVerse(m.ctx, m.reader, seq), m.spinner.Tick), true
	case "n", "right":
		next, cmd := m.navigate(reference.DirNext)
		return next, cmd, true
	case "p", "left":
		next, cmd := m.navigate(reference.DirPrevious)
		return next, cmd, true
	case "s":
		if m.state.Current == nil {
			return m, nil, true
		}
		return m, copyToClipboard(m.copy, shareText(m.state.Current)), true
	case "f":
		return m.toggleFavorite()
	case "t":
		next, cmd := m.cycleTranslation()
		return next, cmd, true
	case "T":
		next, cmd := m.cycleTheme()
		return next, cmd, true
	case "w":
		m.mode = modeWallet
		m.refreshContent()
		return m, nil, true
	}

	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		idx := int(key[0] - '1')
		if idx < len(m.settings.QuickVerses) {
			next, cmd := m.startLookup(m.settings.QuickVerses[idx])
			return next.(Model), cmd, true
		}
	}
	return m, nil, false
}

func (m Model) startLookup(query string) (tea.Model, tea.Cmd) {
	seq := m.state.Begin()
	m.logger.Debug("lookup", zap.String("query", query), zap.Uint64("seq", seq))
	m.refreshContent()
	return m, tea.Batch(lookupVerse(m.ctx, m.reader, seq, query), m.spinner.Tick)
}

// navigate is a no-op unless the current verse has a parsed reference and a
// neighbour exists in direction dir.
func (m Model) navigate(dir reference.Direction) (Model, tea.Cmd) {
	current := m.state.Current
	if !current.Navigable() || len(reference.Navigate(*current.Ref, dir)) == 0 {
		return m, nil
	}
	seq := m.state.Begin()
	m.refreshContent()
	return m, tea.Batch(navigateVerse(m.ctx, m.reader, seq, current, dir), m.spinner.Tick)
}

func (m Model) toggleFavorite() (Model, tea.Cmd, bool) {
	v := m.state.Current
	if v == nil {
		return m, nil, true
	}
	text := "Added to favorites"
	if m.favorites[v.RawReference] {
		delete(m.favorites, v.RawReference)
		text = "Removed from favorites"
	} else {
		m.favorites[v.RawReference] = true
	}
	m.refreshContent()
	cmd := m.showToast(text)
	return m, cmd, true
}

func (m Model) cycleTranslation() (Model, tea.Cmd) {
	if m.translations == nil {
		return m, nil
	}
	all := api.Translations()
	current := m.translations.Translation()
	next := all[0]
	for i, id := range all {
		if id == current {
			next = all[(i+1)%len(all)]
			break
		}
	}
	m.translations.SetTranslation(next)
	m.settings.API.Translation = next

	cmds := []tea.Cmd{m.showToast("Translation: " + strings.ToUpper(next))}
	if m.settingsPath != "" {
		cmds = append(cmds, saveSettings(m.settingsPath, m.settings))
	}
	if v := m.state.Current; v != nil && !m.state.Busy {
		reloaded, cmd := m.startLookup(v.RawReference)
		m = reloaded.(Model)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) cycleTheme() (Model, tea.Cmd) {
	m.theme = theme.Next(m.theme, m.themes)
	m.styles = theme.NewStyles(m.theme, m.width)
	m.spinner.Style = m.styles.Title
	m.settings.Theme = m.theme.Key
	m.refreshContent()

	cmds := []tea.Cmd{m.showToast("Theme: " + m.theme.Name)}
	if m.settingsPath != "" {
		cmds = append(cmds, saveSettings(m.settingsPath, m.settings))
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) showToast(text string) tea.Cmd {
	m.toastID++
	m.toast = text
	return expireToast(m.toastID, m.toastDuration)
}

func (m *Model) refreshContent() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.content())
}

// State returns the current lookup state.
func (m Model) State() reader.State {
	return m.state
}

// WalletState returns the last observed wallet state.
func (m Model) WalletState() wallet.State {
	return m.walletState
}

func (m Model) isFavorite(v *reader.Verse) bool {
	return v != nil && m.favorites[v.RawReference]
}

func quickVerseLabel(i int, ref string) string {
	return fmt.Sprintf("%d %s", i+1, ref)
}
