package ui

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verse-tui/internal/api"
	"verse-tui/internal/reader"
	"verse-tui/internal/settings"
	"verse-tui/internal/wallet"
)

type stubLookup struct {
	passages map[string]string
	random   *api.Passage
	queries  []string
}

func (s *stubLookup) FetchByReference(_ context.Context, query string) (*api.Passage, error) {
	s.queries = append(s.queries, query)
	text, ok := s.passages[query]
	if !ok {
		return nil, &api.LookupError{Op: "fetch reference", Query: query, Status: http.StatusNotFound}
	}
	return &api.Passage{Reference: query, Text: text, Translation: "World English Bible"}, nil
}

func (s *stubLookup) FetchRandom(context.Context) (*api.Passage, error) {
	if s.random == nil {
		return nil, &api.LookupError{Op: "fetch random", Status: http.StatusBadGateway}
	}
	return s.random, nil
}

type stubTranslations struct{ current string }

func (s *stubTranslations) Translation() string      { return s.current }
func (s *stubTranslations) SetTranslation(id string) { s.current = id }

type stubWallet struct {
	state     wallet.State
	switchErr error
	switched  []uint64
	closed    bool
}

func (w *stubWallet) Configured() bool { return true }

func (w *stubWallet) Connect(context.Context) (wallet.State, error) {
	w.state.Connected = true
	return w.state, nil
}

func (w *stubWallet) SwitchChain(_ context.Context, id uint64) (wallet.State, error) {
	w.switched = append(w.switched, id)
	if w.switchErr != nil {
		return wallet.State{}, w.switchErr
	}
	w.state.ChainID = id
	return w.state, nil
}

func (w *stubWallet) Disconnect() { w.closed = true }

var testPassages = map[string]string{
	"John 3:16":      "For God so loved the world",
	"John 3:17":      "For God didn't send his Son",
	"John 4:1":       "Therefore when the Lord knew",
	"John 3:36":      "One who believes in the Son has eternal life",
	"Genesis 1:1":    "In the beginning, God created the heavens and the earth.",
	"Proverbs 3:5-6": "Trust in Yahweh with all your heart",
}

func newTestModel(t *testing.T, opts ...func(*Options)) (Model, *stubLookup) {
	t.Helper()
	lookup := &stubLookup{passages: testPassages}
	o := Options{
		Reader:    reader.New(lookup, nil),
		Settings:  settings.Default(),
		Clipboard: func(string) error { return nil },
	}
	for _, opt := range opts {
		opt(&o)
	}
	m := NewModel(o)
	m.toastDuration = time.Millisecond

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(Model), lookup
}

// drain runs cmd and any batched commands, returning the produced messages.
func drain(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(t, c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// deliver runs cmd and feeds every resulting message back into m.
func deliver(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for _, msg := range drain(t, cmd) {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func press(t *testing.T, m Model, key string) (Model, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "left":
		msg = tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func lookup(t *testing.T, m Model, query string) Model {
	t.Helper()
	next, cmd := m.Update(searchMsg{query: query})
	return deliver(t, next.(Model), cmd)
}

func TestSearchSubmit(t *testing.T) {
	m, stub := newTestModel(t)

	m, _ = press(t, m, "/")
	require.Equal(t, modeSearch, m.mode)
	m, _ = press(t, m, "  John 3:16 ")
	m, cmd := press(t, m, "enter")
	require.NotNil(t, cmd)
	assert.True(t, m.State().Busy)
	assert.Equal(t, modeReader, m.mode)

	m = deliver(t, m, cmd)
	assert.Equal(t, []string{"John 3:16"}, stub.queries)
	require.NotNil(t, m.State().Current)
	assert.True(t, m.State().Current.Navigable())
	assert.False(t, m.State().Busy)
	assert.Contains(t, m.View(), "For God so loved the world")
}

func TestSearchIgnoresBlankQuery(t *testing.T) {
	m, stub := newTestModel(t)
	m, _ = press(t, m, "/")
	m, _ = press(t, m, "   ")
	m, cmd := press(t, m, "enter")
	assert.Nil(t, cmd)
	assert.Equal(t, modeSearch, m.mode)
	assert.Empty(t, stub.queries)

	m, _ = press(t, m, "esc")
	assert.Equal(t, modeReader, m.mode)
}

func TestNextNavigation(t *testing.T) {
	m, stub := newTestModel(t)
	m = lookup(t, m, "John 3:16")

	m, cmd := press(t, m, "n")
	m = deliver(t, m, cmd)
	assert.Equal(t, "John 3:17", m.State().Current.RawReference)
	assert.Equal(t, []string{"John 3:16", "John 3:17"}, stub.queries)
}

func TestNextFallsBackToNextChapter(t *testing.T) {
	m, stub := newTestModel(t)
	m = lookup(t, m, "John 3:36")

	m, cmd := press(t, m, "right")
	m = deliver(t, m, cmd)
	assert.Equal(t, "John 4:1", m.State().Current.RawReference)
	assert.Equal(t, []string{"John 3:36", "John 3:37", "John 4:1"}, stub.queries)
}

func TestPreviousAtGenesisIsNoOp(t *testing.T) {
	m, stub := newTestModel(t)
	m = lookup(t, m, "Genesis 1:1")

	m, cmd := press(t, m, "p")
	assert.Nil(t, cmd)
	assert.False(t, m.State().Busy)
	assert.Equal(t, []string{"Genesis 1:1"}, stub.queries)
	assert.NotContains(t, m.content(), "previous")
	assert.Contains(t, m.content(), "next →")
}

func TestPreviousAcrossChapter(t *testing.T) {
	m, stub := newTestModel(t)
	stub.passages = map[string]string{"John 3:1": "Now there was a man", "John 2:50": "clamped"}
	m = lookup(t, m, "John 3:1")

	m, cmd := press(t, m, "left")
	m = deliver(t, m, cmd)
	assert.Equal(t, "John 2:50", m.State().Current.RawReference)
}

func TestNavigationSuppressedForRanges(t *testing.T) {
	m, _ := newTestModel(t)
	m = lookup(t, m, "Proverbs 3:5-6")
	require.NotNil(t, m.State().Current)

	_, cmd := press(t, m, "n")
	assert.Nil(t, cmd)
	_, cmd = press(t, m, "p")
	assert.Nil(t, cmd)
	assert.NotContains(t, m.content(), "next →")
	assert.NotContains(t, m.help(), "n/p")
}

func TestRandomVerseNotNavigable(t *testing.T) {
	m, stub := newTestModel(t)
	stub.random = &api.Passage{Reference: "John 11:35", Text: "Jesus wept.", Translation: "WEB"}

	m, cmd := press(t, m, "r")
	m = deliver(t, m, cmd)
	require.NotNil(t, m.State().Current)
	assert.Equal(t, "John 11:35", m.State().Current.RawReference)
	assert.False(t, m.State().Current.Navigable())
}

func TestRandomFailureShowsMessage(t *testing.T) {
	m, _ := newTestModel(t)
	m, cmd := press(t, m, "r")
	m = deliver(t, m, cmd)
	assert.Equal(t, reader.RandomFailedMessage, m.State().Message)
	assert.Contains(t, m.View(), reader.RandomFailedMessage)
}

func TestLookupFailureClearsVerse(t *testing.T) {
	m, _ := newTestModel(t)
	m = lookup(t, m, "John 3:16")
	m = lookup(t, m, "Hezekiah 1:1")
	assert.Nil(t, m.State().Current)
	assert.Equal(t, reader.LookupFailedMessage, m.State().Message)
}

func TestBusyBlocksRandom(t *testing.T) {
	m, _ := newTestModel(t)
	next, _ := m.Update(searchMsg{query: "John 3:16"})
	m = next.(Model)
	require.True(t, m.State().Busy)

	_, cmd := press(t, m, "r")
	assert.Nil(t, cmd)
}

func TestStaleResponseIgnored(t *testing.T) {
	m, _ := newTestModel(t)

	next, slow := m.Update(searchMsg{query: "John 3:16"})
	m = next.(Model)
	next, fast := m.Update(searchMsg{query: "Genesis 1:1"})
	m = next.(Model)

	m = deliver(t, m, fast)
	m = deliver(t, m, slow)
	assert.Equal(t, "Genesis 1:1", m.State().Current.RawReference)
}

func TestQuickVerse(t *testing.T) {
	m, stub := newTestModel(t)
	m, cmd := press(t, m, "1")
	m = deliver(t, m, cmd)
	assert.Equal(t, []string{"John 3:16"}, stub.queries)
	assert.Contains(t, m.View(), "1 John 3:16")

	_, cmd = press(t, m, "9")
	assert.Nil(t, cmd)
}

func TestShareCopiesVerse(t *testing.T) {
	var copied string
	m, _ := newTestModel(t, func(o *Options) {
		o.Clipboard = func(s string) error { copied = s; return nil }
	})

	_, cmd := press(t, m, "s")
	assert.Nil(t, cmd)

	m = lookup(t, m, "John 3:16")
	_, cmd = press(t, m, "s")
	msgs := drain(t, cmd)
	require.Len(t, msgs, 1)
	assert.Equal(t, "\"For God so loved the world\"\n\n- John 3:16 (World English Bible)", copied)

	next, _ := m.Update(msgs[0])
	m = next.(Model)
	assert.Equal(t, "Copied to clipboard", m.toast)
}

func TestShareFailureToast(t *testing.T) {
	m, _ := newTestModel(t)
	next, _ := m.Update(clipboardMsg{err: errors.New("no clipboard")})
	assert.Equal(t, "Could not copy verse", next.(Model).toast)
}

func TestFavoriteToggle(t *testing.T) {
	m, _ := newTestModel(t)
	m = lookup(t, m, "John 3:16")

	m, _ = press(t, m, "f")
	assert.Equal(t, "Added to favorites", m.toast)
	assert.Contains(t, m.content(), "♥")

	m, cmd := press(t, m, "f")
	assert.Equal(t, "Removed from favorites", m.toast)
	assert.NotContains(t, m.content(), "♥")

	m = deliver(t, m, cmd)
	assert.Empty(t, m.toast)
}

func TestToastExpiryIgnoresOlderToasts(t *testing.T) {
	m, _ := newTestModel(t)
	m.showToast("first")
	m.showToast("second")
	next, _ := m.Update(toastExpiredMsg{id: 1})
	assert.Equal(t, "second", next.(Model).toast)
}

func TestCycleTranslationReloadsVerse(t *testing.T) {
	switcher := &stubTranslations{current: "web"}
	m, stub := newTestModel(t, func(o *Options) { o.Translations = switcher })
	m = lookup(t, m, "John 3:16")

	m, cmd := press(t, m, "t")
	assert.Equal(t, "kjv", switcher.current)
	assert.Equal(t, "Translation: KJV", m.toast)

	m = deliver(t, m, cmd)
	assert.Equal(t, []string{"John 3:16", "John 3:16"}, stub.queries)
	assert.Equal(t, "kjv", m.settings.API.Translation)
}

func TestCycleThemeFollowsConfiguredCycle(t *testing.T) {
	m, _ := newTestModel(t, func(o *Options) {
		o.Settings.Theme = "dracula"
		o.Settings.ThemeCycle = []string{"dracula", "rosepine-moon"}
	})

	m, _ = press(t, m, "T")
	assert.Equal(t, "rosepine-moon", m.theme.Key)
	m, _ = press(t, m, "T")
	assert.Equal(t, "dracula", m.theme.Key)
}

func TestCycleTranslationSavesSettings(t *testing.T) {
	path := t.TempDir() + "/config.yaml"
	switcher := &stubTranslations{current: "web"}
	m, _ := newTestModel(t, func(o *Options) {
		o.Translations = switcher
		o.SettingsPath = path
	})

	m, cmd := press(t, m, "t")
	deliver(t, m, cmd)

	t.Setenv(settings.ProjectIDEnv, "")
	saved, err := settings.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "kjv", saved.API.Translation)
}

func TestCycleThemeSavesSettings(t *testing.T) {
	path := t.TempDir() + "/config.yaml"
	m, _ := newTestModel(t, func(o *Options) { o.SettingsPath = path })
	before := m.theme.Key

	m, cmd := press(t, m, "T")
	assert.NotEqual(t, before, m.theme.Key)
	m = deliver(t, m, cmd)

	t.Setenv(settings.ProjectIDEnv, "")
	saved, err := settings.Load(path)
	require.NoError(t, err)
	assert.Equal(t, m.theme.Key, saved.Theme)
}

func TestWalletConnectAndSwitch(t *testing.T) {
	w := &stubWallet{state: wallet.State{Address: "0x52908400098527886E0F7030069857D2E4169EE7", ChainID: 1}}
	m, _ := newTestModel(t, func(o *Options) { o.Wallet = w })
	assert.Contains(t, m.View(), "Connect Wallet")

	m, _ = press(t, m, "w")
	require.Equal(t, modeWallet, m.mode)
	m, cmd := press(t, m, "c")
	m = deliver(t, m, cmd)

	assert.True(t, m.WalletState().Connected)
	view := m.View()
	assert.Contains(t, view, "Network: Ethereum")
	assert.Contains(t, view, "Please switch to Base network")
	assert.Contains(t, view, "Wrong Network")
	assert.Contains(t, view, "0x5290...9EE7")

	m, cmd = press(t, m, "x")
	m = deliver(t, m, cmd)
	assert.Equal(t, []uint64{wallet.BaseMainnet}, w.switched)
	assert.Contains(t, m.View(), "Base Mainnet")
	assert.NotContains(t, m.View(), "Please switch to Base network")

	// Already on Base: no further switch request.
	_, cmd = press(t, m, "x")
	assert.Nil(t, cmd)

	m, _ = press(t, m, "d")
	assert.True(t, w.closed)
	assert.False(t, m.WalletState().Connected)
}

func TestWalletDisconnectWaitsForPendingSwitch(t *testing.T) {
	w := &stubWallet{state: wallet.State{ChainID: 1}}
	m, _ := newTestModel(t, func(o *Options) { o.Wallet = w })
	m, _ = press(t, m, "w")
	m, cmd := press(t, m, "c")
	m = deliver(t, m, cmd)
	require.True(t, m.WalletState().Connected)

	m, cmd = press(t, m, "x")
	require.NotNil(t, cmd)
	require.True(t, m.walletBusy)

	m, cmd = press(t, m, "d")
	assert.Nil(t, cmd)
	assert.False(t, w.closed)
	assert.True(t, m.WalletState().Connected)
}

func TestWalletSwitchError(t *testing.T) {
	w := &stubWallet{state: wallet.State{ChainID: 137}, switchErr: &wallet.RPCError{Code: 4001, Message: "User rejected the request."}}
	m, _ := newTestModel(t, func(o *Options) { o.Wallet = w })

	m, _ = press(t, m, "w")
	m, cmd := press(t, m, "c")
	m = deliver(t, m, cmd)
	m, cmd = press(t, m, "x")
	m = deliver(t, m, cmd)

	assert.Equal(t, "User rejected the request.", m.walletErr)
	assert.True(t, m.WalletState().Connected)
	assert.Equal(t, uint64(137), m.WalletState().ChainID)
}

func TestWalletPanelWithoutProvider(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = press(t, m, "w")
	assert.Contains(t, m.content(), "No wallet provider configured")

	_, cmd := press(t, m, "c")
	assert.Nil(t, cmd)
	m, _ = press(t, m, "esc")
	assert.Equal(t, modeReader, m.mode)
}

func TestInitRunsInitialQuery(t *testing.T) {
	m, stub := newTestModel(t, func(o *Options) { o.InitialQuery = " Genesis 1:1 " })
	msgs := drain(t, m.Init())
	require.Len(t, msgs, 1)

	next, cmd := m.Update(msgs[0])
	m = deliver(t, next.(Model), cmd)
	assert.Equal(t, []string{"Genesis 1:1"}, stub.queries)
	assert.Equal(t, "Genesis 1:1", m.State().Current.RawReference)

	empty, _ := newTestModel(t)
	assert.Nil(t, empty.Init())
}

func TestViewBeforeReady(t *testing.T) {
	m := NewModel(Options{Settings: settings.Default()})
	assert.True(t, strings.Contains(m.View(), "Initializing"))
}

func TestQuitKeys(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := press(t, m, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
