package ui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"verse-tui/internal/reader"
	"verse-tui/internal/reference"
	"verse-tui/internal/settings"
	"verse-tui/internal/wallet"
)

type verseLoadedMsg struct {
	seq     uint64
	verse   *reader.Verse
	err     error
	failMsg string
	noop    bool
}

type walletMsg struct {
	state    wallet.State
	err      error
	fallback string
}

type toastExpiredMsg struct{ id int }

type clipboardMsg struct{ err error }

type settingsSavedMsg struct{ err error }

func lookupVerse(ctx context.Context, r *reader.Reader, seq uint64, query string) tea.Cmd {
	return func() tea.Msg {
		v, err := r.Lookup(ctx, query)
		return verseLoadedMsg{seq: seq, verse: v, err: err, failMsg: reader.LookupFailedMessage}
	}
}

func randomVerse(ctx context.Context, r *reader.Reader, seq uint64) tea.Cmd {
	return func() tea.Msg {
		v, err := r.Random(ctx)
		return verseLoadedMsg{seq: seq, verse: v, err: err, failMsg: reader.RandomFailedMessage}
	}
}

func navigateVerse(ctx context.Context, r *reader.Reader, seq uint64, current *reader.Verse, dir reference.Direction) tea.Cmd {
	return func() tea.Msg {
		msg := verseLoadedMsg{seq: seq, failMsg: reader.LookupFailedMessage}
		switch dir {
		case reference.DirNext:
			msg.verse, msg.err = r.Next(ctx, current)
		case reference.DirPrevious:
			var ok bool
			msg.verse, ok, msg.err = r.Previous(ctx, current)
			msg.noop = !ok && msg.err == nil
		}
		return msg
	}
}

func connectWallet(ctx context.Context, w WalletProvider) tea.Cmd {
	return func() tea.Msg {
		state, err := w.Connect(ctx)
		return walletMsg{state: state, err: err, fallback: wallet.ConnectFailedMessage}
	}
}

func switchChain(ctx context.Context, w WalletProvider, chainID uint64) tea.Cmd {
	return func() tea.Msg {
		state, err := w.SwitchChain(ctx, chainID)
		return walletMsg{state: state, err: err, fallback: wallet.SwitchFailedMessage}
	}
}

func copyToClipboard(copyFn func(string) error, text string) tea.Cmd {
	return func() tea.Msg {
		return clipboardMsg{err: copyFn(text)}
	}
}

func saveSettings(path string, s settings.Settings) tea.Cmd {
	return func() tea.Msg {
		return settingsSavedMsg{err: settings.Save(path, s)}
	}
}

func expireToast(id int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

// shareText is what the share action copies.
func shareText(v *reader.Verse) string {
	return fmt.Sprintf("\"%s\"\n\n- %s (%s)", v.Text, v.RawReference, v.Translation)
}
