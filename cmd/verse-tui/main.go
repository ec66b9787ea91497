package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"verse-tui/internal/api"
	"verse-tui/internal/reader"
	"verse-tui/internal/settings"
	"verse-tui/internal/ui"
	"verse-tui/internal/wallet"
)

var (
	// Global flags
	configPath  string
	themeName   string
	translation string
	apiURL      string
	verbose     bool
	initialRef  string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "verse-tui",
	Short: "Look up scripture verses from the terminal",
	Long: `verse-tui fetches verses from bible-api.com and shows them with
single-verse next/previous navigation.

Run without arguments to start the interactive reader.`,
	SilenceUsage: true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runInteractive,
}

var lookupCmd = &cobra.Command{
	Use:   "lookup [reference...]",
	Short: "Print one or more verses",
	Long: `Fetches each reference and prints it. References are fetched
concurrently and printed in the order given.

Example:
  verse-tui lookup "John 3:16" "1 Corinthians 13:4"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLookup,
}

var randomCmd = &cobra.Command{
	Use:   "random",
	Short: "Print a random verse",
	Args:  cobra.NoArgs,
	RunE:  runRandom,
}

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Show the configured wallet's address and network",
	Args:  cobra.NoArgs,
	RunE:  runWallet,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/verse-tui/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&translation, "translation", "", "translation id, e.g. web or kjv")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "verse lookup service base URL")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.Flags().StringVar(&themeName, "theme", "", "color theme, e.g. dracula")
	rootCmd.Flags().StringVar(&initialRef, "ref", "", "reference to look up on start")

	rootCmd.AddCommand(lookupCmd, randomCmd, walletCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadSettings resolves the config path and applies flag overrides.
func loadSettings() (settings.Settings, string, error) {
	path := configPath
	if path == "" {
		var err error
		path, err = settings.DefaultPath()
		if err != nil {
			return settings.Settings{}, "", fmt.Errorf("failed to locate config: %w", err)
		}
	}

	s, err := settings.Load(path)
	if err != nil {
		return settings.Settings{}, "", err
	}
	if translation != "" {
		s.API.Translation = translation
	}
	if apiURL != "" {
		s.API.BaseURL = apiURL
	}
	if themeName != "" {
		s.Theme = themeName
	}
	return s, path, s.Validate()
}

// newLogger logs to the configured file, or to stderr when file is empty.
func newLogger(s settings.Settings, file string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	level, err := zapcore.ParseLevel(s.Logging.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	config.Level = zap.NewAtomicLevelAt(level)

	if file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		config.OutputPaths = []string{file}
		config.ErrorOutputPaths = []string{file}
	}
	return config.Build()
}

// interactiveLogFile picks a log file; the terminal belongs to the TUI.
func interactiveLogFile(s settings.Settings) string {
	if s.Logging.File != "" {
		return s.Logging.File
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "verse-tui", "verse-tui.log")
}

func newClient(s settings.Settings) *api.Client {
	return api.NewClient(
		api.WithBaseURL(s.API.BaseURL),
		api.WithTranslation(s.API.Translation),
		api.WithTimeout(s.Timeout()),
		api.WithLogger(logger),
	)
}

func newWallet(s settings.Settings) *wallet.Provider {
	return wallet.NewProvider(wallet.Options{
		RPCURL:    s.Wallet.RPCURL,
		ProjectID: s.Wallet.ProjectID,
		Address:   s.Wallet.Address,
		Logger:    logger,
	})
}

func runInteractive(cmd *cobra.Command, args []string) error {
	s, path, err := loadSettings()
	if err != nil {
		return err
	}
	logger, err = newLogger(s, interactiveLogFile(s))
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	client := newClient(s)
	provider := newWallet(s)
	defer provider.Disconnect()

	model := ui.NewModel(ui.Options{
		Context:      ctx,
		Reader:       reader.New(client, logger),
		Translations: client,
		Wallet:       provider,
		Settings:     s,
		SettingsPath: path,
		InitialQuery: initialRef,
		Logger:       logger,
	})

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	logger.Info("starting reader", zap.String("config", path), zap.String("translation", client.Translation()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
