package settings

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"verse-tui/internal/api"
	"verse-tui/internal/theme"
	"verse-tui/internal/wallet"
)

// ProjectIDEnv overrides Wallet.ProjectID.
const ProjectIDEnv = "WALLETCONNECT_PROJECT_ID"

type Settings struct {
	API         APISettings     `yaml:"api"`
	Theme       string          `yaml:"theme"` // theme key, e.g. "dracula"
	ThemeCycle  []string        `yaml:"theme_cycle,omitempty"`
	QuickVerses []string        `yaml:"quick_verses"`
	Wallet      WalletSettings  `yaml:"wallet"`
	Logging     LoggingSettings `yaml:"logging"`
}

type APISettings struct {
	BaseURL     string `yaml:"base_url"`
	Translation string `yaml:"translation"`
	Timeout     string `yaml:"timeout"`
}

type WalletSettings struct {
	RPCURL    string `yaml:"rpc_url,omitempty"`
	Address   string `yaml:"address,omitempty"`
	ProjectID string `yaml:"project_id,omitempty"`
}

type LoggingSettings struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"`
}

func Default() Settings {
	return Settings{
		API: APISettings{
			BaseURL:     api.DefaultBaseURL,
			Translation: api.DefaultTranslation,
			Timeout:     api.DefaultTimeout.String(),
		},
		Theme: "catppuccin-mocha",
		QuickVerses: []string{
			"John 3:16",
			"Psalm 23:1",
			"Proverbs 3:5-6",
			"Romans 8:28",
			"Philippians 4:13",
			"Isaiah 41:10",
		},
		Logging: LoggingSettings{Level: "info"},
	}
}

// DefaultPath is config.yaml under the user config directory.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "verse-tui", "config.yaml"), nil
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Settings, error) {
	s := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return Settings{}, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &s); err != nil {
			return Settings{}, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	s.applyEnvOverrides()
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func (s *Settings) applyEnvOverrides() {
	if v := os.Getenv(ProjectIDEnv); v != "" {
		s.Wallet.ProjectID = v
	}
}

// Validate rejects values the rest of the program cannot use.
func (s Settings) Validate() error {
	var errs []error

	if u, err := url.Parse(s.API.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("api.base_url %q is not an absolute URL", s.API.BaseURL))
	}
	if s.API.Timeout != "" {
		if d, err := time.ParseDuration(s.API.Timeout); err != nil || d <= 0 {
			errs = append(errs, fmt.Errorf("api.timeout %q is not a positive duration", s.API.Timeout))
		}
	}
	for _, key := range s.ThemeCycle {
		if _, ok := theme.Lookup(key); !ok {
			errs = append(errs, fmt.Errorf("theme_cycle: unknown theme %q", key))
		}
	}
	if s.Wallet.Address != "" && !wallet.ValidAddress(s.Wallet.Address) {
		errs = append(errs, fmt.Errorf("wallet.address %q is not a valid address", s.Wallet.Address))
	}

	return errors.Join(errs...)
}

// Timeout returns the parsed API timeout, or the client default.
func (s Settings) Timeout() time.Duration {
	d, err := time.ParseDuration(s.API.Timeout)
	if err != nil || d <= 0 {
		return api.DefaultTimeout
	}
	return d
}

func Save(path string, s Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}
