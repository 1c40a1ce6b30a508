package app

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Settings represents configuration loaded from config.yaml.
// Field names match snake_case YAML keys.
type Settings struct {
	ListenAddr          string `yaml:"listen_addr"`
	ReapIntervalSeconds int    `yaml:"reap_interval_seconds"`
}

// ServerSettings are effective runtime values used by the serve command.
type ServerSettings struct {
	ListenAddr          string `json:"listen_addr"`
	ReapIntervalSeconds int    `json:"reap_interval_seconds"`
}

const (
	// DefaultListenAddr is where the daemon listens when nothing overrides it.
	DefaultListenAddr = "127.0.0.1:4242"

	defaultReapIntervalSeconds = 1
	maxReapIntervalSeconds     = 3600
)

// EffectiveServerSettings returns validated server settings with defaults.
// Invalid or missing config values fall back to safe defaults. Precedence
// for the address: --addr flag, then KVD_ADDR, then config.yaml, then the
// default.
func EffectiveServerSettings() ServerSettings {
	cfg := ServerSettings{
		ListenAddr:          DefaultListenAddr,
		ReapIntervalSeconds: defaultReapIntervalSeconds,
	}

	s, err := LoadSettings()
	if err == nil {
		if s.ListenAddr != "" {
			cfg.ListenAddr = s.ListenAddr
		}
		if s.ReapIntervalSeconds > 0 {
			cfg.ReapIntervalSeconds = s.ReapIntervalSeconds
		}
	}

	if env := os.Getenv("KVD_ADDR"); env != "" {
		cfg.ListenAddr = env
	}
	if addr := getAddrOverride(); addr != "" {
		cfg.ListenAddr = addr
	}

	if cfg.ReapIntervalSeconds > maxReapIntervalSeconds {
		cfg.ReapIntervalSeconds = maxReapIntervalSeconds
	}
	return cfg
}

// ServerAddr returns the effective address clients should dial.
func ServerAddr() string {
	return EffectiveServerSettings().ListenAddr
}

// settingsOnce, settings, settingsErr implement the sync.Once lazy-load singleton for config.
// addrOverrideMu and addrOverride implement a mutex-protected process-wide override for CLI --addr.
// These globals are required by the sync.Once pattern and the RWMutex pattern; they cannot be avoided.
//
//nolint:gochecknoglobals // sync.Once singleton + RWMutex override are intentional process-wide state
var (
	settingsOnce sync.Once
	settings     Settings
	settingsErr  error

	addrOverrideMu sync.RWMutex
	addrOverride   string
)

// SetAddrOverride sets a process-wide listen/dial address override.
// Intended for CLI flag support (--addr).
func SetAddrOverride(addr string) {
	addrOverrideMu.Lock()
	addrOverride = addr
	addrOverrideMu.Unlock()
}

func getAddrOverride() string {
	addrOverrideMu.RLock()
	v := addrOverride
	addrOverrideMu.RUnlock()
	return v
}

// LoadSettings loads configuration once using the documented lookup order.
// Lookup order (first found wins):
// 1) ~/.config/kvd/config.yaml
// 2) /etc/kvd/config.yaml
// 3) ./config.yaml (lowest priority; allows repo-local overrides if desired)
// Environment variables are handled separately.
func LoadSettings() (Settings, error) {
	settingsOnce.Do(func() {
		settings = Settings{}

		// 1) User config (~/.config/kvd/config.yaml)
		dir, err := ConfigDir()
		if err != nil {
			settingsErr = err
			return
		}
		if s, err := loadSettingsFile(filepath.Join(dir, "config.yaml")); err == nil {
			settings = s
			return
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			settingsErr = err
			return
		}

		// 2) /etc
		if s, err := loadSettingsFile(filepath.Join(string(os.PathSeparator), "etc", "kvd", "config.yaml")); err == nil {
			settings = s
			return
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			settingsErr = err
			return
		}

		// 3) Local ./config.yaml (lowest priority)
		if s, err := loadSettingsFile("config.yaml"); err == nil {
			settings = s
			return
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			settingsErr = err
			return
		}
	})

	return settings, settingsErr
}

func loadSettingsFile(path string) (Settings, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, err
	}

	var s Settings
	if err := yaml.Unmarshal(b, &s); err != nil {
		return Settings{}, err
	}
	return s, nil
}
