package app

import (
	"os"
	"path/filepath"
)

// ConfigDir returns ~/.config/kvd/ on all platforms.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "kvd"), nil
}

// EnsureConfigDir creates the config directory and default config.yaml if missing.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	configFile := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return os.WriteFile(configFile, []byte(defaultConfig), 0600)
	}
	return nil
}

const defaultConfig = `# kvd configuration
# Run: kvd --help

# Address the daemon listens on and clients connect to.
# Can also be set via KVD_ADDR or --addr.
# listen_addr: 127.0.0.1:4242

# Seconds between reaper sweeps of expired keys.
# reap_interval_seconds: 1
`
