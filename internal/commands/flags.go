// Package commands implements the CLI subcommands.
package commands

import (
	"os"
	"path/filepath"

	"github.com/sikkerchat/sikkerchat/internal/core/chat"
	"github.com/sikkerchat/sikkerchat/internal/core/config"
	"github.com/sikkerchat/sikkerchat/internal/core/prefs"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string
	ServerURL  string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config

	// Service talks to the chat server
	Service *chat.Service

	// Prefs is the local preference store
	Prefs prefs.Store
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "sikkerchat", "config.yaml")
}

// DefaultDataDir returns the default data directory using XDG_DATA_HOME.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "sikkerchat")
}
