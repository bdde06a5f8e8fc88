package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// Settings represents the application configuration persisted to disk.
type Settings struct {
	Server   ServerSettings   `json:"server"`
	Storage  StorageSettings  `json:"storage"`
	Playback PlaybackSettings `json:"playback"`
	Log      LogConfig        `json:"log"`
}

type ServerSettings struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

type StorageSettings struct {
	// Directory holding the key-value data files (program catalog,
	// playlists).
	Directory string `json:"directory"`
}

type PlaybackSettings struct {
	// ProviderLoadTimeoutSeconds bounds how long a Drive/Archive embed
	// may stay in loading before the session degrades.
	ProviderLoadTimeoutSeconds int `json:"providerLoadTimeoutSeconds"`
}

// LogConfig represents file logging with rotation.
type LogConfig struct {
	File       string `json:"file"`
	MaxSize    int    `json:"maxSize"` // megabytes
	MaxBackups int    `json:"maxBackups"`
	MaxAge     int    `json:"maxAge"` // days
	Compress   bool   `json:"compress"`
}

// DefaultSettings returns the configuration written on first start.
func DefaultSettings() Settings {
	return Settings{
		Server: ServerSettings{
			Host: "0.0.0.0",
			Port: 7474,
		},
		Storage: StorageSettings{
			Directory: "data",
		},
		Playback: PlaybackSettings{
			ProviderLoadTimeoutSeconds: 15,
		},
		Log: LogConfig{
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     14,
			Compress:   true,
		},
	}
}

// Manager loads and saves the settings file.
type Manager struct {
	path string
}

func NewManager(configPath string) *Manager {
	return &Manager{path: configPath}
}

// ensureDir ensures the parent directory exists.
func (m *Manager) ensureDir() error {
	dir := filepath.Dir(m.path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// Load reads the settings file from disk or creates defaults if missing.
func (m *Manager) Load() (Settings, error) {
	if m.path == "" {
		return Settings{}, errors.New("config path not set")
	}
	if _, err := os.Stat(m.path); errors.Is(err, fs.ErrNotExist) {
		defaults := DefaultSettings()
		if err := m.Save(defaults); err != nil {
			return Settings{}, err
		}
		return defaults, nil
	}

	f, err := os.Open(m.path)
	if err != nil {
		return Settings{}, err
	}
	defer f.Close()

	s := DefaultSettings()
	dec := json.NewDecoder(f)
	if err := dec.Decode(&s); err != nil {
		return Settings{}, err
	}

	if s.Playback.ProviderLoadTimeoutSeconds <= 0 {
		s.Playback.ProviderLoadTimeoutSeconds = DefaultSettings().Playback.ProviderLoadTimeoutSeconds
	}
	if s.Storage.Directory == "" {
		s.Storage.Directory = DefaultSettings().Storage.Directory
	}

	return s, nil
}

// Save writes the settings file atomically.
func (m *Manager) Save(s Settings) error {
	if m.path == "" {
		return errors.New("config path not set")
	}
	if err := m.ensureDir(); err != nil {
		return err
	}

	tmp := m.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, m.path)
}
