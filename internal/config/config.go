package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

type Config struct {
	Hotkey         string        `json:"hotkey"`
	HotkeyDarwin   string        `json:"hotkey_darwin"`
	MinDurationMs  int           `json:"min_duration_ms"`
	SaveRecordings bool          `json:"save_recordings"`
	RecordingsDir  string        `json:"recordings_dir"`
	Audio          AudioConfig   `json:"audio"`
	Whisper        WhisperConfig `json:"whisper"`
	Inject         InjectConfig  `json:"inject"`
	AppendSpace    bool          `json:"append_space"`
	LogLevel       string        `json:"log_level"`
}

type AudioConfig struct {
	DeviceName       string  `json:"device_name"` // empty means system default
	RemoveSilence    bool    `json:"remove_silence"`
	SilenceThreshold float32 `json:"silence_threshold"`
	MinSilenceRun    int     `json:"min_silence_run"` // samples at or below threshold before a run counts as silence
	TargetSampleRate int     `json:"target_sample_rate"`
	TargetChannels   int     `json:"target_channels"`
}

type WhisperConfig struct {
	ModelPath  string   `json:"model_path"`
	Language   string   `json:"language"` // "auto", "en", etc.
	Translate  bool     `json:"translate"`
	Dictionary []string `json:"dictionary"` // specialized terms folded into the prompt
}

type InjectConfig struct {
	PreferPaste bool `json:"prefer_paste"`
}

// Load reads the config from disk or returns defaults
func Load() (*Config, error) {
	path := configPath()

	// Default config
	cfg := &Config{
		Hotkey:         "Alt+Space",
		HotkeyDarwin:   "Alt+Space", // Option+Space
		MinDurationMs:  1000,
		SaveRecordings: false,
		RecordingsDir:  defaultRecordingsDir(),
		Audio: AudioConfig{
			DeviceName:       "",
			RemoveSilence:    false,
			SilenceThreshold: 0.01,
			MinSilenceRun:    1000,
			TargetSampleRate: 16000,
			TargetChannels:   1,
		},
		Whisper: WhisperConfig{
			ModelPath: filepath.Join(dataDir(), "models", "ggml-base.en.bin"),
			Language:  "auto",
			Translate: false,
		},
		Inject: InjectConfig{
			PreferPaste: true,
		},
		AppendSpace: true,
		LogLevel:    "info",
	}

	// Load existing config if it exists; missing fields keep their defaults
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	path := configPath()

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// MinDuration returns the minimum recording length; shorter sessions are discarded.
func (c *Config) MinDuration() time.Duration {
	return time.Duration(c.MinDurationMs) * time.Millisecond
}

// PlatformHotkey returns the appropriate hotkey for the current platform
func (c *Config) PlatformHotkey() string {
	if runtime.GOOS == "darwin" && c.HotkeyDarwin != "" {
		return c.HotkeyDarwin
	}
	return c.Hotkey
}

// configPath returns the platform-specific config file path
func configPath() string {
	var base string

	switch runtime.GOOS {
	case "darwin":
		base = os.Getenv("HOME") + "/Library/Application Support"
	case "windows":
		base = os.Getenv("APPDATA")
	default: // linux
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = xdg
		} else {
			base = os.Getenv("HOME") + "/.config"
		}
	}

	return filepath.Join(base, "whispr", "config.json")
}

// dataDir returns the platform-specific data directory path
func dataDir() string {
	var base string

	switch runtime.GOOS {
	case "darwin":
		base = os.Getenv("HOME") + "/Library/Application Support"
	case "windows":
		base = os.Getenv("LOCALAPPDATA")
	default:
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			base = xdg
		} else {
			base = os.Getenv("HOME") + "/.local/share"
		}
	}

	return filepath.Join(base, "whispr")
}

func defaultRecordingsDir() string {
	return filepath.Join(dataDir(), "recordings")
}
