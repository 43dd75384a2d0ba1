/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package config handles the user-editable application configuration.
// The config is persisted as YAML in the user scope; environment
// variables act as read-only overrides at runtime.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type GeneralConfig struct {
	Theme        string `yaml:"theme"` // "system" | "light" | "dark"
	RecentsLimit int    `yaml:"recents_limit"`
}

// CanvasConfig tunes interactive canvas behavior. Zoom bounds are clamped
// by the viewport regardless; these values only narrow them further.
type CanvasConfig struct {
	ZoomMin            float64 `yaml:"zoom_min"`
	ZoomMax            float64 `yaml:"zoom_max"`
	GridSize           int     `yaml:"grid_size"`
	AutosaveDebounceMs int     `yaml:"autosave_debounce_ms"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// AppConfig is the full persisted configuration.
// config_version: bump when the structure changes in a backward-incompatible way.
type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	General       GeneralConfig `yaml:"general"`
	Canvas        CanvasConfig  `yaml:"canvas"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{Theme: "system", RecentsLimit: 10},
		Canvas:        CanvasConfig{ZoomMin: 0.1, ZoomMax: 3.0, GridSize: 20, AutosaveDebounceMs: 1000},
		Logging:       LoggingConfig{Level: "info", Format: "console", File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvTheme              = "VDOC_THEME"
	EnvRecentsLimit       = "VDOC_RECENTS_LIMIT"
	EnvAutosaveDebounceMs = "VDOC_AUTOSAVE_DEBOUNCE_MS"
	EnvLogLevel           = "VDOC_LOG_LEVEL"
	EnvLogFormat          = "VDOC_LOG_FORMAT"
	EnvLogFile            = "VDOC_LOG_FILE"
)

// Path returns the per-user config file path.
func Path() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "VisualDoc")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "VisualDoc")
	default: // linux and others
		base = filepath.Join(os.Getenv("HOME"), ".config", "visualdoc")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and
// merges environment overrides on top.
func Load() (AppConfig, error) {
	cfg := Defaults()
	path, err := Path()
	if err != nil {
		return cfg, err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if src.General.Theme != "" {
		dst.General.Theme = src.General.Theme
	}
	if src.General.RecentsLimit > 0 {
		dst.General.RecentsLimit = src.General.RecentsLimit
	}
	if src.Canvas.ZoomMin > 0 {
		dst.Canvas.ZoomMin = src.Canvas.ZoomMin
	}
	if src.Canvas.ZoomMax > 0 {
		dst.Canvas.ZoomMax = src.Canvas.ZoomMax
	}
	if src.Canvas.GridSize > 0 {
		dst.Canvas.GridSize = src.Canvas.GridSize
	}
	if src.Canvas.AutosaveDebounceMs > 0 {
		dst.Canvas.AutosaveDebounceMs = src.Canvas.AutosaveDebounceMs
	}
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvTheme)); v != "" {
		cfg.General.Theme = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvRecentsLimit)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.General.RecentsLimit = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvAutosaveDebounceMs)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Canvas.AutosaveDebounceMs = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

// EnvOverrideFor reports the env var name overriding the given dotted key.
func EnvOverrideFor(key string) (string, bool) {
	var env string
	switch key {
	case "general.theme":
		env = EnvTheme
	case "general.recents_limit":
		env = EnvRecentsLimit
	case "canvas.autosave_debounce_ms":
		env = EnvAutosaveDebounceMs
	case "logging.level":
		env = EnvLogLevel
	case "logging.format":
		env = EnvLogFormat
	case "logging.file":
		env = EnvLogFile
	default:
		return "", false
	}
	if os.Getenv(env) != "" {
		return env, true
	}
	return "", false
}
