/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	"os"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.Canvas.ZoomMin != 0.1 || cfg.Canvas.ZoomMax != 3.0 {
		t.Fatalf("unexpected zoom defaults: %#v", cfg.Canvas)
	}
	if cfg.Canvas.AutosaveDebounceMs != 1000 {
		t.Fatalf("AutosaveDebounceMs = %d, want 1000", cfg.Canvas.AutosaveDebounceMs)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "console" {
		t.Fatalf("unexpected logging defaults: %#v", cfg.Logging)
	}
}

func TestMergeIncludesCanvas(t *testing.T) {
	dst := Defaults()
	src := AppConfig{}
	src.Canvas.ZoomMax = 2.0
	src.Canvas.AutosaveDebounceMs = 250
	mergeInto(&dst, &src)
	if dst.Canvas.ZoomMax != 2.0 || dst.Canvas.AutosaveDebounceMs != 250 {
		t.Fatalf("canvas fields not merged: %#v", dst.Canvas)
	}
	// unset fields keep defaults
	if dst.Canvas.ZoomMin != 0.1 || dst.Canvas.GridSize != 20 {
		t.Fatalf("defaults clobbered by empty src: %#v", dst.Canvas)
	}
}

func TestMergeIncludesLogging(t *testing.T) {
	dst := Defaults()
	src := AppConfig{}
	src.Logging.Level = "DEBUG"
	src.Logging.Format = "json"
	src.Logging.File = "/tmp/vdoc.log"
	mergeInto(&dst, &src)
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || dst.Logging.File != "/tmp/vdoc.log" {
		t.Fatalf("logging fields not merged correctly: %#v", dst.Logging)
	}
}

func TestEnvOverridesLogging(t *testing.T) {
	oldLevel := os.Getenv(EnvLogLevel)
	oldFmt := os.Getenv(EnvLogFormat)
	_ = os.Setenv(EnvLogLevel, "error")
	_ = os.Setenv(EnvLogFormat, "json")
	t.Cleanup(func() {
		_ = os.Setenv(EnvLogLevel, oldLevel)
		_ = os.Setenv(EnvLogFormat, oldFmt)
	})
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Logging.Level != "error" || cfg.Logging.Format != "json" {
		t.Fatalf("env overrides not applied to logging: %#v", cfg.Logging)
	}
}

func TestEnvOverridesAutosave(t *testing.T) {
	old := os.Getenv(EnvAutosaveDebounceMs)
	_ = os.Setenv(EnvAutosaveDebounceMs, "500")
	t.Cleanup(func() { _ = os.Setenv(EnvAutosaveDebounceMs, old) })
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Canvas.AutosaveDebounceMs != 500 {
		t.Fatalf("AutosaveDebounceMs = %d, want 500", cfg.Canvas.AutosaveDebounceMs)
	}
	if name, ok := EnvOverrideFor("canvas.autosave_debounce_ms"); !ok || name != EnvAutosaveDebounceMs {
		t.Fatalf("EnvOverrideFor = %q, %v", name, ok)
	}
}
