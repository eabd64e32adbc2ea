// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/defaults.go
// Summary: Default values for the system configuration file.

package config

// applyDefaults registers the key set spec.md §6 names, plus the
// splits/history sections C3 and C6 need, without overwriting anything
// already present on disk.
func applyDefaults(cfg Config) {
	if cfg == nil {
		return
	}
	cfg.RegisterDefaults("", Section{
		"theme":               "mocha",
		"default_ai_provider": "",
		"scrollback_lines":    10000,
		"font_size":           14.0,
	})
	cfg.RegisterDefaults("splits", Section{
		"close_focus_policy": "last-active",
	})
	cfg.RegisterDefaults("history", Section{
		"max_entries":  10000,
		"persist_path": "",
	})
}
