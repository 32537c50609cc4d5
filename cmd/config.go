// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Lumen Labs

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

// fileConfig maps optoctl config.toml keys to connection settings.
type fileConfig struct {
	Port        string `toml:"port"`
	Baud        int    `toml:"baud"`
	URL         string `toml:"url"`
	Username    string `toml:"username"`
	NoSSLVerify bool   `toml:"no_ssl_verify"`
}

// applyFileConfig overlays the TOML config file onto connection flags the
// user did not set explicitly. Command-line flags always win. A missing
// default config file is not an error; a missing --config file is.
func applyFileConfig(cmd *cobra.Command) error {
	path := configPath
	explicit := path != ""
	if !explicit {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		path = filepath.Join(home, ".config", "optoctl", "config.toml")
		if _, err := os.Stat(path); err != nil {
			return nil
		}
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("load config %s: unknown key %q", path, undecoded[0].String())
	}

	flags := cmd.Root().PersistentFlags()
	if meta.IsDefined("port") && !flags.Changed("port") {
		portName = raw.Port
	}
	if meta.IsDefined("baud") && !flags.Changed("baud") {
		baudRate = raw.Baud
	}
	if meta.IsDefined("url") && !flags.Changed("url") {
		wsURL = raw.URL
	}
	if meta.IsDefined("username") && !flags.Changed("username") {
		wsUsername = raw.Username
	}
	if meta.IsDefined("no_ssl_verify") && !flags.Changed("no-ssl-verify") {
		wsNoSSLVerify = raw.NoSSLVerify
	}
	return nil
}
