// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Lumen Labs

package cmd

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	// Serial connection flags
	portName string
	baudRate int

	// WebSocket bridge flags
	wsURL         string
	wsUsername    string
	wsNoSSLVerify bool

	// General flags
	configPath   string
	verbose      bool
	replyTimeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "optoctl",
	Short: "Optoma projector serial control",
	Long: `Optoctl - control Optoma projectors over their RS-232 service port.

Queries and commands are sent as ASCII frames over a 9600 8N1 serial line.
Unsolicited power-state events (powering on, powering off, powered off)
arrive on the same line and can be observed live with the watch command.

Connection modes:
  Serial:    --port /dev/ttyUSB0 [--baud 9600]
  WebSocket: --url ws://host/path [--username user]  (serial-over-WS bridge)

For WebSocket authentication, the password is read from the OPTOCTL_PASSWORD
environment variable, or prompted interactively if not set. There is no
--password flag so credentials do not end up in shell history.

Flags not given on the command line are filled from a TOML config file
(--config, default ~/.config/optoctl/config.toml).`,
	Version:      "1.0.0",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return applyFileConfig(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Serial port device")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", 9600, "Baud rate (serial only)")

	rootCmd.PersistentFlags().StringVarP(&wsURL, "url", "u", "", "WebSocket URL (ws:// or wss://)")
	rootCmd.PersistentFlags().StringVar(&wsUsername, "username", "", "Username for HTTP Basic auth")
	rootCmd.PersistentFlags().BoolVar(&wsNoSSLVerify, "no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to TOML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every frame sent and received")
	rootCmd.PersistentFlags().DurationVar(&replyTimeout, "timeout", 10*time.Second, "Per-request reply deadline")
}

// newLogger builds the console logger shared by all subcommands. Frame-level
// traffic is logged at debug and only shows up with --verbose.
func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
