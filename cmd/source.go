// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Lumen Labs

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lumenlab/optoctl/pkg/optoma"
)

var sourceCommands = map[string]optoma.Command{
	"hdmi1":     optoma.CmdSourceHDMI1,
	"hdmi2":     optoma.CmdSourceHDMI2,
	"vga":       optoma.CmdSourceVGA,
	"component": optoma.CmdSourceComponent,
	"video":     optoma.CmdSourceVideo,
}

var sourceCmd = &cobra.Command{
	Use:       "source {hdmi1|hdmi2|vga|component|video}",
	Short:     "Switch the active input source",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"hdmi1", "hdmi2", "vga", "component", "video"},
	RunE:      runSource,
}

func init() {
	rootCmd.AddCommand(sourceCmd)
}

func runSource(cmd *cobra.Command, args []string) error {
	name := strings.ToLower(args[0])
	command, ok := sourceCommands[name]
	if !ok {
		return fmt.Errorf("unknown source %q", args[0])
	}

	proj, _, err := openProjector()
	if err != nil {
		return err
	}
	defer proj.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), replyTimeout)
	defer cancel()
	res, err := proj.SendCommand(ctx, command)
	if err != nil {
		return err
	}
	if res.Status != optoma.StatusOK {
		return fmt.Errorf("select source %s: %s", name, formatResult(res))
	}
	fmt.Printf("Source %s acknowledged\n", name)
	return nil
}
