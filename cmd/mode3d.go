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

var mode3DCommands = map[string]optoma.Command{
	"off": optoma.Cmd3DOff,
	"sbs": optoma.Cmd3DSideBySide,
	"ttb": optoma.Cmd3DTopBottom,
	"seq": optoma.Cmd3DSequential,
}

var mode3DCmd = &cobra.Command{
	Use:   "3d {off|sbs|ttb|seq}",
	Short: "Select the 3D display mode",
	Long: `Select the projector's 3D display mode.

Modes:
  off   2D display
  sbs   side-by-side
  ttb   top-and-bottom
  seq   frame sequential`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"off", "sbs", "ttb", "seq"},
	RunE:      runMode3D,
}

func init() {
	rootCmd.AddCommand(mode3DCmd)
}

func runMode3D(cmd *cobra.Command, args []string) error {
	name := strings.ToLower(args[0])
	command, ok := mode3DCommands[name]
	if !ok {
		return fmt.Errorf("unknown 3D mode %q", args[0])
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
		return fmt.Errorf("3d %s: %s", name, formatResult(res))
	}
	fmt.Printf("3D mode %s acknowledged\n", name)
	return nil
}
