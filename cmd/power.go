// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Lumen Labs

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lumenlab/optoctl/pkg/optoma"
)

var powerWait bool

var powerCmd = &cobra.Command{
	Use:   "power {on|off}",
	Short: "Turn the projector on or off",
	Long: `Turn the projector on or off.

The projector acknowledges the command immediately but takes tens of seconds
to complete the transition; until then further commands answer "busy".
With --wait, optoctl stays connected until the projector announces the
transition on the serial line.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE:      runPower,
}

func init() {
	powerCmd.Flags().BoolVarP(&powerWait, "wait", "w", false, "Wait for the projector to announce the transition")
	rootCmd.AddCommand(powerCmd)
}

func runPower(cmd *cobra.Command, args []string) error {
	var command optoma.Command
	var event string
	switch args[0] {
	case "on":
		command, event = optoma.CmdPowerOn, optoma.EventPoweringOn
	case "off":
		command, event = optoma.CmdPowerOff, optoma.EventPoweredOff
	default:
		return fmt.Errorf("unknown power state %q (use on or off)", args[0])
	}

	proj, _, err := openProjector()
	if err != nil {
		return err
	}
	defer proj.Close()

	announced := make(chan struct{}, 1)
	if powerWait {
		proj.Subscribe(event, func() {
			select {
			case announced <- struct{}{}:
			default:
			}
		})
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), replyTimeout)
	defer cancel()
	res, err := proj.SendCommand(ctx, command)
	if err != nil {
		return err
	}
	if res.Status != optoma.StatusOK {
		return fmt.Errorf("power %s: %s", args[0], formatResult(res))
	}
	fmt.Printf("Power %s acknowledged\n", args[0])

	if !powerWait {
		return nil
	}

	fmt.Println("Waiting for the projector to announce the transition...")
	select {
	case <-announced:
		fmt.Println("Transition announced")
		return nil
	case <-proj.Done():
		return fmt.Errorf("connection lost while waiting: %w", proj.Err())
	case <-time.After(command.Class().Timeout()):
		return fmt.Errorf("no announcement within %s", command.Class().Timeout())
	}
}
