// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Lumen Labs

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lumenlab/optoctl/pkg/optoma"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Query power state, input source, and display mode",
	Long: `Query the projector's current power state, active input source, and
display mode, one round trip each.

A "busy" answer means a previous power or source command is still completing
and the projector is not accepting requests yet.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	proj, connInfo, err := openProjector()
	if err != nil {
		return err
	}
	defer proj.Close()

	fmt.Printf("Connection: %s\n", connInfo)

	queries := []struct {
		label string
		cmd   optoma.Command
	}{
		{"Power", optoma.CmdQueryPower},
		{"Source", optoma.CmdQuerySource},
		{"Display mode", optoma.CmdQueryDisplayMode},
	}

	for _, q := range queries {
		ctx, cancel := context.WithTimeout(cmd.Context(), replyTimeout)
		res, err := proj.GetProperty(ctx, q.cmd)
		cancel()
		if err != nil {
			return fmt.Errorf("query %s: %w", q.label, err)
		}
		fmt.Printf("%-13s %s\n", q.label+":", formatResult(res))
	}
	return nil
}

// formatResult renders a protocol result for terminal output.
func formatResult(res optoma.Result) string {
	switch res.Status {
	case optoma.StatusOK:
		return res.Value
	case optoma.StatusBusy:
		return "(busy)"
	case optoma.StatusFailed:
		return "(rejected by projector)"
	case optoma.StatusNoData:
		return "(none)"
	case optoma.StatusIndeterminate:
		return fmt.Sprintf("(unrecognized reply %q)", res.Raw)
	case optoma.StatusProtocolError:
		return fmt.Sprintf("(protocol error, reply %q)", res.Raw)
	default:
		return res.Status.String()
	}
}
