// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Lumen Labs

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lumenlab/optoctl/pkg/optoma"
)

var frameLogCmd = &cobra.Command{
	Use:   "framelog",
	Short: "Display every frame on the line in human-readable form",
	Long: `Continuously decode and display frames as the projector sends them.

Each frame is shown with a timestamp and its classification: EVENT for
unsolicited power-state notifications, REPLY for answers to commands. Useful
for watching what the projector volunteers on its own, or for debugging a
bridge. No commands are sent.`,
	RunE: runFrameLog,
}

func init() {
	rootCmd.AddCommand(frameLogCmd)
}

func runFrameLog(cmd *cobra.Command, args []string) error {
	conn, connInfo, err := openConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	log := newLogger()
	fmt.Printf("Optoctl - Frame Log\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Press Ctrl+C to exit\n\n")

	scanner := optoma.NewScanner()
	buf := make([]byte, 64)

	for {
		n, err := conn.Read(buf)
		if err != nil {
			if err == ErrBridgeClosed {
				log.Info().Msg("connection closed")
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}

		for i := 0; i < n; i++ {
			frame, done := scanner.ScanByte(buf[i])
			if !done {
				continue
			}
			kind := "REPLY"
			if optoma.IsEvent(frame) {
				kind = "EVENT"
			}
			fmt.Printf("[%s] %-5s %q\n", time.Now().Format(time.TimeOnly), kind, frame)
		}
	}
}
