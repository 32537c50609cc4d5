// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Lumen Labs
//
// Optoctl - Optoma projector serial control
//
// A CLI tool for querying and controlling Optoma projectors over their
// RS-232 service port, directly or through a serial-over-WebSocket bridge.

package main

import (
	"os"

	"github.com/lumenlab/optoctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
