// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Lumen Labs

// Package optoma implements the RS-232 control protocol spoken by Optoma
// projectors.
//
// The protocol is half-duplex ASCII over a 9600 8N1 serial line. The host
// sends short command frames ("~0000 1\r") and the projector answers each
// one with a reply frame. Independently of replies, the projector emits
// unsolicited five-character event frames ("INFO0", "INFO1", "INFO2") when
// its power state changes on its own schedule.
//
// This package provides frame scanning, command encoding, reply decoding,
// and a Projector handle that owns the reader goroutine and serializes
// requests over the shared line.
package optoma

import "time"

// Command identifies one entry of the projector's fixed command vocabulary.
type Command int

// Command vocabulary.
const (
	CmdPowerOn Command = iota
	CmdPowerOff
	CmdQueryPower
	CmdQuerySource
	CmdQueryDisplayMode
	CmdSourceHDMI1
	CmdSourceHDMI2
	CmdSourceVGA
	CmdSourceComponent
	CmdSourceVideo
	Cmd3DOff
	Cmd3DSideBySide
	Cmd3DTopBottom
	Cmd3DSequential
)

// commandFrames holds the wire frame for every command. Frames include the
// trailing CR terminator and are written to the line verbatim.
var commandFrames = map[Command]string{
	CmdPowerOn:          "~0000 1\r",
	CmdPowerOff:         "~0000 0\r",
	CmdQueryPower:       "~00124 1\r",
	CmdQuerySource:      "~00121 1\r",
	CmdQueryDisplayMode: "~00123 1\r",
	CmdSourceHDMI1:      "~0012 1\r",
	CmdSourceHDMI2:      "~0012 15\r",
	CmdSourceVGA:        "~0012 8\r",
	CmdSourceComponent:  "~0012 14\r",
	CmdSourceVideo:      "~0012 10\r",
	Cmd3DOff:            "~00405 0\r",
	Cmd3DSideBySide:     "~00405 1\r",
	Cmd3DTopBottom:      "~00405 3\r",
	Cmd3DSequential:     "~00405 4\r",
}

var commandNames = map[Command]string{
	CmdPowerOn:          "power-on",
	CmdPowerOff:         "power-off",
	CmdQueryPower:       "query-power",
	CmdQuerySource:      "query-source",
	CmdQueryDisplayMode: "query-display-mode",
	CmdSourceHDMI1:      "source-hdmi1",
	CmdSourceHDMI2:      "source-hdmi2",
	CmdSourceVGA:        "source-vga",
	CmdSourceComponent:  "source-component",
	CmdSourceVideo:      "source-video",
	Cmd3DOff:            "3d-off",
	Cmd3DSideBySide:     "3d-side-by-side",
	Cmd3DTopBottom:      "3d-top-bottom",
	Cmd3DSequential:     "3d-sequential",
}

// Frame returns the command's wire frame, terminator included.
func (c Command) Frame() string {
	return commandFrames[c]
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return "unknown-command"
}

// Class returns the busy-timeout class the command belongs to. Power
// transitions get their own classes, any source selection shares one, and
// everything not otherwise enumerated is Generic.
func (c Command) Class() CommandClass {
	switch c {
	case CmdPowerOn:
		return ClassPowerOn
	case CmdPowerOff:
		return ClassPowerOff
	case CmdSourceHDMI1, CmdSourceHDMI2, CmdSourceVGA, CmdSourceComponent, CmdSourceVideo:
		return ClassSourceSelect
	default:
		return ClassGeneric
	}
}

// CommandClass groups commands that share a busy-timeout duration.
type CommandClass int

// Command classes.
const (
	ClassGeneric CommandClass = iota
	ClassPowerOn
	ClassPowerOff
	ClassSourceSelect
)

// busyTimeouts is how long the projector is presumed busy after a command of
// each class is dispatched. Power transitions take tens of seconds on real
// hardware.
var busyTimeouts = map[CommandClass]time.Duration{
	ClassPowerOn:      40 * time.Second,
	ClassPowerOff:     60 * time.Second,
	ClassSourceSelect: 2 * time.Second,
	ClassGeneric:      2 * time.Second,
}

// Timeout returns the busy window for the class.
func (c CommandClass) Timeout() time.Duration {
	if d, ok := busyTimeouts[c]; ok {
		return d
	}
	return busyTimeouts[ClassGeneric]
}

func (c CommandClass) String() string {
	switch c {
	case ClassPowerOn:
		return "power-on"
	case ClassPowerOff:
		return "power-off"
	case ClassSourceSelect:
		return "source-select"
	default:
		return "generic"
	}
}

// Unsolicited event identifiers. Each is a complete five-character event
// frame as emitted by the projector.
const (
	EventPoweredOff  = "INFO0"
	EventPoweringOn  = "INFO1"
	EventPoweringOff = "INFO2"
)

// Power state values decoded from query-power replies.
const (
	PowerOn  = "on"
	PowerOff = "off"
)

// sourceReplies maps four-character query-source reply codes to input source
// names. OK00 means no active source; codes absent from the table are
// treated the same way.
var sourceReplies = map[string]string{
	"OK00": "",
	"OK02": "VGA",
	"OK05": "VIDEO",
	"OK07": "HDMI1",
	"OK08": "HDMI2",
	"OK11": "COMPONENT",
}

// Acknowledgment replies to state-changing commands.
const (
	ackPass = "P"
	ackFail = "F"
)

// Frame stream bytes.
const (
	frameTerminator = 0x0D // CR, stripped from frames
	framePadding    = 0x00 // spurious NUL some firmware prepends, discarded
)
