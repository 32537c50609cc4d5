// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Lumen Labs

package optoma

// Status classifies the outcome of a query or command round trip. Outcomes
// are returned as values; errors are reserved for terminal transport
// failures and context cancellation.
type Status int

const (
	// StatusOK means the operation succeeded; for queries, Value holds the
	// decoded property.
	StatusOK Status = iota

	// StatusBusy means the operation was rejected locally because a prior
	// state-changing command is still within its busy window. Nothing was
	// written to the transport.
	StatusBusy

	// StatusFailed means the projector acknowledged the command with an
	// explicit failure, which usually means it is busy on the device side.
	StatusFailed

	// StatusNoData means the projector had nothing to report: an empty
	// reply, or a source query with no active source.
	StatusNoData

	// StatusIndeterminate means a reply arrived but did not match any known
	// shape for the query, so no value could be decoded. Kept distinct from
	// StatusBusy deliberately.
	StatusIndeterminate

	// StatusProtocolError means the projector replied outside the protocol,
	// such as an acknowledgment byte other than P or F.
	StatusProtocolError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusBusy:
		return "busy"
	case StatusFailed:
		return "failed"
	case StatusNoData:
		return "no-data"
	case StatusIndeterminate:
		return "indeterminate"
	case StatusProtocolError:
		return "protocol-error"
	default:
		return "unknown"
	}
}

// Result is the structured outcome of a Projector operation.
type Result struct {
	Status Status
	Value  string // decoded property value when Status is StatusOK
	Raw    string // raw reply frame, when one was received
}

// decodeProperty turns a reply frame into a query result. Decode rules are
// per command: query-power expects a three-character reply whose last
// character is '1' or '0'; query-source expects a four-character code from
// the source table; other queries pass the reply through verbatim.
func decodeProperty(cmd Command, reply string) Result {
	if reply == "" {
		return Result{Status: StatusNoData}
	}
	switch cmd {
	case CmdQueryPower:
		if len(reply) == 3 {
			switch reply[2] {
			case '1':
				return Result{Status: StatusOK, Value: PowerOn, Raw: reply}
			case '0':
				return Result{Status: StatusOK, Value: PowerOff, Raw: reply}
			}
		}
		return Result{Status: StatusIndeterminate, Raw: reply}
	case CmdQuerySource:
		if len(reply) != 4 {
			return Result{Status: StatusIndeterminate, Raw: reply}
		}
		name, ok := sourceReplies[reply]
		if !ok || name == "" {
			return Result{Status: StatusNoData, Raw: reply}
		}
		return Result{Status: StatusOK, Value: name, Raw: reply}
	default:
		return Result{Status: StatusOK, Value: reply, Raw: reply}
	}
}

// decodeAck turns a reply frame into a command result. P acknowledges
// success, F reports device-side failure, anything else is a protocol
// violation.
func decodeAck(reply string) Result {
	switch reply {
	case ackPass:
		return Result{Status: StatusOK, Raw: reply}
	case ackFail:
		return Result{Status: StatusFailed, Raw: reply}
	default:
		return Result{Status: StatusProtocolError, Raw: reply}
	}
}
