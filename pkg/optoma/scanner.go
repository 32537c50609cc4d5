// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Lumen Labs

package optoma

// Scanner splits the projector's byte stream into frames.
//
// A frame normally ends at a CR byte, which is stripped. Two firmware quirks
// are handled here and nowhere else: stray NUL bytes prepended to some
// replies are discarded, and the INFO1 event is sent without its terminator,
// so a buffer that exactly matches it completes immediately.
type Scanner struct {
	buf []byte
}

// NewScanner returns a scanner with an empty buffer.
func NewScanner() *Scanner {
	return &Scanner{buf: make([]byte, 0, 16)}
}

// ScanByte consumes one byte from the stream. It returns the completed frame
// and true when the byte finishes a frame, otherwise "" and false.
func (s *Scanner) ScanByte(b byte) (string, bool) {
	if b == frameTerminator {
		return s.take(), true
	}
	if b == framePadding {
		return "", false
	}
	s.buf = append(s.buf, b)
	if len(s.buf) == len(EventPoweringOn) && string(s.buf) == EventPoweringOn {
		return s.take(), true
	}
	return "", false
}

func (s *Scanner) take() string {
	frame := string(s.buf)
	s.buf = s.buf[:0]
	return frame
}

// IsEvent reports whether a frame is an unsolicited event frame: exactly
// five characters, the first being 'I'. Every other frame is a reply to the
// most recently sent command.
func IsEvent(frame string) bool {
	return len(frame) == 5 && frame[0] == 'I'
}
