// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Lumen Labs

package optoma

import "testing"

// scanAll feeds every byte to the scanner and collects completed frames.
func scanAll(s *Scanner, data string) []string {
	var frames []string
	for i := 0; i < len(data); i++ {
		if frame, done := s.ScanByte(data[i]); done {
			frames = append(frames, frame)
		}
	}
	return frames
}

func TestScanner_TerminatorStripped(t *testing.T) {
	frames := scanAll(NewScanner(), "OK1\r")
	if len(frames) != 1 || frames[0] != "OK1" {
		t.Fatalf("expected [OK1], got %v", frames)
	}
}

func TestScanner_DiscardsNullBytes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"embedded null", "A\x00B\r", "AB"},
		{"leading null", "\x00OK1\r", "OK1"},
		{"only nulls", "\x00\x00\r", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frames := scanAll(NewScanner(), tt.input)
			if len(frames) != 1 || frames[0] != tt.want {
				t.Errorf("expected [%q], got %v", tt.want, frames)
			}
		})
	}
}

func TestScanner_Info1CompletesWithoutTerminator(t *testing.T) {
	s := NewScanner()
	var got string
	for i, b := range []byte("INFO1") {
		frame, done := s.ScanByte(b)
		if done && i < 4 {
			t.Fatalf("frame completed early at byte %d", i)
		}
		if done {
			got = frame
		}
	}
	if got != "INFO1" {
		t.Fatalf("expected INFO1, got %q", got)
	}
	if !IsEvent(got) {
		t.Error("INFO1 should classify as an event frame")
	}
}

func TestScanner_Info1PrefixNeedsTerminator(t *testing.T) {
	// "INFO1" only completes on an exact buffer match; a reply that merely
	// starts with those characters still waits for CR.
	frames := scanAll(NewScanner(), "XINFO1\r")
	if len(frames) != 1 || frames[0] != "XINFO1" {
		t.Fatalf("expected [XINFO1], got %v", frames)
	}
}

func TestScanner_SequentialFrames(t *testing.T) {
	frames := scanAll(NewScanner(), "OK07\rINFO0\rP\r")
	want := []string{"OK07", "INFO0", "P"}
	if len(frames) != len(want) {
		t.Fatalf("expected %v, got %v", want, frames)
	}
	for i := range want {
		if frames[i] != want[i] {
			t.Errorf("frame %d: expected %q, got %q", i, want[i], frames[i])
		}
	}
}

func TestIsEvent(t *testing.T) {
	tests := []struct {
		frame string
		want  bool
	}{
		{"INFO0", true},
		{"INFO1", true},
		{"INFO2", true},
		{"IABCD", true},
		{"OK1", false},
		{"P", false},
		{"", false},
		{"INFO", false},   // four characters
		{"INFO12", false}, // six characters
		{"XNFO1", false},  // wrong first character
	}

	for _, tt := range tests {
		if got := IsEvent(tt.frame); got != tt.want {
			t.Errorf("IsEvent(%q) = %v, want %v", tt.frame, got, tt.want)
		}
	}
}
