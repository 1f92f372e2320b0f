package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
)

func TestFormatBoard(t *testing.T) {
	got := formatBoard([t2048.BoardSize][t2048.BoardSize]int{
		{2, 0, 0, 2048},
	})
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != t2048.BoardSize {
		t.Fatalf("got %d lines, want %d", len(lines), t2048.BoardSize)
	}
	if lines[0] != "    2     .     .  2048" {
		t.Errorf("first row = %q", lines[0])
	}
	if lines[1] != "    .     .     .     ." {
		t.Errorf("empty row = %q", lines[1])
	}
}

func TestPrintSnapshot(t *testing.T) {
	snap := t2048.Snapshot{
		Score:        12,
		Best:         40,
		BestName:     "ann",
		Status:       t2048.StatusOver,
		AwaitingName: true,
	}

	var buf bytes.Buffer
	if err := printSnapshot(&buf, snap, false); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Score: 12", "Best: 40 (ann)", "Sound: off", "t2048 name"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := printSnapshot(&buf, snap, true); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"awaitingName": true`) {
		t.Errorf("json output = %s", buf.String())
	}
}

func TestDescribeEvent(t *testing.T) {
	tests := []struct {
		ev   t2048.Event
		want string
	}{
		{t2048.TileMerged{Value: 8}, "tileMerged: 8"},
		{t2048.MoveRejected{Direction: "left", Reason: t2048.RejectNoChange}, "moveRejected: left (no-change)"},
		{t2048.StatusChanged{Status: t2048.StatusWon}, "statusChanged: won"},
		{t2048.NameRequired{}, "nameRequired"},
	}
	for _, tt := range tests {
		if got := describeEvent(tt.ev); got != tt.want {
			t.Errorf("describeEvent(%T) = %q, want %q", tt.ev, got, tt.want)
		}
	}
}
