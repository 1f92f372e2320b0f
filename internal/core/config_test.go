package core

import "testing"

func TestTicksFor(t *testing.T) {
	tests := []struct {
		name string
		rate int
		ms   int
		want int
	}{
		{"zero delay", 60, 0, 0},
		{"negative delay", 60, -5, 0},
		{"exact", 60, 1000, 60},
		{"rounds up", 60, 150, 9},
		{"short delay still waits a tick", 60, 1, 1},
		{"unset rate uses 60", 0, 500, 30},
		{"slow clock", 10, 150, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := RuntimeConfig{TickRate: tt.rate}
			if got := c.TicksFor(tt.ms); got != tt.want {
				t.Errorf("TicksFor(%d) at %d/s = %d, want %d", tt.ms, tt.rate, got, tt.want)
			}
		})
	}
}

func TestInputFrame(t *testing.T) {
	f := NewInputFrame()
	f.Set(ActionLeft)
	f.Set(ActionToggleSound)

	if !f.Has(ActionLeft) || !f.Has(ActionToggleSound) || f.Has(ActionUp) {
		t.Errorf("frame = %v", f.Actions)
	}

	f.Clear()
	if f.Has(ActionLeft) {
		t.Error("Clear should drop every action")
	}

	if ActionHardReset.String() != "HardReset" || Action(99).String() != "Unknown" {
		t.Error("Action.String mismatch")
	}
}
