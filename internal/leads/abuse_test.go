package leads

import (
	"testing"
	"time"
)

func TestHoneypotTripped(t *testing.T) {
	if honeypotTripped(&SubscribeRequest{Website: ""}) {
		t.Error("empty honeypot must not trip")
	}
	if honeypotTripped(&SubscribeRequest{Website: "   "}) {
		t.Error("whitespace honeypot must not trip")
	}
	if !honeypotTripped(&SubscribeRequest{Website: "http://spam.example"}) {
		t.Error("filled honeypot must trip")
	}
}

func TestTooFast(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	min := 2 * time.Second

	tests := []struct {
		name string
		ts   int64
		want bool
	}{
		{"absent timestamp skips check", 0, false},
		{"negative timestamp skips check", -5, false},
		{"elapsed above threshold", now.Add(-3 * time.Second).UnixMilli(), false},
		{"elapsed exactly at threshold", now.Add(-2 * time.Second).UnixMilli(), false},
		{"elapsed below threshold", now.Add(-500 * time.Millisecond).UnixMilli(), true},
		{"client clock ahead of server", now.Add(10 * time.Second).UnixMilli(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tooFast(now, tt.ts, min); got != tt.want {
				t.Errorf("tooFast(%d) = %v, want %v", tt.ts, got, tt.want)
			}
		})
	}
}
