package event

import (
	"testing"
	"time"
)

func TestFormatCountdown(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{name: "zero", d: 0, want: "0s"},
		{name: "negative", d: -5 * time.Second, want: "0s"},
		{name: "seconds only", d: 45 * time.Second, want: "45s"},
		{name: "exactly a minute", d: time.Minute, want: "1m 0s"},
		{name: "minutes and seconds", d: 125 * time.Second, want: "2m 5s"},
		{name: "exactly an hour", d: time.Hour, want: "1h 0m 0s"},
		{name: "hours minutes seconds", d: 3725 * time.Second, want: "1h 2m 5s"},
		{name: "truncates sub-second", d: 45*time.Second + 900*time.Millisecond, want: "45s"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatCountdown(tt.d); got != tt.want {
				t.Fatalf("FormatCountdown(%v) = %q, want %q", tt.d, got, tt.want)
			}
		})
	}
}
