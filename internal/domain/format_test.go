package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		minutes  int
		expected string
	}{
		{0, "0m"},
		{1, "1m"},
		{45, "45m"},
		{59, "59m"},
		{60, "1h"},
		{61, "1h 1m"},
		{90, "1h 30m"},
		{480, "8h"},
		{1080, "18h"},
		{1441, "24h 1m"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d", tt.minutes), func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatMinutes(tt.minutes))
		})
	}
}

// every positive minute count round-trips through its hour and minute parts
func TestFormatMinutes_Law(t *testing.T) {
	for m := 1; m <= 2000; m++ {
		h, r := m/60, m%60
		var want string
		switch {
		case h == 0:
			want = fmt.Sprintf("%dm", r)
		case r == 0:
			want = fmt.Sprintf("%dh", h)
		default:
			want = fmt.Sprintf("%dh %dm", h, r)
		}
		if got := FormatMinutes(m); got != want {
			t.Fatalf("FormatMinutes(%d) = %q, want %q", m, got, want)
		}
	}
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.29, Round2(540.0/60/7))
	assert.Equal(t, 2.5, Round2(2.5))
	assert.Equal(t, 0.0, Round2(0))
	assert.Equal(t, 0.67, Round2(2.0/3))
}
