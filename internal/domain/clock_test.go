package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		input    string
		expected Clock
		wantErr  bool
	}{
		{"00:00", 0, false},
		{"09:15", 9*60 + 15, false},
		{"23:59", 23*60 + 59, false},
		{"13:45:30", 13*60 + 45, false},
		{" 08:00 ", 8 * 60, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"9:15", 0, true},
		{"09:15:61", 0, true},
		{"noon", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseClock(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestClock_StringAndSub(t *testing.T) {
	c := NewClock(7, 5)
	assert.Equal(t, "07:05", c.String())
	assert.Equal(t, 7, c.Hour())
	assert.Equal(t, 5, c.Minute())
	assert.Equal(t, 55, NewClock(8, 0).Sub(c))
	assert.Equal(t, -55, c.Sub(NewClock(8, 0)))
}

func TestClock_JSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Start Clock `json:"start"`
	}{NewClock(9, 30)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"09:30"}`, string(data))

	var in struct {
		Start Clock `json:"start"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"start":"17:45:00"}`), &in))
	assert.Equal(t, NewClock(17, 45), in.Start)

	assert.Error(t, json.Unmarshal([]byte(`{"start":"25:00"}`), &in))
}
