package traffic

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestParseWindow(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Window
		err      bool
	}{
		{"any time", "-1", AnyTime, false},
		{"midnight", "0", 0, false},
		{"ten am", "600", 600, false},
		{"last minute", "1439", 1439, false},
		{"whitespace", " 500 ", 500, false},
		{"too large", "1440", AnyTime, true},
		{"too small", "-2", AnyTime, true},
		{"not a number", "noon", AnyTime, true},
		{"empty", "", AnyTime, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := ParseWindow(tt.input)
			if tt.err {
				assert.True(t, errors.Is(err, ErrInvalidWindow))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, w)
		})
	}
}

func TestWindowLabel(t *testing.T) {
	tests := []struct {
		window   Window
		expected string
	}{
		{AnyTime, "(any time)"},
		{0, "12:00 AM"},
		{500, "8:20 AM"},
		{600, "10:00 AM"},
		{720, "12:00 PM"},
		{1439, "11:59 PM"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.window.Label())
		})
	}
}

func TestWindowContains(t *testing.T) {
	w := Window(600)
	assert.True(t, w.Contains(540))
	assert.True(t, w.Contains(660))
	assert.True(t, w.Contains(600))
	assert.False(t, w.Contains(539))
	assert.False(t, w.Contains(661))

	// no wraparound at midnight
	assert.False(t, Window(1430).Contains(10))
}
