package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		input string
		want  int
		ok    bool
	}{
		{"350", 35000, true},
		{"350.50", 35050, true},
		{"$350,5", 35050, true},
		{" 0 ", 0, true},
		{"12.345", 0, false},
		{"-5", 0, false},
		{"gratis", 0, false},
		{"", 0, false},
		{"10.", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePrice(tt.input)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStartPayload(t *testing.T) {
	assert.Equal(t, "", startPayload("/start"))
	assert.Equal(t, "ABCDE-FGHIJ", startPayload("/start ABCDE-FGHIJ"))
	assert.Equal(t, "abcde-fghij", startPayload("/start   abcde-fghij  extra"))
}
