package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestIsValidUUID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"v4 lowercase", "f47ac10b-58cc-4372-a567-0e02b2c3d479", true},
		{"v4 uppercase", "F47AC10B-58CC-4372-A567-0E02B2C3D479", true},
		{"v1", "c232ab00-9414-11ec-b3c8-9f6bdeced846", true},
		{"empty", "", false},
		{"too short", "f47ac10b-58cc-4372-a567", false},
		{"no dashes", "f47ac10b58cc4372a5670e02b2c3d479", false},
		{"nil uuid", "00000000-0000-0000-0000-000000000000", false},
		{"bad version", "f47ac10b-58cc-0372-a567-0e02b2c3d479", false},
		{"bad variant", "f47ac10b-58cc-4372-c567-0e02b2c3d479", false},
		{"sql injection", "'; DROP TABLE jovenes; --", false},
		{"right length garbage", "zzzzzzzz-zzzz-zzzz-zzzz-zzzzzzzzzzzz", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidUUID(tt.input))
		})
	}
}

func TestIsValidUUIDAcceptsGenerated(t *testing.T) {
	for i := 0; i < 50; i++ {
		tok := uuid.New().String()
		assert.True(t, IsValidUUID(tok), tok)
	}
}
