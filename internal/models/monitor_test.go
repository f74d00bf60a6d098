package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(n int) *int { return &n }

func TestAsignacionCap(t *testing.T) {
	tests := []struct {
		name    string
		max     *int
		overlay bool
		want    int
	}{
		{"overlay with limit", intPtr(25), true, 25},
		{"overlay unlimited", nil, true, 0},
		{"overlay ignores legacy default", nil, true, 0},
		{"legacy fixed cap", nil, false, LegacyMaxJovenes},
		{"legacy ignores stored value", intPtr(99), false, LegacyMaxJovenes},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Asignacion{MaxJovenes: tt.max}
			assert.Equal(t, tt.want, a.Cap(tt.overlay))
		})
	}
}
