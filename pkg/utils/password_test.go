package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePassword(t *testing.T) {
	p, err := GeneratePassword(12)
	require.NoError(t, err)
	assert.Len(t, p, 12)
	for _, r := range p {
		assert.True(t, strings.ContainsRune(passwordAlphabet, r), "unexpected character %q", r)
	}

	other, err := GeneratePassword(12)
	require.NoError(t, err)
	assert.NotEqual(t, p, other)
}
