package configuracion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClaveAllowed(t *testing.T) {
	for _, k := range AllowedClaves {
		assert.True(t, claveAllowed(k), k)
	}
	assert.False(t, claveAllowed("password_hash"))
	assert.False(t, claveAllowed(""))
	assert.False(t, claveAllowed("Nombre_Organizacion"))
}
