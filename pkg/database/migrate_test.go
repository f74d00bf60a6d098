package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readMigration(t *testing.T, name string) string {
	t.Helper()
	sql, err := migrationsFS.ReadFile("migrations/" + name)
	require.NoError(t, err)
	return string(sql)
}

func TestMigrationsAreEmbeddedInOrder(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	require.NotEmpty(t, names)
	for _, name := range names {
		assert.Regexp(t, `^\d{3}_`, name)
	}
}

// The usuario hard-delete cascade in internal/usuarios leans on these schema
// properties: overlay assignment rows follow the usuarios row via foreign key,
// and audit references (who recorded a payment, who validated a document) are
// nullable so they can be detached rather than block the delete.
func TestSchemaSupportsUsuarioHardDelete(t *testing.T) {
	asignaciones := readMigration(t, "003_asignaciones.sql")
	assert.Contains(t, asignaciones,
		"usuario_id UUID NOT NULL REFERENCES usuarios(id) ON DELETE CASCADE")

	schema := readMigration(t, "001_schema.sql")
	assert.Contains(t, schema, "registrado_por UUID REFERENCES usuarios(id)")
	assert.NotContains(t, schema, "registrado_por UUID NOT NULL")

	overlays := readMigration(t, "002_overlays.sql")
	assert.Contains(t, overlays, "validado_por UUID REFERENCES usuarios(id)")
	assert.NotContains(t, overlays, "validado_por UUID NOT NULL")
}
