package migration

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/railzwaylabs/supportdesk/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestLoadManifest(t *testing.T) {
	m, err := LoadManifest()
	require.NoError(t, err)
	assert.Equal(t, uint(4), m.Version)
	assert.Len(t, m.Checksum, 64)

	again, err := LoadManifest()
	require.NoError(t, err)
	assert.Equal(t, m, again)
}

func TestParseVersion(t *testing.T) {
	v, ok := parseVersion("000012_add_index.up.sql")
	assert.True(t, ok)
	assert.Equal(t, uint(12), v)

	for _, name := range []string{"init.up.sql", "_x.up.sql", "abc_x.up.sql", "000000_zero.up.sql"} {
		_, ok := parseVersion(name)
		assert.False(t, ok, name)
	}
}

func TestRunAutoMigratesNonPostgres(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, Run(context.Background(), conn, db.DriverSQLite, zap.NewNop()))

	for _, table := range []string{"price_rules", "commission_rules", "audit_logs"} {
		assert.True(t, conn.Migrator().HasTable(table), table)
	}
	// Idempotent.
	require.NoError(t, Run(context.Background(), conn, db.DriverSQLite, zap.NewNop()))
}
