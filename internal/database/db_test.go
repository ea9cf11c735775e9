package database

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudchaser/dashboard/internal/config"
	"github.com/cloudchaser/dashboard/internal/database/migrations"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DB{User: "app", Pass: "p@ss", Host: "db", Port: "3307", Name: "cloudchaser"})

	assert.True(t, strings.HasPrefix(dsn, "app:p@ss@tcp(db:3307)/cloudchaser?"), dsn)
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")

	url := MigrateURL(config.DB{User: "app", Host: "db", Port: "3306", Name: "x"})
	assert.True(t, strings.HasPrefix(url, "mysql://app@tcp(db:3306)/x?"), url)
	assert.True(t, strings.HasSuffix(url, "&multiStatements=true"))
}

func TestMigrationsEmbedded(t *testing.T) {
	up, err := fs.ReadFile(migrations.FS, "000001_activity_log.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(up), "uq_activity_event")

	_, err = fs.ReadFile(migrations.FS, "000001_activity_log.down.sql")
	require.NoError(t, err)
}
