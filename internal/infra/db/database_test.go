package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budget-tracker/backend/config"
	"github.com/budget-tracker/backend/internal/integration/persistence/model"
)

func TestNewConnection_SQLite(t *testing.T) {
	database, err := NewConnection(&config.DatabaseConfig{Driver: DriverSQLite, URL: "file::memory:"})
	require.NoError(t, err)
	defer database.Close()

	require.NoError(t, database.Migrate())
	assert.True(t, database.HealthCheck())

	for _, m := range model.All() {
		assert.True(t, database.DB().Migrator().HasTable(m), "expected table for %T", m)
	}
}

func TestNewConnection_UnsupportedDriver(t *testing.T) {
	_, err := NewConnection(&config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}
