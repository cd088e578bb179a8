package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"croplife/internal/model"
)

func TestOpen_SQLiteAndMigrate(t *testing.T) {
	gormDB, err := Open("sqlite", ":memory:")
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, Migrate(gormDB))

	assert.True(t, gormDB.Migrator().HasTable(&model.Product{}))
	assert.True(t, gormDB.Migrator().HasTable(&model.AdminUser{}))
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open("oracle", "dsn")
	assert.ErrorContains(t, err, "unsupported database driver")
}
