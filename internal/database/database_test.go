package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AloysioLvy/CardioRiskAnalyzer/internal/config"
)

func TestDialectorFor(t *testing.T) {
	cfg := &config.Config{DBHost: "db", DBPort: "5432", DBUser: "app", DBName: "cardio", DBSSLMode: "disable", DBTimezone: "UTC"}

	for _, driver := range []string{"postgres", "mysql", "sqlite"} {
		cfg.DBDriver = driver
		d, err := dialectorFor(cfg)
		require.NoError(t, err, driver)
		assert.Equal(t, driver, d.Name())
	}

	cfg.DBDriver = "oracle"
	_, err := dialectorFor(cfg)
	assert.Error(t, err)
}

func TestConnect_SQLite(t *testing.T) {
	cfg := &config.Config{DBDriver: "sqlite", DBPath: filepath.Join(t.TempDir(), "reference.db")}

	db, err := Connect(cfg)
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE TABLE probe (id INTEGER)").Error)
}
