package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", ":memory:")
	t.Setenv("LOG_OUTPUT", "stdout, ./logs/app.log,")

	cfg := New()
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, ":memory:", cfg.Database.DSN)
	assert.Equal(t, []string{"stdout", "./logs/app.log"}, cfg.Log.OutputPaths)
	assert.Equal(t, "detach", cfg.Registry.DepartmentDeletePolicy)
}

func TestNew_Overrides(t *testing.T) {
	t.Setenv("DEPARTMENT_DELETE_POLICY", "cascade")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := New()
	assert.Equal(t, "cascade", cfg.Registry.DepartmentDeletePolicy)
	assert.Equal(t, "debug", cfg.Log.Level)
}
