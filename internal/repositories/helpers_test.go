package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"company-registry/pkg/config"
	"company-registry/pkg/database"
)

// newTestDB открывает чистую БД в памяти и создает обе таблицы.
func newTestDB(t *testing.T) (*database.DB, DepartmentRepositoryInterface, EmployeeRepositoryInterface) {
	t.Helper()
	db, err := database.Connect(context.Background(), config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"}, zap.NewNop())
	require.NoError(t, err, "Не удалось подключиться к тестовой БД")
	t.Cleanup(func() { _ = db.Close() })

	departments := NewDepartmentRepository(db, zap.NewNop())
	employees := NewEmployeeRepository(db, zap.NewNop())
	require.NoError(t, departments.CreateTable(context.Background()))
	require.NoError(t, employees.CreateTable(context.Background()))
	return db, departments, employees
}
