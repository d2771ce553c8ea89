package repositories

import (
	"context"
	"database/sql"
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"company-registry/internal/entities"
	apperrors "company-registry/pkg/errors"
)

func seedDepartment(t *testing.T, repo DepartmentRepositoryInterface, name string) int64 {
	t.Helper()
	id, err := repo.CreateDepartment(context.Background(), entities.Department{Name: name, Location: "HQ"})
	require.NoError(t, err)
	return id
}

func TestEmployeeRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	_, departments, repo := newTestDB(t)
	deptID := seedDepartment(t, departments, "Engineering")

	id, err := repo.CreateEmployee(ctx, entities.Employee{Name: "Ada", JobTitle: "Engineer", DepartmentID: deptID})
	require.NoError(t, err)

	found, err := repo.FindEmployee(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, entities.Employee{ID: null.Int64From(id), Name: "Ada", JobTitle: "Engineer", DepartmentID: deptID}, *found)

	found.JobTitle = "Principal Engineer"
	require.NoError(t, repo.UpdateEmployee(ctx, *found))

	byName, err := repo.FindEmployeeByName(ctx, "Ada")
	require.NoError(t, err)
	assert.Equal(t, "Principal Engineer", byName.JobTitle)

	require.NoError(t, repo.DeleteEmployee(ctx, id))
	_, err = repo.FindEmployee(ctx, id)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, repo.DeleteEmployee(ctx, id), apperrors.ErrNotFound)
}

func TestEmployeeRepository_CountAndDeleteByDepartment(t *testing.T) {
	ctx := context.Background()
	db, departments, repo := newTestDB(t)
	eng := seedDepartment(t, departments, "Engineering")
	ops := seedDepartment(t, departments, "Ops")

	var engIDs []int64
	for _, name := range []string{"Ada", "Linus"} {
		id, err := repo.CreateEmployee(ctx, entities.Employee{Name: name, JobTitle: "Engineer", DepartmentID: eng})
		require.NoError(t, err)
		engIDs = append(engIDs, id)
	}
	_, err := repo.CreateEmployee(ctx, entities.Employee{Name: "Grace", JobTitle: "SRE", DepartmentID: ops})
	require.NoError(t, err)

	total, err := repo.CountByDepartment(ctx, eng)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	tm := NewTxManager(db)
	var removed []int64
	err = tm.RunInTransaction(ctx, func(tx *sql.Tx) error {
		var txErr error
		removed, txErr = repo.WithTx(tx).DeleteByDepartment(ctx, eng)
		return txErr
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, engIDs, removed)

	all, err := repo.GetEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Grace", all[0].Name)

	removed, err = repo.DeleteByDepartment(ctx, eng)
	require.NoError(t, err)
	assert.Empty(t, removed)
}

func TestEmployeeRepository_DanglingReferenceAllowed(t *testing.T) {
	ctx := context.Background()
	_, departments, repo := newTestDB(t)
	deptID := seedDepartment(t, departments, "Temp")

	id, err := repo.CreateEmployee(ctx, entities.Employee{Name: "Ada", JobTitle: "Engineer", DepartmentID: deptID})
	require.NoError(t, err)

	require.NoError(t, departments.DeleteDepartment(ctx, deptID), "удаление не должно каскадироваться и не должно падать")

	found, err := repo.FindEmployee(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, deptID, found.DepartmentID)
}
