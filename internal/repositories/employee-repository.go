package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"

	"company-registry/internal/entities"
	"company-registry/pkg/database"
	apperrors "company-registry/pkg/errors"
)

const employeeTable = "employees"

var employeeColumns = []string{"id", "name", "job_title", "department_id"}

type EmployeeRepositoryInterface interface {
	CreateTable(ctx context.Context) error
	DropTable(ctx context.Context) error
	GetEmployees(ctx context.Context) ([]entities.Employee, error)
	FindEmployee(ctx context.Context, id int64) (*entities.Employee, error)
	FindEmployeeByName(ctx context.Context, name string) (*entities.Employee, error)
	CountByDepartment(ctx context.Context, departmentID int64) (int64, error)
	CreateEmployee(ctx context.Context, employee entities.Employee) (int64, error)
	UpdateEmployee(ctx context.Context, employee entities.Employee) error
	DeleteEmployee(ctx context.Context, id int64) error
	DeleteByDepartment(ctx context.Context, departmentID int64) ([]int64, error)
	WithTx(tx *sql.Tx) EmployeeRepositoryInterface
}

type EmployeeRepository struct {
	storage querier
	dialect database.Dialect
	builder sq.StatementBuilderType
	logger  *zap.Logger
}

func NewEmployeeRepository(db *database.DB, logger *zap.Logger) EmployeeRepositoryInterface {
	return &EmployeeRepository{storage: db, dialect: db.Dialect, builder: db.Builder(), logger: logger}
}

func (r *EmployeeRepository) WithTx(tx *sql.Tx) EmployeeRepositoryInterface {
	clone := *r
	clone.storage = tx
	return &clone
}

func scanEmployee(row rowScanner) (*entities.Employee, error) {
	var e entities.Employee
	err := row.Scan(&e.ID, &e.Name, &e.JobTitle, &e.DepartmentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования employee: %w", err)
	}
	return &e, nil
}

func (r *EmployeeRepository) CreateTable(ctx context.Context) error {
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		%s,
		name TEXT,
		job_title TEXT,
		department_id INTEGER%s
	)`, employeeTable, r.dialect.PrimaryKey(), r.dialect.References(departmentTable, "id"))
	if _, err := r.storage.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("не удалось создать таблицу %s: %w", employeeTable, err)
	}
	return nil
}

func (r *EmployeeRepository) DropTable(ctx context.Context) error {
	if _, err := r.storage.ExecContext(ctx, "DROP TABLE IF EXISTS "+employeeTable); err != nil {
		return fmt.Errorf("не удалось удалить таблицу %s: %w", employeeTable, err)
	}
	return nil
}

func (r *EmployeeRepository) GetEmployees(ctx context.Context) ([]entities.Employee, error) {
	query, args, err := r.builder.Select(employeeColumns...).From(employeeTable).OrderBy("id ASC").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := make([]entities.Employee, 0)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, *emp)
	}
	return employees, rows.Err()
}

func (r *EmployeeRepository) findOne(ctx context.Context, where sq.Sqlizer) (*entities.Employee, error) {
	query, args, err := r.builder.Select(employeeColumns...).
		From(employeeTable).
		Where(where).
		OrderBy("id ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanEmployee(r.storage.QueryRowContext(ctx, query, args...))
}

func (r *EmployeeRepository) FindEmployee(ctx context.Context, id int64) (*entities.Employee, error) {
	return r.findOne(ctx, sq.Eq{"id": id})
}

func (r *EmployeeRepository) FindEmployeeByName(ctx context.Context, name string) (*entities.Employee, error) {
	return r.findOne(ctx, sq.Eq{"name": name})
}

func (r *EmployeeRepository) CountByDepartment(ctx context.Context, departmentID int64) (int64, error) {
	query, args, err := r.builder.Select("COUNT(*)").From(employeeTable).Where(sq.Eq{"department_id": departmentID}).ToSql()
	if err != nil {
		return 0, err
	}
	var total int64
	if err := r.storage.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *EmployeeRepository) CreateEmployee(ctx context.Context, employee entities.Employee) (int64, error) {
	query, args, err := r.builder.Insert(employeeTable).
		Columns("name", "job_title", "department_id").
		Values(employee.Name, employee.JobTitle, employee.DepartmentID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, err
	}
	var id int64
	if err := r.storage.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("ошибка вставки employee: %w", err)
	}
	r.logger.Debug("employee вставлен", zap.Int64("id", id))
	return id, nil
}

func (r *EmployeeRepository) UpdateEmployee(ctx context.Context, employee entities.Employee) error {
	query, args, err := r.builder.Update(employeeTable).
		Set("name", employee.Name).
		Set("job_title", employee.JobTitle).
		Set("department_id", employee.DepartmentID).
		Where(sq.Eq{"id": employee.ID.Int64}).
		ToSql()
	if err != nil {
		return err
	}
	result, err := r.storage.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

func (r *EmployeeRepository) DeleteEmployee(ctx context.Context, id int64) error {
	query, args, err := r.builder.Delete(employeeTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	result, err := r.storage.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// DeleteByDepartment удаляет всех сотрудников департамента и возвращает их id.
// Вызывать внутри транзакции, чтобы выборка и удаление видели одни и те же строки.
func (r *EmployeeRepository) DeleteByDepartment(ctx context.Context, departmentID int64) ([]int64, error) {
	query, args, err := r.builder.Select("id").From(employeeTable).Where(sq.Eq{"department_id": departmentID}).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return ids, nil
	}

	delQuery, delArgs, err := r.builder.Delete(employeeTable).Where(sq.Eq{"department_id": departmentID}).ToSql()
	if err != nil {
		return nil, err
	}
	if _, err := r.storage.ExecContext(ctx, delQuery, delArgs...); err != nil {
		return nil, fmt.Errorf("ошибка удаления сотрудников department %d: %w", departmentID, err)
	}
	return ids, nil
}
