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

const departmentTable = "departments"

var departmentColumns = []string{"id", "name", "location"}

type DepartmentRepositoryInterface interface {
	CreateTable(ctx context.Context) error
	DropTable(ctx context.Context) error
	GetDepartments(ctx context.Context) ([]entities.Department, error)
	FindDepartment(ctx context.Context, id int64) (*entities.Department, error)
	FindDepartmentByName(ctx context.Context, name string) (*entities.Department, error)
	DepartmentExists(ctx context.Context, id int64) (bool, error)
	CreateDepartment(ctx context.Context, department entities.Department) (int64, error)
	UpdateDepartment(ctx context.Context, department entities.Department) error
	DeleteDepartment(ctx context.Context, id int64) error
	WithTx(tx *sql.Tx) DepartmentRepositoryInterface
}

type DepartmentRepository struct {
	storage querier
	dialect database.Dialect
	builder sq.StatementBuilderType
	logger  *zap.Logger
}

func NewDepartmentRepository(db *database.DB, logger *zap.Logger) DepartmentRepositoryInterface {
	return &DepartmentRepository{storage: db, dialect: db.Dialect, builder: db.Builder(), logger: logger}
}

// WithTx возвращает копию репозитория, работающую внутри транзакции tx.
func (r *DepartmentRepository) WithTx(tx *sql.Tx) DepartmentRepositoryInterface {
	clone := *r
	clone.storage = tx
	return &clone
}

func scanDepartment(row rowScanner) (*entities.Department, error) {
	var d entities.Department
	err := row.Scan(&d.ID, &d.Name, &d.Location)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования department: %w", err)
	}
	return &d, nil
}

func (r *DepartmentRepository) CreateTable(ctx context.Context) error {
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		%s,
		name TEXT,
		location TEXT
	)`, departmentTable, r.dialect.PrimaryKey())
	if _, err := r.storage.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("не удалось создать таблицу %s: %w", departmentTable, err)
	}
	return nil
}

func (r *DepartmentRepository) DropTable(ctx context.Context) error {
	if _, err := r.storage.ExecContext(ctx, "DROP TABLE IF EXISTS "+departmentTable); err != nil {
		return fmt.Errorf("не удалось удалить таблицу %s: %w", departmentTable, err)
	}
	return nil
}

func (r *DepartmentRepository) GetDepartments(ctx context.Context) ([]entities.Department, error) {
	query, args, err := r.builder.Select(departmentColumns...).From(departmentTable).OrderBy("id ASC").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	departments := make([]entities.Department, 0)
	for rows.Next() {
		dept, err := scanDepartment(rows)
		if err != nil {
			return nil, err
		}
		departments = append(departments, *dept)
	}
	return departments, rows.Err()
}

func (r *DepartmentRepository) findOne(ctx context.Context, where sq.Sqlizer) (*entities.Department, error) {
	query, args, err := r.builder.Select(departmentColumns...).
		From(departmentTable).
		Where(where).
		OrderBy("id ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, err
	}
	return scanDepartment(r.storage.QueryRowContext(ctx, query, args...))
}

func (r *DepartmentRepository) FindDepartment(ctx context.Context, id int64) (*entities.Department, error) {
	return r.findOne(ctx, sq.Eq{"id": id})
}

func (r *DepartmentRepository) FindDepartmentByName(ctx context.Context, name string) (*entities.Department, error) {
	return r.findOne(ctx, sq.Eq{"name": name})
}

func (r *DepartmentRepository) DepartmentExists(ctx context.Context, id int64) (bool, error) {
	query, args, err := r.builder.Select("COUNT(*)").From(departmentTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return false, err
	}
	var count int64
	if err := r.storage.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("ошибка проверки department %d: %w", id, err)
	}
	return count > 0, nil
}

func (r *DepartmentRepository) CreateDepartment(ctx context.Context, department entities.Department) (int64, error) {
	query, args, err := r.builder.Insert(departmentTable).
		Columns("name", "location").
		Values(department.Name, department.Location).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, err
	}
	var id int64
	if err := r.storage.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("ошибка вставки department: %w", err)
	}
	r.logger.Debug("department вставлен", zap.Int64("id", id))
	return id, nil
}

func (r *DepartmentRepository) UpdateDepartment(ctx context.Context, department entities.Department) error {
	query, args, err := r.builder.Update(departmentTable).
		Set("name", department.Name).
		Set("location", department.Location).
		Where(sq.Eq{"id": department.ID.Int64}).
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

func (r *DepartmentRepository) DeleteDepartment(ctx context.Context, id int64) error {
	query, args, err := r.builder.Delete(departmentTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	result, err := r.storage.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

func requireAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
