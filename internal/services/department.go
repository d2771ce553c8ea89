package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"

	"company-registry/internal/entities"
	"company-registry/internal/repositories"
	apperrors "company-registry/pkg/errors"
	"company-registry/pkg/validation"
)

// DeletePolicy определяет, что происходит с сотрудниками при удалении их департамента.
type DeletePolicy string

const (
	// DeleteDetach удаляет только департамент; ссылки сотрудников остаются "висячими".
	// Работает одинаково для обоих драйверов: таблица employees в PostgreSQL
	// создается без ограничения REFERENCES (см. database.Dialect.References).
	DeleteDetach DeletePolicy = "detach"
	// DeleteRestrict запрещает удаление, пока на департамент ссылается хоть один сотрудник.
	DeleteRestrict DeletePolicy = "restrict"
	// DeleteCascade удаляет сотрудников департамента вместе с ним в одной транзакции.
	DeleteCascade DeletePolicy = "cascade"
)

func ParseDeletePolicy(value string) (DeletePolicy, error) {
	switch DeletePolicy(strings.ToLower(strings.TrimSpace(value))) {
	case "", DeleteDetach:
		return DeleteDetach, nil
	case DeleteRestrict:
		return DeleteRestrict, nil
	case DeleteCascade:
		return DeleteCascade, nil
	default:
		return "", fmt.Errorf("неизвестная политика удаления департамента: %q", value)
	}
}

type DepartmentService struct {
	departmentRepository repositories.DepartmentRepositoryInterface
	employeeRepository   repositories.EmployeeRepositoryInterface
	txManager            repositories.TxManagerInterface
	validator            *validation.Validator
	deletePolicy         DeletePolicy
	logger               *zap.Logger
}

func NewDepartmentService(
	departmentRepository repositories.DepartmentRepositoryInterface,
	employeeRepository repositories.EmployeeRepositoryInterface,
	txManager repositories.TxManagerInterface,
	validator *validation.Validator,
	deletePolicy DeletePolicy,
	logger *zap.Logger,
) *DepartmentService {
	return &DepartmentService{
		departmentRepository: departmentRepository,
		employeeRepository:   employeeRepository,
		txManager:            txManager,
		validator:            validator,
		deletePolicy:         deletePolicy,
		logger:               logger,
	}
}

func (s *DepartmentService) CreateTable(ctx context.Context) error {
	return s.departmentRepository.CreateTable(ctx)
}

func (s *DepartmentService) DropTable(ctx context.Context) error {
	return s.departmentRepository.DropTable(ctx)
}

// NewDepartment строит несохранённый департамент (или с известным id) и проверяет поля.
func (s *DepartmentService) NewDepartment(name, location string, id null.Int64) (*entities.Department, error) {
	department := &entities.Department{ID: id, Name: name, Location: location}
	if err := s.validator.Struct(department); err != nil {
		return nil, err
	}
	return department, nil
}

func (s *DepartmentService) Save(ctx context.Context, department *entities.Department) error {
	if err := s.validator.Struct(department); err != nil {
		return err
	}
	id, err := s.departmentRepository.CreateDepartment(ctx, *department)
	if err != nil {
		s.logger.Error("Ошибка при создании департамента", zap.String("name", department.Name), zap.Error(err))
		return err
	}
	department.ID = null.Int64From(id)
	s.logger.Info("Департамент успешно создан", zap.Int64("id", id), zap.String("name", department.Name))
	return nil
}

func (s *DepartmentService) Create(ctx context.Context, name, location string) (*entities.Department, error) {
	department, err := s.NewDepartment(name, location, null.Int64{})
	if err != nil {
		return nil, err
	}
	if err := s.Save(ctx, department); err != nil {
		return nil, err
	}
	return department, nil
}

func (s *DepartmentService) Update(ctx context.Context, department *entities.Department) error {
	if !department.ID.Valid {
		return apperrors.ErrNotPersisted
	}
	if err := s.validator.Struct(department); err != nil {
		return err
	}
	if err := s.departmentRepository.UpdateDepartment(ctx, *department); err != nil {
		s.logger.Error("Ошибка при обновлении департамента", zap.Int64("id", department.ID.Int64), zap.Error(err))
		return err
	}
	s.logger.Info("Департамент успешно обновлен", zap.Int64("id", department.ID.Int64))
	return nil
}

// Delete удаляет строку департамента и сбрасывает его id.
// Судьба сотрудников зависит от политики удаления.
func (s *DepartmentService) Delete(ctx context.Context, sess *Session, department *entities.Department) error {
	if !department.ID.Valid {
		return apperrors.ErrNotPersisted
	}
	id := department.ID.Int64

	var err error
	switch s.deletePolicy {
	case DeleteRestrict:
		err = s.txManager.RunInTransaction(ctx, func(tx *sql.Tx) error {
			total, err := s.employeeRepository.WithTx(tx).CountByDepartment(ctx, id)
			if err != nil {
				return err
			}
			if total > 0 {
				return fmt.Errorf("департамент %d, сотрудников: %d: %w", id, total, apperrors.ErrDepartmentInUse)
			}
			return s.departmentRepository.WithTx(tx).DeleteDepartment(ctx, id)
		})
	case DeleteCascade:
		var removed []int64
		err = s.txManager.RunInTransaction(ctx, func(tx *sql.Tx) error {
			var txErr error
			removed, txErr = s.employeeRepository.WithTx(tx).DeleteByDepartment(ctx, id)
			if txErr != nil {
				return txErr
			}
			return s.departmentRepository.WithTx(tx).DeleteDepartment(ctx, id)
		})
		if err == nil {
			for _, employeeID := range removed {
				sess.detach(employeeID)
			}
			s.logger.Info("Сотрудники удалены каскадно", zap.Int64("department_id", id), zap.Int("count", len(removed)))
		}
	default:
		err = s.departmentRepository.DeleteDepartment(ctx, id)
	}
	if err != nil {
		s.logger.Error("Ошибка при удалении департамента", zap.Int64("id", id), zap.Error(err))
		return err
	}

	department.ID = null.Int64{}
	s.logger.Info("Департамент удален", zap.Int64("id", id), zap.String("policy", string(s.deletePolicy)))
	return nil
}

func (s *DepartmentService) GetAll(ctx context.Context) ([]*entities.Department, error) {
	rows, err := s.departmentRepository.GetDepartments(ctx)
	if err != nil {
		s.logger.Error("Ошибка при получении списка департаментов", zap.Error(err))
		return nil, err
	}
	departments := make([]*entities.Department, len(rows))
	for i := range rows {
		departments[i] = &rows[i]
	}
	return departments, nil
}

func (s *DepartmentService) FindByID(ctx context.Context, id int64) (*entities.Department, error) {
	return s.departmentRepository.FindDepartment(ctx, id)
}

func (s *DepartmentService) FindByName(ctx context.Context, name string) (*entities.Department, error) {
	return s.departmentRepository.FindDepartmentByName(ctx, name)
}

// Employees возвращает сотрудников департамента, перебирая полный список сотрудников.
// Загруженные объекты регистрируются в sess.
func (s *DepartmentService) Employees(ctx context.Context, sess *Session, department *entities.Department) ([]*entities.Employee, error) {
	rows, err := s.employeeRepository.GetEmployees(ctx)
	if err != nil {
		s.logger.Error("Ошибка при получении сотрудников департамента", zap.Error(err))
		return nil, err
	}

	result := make([]*entities.Employee, 0)
	for _, employee := range hydrateEmployees(sess, rows) {
		if department.ID.Valid && employee.DepartmentID == department.ID.Int64 {
			result = append(result, employee)
		}
	}
	return result, nil
}
