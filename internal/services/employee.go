package services

import (
	"context"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"

	"company-registry/internal/entities"
	"company-registry/internal/repositories"
	apperrors "company-registry/pkg/errors"
	"company-registry/pkg/validation"
)

type EmployeeService struct {
	employeeRepository   repositories.EmployeeRepositoryInterface
	departmentRepository repositories.DepartmentRepositoryInterface
	validator            *validation.Validator
	logger               *zap.Logger
}

func NewEmployeeService(
	employeeRepository repositories.EmployeeRepositoryInterface,
	departmentRepository repositories.DepartmentRepositoryInterface,
	validator *validation.Validator,
	logger *zap.Logger,
) *EmployeeService {
	return &EmployeeService{
		employeeRepository:   employeeRepository,
		departmentRepository: departmentRepository,
		validator:            validator,
		logger:               logger,
	}
}

func (s *EmployeeService) CreateTable(ctx context.Context) error {
	return s.employeeRepository.CreateTable(ctx)
}

func (s *EmployeeService) DropTable(ctx context.Context) error {
	return s.employeeRepository.DropTable(ctx)
}

// checkDepartment - проверка внешнего ключа: департамент должен существовать прямо сейчас.
func (s *EmployeeService) checkDepartment(ctx context.Context, departmentID int64) error {
	exists, err := s.departmentRepository.DepartmentExists(ctx, departmentID)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.NewValidationError("department_id", "департамент с id %d не существует", departmentID)
	}
	return nil
}

func (s *EmployeeService) validate(ctx context.Context, employee *entities.Employee) error {
	if err := s.validator.Struct(employee); err != nil {
		return err
	}
	return s.checkDepartment(ctx, employee.DepartmentID)
}

// NewEmployee строит сотрудника и проверяет все поля, включая ссылку на департамент.
// Если id задан, объект сразу регистрируется в sess.
func (s *EmployeeService) NewEmployee(ctx context.Context, sess *Session, name, jobTitle string, departmentID int64, id null.Int64) (*entities.Employee, error) {
	employee := &entities.Employee{ID: id, Name: name, JobTitle: jobTitle, DepartmentID: departmentID}
	if err := s.validate(ctx, employee); err != nil {
		return nil, err
	}
	sess.track(employee)
	return employee, nil
}

// AssignDepartment переводит сотрудника в другой департамент (только в памяти).
// При несуществующем департаменте поле не меняется.
func (s *EmployeeService) AssignDepartment(ctx context.Context, employee *entities.Employee, departmentID int64) error {
	if err := s.checkDepartment(ctx, departmentID); err != nil {
		return err
	}
	employee.DepartmentID = departmentID
	return nil
}

// Save вставляет новую строку и присваивает объекту её id.
func (s *EmployeeService) Save(ctx context.Context, sess *Session, employee *entities.Employee) error {
	if err := s.validate(ctx, employee); err != nil {
		return err
	}
	id, err := s.employeeRepository.CreateEmployee(ctx, *employee)
	if err != nil {
		s.logger.Error("Ошибка при создании сотрудника", zap.String("name", employee.Name), zap.Error(err))
		return err
	}
	sess.untrack(employee)
	employee.ID = null.Int64From(id)
	sess.track(employee)
	s.logger.Info("Сотрудник успешно создан", zap.Int64("id", id), zap.Int64("department_id", employee.DepartmentID))
	return nil
}

func (s *EmployeeService) Create(ctx context.Context, sess *Session, name, jobTitle string, departmentID int64) (*entities.Employee, error) {
	employee, err := s.NewEmployee(ctx, sess, name, jobTitle, departmentID, null.Int64{})
	if err != nil {
		return nil, err
	}
	if err := s.Save(ctx, sess, employee); err != nil {
		return nil, err
	}
	return employee, nil
}

// Update сохраняет текущие значения полей. Другие живые копии с тем же id не меняются.
func (s *EmployeeService) Update(ctx context.Context, employee *entities.Employee) error {
	if !employee.ID.Valid {
		return apperrors.ErrNotPersisted
	}
	if err := s.validate(ctx, employee); err != nil {
		return err
	}
	if err := s.employeeRepository.UpdateEmployee(ctx, *employee); err != nil {
		s.logger.Error("Ошибка при обновлении сотрудника", zap.Int64("id", employee.ID.Int64), zap.Error(err))
		return err
	}
	s.logger.Info("Сотрудник успешно обновлен", zap.Int64("id", employee.ID.Int64))
	return nil
}

// Delete удаляет строку и сбрасывает id у всех копий этого сотрудника в sess.
func (s *EmployeeService) Delete(ctx context.Context, sess *Session, employee *entities.Employee) error {
	if !employee.ID.Valid {
		return apperrors.ErrNotPersisted
	}
	id := employee.ID.Int64
	if err := s.employeeRepository.DeleteEmployee(ctx, id); err != nil {
		s.logger.Error("Ошибка при удалении сотрудника", zap.Int64("id", id), zap.Error(err))
		return err
	}
	sess.detach(id)
	employee.ID = null.Int64{}
	s.logger.Info("Сотрудник удален", zap.Int64("id", id), zap.Stringer("session", sessionID(sess)))
	return nil
}

func (s *EmployeeService) GetAll(ctx context.Context, sess *Session) ([]*entities.Employee, error) {
	rows, err := s.employeeRepository.GetEmployees(ctx)
	if err != nil {
		s.logger.Error("Ошибка при получении списка сотрудников", zap.Error(err))
		return nil, err
	}
	return hydrateEmployees(sess, rows), nil
}

func (s *EmployeeService) FindByID(ctx context.Context, sess *Session, id int64) (*entities.Employee, error) {
	employee, err := s.employeeRepository.FindEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	sess.track(employee)
	return employee, nil
}

func (s *EmployeeService) FindByName(ctx context.Context, sess *Session, name string) (*entities.Employee, error) {
	employee, err := s.employeeRepository.FindEmployeeByName(ctx, name)
	if err != nil {
		return nil, err
	}
	sess.track(employee)
	return employee, nil
}

// hydrateEmployees превращает строки в живые объекты и регистрирует их в sess.
// Ссылка на департамент при загрузке не перепроверяется.
func hydrateEmployees(sess *Session, rows []entities.Employee) []*entities.Employee {
	employees := make([]*entities.Employee, len(rows))
	for i := range rows {
		employees[i] = &rows[i]
		sess.track(employees[i])
	}
	return employees
}
