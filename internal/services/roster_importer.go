package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	apperrors "company-registry/pkg/errors"
)

const (
	departmentsSheet = "departments"
	employeesSheet   = "employees"
)

type ImportResult struct {
	Departments int
	Employees   int
	Failed      int
}

// RosterImportService загружает департаменты и сотрудников из XLSX-книги.
// Лист departments: name, location. Лист employees: name, job_title, department (имя департамента).
type RosterImportService struct {
	departments *DepartmentService
	employees   *EmployeeService
	logger      *zap.Logger
}

func NewRosterImportService(departments *DepartmentService, employees *EmployeeService, logger *zap.Logger) *RosterImportService {
	return &RosterImportService{departments: departments, employees: employees, logger: logger}
}

func (s *RosterImportService) Import(ctx context.Context, sess *Session, path string) (*ImportResult, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия файла: %w", err)
	}
	defer f.Close()

	result := &ImportResult{}
	// имя департамента -> id, включая уже существующие в БД
	known := make(map[string]int64)

	deptRows, err := s.sheetRows(f, departmentsSheet)
	if err != nil {
		return nil, err
	}
	for _, row := range deptRows {
		name, location := row["name"], row["location"]
		if isTrash(name) {
			continue
		}
		department, err := s.departments.Create(ctx, name, location)
		if err != nil {
			s.logger.Warn("Строка департамента пропущена", zap.String("name", name), zap.Error(err))
			result.Failed++
			if !apperrors.IsValidation(err) {
				return result, err
			}
			continue
		}
		known[name] = department.ID.Int64
		result.Departments++
	}

	empRows, err := s.sheetRows(f, employeesSheet)
	if err != nil {
		return nil, err
	}
	for _, row := range empRows {
		name := row["name"]
		if isTrash(name) {
			continue
		}
		departmentID, err := s.resolveDepartment(ctx, known, row["department"])
		if err == nil {
			_, err = s.employees.Create(ctx, sess, name, row["job_title"], departmentID)
		}
		if err != nil {
			s.logger.Warn("Строка сотрудника пропущена", zap.String("name", name), zap.Error(err))
			result.Failed++
			if !apperrors.IsValidation(err) {
				return result, err
			}
			continue
		}
		result.Employees++
	}

	s.logger.Info("🏁 Импорт завершен",
		zap.String("file", path),
		zap.Int("departments", result.Departments),
		zap.Int("employees", result.Employees),
		zap.Int("failed", result.Failed))
	return result, nil
}

func (s *RosterImportService) resolveDepartment(ctx context.Context, known map[string]int64, name string) (int64, error) {
	if id, ok := known[name]; ok {
		return id, nil
	}
	department, err := s.departments.FindByName(ctx, name)
	if errors.Is(err, apperrors.ErrNotFound) {
		return 0, apperrors.NewValidationError("department", "департамент %q не найден", name)
	}
	if err != nil {
		return 0, err
	}
	known[name] = department.ID.Int64
	return department.ID.Int64, nil
}

// sheetRows читает лист (имя без учета регистра), считая первую строку шапкой.
// Отсутствующий лист - не ошибка.
func (s *RosterImportService) sheetRows(f *excelize.File, sheet string) ([]map[string]string, error) {
	var actual string
	for _, candidate := range f.GetSheetList() {
		if strings.EqualFold(strings.TrimSpace(candidate), sheet) {
			actual = candidate
			break
		}
	}
	if actual == "" {
		s.logger.Debug("Лист не найден", zap.String("sheet", sheet))
		return nil, nil
	}

	rows, err := f.GetRows(actual)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения листа %s: %w", actual, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := make([]string, len(rows[0]))
	for i, col := range rows[0] {
		header[i] = normalizeHeader(col)
	}

	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(map[string]string, len(header))
		for i, key := range header {
			if key == "" {
				continue
			}
			record[key] = safeGet(row, i)
		}
		records = append(records, record)
	}
	return records, nil
}

func normalizeHeader(col string) string {
	col = strings.ToLower(strings.TrimSpace(col))
	col = strings.ReplaceAll(col, " ", "_")
	switch col {
	case "title", "position":
		return "job_title"
	case "department_name":
		return "department"
	}
	return col
}

func safeGet(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

var summaryLabels = map[string]bool{"total": true, "итого": true, "всего": true}

// isTrash отсекает пустые и итоговые строки ("Итого", "Total:").
// Имена, лишь начинающиеся с этих слов, итоговыми не считаются.
func isTrash(val string) bool {
	v := strings.ToLower(strings.TrimSpace(val))
	if v == "" {
		return true
	}
	v = strings.TrimSpace(strings.TrimSuffix(v, ":"))
	return summaryLabels[v]
}
