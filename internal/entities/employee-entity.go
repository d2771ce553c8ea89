package entities

import "github.com/aarondl/null/v8"

// Employee - строка таблицы employees.
// DepartmentID проверяется на существование при каждом присвоении и сохранении,
// но не после: удалённый позже департамент оставляет "висячую" ссылку.
type Employee struct {
	ID           null.Int64 `json:"id"`
	Name         string     `json:"name" validate:"required"`
	JobTitle     string     `json:"job_title" validate:"required"`
	DepartmentID int64      `json:"department_id"`
}
