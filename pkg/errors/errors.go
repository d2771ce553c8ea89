package errors

import (
	stderrors "errors"
	"fmt"
)

var (
	// Общие
	ErrNotFound     = fmt.Errorf("запись не найдена")
	ErrNotPersisted = fmt.Errorf("запись ещё не сохранена (id отсутствует)")

	// Департаменты
	ErrDepartmentInUse = fmt.Errorf("на департамент ссылаются сотрудники")
)

// ValidationError возвращается, когда значение поля недопустимо
// (пустая строка, несуществующий внешний ключ).
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidation сообщает, есть ли в цепочке err ошибка валидации.
func IsValidation(err error) bool {
	var vErr *ValidationError
	return stderrors.As(err, &vErr)
}
