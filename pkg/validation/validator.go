package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "company-registry/pkg/errors"
)

// Validator проверяет сущности по тегам `validate` и возвращает *apperrors.ValidationError.
type Validator struct {
	validator *validator.Validate
}

func New() *Validator {
	v := validator.New()

	// Ошибки должны ссылаться на имена колонок, а не на поля Go.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	registerNullTypes(v)

	return &Validator{validator: v}
}

func (cv *Validator) Struct(i interface{}) error {
	err := cv.validator.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return err
	}

	fe := fieldErrors[0]
	return apperrors.NewValidationError(fe.Field(), "%s", messageFor(fe))
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "должно содержать хотя бы 1 символ"
	default:
		return fmt.Sprintf("не прошло правило '%s'", fe.Tag())
	}
}
