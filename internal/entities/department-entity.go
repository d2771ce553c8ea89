package entities

import "github.com/aarondl/null/v8"

// Department - строка таблицы departments. ID не задан, пока запись не сохранена.
type Department struct {
	ID       null.Int64 `json:"id"`
	Name     string     `json:"name" validate:"required"`
	Location string     `json:"location" validate:"required"`
}
