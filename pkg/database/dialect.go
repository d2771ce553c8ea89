package database

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "pgx"
)

// ParseDriver принимает также привычные синонимы ("postgres", "sqlite3").
func ParseDriver(name string) (Driver, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "sqlite", "sqlite3":
		return DriverSQLite, nil
	case "pgx", "postgres", "postgresql":
		return DriverPostgres, nil
	default:
		return "", fmt.Errorf("неизвестный драйвер БД: %q", name)
	}
}

// Dialect хранит различия SQL между поддерживаемыми хранилищами.
type Dialect struct {
	Driver Driver
}

func (d Dialect) Placeholder() sq.PlaceholderFormat {
	if d.Driver == DriverPostgres {
		return sq.Dollar
	}
	return sq.Question
}

// PrimaryKey возвращает определение колонки id с ключом, который назначает само хранилище.
func (d Dialect) PrimaryKey() string {
	if d.Driver == DriverPostgres {
		return "id SERIAL PRIMARY KEY"
	}
	return "id INTEGER PRIMARY KEY"
}

// References возвращает ограничение внешнего ключа для колонки.
// В PostgreSQL ограничение не создается: ссылку проверяет сервис при присвоении,
// а удаление департамента не должно падать на стороне хранилища (как и в SQLite,
// где foreign_keys по умолчанию выключены).
func (d Dialect) References(table, column string) string {
	if d.Driver == DriverPostgres {
		return ""
	}
	return fmt.Sprintf(" REFERENCES %s(%s)", table, column)
}
