package database

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"company-registry/pkg/config"
)

// DB - единственный общий дескриптор хранилища для всего процесса.
type DB struct {
	*sql.DB
	Dialect Dialect
}

func Connect(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	driver, err := ParseDriver(cfg.Driver)
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open(string(driver), cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть БД: %w", err)
	}

	// Один дескриптор на процесс: все запросы идут через одно соединение.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("не удалось пинговать БД: %w", err)
	}

	logger.Info("✅ Подключено к БД", zap.String("driver", string(driver)))
	return &DB{DB: conn, Dialect: Dialect{Driver: driver}}, nil
}

// Builder возвращает squirrel-построитель с плейсхолдерами текущего диалекта.
func (db *DB) Builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(db.Dialect.Placeholder())
}
