package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"company-registry/pkg/database"
)

type TxManagerInterface interface {
	RunInTransaction(ctx context.Context, fn func(tx *sql.Tx) error) error
}

type TxManager struct {
	db *database.DB
}

func NewTxManager(db *database.DB) TxManagerInterface {
	return &TxManager{db: db}
}

// RunInTransaction выполняет fn в рамках одной транзакции.
// Ошибка или паника в fn приводят к откату, иначе транзакция коммитится.
func (m *TxManager) RunInTransaction(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("не удалось начать транзакцию: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				err = fmt.Errorf("ошибка при откате транзакции: %v (изначальная ошибка: %w)", rbErr, err)
			}
		} else {
			err = tx.Commit()
			if err != nil {
				err = fmt.Errorf("ошибка при коммите транзакции: %w", err)
			}
		}
	}()

	err = fn(tx)
	return err
}
