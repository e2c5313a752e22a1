package tr

import (
	"context"

	"github.com/DRSN-tech/inventory-backend/pkg/e"
	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type txKey struct{}

// Querier: общий набор методов pgx.Tx и *pgxpool.Pool, которым пользуются репозитории.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Transactor выполняет функцию внутри транзакции PostgreSQL.
type Transactor struct {
	db transaction.Transactional
}

func NewTransactor(db transaction.Transactional) *Transactor {
	return &Transactor{db: db}
}

// WithinTx открывает транзакцию, кладёт pgx.Tx в контекст и коммитит её, если fn завершилась без ошибки.
// При ошибке транзакция откатывается.
func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	const op = "Transactor.WithinTx"

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, t.db)
	if err != nil {
		return e.Store(op, err)
	}
	defer func() {
		if err != nil && tx.IsActive() {
			_ = tx.Rollback(ctx)
		}
	}()

	pgxTx, ok := tx.Transaction().(pgx.Tx)
	if !ok {
		err = e.Store(op, e.ErrTransactionNotFound)
		return err
	}

	if err = fn(context.WithValue(ctx, txKey{}, pgxTx)); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return e.Store(op, err)
	}

	return nil
}

// NopTransactor используется хранилищами без транзакций (in-memory).
type NopTransactor struct{}

func (NopTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// TxFromCtx извлекает объект транзакции (pgx.Tx) из контекста
func TxFromCtx(ctx context.Context) (pgx.Tx, error) {
	tx, ok := ctx.Value(txKey{}).(pgx.Tx)
	if !ok {
		return nil, e.ErrTransactionNotFound
	}
	return tx, nil
}

// Executor возвращает транзакцию из контекста, а если её нет, то пул.
func Executor(ctx context.Context, pool Querier) Querier {
	if tx, err := TxFromCtx(ctx); err == nil {
		return tx
	}
	return pool
}
