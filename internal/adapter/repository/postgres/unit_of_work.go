package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/simaogato/fintrack-backend/internal/domain"
)

// unitOfWorkFactory implements domain.UnitOfWorkFactory on database transactions
type unitOfWorkFactory struct {
	db *DB
}

// NewUnitOfWorkFactory creates a new unit of work factory
func NewUnitOfWorkFactory(db *DB) domain.UnitOfWorkFactory {
	return &unitOfWorkFactory{db: db}
}

// Begin starts a database transaction
func (f *unitOfWorkFactory) Begin(ctx context.Context) (domain.UnitOfWork, error) {
	tx, err := f.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &unitOfWork{
		tx:       tx,
		products: &productRepository{q: tx},
		history:  &priceHistoryRepository{q: tx},
	}, nil
}

type unitOfWork struct {
	tx       *sql.Tx
	products *productRepository
	history  *priceHistoryRepository
}

func (u *unitOfWork) Products() domain.ProductRepository { return u.products }

func (u *unitOfWork) PriceHistory() domain.PriceHistoryRepository { return u.history }

// Commit commits the transaction
func (u *unitOfWork) Commit(ctx context.Context) error {
	if err := u.tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateTicker
		}
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Rollback aborts the transaction; it is a no-op once committed
func (u *unitOfWork) Rollback() error {
	if err := u.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}
