package repository

import (
	"context"

	"github.com/oksasatya/user-migrator/internal/domain/entity"
)

// TargetRepository opens write transactions against the destination database.
type TargetRepository interface {
	Begin(ctx context.Context) (TargetTx, error)
	Close() error
}

// TargetTx stages writes until Commit. Nothing is durable before Commit returns.
type TargetTx interface {
	// InsertUsers writes the whole batch with a single statement and returns the row count.
	// A unique violation is reported as entity.ErrDuplicateUser.
	InsertUsers(ctx context.Context, users []entity.TargetUser) (int64, error)
	// UpdateByUsername sets column to value on rows matching username and returns rows affected.
	UpdateByUsername(ctx context.Context, column, username string, value any) (int64, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
