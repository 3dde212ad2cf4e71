package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/user-migrator/internal/domain/entity"
	"github.com/oksasatya/user-migrator/internal/domain/repository"
)

var usersTable = pgx.Identifier{"users"}

// TargetRepository writes to the account database.
type TargetRepository struct {
	pool *pgxpool.Pool
}

func NewTargetRepository(pool *pgxpool.Pool) *TargetRepository {
	return &TargetRepository{pool: pool}
}

func (r *TargetRepository) Begin(ctx context.Context) (repository.TargetTx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &targetTx{tx: tx}, nil
}

func (r *TargetRepository) Close() error {
	r.pool.Close()
	return nil
}

type targetTx struct {
	tx pgx.Tx
}

// InsertUsers streams the batch with a single COPY.
func (t *targetTx) InsertUsers(ctx context.Context, users []entity.TargetUser) (int64, error) {
	n, err := t.tx.CopyFrom(ctx, usersTable, entity.TargetUserColumns,
		pgx.CopyFromSlice(len(users), func(i int) ([]any, error) {
			return users[i].Values(), nil
		}))
	if err != nil {
		return 0, mapWriteError(err)
	}
	return n, nil
}

func (t *targetTx) UpdateByUsername(ctx context.Context, column, username string, value any) (int64, error) {
	sql := fmt.Sprintf(`UPDATE %s SET %s = $1 WHERE username = $2`,
		usersTable.Sanitize(), pgx.Identifier{column}.Sanitize())
	tag, err := t.tx.Exec(ctx, sql, value, username)
	if err != nil {
		return 0, mapWriteError(err)
	}
	return tag.RowsAffected(), nil
}

func (t *targetTx) Commit(ctx context.Context) error   { return t.tx.Commit(ctx) }
func (t *targetTx) Rollback(ctx context.Context) error { return t.tx.Rollback(ctx) }

var _ repository.TargetRepository = (*TargetRepository)(nil)
