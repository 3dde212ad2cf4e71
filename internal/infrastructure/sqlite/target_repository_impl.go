package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/oksasatya/user-migrator/internal/domain/entity"
	"github.com/oksasatya/user-migrator/internal/domain/repository"
)

// TargetRepository writes accounts into a SQLite file.
type TargetRepository struct {
	db *DB
}

func NewTargetRepository(db *DB) *TargetRepository {
	return &TargetRepository{db: db}
}

func (r *TargetRepository) Begin(ctx context.Context) (repository.TargetTx, error) {
	tx, err := r.db.sql.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &targetTx{db: r.db, tx: tx}, nil
}

func (r *TargetRepository) Close() error { return r.db.Close() }

type targetTx struct {
	db *DB
	tx *sql.Tx
}

// InsertUsers writes the batch as one multi-row INSERT.
func (t *targetTx) InsertUsers(ctx context.Context, users []entity.TargetUser) (int64, error) {
	if len(users) == 0 {
		return 0, nil
	}
	cols := len(entity.TargetUserColumns)
	row := "(" + strings.TrimSuffix(strings.Repeat("?, ", cols), ", ") + ")"
	rows := make([]string, len(users))
	args := make([]any, 0, cols*len(users))
	for i, u := range users {
		rows[i] = row
		args = append(args, u.Values()...)
	}
	query := fmt.Sprintf("INSERT INTO users (%s) VALUES %s",
		strings.Join(entity.TargetUserColumns, ", "), strings.Join(rows, ", "))

	res, err := t.db.exec(ctx, t.tx, query, args...)
	if err != nil {
		return 0, mapWriteError(err)
	}
	return res.RowsAffected()
}

func (t *targetTx) UpdateByUsername(ctx context.Context, column, username string, value any) (int64, error) {
	query := fmt.Sprintf(`UPDATE users SET %s = ? WHERE username = ?`, quoteIdent(column))
	res, err := t.db.exec(ctx, t.tx, query, value, username)
	if err != nil {
		return 0, mapWriteError(err)
	}
	return res.RowsAffected()
}

func (t *targetTx) Commit(context.Context) error   { return t.tx.Commit() }
func (t *targetTx) Rollback(context.Context) error { return t.tx.Rollback() }

var _ repository.TargetRepository = (*TargetRepository)(nil)
