package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/user-migrator/internal/domain/entity"
	"github.com/oksasatya/user-migrator/internal/domain/repository"
)

// SourceRepository reads a forum database.
type SourceRepository struct {
	pool *pgxpool.Pool
}

func NewSourceRepository(pool *pgxpool.Pool) *SourceRepository {
	return &SourceRepository{pool: pool}
}

func (r *SourceRepository) ListUsers(ctx context.Context, excludeUsername string) ([]entity.SourceUser, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, username, COALESCE(email, ''), COALESCE(password_hash, ''), COALESCE(salt, ''),
		       admin, active, created_at
		FROM users
		WHERE username <> $1
		ORDER BY id
	`, excludeUsername)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.SourceUser, error) {
		var u entity.SourceUser
		err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Salt,
			&u.Admin, &u.Active, &u.CreatedAt)
		return u, err
	})
}

func (r *SourceRepository) CustomFieldNames(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT name FROM user_custom_fields ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (r *SourceRepository) ListCustomFields(ctx context.Context) ([]entity.CustomField, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT user_id, name, COALESCE(value, '')
		FROM user_custom_fields
		ORDER BY user_id, name, id
	`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[entity.CustomField])
}

func (r *SourceRepository) UsernameByID(ctx context.Context, id int64) (string, error) {
	var username string
	err := r.pool.QueryRow(ctx, `SELECT username FROM users WHERE id = $1`, id).Scan(&username)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", entity.ErrSourceUserNotFound
	}
	return username, err
}

func (r *SourceRepository) AvatarUploadIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT custom_upload_id
		FROM user_avatars
		WHERE custom_upload_id IS NOT NULL
		ORDER BY user_id
	`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[int64])
}

func (r *SourceRepository) UploadByID(ctx context.Context, id int64) (*entity.AvatarUpload, error) {
	up := &entity.AvatarUpload{}
	err := r.pool.QueryRow(ctx, `SELECT id, user_id, url FROM uploads WHERE id = $1`, id).
		Scan(&up.UploadID, &up.UserID, &up.URL)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, entity.ErrUploadNotFound
	}
	if err != nil {
		return nil, err
	}
	return up, nil
}

func (r *SourceRepository) Close() error {
	r.pool.Close()
	return nil
}

var _ repository.SourceRepository = (*SourceRepository)(nil)
