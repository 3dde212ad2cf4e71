package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/oksasatya/user-migrator/internal/domain/entity"
	"github.com/oksasatya/user-migrator/internal/domain/repository"
)

// SourceRepository reads a forum dump.
type SourceRepository struct {
	db *DB
}

func NewSourceRepository(db *DB) *SourceRepository {
	return &SourceRepository{db: db}
}

func (r *SourceRepository) ListUsers(ctx context.Context, excludeUsername string) ([]entity.SourceUser, error) {
	rows, err := r.db.query(ctx, r.db.sql, `
		SELECT id, username, COALESCE(email, ''), COALESCE(password_hash, ''), COALESCE(salt, ''),
		       admin, active, created_at
		FROM users
		WHERE username <> ?
		ORDER BY id
	`, excludeUsername)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.SourceUser
	for rows.Next() {
		var u entity.SourceUser
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Salt,
			&u.Admin, &u.Active, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *SourceRepository) CustomFieldNames(ctx context.Context) ([]string, error) {
	rows, err := r.db.query(ctx, r.db.sql, `SELECT DISTINCT name FROM user_custom_fields ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

func (r *SourceRepository) ListCustomFields(ctx context.Context) ([]entity.CustomField, error) {
	rows, err := r.db.query(ctx, r.db.sql, `
		SELECT user_id, name, COALESCE(value, '')
		FROM user_custom_fields
		ORDER BY user_id, name, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.CustomField
	for rows.Next() {
		var f entity.CustomField
		if err := rows.Scan(&f.UserID, &f.Name, &f.Value); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *SourceRepository) UsernameByID(ctx context.Context, id int64) (string, error) {
	var username string
	err := r.db.queryRow(ctx, r.db.sql, `SELECT username FROM users WHERE id = ?`, id).Scan(&username)
	if errors.Is(err, sql.ErrNoRows) {
		return "", entity.ErrSourceUserNotFound
	}
	return username, err
}

func (r *SourceRepository) AvatarUploadIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.query(ctx, r.db.sql, `
		SELECT custom_upload_id
		FROM user_avatars
		WHERE custom_upload_id IS NOT NULL
		ORDER BY user_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (r *SourceRepository) UploadByID(ctx context.Context, id int64) (*entity.AvatarUpload, error) {
	up := &entity.AvatarUpload{}
	err := r.db.queryRow(ctx, r.db.sql, `SELECT id, user_id, url FROM uploads WHERE id = ?`, id).
		Scan(&up.UploadID, &up.UserID, &up.URL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrUploadNotFound
	}
	if err != nil {
		return nil, err
	}
	return up, nil
}

func (r *SourceRepository) Close() error { return r.db.Close() }

var _ repository.SourceRepository = (*SourceRepository)(nil)
