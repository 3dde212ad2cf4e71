package repository

import (
	"context"

	"github.com/oksasatya/user-migrator/internal/domain/entity"
)

// SourceRepository defines read access to the origin database.
type SourceRepository interface {
	// ListUsers returns every user except the one named excludeUsername.
	ListUsers(ctx context.Context, excludeUsername string) ([]entity.SourceUser, error)
	CustomFieldNames(ctx context.Context) ([]string, error)
	ListCustomFields(ctx context.Context) ([]entity.CustomField, error)
	// UsernameByID returns entity.ErrSourceUserNotFound for an unknown id.
	UsernameByID(ctx context.Context, id int64) (string, error)
	AvatarUploadIDs(ctx context.Context) ([]int64, error)
	// UploadByID returns entity.ErrUploadNotFound for an unknown id.
	UploadByID(ctx context.Context, id int64) (*entity.AvatarUpload, error)
	Close() error
}
