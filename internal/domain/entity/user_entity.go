package entity

import (
	"time"
)

// SourceUser is a row of the source forum's users table.
// Password hashes and salts are copied verbatim, never re-hashed.
type SourceUser struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Salt         string
	Admin        bool
	Active       bool
	CreatedAt    time.Time
}

// TargetUser is the shape written to the target users table.
type TargetUser struct {
	CreatedAt        time.Time
	JoinDate         time.Time
	Email            string
	IsEmailConfirmed bool
	Username         string
	AvatarURL        string
	PasswordHash     string
	Salt             string
	IsAdmin          bool
}

// TargetUserColumns lists the target columns in insert order.
var TargetUserColumns = []string{
	"created_at",
	"join_date",
	"email",
	"is_email_confirmed",
	"username",
	"avatar_url",
	"password_hash",
	"salt",
	"is_admin",
}

// Values returns the column values in TargetUserColumns order.
func (u TargetUser) Values() []any {
	return []any{
		u.CreatedAt,
		u.JoinDate,
		u.Email,
		u.IsEmailConfirmed,
		u.Username,
		u.AvatarURL,
		u.PasswordHash,
		u.Salt,
		u.IsAdmin,
	}
}
