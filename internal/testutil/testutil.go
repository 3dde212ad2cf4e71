package testutil

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/oksasatya/user-migrator/internal/domain/entity"
	"github.com/oksasatya/user-migrator/internal/infrastructure/sqlite"
)

// NewLogger returns a logger that records entries instead of printing them.
func NewLogger() (*logrus.Logger, *logtest.Hook) {
	return logtest.NewNullLogger()
}

// OpenMemoryDB opens a named in-memory SQLite database closed via t.Cleanup.
func OpenMemoryDB(t *testing.T, suffix string, logger logrus.FieldLogger) *sqlite.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()) + "_" + suffix
	d, err := sqlite.Open(context.Background(), "file:"+name+"?mode=memory&cache=shared", logger, suffix)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

// OpenSourceDB opens an in-memory forum database with its tables created.
func OpenSourceDB(t *testing.T, logger logrus.FieldLogger) *sqlite.DB {
	t.Helper()
	d := OpenMemoryDB(t, "source", logger)
	if err := d.CreateSourceSchema(context.Background()); err != nil {
		t.Fatalf("create source schema: %v", err)
	}
	return d
}

// OpenTargetDB opens an in-memory account database with its table created.
func OpenTargetDB(t *testing.T, logger logrus.FieldLogger) *sqlite.DB {
	t.Helper()
	d := OpenMemoryDB(t, "target", logger)
	if err := d.CreateTargetSchema(context.Background()); err != nil {
		t.Fatalf("create target schema: %v", err)
	}
	return d
}

// Joined is the fixed signup time used by fixtures.
var Joined = time.Date(2016, 3, 14, 9, 26, 53, 0, time.UTC)

// InsertUser adds a forum user. A zero CreatedAt becomes Joined.
func InsertUser(t *testing.T, d *sqlite.DB, u entity.SourceUser) {
	t.Helper()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = Joined
	}
	_, err := d.Exec(context.Background(), `
		INSERT INTO users (id, username, email, password_hash, salt, admin, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, u.ID, u.Username, u.Email, u.PasswordHash, u.Salt, u.Admin, u.Active, u.CreatedAt)
	if err != nil {
		t.Fatalf("insert user %s: %v", u.Username, err)
	}
}

// InsertCustomField adds a forum custom field row.
func InsertCustomField(t *testing.T, d *sqlite.DB, f entity.CustomField) {
	t.Helper()
	_, err := d.Exec(context.Background(),
		`INSERT INTO user_custom_fields (user_id, name, value) VALUES (?, ?, ?)`, f.UserID, f.Name, f.Value)
	if err != nil {
		t.Fatalf("insert custom field %s: %v", f.Name, err)
	}
}

// InsertAvatar adds an upload and points the user's custom avatar slot at it.
func InsertAvatar(t *testing.T, d *sqlite.DB, up entity.AvatarUpload) {
	t.Helper()
	ctx := context.Background()
	if _, err := d.Exec(ctx, `INSERT INTO uploads (id, user_id, url) VALUES (?, ?, ?)`, up.UploadID, up.UserID, up.URL); err != nil {
		t.Fatalf("insert upload: %v", err)
	}
	if _, err := d.Exec(ctx, `INSERT INTO user_avatars (user_id, custom_upload_id) VALUES (?, ?)`, up.UserID, up.UploadID); err != nil {
		t.Fatalf("insert user avatar: %v", err)
	}
}

// CountUsers returns the number of rows in the users table.
func CountUsers(t *testing.T, d *sqlite.DB) int {
	t.Helper()
	var n int
	if err := d.QueryRow(context.Background(), `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		t.Fatalf("count users: %v", err)
	}
	return n
}

// TargetUser loads the target row for username.
func TargetUser(t *testing.T, d *sqlite.DB, username string) entity.TargetUser {
	t.Helper()
	var u entity.TargetUser
	err := d.QueryRow(context.Background(), `
		SELECT created_at, join_date, email, is_email_confirmed, username, avatar_url,
		       password_hash, salt, is_admin
		FROM users WHERE username = ?
	`, username).Scan(&u.CreatedAt, &u.JoinDate, &u.Email, &u.IsEmailConfirmed, &u.Username,
		&u.AvatarURL, &u.PasswordHash, &u.Salt, &u.IsAdmin)
	if err != nil {
		t.Fatalf("load target user %s: %v", username, err)
	}
	return u
}

// Column reads a single text column of the target row for username.
func Column(t *testing.T, d *sqlite.DB, column, username string) string {
	t.Helper()
	var v string
	if err := d.QueryRow(context.Background(), `SELECT `+column+` FROM users WHERE username = ?`, username).Scan(&v); err != nil {
		t.Fatalf("load %s for %s: %v", column, username, err)
	}
	return v
}
