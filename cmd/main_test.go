package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/user-migrator/internal/domain/entity"
	"github.com/oksasatya/user-migrator/internal/infrastructure/sqlite"
	"github.com/oksasatya/user-migrator/internal/testutil"
)

func setEnv(t *testing.T, kv map[string]string) {
	t.Helper()
	for k, v := range kv {
		t.Setenv(k, v)
	}
}

// sqliteFiles creates a seeded forum file and an empty account file.
func sqliteFiles(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	src := filepath.Join(dir, "forum.db")
	dst := filepath.Join(dir, "accounts.db")
	ctx := context.Background()
	logger, _ := testutil.NewLogger()

	d, err := sqlite.Open(ctx, src, logger, "fixture")
	require.NoError(t, err)
	require.NoError(t, d.CreateSourceSchema(ctx))
	testutil.InsertUser(t, d, entity.SourceUser{ID: -1, Username: "system", Admin: true, Active: true})
	testutil.InsertUser(t, d, entity.SourceUser{ID: 1, Username: "alice", Email: "a@x.com", PasswordHash: "h", Salt: "s", Active: true})
	testutil.InsertCustomField(t, d, entity.CustomField{UserID: 1, Name: "bio", Value: "hello"})
	testutil.InsertAvatar(t, d, entity.AvatarUpload{UploadID: 5, UserID: 1, URL: "/uploads/5.png"})
	require.NoError(t, d.Close())
	return src, dst
}

func sqliteEnv(t *testing.T, src, dst string) {
	setEnv(t, map[string]string{
		"APP_ENV":          "test",
		"SOURCE_DB_DRIVER": "sqlite3",
		"SOURCE_DB_NAME":   src,
		"TARGET_DB_DRIVER": "sqlite3",
		"TARGET_DB_NAME":   dst,
		"CUSTOM_FIELD_MAP": "",
		"AVATAR_BASE_URL":  "",
	})
}

func openTargetFile(t *testing.T, path string) *sqlite.DB {
	t.Helper()
	logger, _ := testutil.NewLogger()
	d, err := sqlite.Open(context.Background(), path, logger, "check")
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestRun_AllModesAgainstSQLite(t *testing.T) {
	src, dst := sqliteFiles(t)
	sqliteEnv(t, src, dst)

	var out bytes.Buffer
	code := run([]string{"-migrate-target"}, strings.NewReader("y\n"), &out)
	require.Equal(t, exitOK, code, out.String())
	assert.Contains(t, out.String(), "Connection established.")
	assert.Contains(t, out.String(), "users: read 1, written 1, unmatched 0")
	assert.Contains(t, out.String(), "Commit changes? [y/N]: ")
	assert.Contains(t, out.String(), "Changes committed.")

	out.Reset()
	code = run([]string{"--customFields"}, strings.NewReader("about_me\ny\n"), &out)
	require.Equal(t, exitOK, code, out.String())
	assert.Contains(t, out.String(), `Target column for custom field "bio": `)

	out.Reset()
	code = run([]string{"--avatars", "-yes"}, strings.NewReader(""), &out)
	require.Equal(t, exitOK, code, out.String())
	assert.NotContains(t, out.String(), "Commit changes?")

	d := openTargetFile(t, dst)
	alice := testutil.TargetUser(t, d, "alice")
	assert.True(t, alice.IsEmailConfirmed)
	assert.Equal(t, "/uploads/5.png", alice.AvatarURL)
	assert.Equal(t, "hello", testutil.Column(t, d, "about_me", "alice"))
	assert.Equal(t, 1, testutil.CountUsers(t, d))
}

func TestRun_DeclinedCommit(t *testing.T) {
	src, dst := sqliteFiles(t)
	sqliteEnv(t, src, dst)

	var out bytes.Buffer
	code := run([]string{"-migrate-target"}, strings.NewReader("n\n"), &out)
	require.Equal(t, exitOK, code)
	assert.Contains(t, out.String(), "Changes discarded.")
	assert.Equal(t, 0, testutil.CountUsers(t, openTargetFile(t, dst)))
}

func TestRun_SourceConnectionFailure(t *testing.T) {
	setEnv(t, map[string]string{
		"APP_ENV":            "test",
		"SOURCE_DB_DRIVER":   "postgres",
		"SOURCE_DB_HOST":     "127.0.0.1",
		"SOURCE_DB_PORT":     "1",
		"SOURCE_DB_USER":     "nobody",
		"SOURCE_DB_PASSWORD": "x",
		"SOURCE_DB_NAME":     "forum",
		"DB_CONNECT_TIMEOUT": "2s",
	})
	var out bytes.Buffer
	code := run(nil, strings.NewReader(""), &out)
	assert.Equal(t, exitSource, code)
	assert.Contains(t, out.String(), "Could not connect to input database.")
}

func TestRun_MissingSQLiteSourceFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "typo.db")
	sqliteEnv(t, src, filepath.Join(dir, "accounts.db"))

	var out bytes.Buffer
	code := run([]string{"-migrate-target", "-yes"}, strings.NewReader(""), &out)
	assert.Equal(t, exitSource, code)
	assert.Contains(t, out.String(), "Could not connect to input database.")
	assert.NotContains(t, out.String(), "Connection established.")
	assert.NoFileExists(t, src)
}

func TestRun_TargetConnectionFailure(t *testing.T) {
	src, _ := sqliteFiles(t)
	setEnv(t, map[string]string{
		"APP_ENV":            "test",
		"SOURCE_DB_DRIVER":   "sqlite3",
		"SOURCE_DB_NAME":     src,
		"TARGET_DB_DRIVER":   "postgres",
		"TARGET_DB_HOST":     "127.0.0.1",
		"TARGET_DB_PORT":     "1",
		"TARGET_DB_USER":     "nobody",
		"TARGET_DB_PASSWORD": "x",
		"TARGET_DB_NAME":     "accounts",
		"DB_CONNECT_TIMEOUT": "2s",
	})
	var out bytes.Buffer
	code := run(nil, strings.NewReader(""), &out)
	assert.Equal(t, exitTarget, code)
	assert.Contains(t, out.String(), "Could not connect to output database.")
}

func TestRun_MissingMappingFails(t *testing.T) {
	src, dst := sqliteFiles(t)
	sqliteEnv(t, src, dst)
	require.Equal(t, exitOK, run([]string{"-migrate-target", "-yes"}, strings.NewReader(""), &bytes.Buffer{}))

	// empty answer leaves "bio" unmapped
	code := run([]string{"--customFields"}, strings.NewReader("\n"), &bytes.Buffer{})
	assert.Equal(t, exitFailure, code)
}

func TestRun_ExclusiveModes(t *testing.T) {
	var out bytes.Buffer
	code := run([]string{"--customFields", "--avatars"}, strings.NewReader(""), &out)
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, out.String(), "cannot be combined")
}

func TestRun_Version(t *testing.T) {
	var out bytes.Buffer
	assert.Equal(t, exitOK, run([]string{"-version"}, strings.NewReader(""), &out))
	assert.Contains(t, out.String(), "user-migrator")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitOK, exitCode(nil))
	assert.Equal(t, exitSource, exitCode(entity.ErrSourceConnection))
	assert.Equal(t, exitTarget, exitCode(entity.ErrTargetConnection))
	assert.Equal(t, exitFailure, exitCode(entity.ErrDuplicateUser))
}
