package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, side := range []string{"SOURCE_", "TARGET_"} {
		for _, k := range []string{"DB_DRIVER", "DB_HOST", "DB_PORT", "DB_USER", "DB_NAME", "DB_SSLMODE"} {
			t.Setenv(side+k, "")
		}
	}
	t.Setenv("SYSTEM_USERNAME", "")
	t.Setenv("DEFAULT_AVATAR_URL", "")
	t.Setenv("CUSTOM_FIELD_MAP", "")
	t.Setenv("DB_CONNECT_TIMEOUT", "")
	t.Setenv("AVATAR_BASE_URL", "")
	t.Setenv("APP_NAME", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("MIGRATIONS_DIR", "")
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg := Load()

	assert.Equal(t, "system", cfg.SystemUsername)
	assert.Equal(t, "/assets/images/spongie.png", cfg.DefaultAvatarURL)
	assert.Equal(t, 5*time.Second, cfg.ConnectTimeout)
	assert.Equal(t, DriverPostgres, cfg.Source.Driver)
	assert.Equal(t, "source", cfg.Source.Label)
	assert.Equal(t, "target", cfg.Target.Label)
	assert.Equal(t, "5432", cfg.Target.Port)
}

func TestValidate_MissingCredentials(t *testing.T) {
	clearEnv(t)
	cfg := Load()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source database")
	assert.Contains(t, err.Error(), "DB_NAME is required")
	assert.Contains(t, err.Error(), "DB_HOST is required")
}

func TestValidate_FilledIn(t *testing.T) {
	clearEnv(t)
	t.Setenv("SOURCE_DB_HOST", "forum.local")
	t.Setenv("SOURCE_DB_USER", "discourse")
	t.Setenv("SOURCE_DB_NAME", "discourse")
	t.Setenv("TARGET_DB_DRIVER", "sqlite3")
	t.Setenv("TARGET_DB_NAME", "out.db")
	t.Setenv("CUSTOM_FIELD_MAP", "bio=about_me, location = location")

	cfg := Load()
	require.NoError(t, cfg.Validate())

	fm, err := cfg.FieldMap()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"bio": "about_me", "location": "location"}, fm)
	assert.True(t, cfg.Target.IsSQLite())
	assert.False(t, cfg.Target.NeedsPassword())
}

func TestValidate_BadDriver(t *testing.T) {
	clearEnv(t)
	t.Setenv("SOURCE_DB_DRIVER", "mysql")
	t.Setenv("SOURCE_DB_NAME", "x")
	err := Load().Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DRIVER must be one of [postgres, sqlite3]")
}

func TestParseFieldMap(t *testing.T) {
	m, err := ParseFieldMap("")
	require.NoError(t, err)
	assert.Empty(t, m)

	_, err = ParseFieldMap("bio")
	assert.Error(t, err)

	_, err = ParseFieldMap("bio=about me")
	assert.Error(t, err)

	_, err = ParseFieldMap("bio=a,bio=b")
	assert.Error(t, err)

	m, err = ParseFieldMap("bio=a,,bio=a")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"bio": "a"}, m)
}

func TestDBConfig_PasswordPrompting(t *testing.T) {
	clearEnv(t)
	t.Setenv("SOURCE_DB_PASSWORD", "")
	cfg := Load()

	assert.False(t, cfg.Source.NeedsPassword(), "explicitly empty password counts as set")

	cfg.Target.passwordSet = false
	assert.True(t, cfg.Target.NeedsPassword())
	cfg.Target.SetPassword("s3cret")
	assert.False(t, cfg.Target.NeedsPassword())
	assert.Equal(t, "s3cret", cfg.Target.Password)
}

func TestDBConfig_DSN(t *testing.T) {
	d := DBConfig{Label: "source", Driver: DriverPostgres, Host: "db", Port: "5433", User: "u", Password: "p@ss/word", Name: "forum", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss%2Fword@db:5433/forum?sslmode=disable", d.DSN())
	assert.NotContains(t, d.String(), "p@ss")

	s := DBConfig{Label: "target", Driver: DriverSQLite, Name: "file:x?mode=memory"}
	assert.Equal(t, "file:x?mode=memory", s.DSN())
}

func TestValidateSettings_IgnoresDatabases(t *testing.T) {
	clearEnv(t)
	t.Setenv("CUSTOM_FIELD_MAP", "bio=about_me")
	cfg := Load()
	assert.NoError(t, cfg.ValidateSettings())

	cfg.CustomFieldMap = "bio=about me"
	assert.Error(t, cfg.ValidateSettings())

	cfg.CustomFieldMap = ""
	cfg.AvatarBaseURL = "not a url"
	err := cfg.ValidateSettings()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AVATAR_BASE_URL must be a valid URL")
}
