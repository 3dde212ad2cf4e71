package prompt

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/user-migrator/config"
)

func TestAsk_TrimsAnswer(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("  forum \n"), &out)

	got, err := p.Ask("Input database: ")
	require.NoError(t, err)
	assert.Equal(t, "forum", got)
	assert.Equal(t, "Input database: ", out.String())
}

func TestAsk_LastLineWithoutNewline(t *testing.T) {
	p := New(strings.NewReader("y"), io.Discard)
	got, err := p.Ask("? ")
	require.NoError(t, err)
	assert.Equal(t, "y", got)

	_, err = p.Ask("? ")
	assert.ErrorIs(t, err, io.EOF)
}

func TestAskSecret_NonTerminalFallsBack(t *testing.T) {
	p := New(strings.NewReader("hunter2\n"), io.Discard)
	got, err := p.AskSecret("Password: ")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", got)
}

func TestConfirm(t *testing.T) {
	cases := map[string]bool{"y\n": true, "YES\n": true, "n\n": false, "\n": false, "sure\n": false}
	for in, want := range cases {
		p := New(strings.NewReader(in), io.Discard)
		got, err := p.Confirm("Commit changes?")
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestCredentials_OnlyMissingValues(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("discourse\nforum-user\nsecret\n"), &out)
	db := &config.DBConfig{Label: "source", Driver: config.DriverPostgres, Host: "db.local", Port: "5432"}

	require.NoError(t, Credentials(p, db, "Input database: ", "Username: "))
	assert.Equal(t, "discourse", db.Name)
	assert.Equal(t, "db.local", db.Host)
	assert.Equal(t, "forum-user", db.User)
	assert.Equal(t, "secret", db.Password)
	assert.False(t, db.NeedsPassword())
	assert.Equal(t, "Input database: Username: Password: ", out.String())
}

func TestCredentials_SQLiteOnlyNeedsPath(t *testing.T) {
	p := New(strings.NewReader("users.db\n"), io.Discard)
	db := &config.DBConfig{Label: "target", Driver: config.DriverSQLite}

	require.NoError(t, Credentials(p, db, "Output database: ", "User: "))
	assert.Equal(t, "users.db", db.Name)
	assert.Empty(t, db.Host)
}
