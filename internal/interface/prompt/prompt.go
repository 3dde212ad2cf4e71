package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/oksasatya/user-migrator/config"
)

// Prompter reads operator answers line by line. Secrets are read without echo
// when the input is a terminal.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
	fd  int
}

func New(in io.Reader, out io.Writer) *Prompter {
	p := &Prompter{in: bufio.NewReader(in), out: out, fd: -1}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.fd = int(f.Fd())
	}
	return p
}

// Ask prints label and returns the trimmed answer.
func (p *Prompter) Ask(label string) (string, error) {
	if _, err := fmt.Fprint(p.out, label); err != nil {
		return "", err
	}
	return p.readLine()
}

// AskSecret is Ask without echo.
func (p *Prompter) AskSecret(label string) (string, error) {
	if p.fd < 0 {
		return p.Ask(label)
	}
	if _, err := fmt.Fprint(p.out, label); err != nil {
		return "", err
	}
	b, err := term.ReadPassword(p.fd)
	_, _ = fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Confirm asks a y/N question. Anything but y/yes is a no.
func (p *Prompter) Confirm(question string) (bool, error) {
	ans, err := p.Ask(question + " [y/N]: ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(ans) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Credentials prompts for whatever connection settings db is missing.
// nameLabel and userLabel follow the historical wording ("Input database: ", "Username: ").
func Credentials(p *Prompter, db *config.DBConfig, nameLabel, userLabel string) error {
	var err error
	if db.Name == "" {
		if db.Name, err = p.Ask(nameLabel); err != nil {
			return err
		}
	}
	if db.IsSQLite() {
		return nil
	}
	if db.Host == "" {
		if db.Host, err = p.Ask("Host: "); err != nil {
			return err
		}
	}
	if db.User == "" {
		if db.User, err = p.Ask(userLabel); err != nil {
			return err
		}
	}
	if db.NeedsPassword() {
		pwd, err := p.AskSecret("Password: ")
		if err != nil {
			return err
		}
		db.SetPassword(pwd)
	}
	return nil
}
