// Command user-migrator copies forum accounts into the account database.
//
// Usage:
//
//	user-migrator                 import users
//	user-migrator --customFields  copy custom fields into mapped columns
//	user-migrator --avatars       copy custom avatar URLs
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	goversion "github.com/caarlos0/go-version"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-migrator/config"
	"github.com/oksasatya/user-migrator/internal/application"
	"github.com/oksasatya/user-migrator/internal/domain/entity"
	"github.com/oksasatya/user-migrator/internal/domain/repository"
	pginfra "github.com/oksasatya/user-migrator/internal/infrastructure/postgres"
	"github.com/oksasatya/user-migrator/internal/infrastructure/sqlite"
	"github.com/oksasatya/user-migrator/internal/interface/prompt"
	"github.com/oksasatya/user-migrator/pkg/helpers"
)

var (
	version   = "dev"
	commit    = ""
	treeState = ""
	date      = ""
	builtBy   = ""
)

const (
	exitOK      = 0
	exitSource  = 1
	exitTarget  = 2
	exitFailure = 3
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout))
}

func run(args []string, stdin io.Reader, stdout io.Writer) int {
	fs := flag.NewFlagSet("user-migrator", flag.ContinueOnError)
	fs.SetOutput(stdout)
	customFields := fs.Bool("customFields", false, "Copy custom user fields into mapped target columns")
	avatars := fs.Bool("avatars", false, "Copy custom avatar URLs")
	autoCommit := fs.Bool("yes", false, "Commit without asking for confirmation")
	migrateTarget := fs.Bool("migrate-target", false, "Create or migrate the target schema before importing")
	showVersion := fs.Bool("version", false, "Print version information")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitFailure
	}
	if *showVersion {
		info := buildVersion()
		_, _ = fmt.Fprintln(stdout, info.String())
		return exitOK
	}
	if *customFields && *avatars {
		_, _ = fmt.Fprintln(stdout, "--customFields and --avatars cannot be combined")
		return exitFailure
	}

	_ = godotenv.Load() // load .env if present
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env, nil)
	log := logger.WithField("run_id", uuid.NewString())
	if err := cfg.ValidateSettings(); err != nil {
		helpers.LogError(log, "invalid configuration", err, nil)
		return exitFailure
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p := prompt.New(stdin, stdout)

	// Source
	if err := prompt.Credentials(p, &cfg.Source, "Input database: ", "Username: "); err != nil {
		helpers.LogError(log, "read source credentials", err, nil)
		return exitSource
	}
	source, err := openSource(ctx, &cfg.Source, cfg.ConnectTimeout, log)
	if err != nil {
		_, _ = fmt.Fprintln(stdout, "Could not connect to input database.")
		helpers.LogError(log, "open source store", err, logrus.Fields{"db": cfg.Source.String()})
		return exitCode(err)
	}
	defer func() { _ = source.Close() }()
	_, _ = fmt.Fprintln(stdout, "Connection established.")

	// Target
	if err := prompt.Credentials(p, &cfg.Target, "Output database: ", "User: "); err != nil {
		helpers.LogError(log, "read target credentials", err, nil)
		return exitTarget
	}
	target, err := openTarget(ctx, cfg, *migrateTarget, log)
	if err != nil {
		_, _ = fmt.Fprintln(stdout, "Could not connect to output database.")
		helpers.LogError(log, "open target store", err, logrus.Fields{"db": cfg.Target.String()})
		return exitCode(err)
	}
	defer func() { _ = target.Close() }()
	_, _ = fmt.Fprintln(stdout, "Connection established.")

	step, err := selectStep(cfg, source, p, *customFields, *avatars, log)
	if err != nil {
		helpers.LogError(log, "invalid configuration", err, nil)
		return exitFailure
	}

	var confirm application.Confirmer = p
	if *autoCommit {
		confirm = nil
	}
	sum, err := application.NewRunner(target, log, confirm).Run(ctx, step)
	if sum != nil {
		printSummary(stdout, sum)
	}
	if err != nil {
		helpers.LogError(log, "import failed", err, logrus.Fields{"step": step.Name()})
		return exitCode(err)
	}
	return exitOK
}

func selectStep(cfg *config.Config, source repository.SourceRepository, asker application.Asker, customFields, avatars bool, log logrus.FieldLogger) (application.Step, error) {
	switch {
	case customFields:
		fm, err := cfg.FieldMap()
		if err != nil {
			return nil, err
		}
		return &application.CustomFieldImport{
			Source: source,
			Mapper: application.PromptFieldMap{Static: fm, Asker: asker},
			Logger: log,
		}, nil
	case avatars:
		return &application.AvatarImport{Source: source, BaseURL: cfg.AvatarBaseURL, Logger: log}, nil
	default:
		return &application.UserImport{
			Source:           source,
			SystemUsername:   cfg.SystemUsername,
			DefaultAvatarURL: cfg.DefaultAvatarURL,
			Now:              time.Now,
			Logger:           log,
		}, nil
	}
}

func openSource(ctx context.Context, db *config.DBConfig, timeout time.Duration, log logrus.FieldLogger) (repository.SourceRepository, error) {
	if err := db.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrSourceConnection, err)
	}
	if db.IsSQLite() {
		d, err := sqlite.OpenReadOnly(ctx, db.DSN(), log, "source")
		if err != nil {
			return nil, fmt.Errorf("%w: %v", entity.ErrSourceConnection, err)
		}
		return sqlite.NewSourceRepository(d), nil
	}
	pool, err := pginfra.NewPool(ctx, db.DSN(), timeout, log, "source")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrSourceConnection, err)
	}
	return pginfra.NewSourceRepository(pool), nil
}

func openTarget(ctx context.Context, cfg *config.Config, migrateSchema bool, log logrus.FieldLogger) (repository.TargetRepository, error) {
	db := &cfg.Target
	if err := db.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrTargetConnection, err)
	}
	if db.IsSQLite() {
		d, err := sqlite.Open(ctx, db.DSN(), log, "target")
		if err != nil {
			return nil, fmt.Errorf("%w: %v", entity.ErrTargetConnection, err)
		}
		if migrateSchema {
			if err := d.CreateTargetSchema(ctx); err != nil {
				_ = d.Close()
				return nil, err
			}
		}
		return sqlite.NewTargetRepository(d), nil
	}
	pool, err := pginfra.NewPool(ctx, db.DSN(), cfg.ConnectTimeout, log, "target")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrTargetConnection, err)
	}
	if migrateSchema {
		if err := pginfra.RunMigrations(db.DSN(), cfg.MigrationsDir, log); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate target: %w", err)
		}
	}
	return pginfra.NewTargetRepository(pool), nil
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, entity.ErrSourceConnection):
		return exitSource
	case errors.Is(err, entity.ErrTargetConnection):
		return exitTarget
	default:
		return exitFailure
	}
}

func printSummary(w io.Writer, sum *application.Summary) {
	for _, s := range sum.Steps {
		_, _ = fmt.Fprintf(w, "%s: read %d, written %d, unmatched %d\n", s.Step, s.Read, s.Written, s.Unmatched)
	}
	if sum.Committed {
		_, _ = fmt.Fprintln(w, "Changes committed.")
	} else {
		_, _ = fmt.Fprintln(w, "Changes discarded.")
	}
}

func buildVersion() goversion.Info {
	return goversion.GetVersionInfo(
		goversion.WithAppDetails("user-migrator", "Copies forum accounts into the account database", ""),
		func(i *goversion.Info) {
			if commit != "" {
				i.GitCommit = commit
			}
			if version != "" {
				i.GitVersion = version
			}
			if treeState != "" {
				i.GitTreeState = treeState
			}
			if date != "" {
				i.BuildDate = date
			}
			if builtBy != "" {
				i.BuiltBy = builtBy
			}
		},
	)
}
