package application

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-migrator/internal/domain/entity"
	repo "github.com/oksasatya/user-migrator/internal/domain/repository"
	"github.com/oksasatya/user-migrator/pkg/helpers"
)

// Confirmer gates the commit. The terminal prompter satisfies it.
type Confirmer interface {
	Confirm(question string) (bool, error)
}

// Runner executes steps inside one target transaction and commits once.
type Runner struct {
	Target  repo.TargetRepository
	Logger  logrus.FieldLogger
	Confirm Confirmer // nil commits without asking
}

// Summary reports per-step counters and whether the transaction was committed.
type Summary struct {
	Steps     []StepResult
	Committed bool
}

func NewRunner(target repo.TargetRepository, logger logrus.FieldLogger, confirm Confirmer) *Runner {
	return &Runner{Target: target, Logger: logger, Confirm: confirm}
}

// Run executes steps in order. Any step error rolls the transaction back.
// A declined confirmation also rolls back and is not an error.
func (r *Runner) Run(ctx context.Context, steps ...Step) (*Summary, error) {
	if len(steps) == 0 {
		return nil, entity.ErrNoSteps
	}
	tx, err := r.Target.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin target transaction: %w", err)
	}
	done := false
	defer func() {
		if done {
			return
		}
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil {
			helpers.LogError(r.Logger, "rollback failed", rbErr, nil)
		}
	}()

	sum := &Summary{}
	for _, step := range steps {
		res, err := step.Run(ctx, tx)
		if err != nil {
			return sum, fmt.Errorf("%s: %w", step.Name(), err)
		}
		sum.Steps = append(sum.Steps, res)
		helpers.LogInfo(r.Logger, "step finished", res.Fields())
	}

	if r.Confirm != nil {
		ok, err := r.Confirm.Confirm("Commit changes?")
		if err != nil {
			return sum, fmt.Errorf("confirm commit: %w", err)
		}
		if !ok {
			r.Logger.Info("changes discarded")
			return sum, nil
		}
	}
	done = true
	if err := tx.Commit(ctx); err != nil {
		return sum, fmt.Errorf("commit: %w", err)
	}
	sum.Committed = true
	r.Logger.Info("changes committed")
	return sum, nil
}
