package application

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-migrator/internal/domain/entity"
	repo "github.com/oksasatya/user-migrator/internal/domain/repository"
)

// Step is one migration pass run against the open target transaction.
type Step interface {
	Name() string
	Run(ctx context.Context, tx repo.TargetTx) (StepResult, error)
}

// StepResult counts what a step did. Unmatched counts updates that hit no target row.
type StepResult struct {
	Step      string
	Read      int
	Written   int64
	Unmatched int
}

func (r StepResult) Fields() logrus.Fields {
	return logrus.Fields{"step": r.Step, "read": r.Read, "written": r.Written, "unmatched": r.Unmatched}
}

// UserImport copies every non-system user in a single batched insert.
type UserImport struct {
	Source           repo.SourceRepository
	SystemUsername   string
	DefaultAvatarURL string
	Now              func() time.Time
	Logger           logrus.FieldLogger
}

func (s *UserImport) Name() string { return "users" }

func (s *UserImport) Run(ctx context.Context, tx repo.TargetTx) (StepResult, error) {
	res := StepResult{Step: s.Name()}
	users, err := s.Source.ListUsers(ctx, s.SystemUsername)
	if err != nil {
		return res, fmt.Errorf("list source users: %w", err)
	}
	res.Read = len(users)
	s.Logger.Infof("Importing %d users...", len(users))

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	targets, err := MapUsers(users, s.SystemUsername, now().UTC(), s.DefaultAvatarURL)
	if err != nil {
		return res, err
	}
	if len(targets) == 0 {
		return res, nil
	}
	n, err := tx.InsertUsers(ctx, targets)
	if err != nil {
		return res, fmt.Errorf("insert users: %w", err)
	}
	res.Written = n
	return res, nil
}

// CustomFieldImport copies custom field values into mapped target columns,
// one update per field row.
type CustomFieldImport struct {
	Source repo.SourceRepository
	Mapper FieldMapper
	Logger logrus.FieldLogger
}

func (s *CustomFieldImport) Name() string { return "custom_fields" }

func (s *CustomFieldImport) Run(ctx context.Context, tx repo.TargetTx) (StepResult, error) {
	res := StepResult{Step: s.Name()}
	names, err := s.Source.CustomFieldNames(ctx)
	if err != nil {
		return res, fmt.Errorf("list custom field names: %w", err)
	}
	columns, err := resolveColumns(ctx, s.Mapper, names)
	if err != nil {
		return res, err
	}

	fields, err := s.Source.ListCustomFields(ctx)
	if err != nil {
		return res, fmt.Errorf("list custom fields: %w", err)
	}
	res.Read = len(fields)
	s.Logger.Infof("Importing %d custom fields...", len(fields))

	ids := make([]int64, 0, len(fields))
	for _, f := range fields {
		ids = append(ids, f.UserID)
	}
	usernames, err := resolveUsernames(ctx, s.Source, ids)
	if err != nil {
		return res, err
	}

	for _, f := range fields {
		col, ok := columns[f.Name]
		if !ok {
			// name appeared after the distinct-name scan
			return res, fmt.Errorf("%w: %q", entity.ErrMissingFieldMapping, f.Name)
		}
		username := usernames[f.UserID]
		n, err := tx.UpdateByUsername(ctx, col, username, f.Value)
		if err != nil {
			return res, fmt.Errorf("update %s for %q: %w", col, username, err)
		}
		countUpdate(s.Logger, &res, n, logrus.Fields{"username": username, "field": f.Name, "column": col})
	}
	return res, nil
}

func countUpdate(logger logrus.FieldLogger, res *StepResult, n int64, fields logrus.Fields) {
	res.Written += n
	if n == 0 {
		res.Unmatched++
		logger.WithFields(fields).Warn("no target user matched")
	}
}

// AvatarImport points each user's avatar_url at their custom upload.
type AvatarImport struct {
	Source  repo.SourceRepository
	BaseURL string
	Logger  logrus.FieldLogger
}

func (s *AvatarImport) Name() string { return "avatars" }

func (s *AvatarImport) Run(ctx context.Context, tx repo.TargetTx) (StepResult, error) {
	res := StepResult{Step: s.Name()}
	uploadIDs, err := s.Source.AvatarUploadIDs(ctx)
	if err != nil {
		return res, fmt.Errorf("list avatar uploads: %w", err)
	}
	res.Read = len(uploadIDs)
	s.Logger.Infof("Importing %d avatars...", len(uploadIDs))

	uploads := make([]*entity.AvatarUpload, 0, len(uploadIDs))
	userIDs := make([]int64, 0, len(uploadIDs))
	for _, id := range uploadIDs {
		up, err := s.Source.UploadByID(ctx, id)
		if err != nil {
			return res, fmt.Errorf("resolve upload %d: %w", id, err)
		}
		uploads = append(uploads, up)
		userIDs = append(userIDs, up.UserID)
	}
	usernames, err := resolveUsernames(ctx, s.Source, userIDs)
	if err != nil {
		return res, err
	}

	for _, up := range uploads {
		username := usernames[up.UserID]
		n, err := tx.UpdateByUsername(ctx, "avatar_url", username, AvatarURL(s.BaseURL, up.URL))
		if err != nil {
			return res, fmt.Errorf("update avatar for %q: %w", username, err)
		}
		countUpdate(s.Logger, &res, n, logrus.Fields{"username": username, "upload_id": up.UploadID})
	}
	return res, nil
}

// resolveUsernames looks each distinct id up once, in first-seen order.
func resolveUsernames(ctx context.Context, source repo.SourceRepository, ids []int64) (map[int64]string, error) {
	out := make(map[int64]string)
	for _, id := range ids {
		if _, ok := out[id]; ok {
			continue
		}
		name, err := source.UsernameByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("resolve user %d: %w", id, err)
		}
		out[id] = name
	}
	return out, nil
}
