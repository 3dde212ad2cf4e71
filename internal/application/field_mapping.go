package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/oksasatya/user-migrator/internal/domain/entity"
	"github.com/oksasatya/user-migrator/pkg/validation"
)

// FieldMapper resolves a source custom field name to a target column.
type FieldMapper interface {
	Column(ctx context.Context, name string) (string, error)
}

// StaticFieldMap is a mapping supplied up front through configuration.
type StaticFieldMap map[string]string

func (m StaticFieldMap) Column(_ context.Context, name string) (string, error) {
	col, ok := m[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", entity.ErrMissingFieldMapping, name)
	}
	return col, nil
}

// Asker is satisfied by the terminal prompter.
type Asker interface {
	Ask(label string) (string, error)
}

// PromptFieldMap consults Static first and asks the operator for the rest.
// An empty answer leaves the field unmapped.
type PromptFieldMap struct {
	Static StaticFieldMap
	Asker  Asker
}

func (m PromptFieldMap) Column(ctx context.Context, name string) (string, error) {
	if col, err := m.Static.Column(ctx, name); err == nil {
		return col, nil
	}
	col, err := m.Asker.Ask(fmt.Sprintf("Target column for custom field %q: ", name))
	if err != nil {
		return "", err
	}
	if col == "" {
		return "", fmt.Errorf("%w: %q", entity.ErrMissingFieldMapping, name)
	}
	return col, nil
}

// reservedColumn reports whether col belongs to the imported account record.
// avatar_url stays writable.
func reservedColumn(col string) bool {
	if strings.EqualFold(col, "id") {
		return true
	}
	for _, c := range entity.TargetUserColumns {
		if strings.EqualFold(col, c) && c != "avatar_url" {
			return true
		}
	}
	return false
}

// resolveColumns maps every name and validates the resulting column names.
func resolveColumns(ctx context.Context, mapper FieldMapper, names []string) (map[string]string, error) {
	out := make(map[string]string, len(names))
	for _, name := range names {
		col, err := mapper.Column(ctx, name)
		if err != nil {
			return nil, err
		}
		if err := validation.Var("column for "+name, col, "column"); err != nil {
			return nil, fmt.Errorf("%w: %v", entity.ErrInvalidColumn, err)
		}
		if reservedColumn(col) {
			return nil, fmt.Errorf("%w: custom field %q cannot overwrite account column %q", entity.ErrInvalidColumn, name, col)
		}
		out[name] = col
	}
	return out, nil
}
