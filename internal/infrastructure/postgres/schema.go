package postgres

import (
	"context"
	_ "embed"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema/source.sql
var sourceSchema string

// CreateSourceSchema creates the forum tables read by SourceRepository when
// they do not exist yet. Used by the seed command and tests.
func CreateSourceSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, sourceSchema)
	return err
}
