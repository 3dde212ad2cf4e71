package postgres

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-migrator/pkg/helpers"
)

// StatementTracer echoes statements before they reach the server.
type StatementTracer struct {
	Logger logrus.FieldLogger
	Store  string
}

var (
	_ pgx.QueryTracer    = (*StatementTracer)(nil)
	_ pgx.CopyFromTracer = (*StatementTracer)(nil)
)

func (t *StatementTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	helpers.LogStatement(t.Logger, t.Store, data.SQL, len(data.Args))
	return ctx
}

func (t *StatementTracer) TraceQueryEnd(_ context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	if data.Err != nil && t.Logger != nil {
		t.Logger.WithError(data.Err).WithField("store", t.Store).Debug("statement failed")
	}
}

func (t *StatementTracer) TraceCopyFromStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceCopyFromStartData) context.Context {
	sql := "COPY " + data.TableName.Sanitize() + " (" + strings.Join(data.ColumnNames, ", ") + ") FROM STDIN"
	helpers.LogStatement(t.Logger, t.Store, sql, 0)
	return ctx
}

func (t *StatementTracer) TraceCopyFromEnd(_ context.Context, _ *pgx.Conn, data pgx.TraceCopyFromEndData) {
	if t.Logger == nil {
		return
	}
	if data.Err != nil {
		t.Logger.WithError(data.Err).WithField("store", t.Store).Debug("copy failed")
		return
	}
	t.Logger.WithFields(logrus.Fields{"store": t.Store, "rows": data.CommandTag.RowsAffected()}).Debug("copy done")
}
