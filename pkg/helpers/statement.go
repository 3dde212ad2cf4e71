package helpers

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// LogStatement echoes a SQL statement before it runs. Argument values are
// left out since they carry password hashes.
func LogStatement(logger logrus.FieldLogger, store, sql string, nargs int) {
	if logger == nil {
		return
	}
	logger.WithFields(logrus.Fields{
		"store": store,
		"args":  nargs,
	}).Info(CompactSQL(sql))
}

// CompactSQL collapses whitespace so multi-line statements log on one line.
func CompactSQL(sql string) string {
	return strings.Join(strings.Fields(sql), " ")
}
