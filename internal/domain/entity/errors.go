package entity

import "errors"

var (
	// ErrSourceConnection is returned when the source store cannot be opened.
	ErrSourceConnection = errors.New("source connection failed")
	// ErrTargetConnection is returned when the target store cannot be opened.
	ErrTargetConnection = errors.New("target connection failed")
	// ErrDuplicateUser signals a username or email collision during the user import.
	ErrDuplicateUser = errors.New("duplicate user")
	// ErrMissingFieldMapping signals a custom field name with no target column.
	ErrMissingFieldMapping = errors.New("missing field mapping")
	// ErrSourceUserNotFound signals a dangling user id in the source.
	ErrSourceUserNotFound = errors.New("source user not found")
	// ErrUploadNotFound signals a dangling upload id in the source.
	ErrUploadNotFound = errors.New("upload not found")
	// ErrInvalidColumn signals a target column name that is not a plain identifier.
	ErrInvalidColumn = errors.New("invalid column name")
	// ErrNoSteps signals a run with nothing to do.
	ErrNoSteps = errors.New("no migration steps")
)
