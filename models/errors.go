package models

import (
	"github.com/cockroachdb/errors"
)

// Base errors, reused as sentinels across the repo with errors.Is.
var (
	BadParameterError = errors.New("bad parameter")

	NotFoundError = errors.New("not found")
)

// Workbook related errors
var (
	// ErrWorkbookUnavailable covers a source workbook that is missing, locked
	// by another process, or otherwise unreadable. Fatal to the invocation
	// that needed it.
	ErrWorkbookUnavailable = errors.New("workbook unavailable")

	ErrRollupSheetMissing = errors.Wrap(NotFoundError, "workbook has no Rollup sheet")
)

// DB related errors
var (
	ErrIgnoreRollBackError = errors.New("ignore rollback error")

	// ErrReservedTableName is returned when a source sheet is named after one
	// of the store's own tables.
	ErrReservedTableName = errors.Wrap(BadParameterError, "source name is reserved")
)
