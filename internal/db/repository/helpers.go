// Package repository implements the graph store adapter and ownership
// index over SQLite.
package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"strings"
	"time"

	"grocery-graph/internal/domain"
)

// queryer is the subset of *sql.DB and *sql.Tx the graph primitives need,
// so the same code path serves both direct and transactional access.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// unixF converts a time to the REAL unix-seconds representation stored in
// the graph tables.
func unixF(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

// timeFromUnixF converts a stored REAL timestamp back to a time.Time.
// Zero stays zero so the touch self-heal can recognize unset values.
func timeFromUnixF(f float64) time.Time {
	if f == 0 {
		return time.Time{}
	}
	return time.Unix(0, int64(f*1e9)).UTC()
}

// mapDBError translates driver errors into the domain taxonomy. Transient
// connectivity failures must surface as UnavailableError so callers can
// distinguish "retry later" from "does not exist".
func mapDBError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.NotFoundError{Message: "resource not found"}
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return domain.ErrUnavailable(err)
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return &domain.ConflictError{Message: "resource already exists"}
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return &domain.NotFoundError{Message: "referenced resource not found"}
	case strings.Contains(msg, "database is locked"),
		strings.Contains(msg, "unable to open database"),
		strings.Contains(msg, "disk I/O error"):
		return domain.ErrUnavailable(err)
	}
	return err
}
