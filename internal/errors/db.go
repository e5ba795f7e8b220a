package errors

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// "Key (email)=(x@y) already exists."
	reKeyField = regexp.MustCompile(`Key \(([^)]+)\)=`)
	// "... is still referenced from table "documents"."
	reReferencedFrom = regexp.MustCompile(`is still referenced from table "?([^"]+)"?`)
	// "... is not present in table "advisors"."
	reNotPresent = regexp.MustCompile(`is not present in table "?([^"]+)"?`)
)

// tableDomains maps table names to the names shown to users.
var tableDomains = map[string]string{
	"students":   "Aluno",
	"advisors":   "Orientador",
	"admins":     "Administrador",
	"projects":   "Projeto",
	"documents":  "Documento",
	"comments":   "Comentário",
	"activities": "Atividade",
}

// MapDBError maps database errors to AppError instances.
//   - pgx.ErrNoRows → NotFound
//   - unique violations → Conflict (with Field when it can be recovered)
//   - foreign key violations → ForeignKey
//   - check and NOT NULL violations → Validation
//   - context deadline/cancel → Timeout/Canceled
//
// Unrecognized errors are returned unchanged.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return Wrap(err, ErrCodeTimeout, "Request timed out. Please try again.")
	case errors.Is(err, context.Canceled):
		return Wrap(err, ErrCodeCanceled, "Request was canceled.")
	case errors.Is(err, pgx.ErrNoRows):
		return Wrap(err, ErrCodeNotFound, "Resource not found")
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return mapPgError(pgErr)
	}
	return err
}

func mapPgError(pgErr *pgconn.PgError) error {
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return &AppError{
			Code:    ErrCodeConflict,
			Message: "This value already exists. Please choose a different one.",
			Field:   uniqueField(pgErr),
			Cause:   pgErr,
		}
	case pgerrcode.ForeignKeyViolation:
		return Wrap(pgErr, ErrCodeForeignKey, foreignKeyMessage(pgErr))
	case pgerrcode.CheckViolation:
		return &AppError{
			Code:    ErrCodeValidation,
			Message: "Invalid data. Please check your input.",
			Field:   pgErr.ColumnName,
			Cause:   pgErr,
		}
	case pgerrcode.NotNullViolation:
		return &AppError{
			Code:    ErrCodeValidation,
			Message: "Required field is missing. Please check your input.",
			Field:   pgErr.ColumnName,
			Cause:   pgErr,
		}
	default:
		return Wrap(pgErr, ErrCodeInternal, "A database error occurred. Please try again.")
	}
}

func uniqueField(pgErr *pgconn.PgError) string {
	if pgErr.ColumnName != "" {
		return pgErr.ColumnName
	}
	if m := reKeyField.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
		return m[1]
	}
	return inferFieldFromConstraint(pgErr.ConstraintName)
}

func foreignKeyMessage(pgErr *pgconn.PgError) string {
	if m := reReferencedFrom.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
		return "Cannot delete because this item is in use by " + tableDomain(m[1]) + "."
	}
	if m := reNotPresent.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
		return "Cannot complete operation because the referenced " + tableDomain(m[1]) + " does not exist."
	}
	if pgErr.TableName != "" {
		return "Cannot complete operation because this item is in use by " + tableDomain(pgErr.TableName) + "."
	}
	return "Cannot complete operation because this item is in use."
}

// inferFieldFromConstraint reads the column out of names like "students_email_key".
// Multi-column and expression constraints yield "".
func inferFieldFromConstraint(name string) string {
	parts := strings.Split(name, "_")
	if len(parts) != 3 {
		return ""
	}
	switch parts[1] {
	case "lower", "upper", "trim":
		return ""
	}
	return parts[1]
}

func tableDomain(table string) string {
	table = strings.ToLower(strings.TrimSpace(table))
	if d, ok := tableDomains[table]; ok {
		return d
	}
	return strings.ReplaceAll(table, "_", " ")
}
