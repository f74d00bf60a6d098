package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// MapDBError translates a database error into (status, code, message).
// Unique and foreign key violations become 409 conflicts with the codes the
// frontend matches on; pgx.ErrNoRows becomes a 404.
func MapDBError(err error) (status int, code, message string) {
	if errors.Is(err, pgx.ErrNoRows) {
		return http.StatusNotFound, "NOT_FOUND", "Resource not found"
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return http.StatusConflict, "DUPLICATE_ENTRY", "This entry already exists"
		case pgForeignKeyViolation:
			return http.StatusConflict, "INVALID_REFERENCE", "Referenced resource does not exist"
		}
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error"
}

// DBError sends the mapped envelope for a database error.
func DBError(c *gin.Context, err error) {
	status, code, message := MapDBError(err)
	Error(c, status, code, message)
}

// IsUniqueViolation reports whether err is a unique-constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
