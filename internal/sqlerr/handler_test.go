package sqlerr

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/deppfellow/yelpcamp/internal/errs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func asHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	return httpErr
}

func TestHandleErrorPassesThroughHTTPErrors(t *testing.T) {
	original := errs.NewUnauthorizedError("Invalid username or password", true)

	handled := HandleError(original)
	assert.Same(t, original, asHTTPError(t, handled))
}

func TestHandleErrorUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           "23505",
		Severity:       "ERROR",
		TableName:      "users",
		ConstraintName: "users_username_key",
	}

	httpErr := asHTTPError(t, HandleError(pgErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "USER_ALREADY_EXISTS", httpErr.Code)
	assert.Equal(t, "A User with this Username already exists", httpErr.Message)
	assert.True(t, httpErr.Override)
}

func TestHandleErrorForeignKeyViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:       "23503",
		Severity:   "ERROR",
		TableName:  "reviews",
		ColumnName: "campground_id",
	}

	httpErr := asHTTPError(t, HandleError(pgErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "REVIEW_NOT_FOUND", httpErr.Code)
	assert.Equal(t, "The referenced Campground does not exist", httpErr.Message)
}

func TestHandleErrorCheckViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:       "23514",
		Severity:   "ERROR",
		TableName:  "reviews",
		ColumnName: "rating",
	}

	httpErr := asHTTPError(t, HandleError(pgErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "REVIEW_INVALID", httpErr.Code)
	assert.Equal(t, "The Rating value does not meet required conditions", httpErr.Message)
}

func TestHandleErrorNoRowsWithTablePrefix(t *testing.T) {
	err := fmt.Errorf("table:campgrounds: %w", pgx.ErrNoRows)

	httpErr := asHTTPError(t, HandleError(err))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "Campground not found", httpErr.Message)
	assert.True(t, httpErr.Override)
}

func TestHandleErrorNoRowsWithoutPrefix(t *testing.T) {
	httpErr := asHTTPError(t, HandleError(pgx.ErrNoRows))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "Resource not found", httpErr.Message)
}

func TestHandleErrorUnknownFallsBackToGeneric500(t *testing.T) {
	httpErr := asHTTPError(t, HandleError(errors.New("connection reset")))
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
	assert.Equal(t, errs.GenericErrorMessage, httpErr.Message)
	assert.False(t, httpErr.Override)
}

func TestErrCode(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", Severity: "ERROR"}

	assert.Equal(t, UniqueViolation, ErrCode(ConvertPgError(pgErr)))
	assert.Equal(t, Other, ErrCode(errors.New("not a pg error")))
}

func TestGenerateErrorCodeSingularizes(t *testing.T) {
	assert.Equal(t, "CAMPGROUND_NOT_FOUND", generateErrorCode("campgrounds", ForeignKeyViolation))
	assert.Equal(t, "USER_ALREADY_EXISTS", generateErrorCode("users", UniqueViolation))
	assert.Equal(t, "RECORD_ERROR", generateErrorCode("", Other))
}

func TestExtractColumnForUniqueViolation(t *testing.T) {
	assert.Equal(t, "email", extractColumnForUniqueViolation("users_email_key"))
	assert.Equal(t, "username", extractColumnForUniqueViolation("users_username_ukey"))
	assert.Equal(t, "email", extractColumnForUniqueViolation("unique_users_email"))
	assert.Empty(t, extractColumnForUniqueViolation("something_else"))
}
