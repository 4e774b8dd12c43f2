package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/yelpcamp/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testValidate = validator.New()

type sampleRequest struct {
	Title string   `json:"title" form:"title" validate:"required"`
	Price *float64 `json:"price" form:"price" validate:"required,gte=0"`
}

func (r *sampleRequest) Validate() error { return testValidate.Struct(r) }

func bindContext(t *testing.T, body string) echo.Context {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return e.NewContext(req, httptest.NewRecorder())
}

func fieldErrors(t *testing.T, err error) []errs.FieldError {
	t.Helper()

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusBadRequest, httpErr.Status)
	return httpErr.Errors
}

func TestBindAndValidateSuccess(t *testing.T) {
	c := bindContext(t, `{"title": "Misty Canyon", "price": 12.5}`)

	payload := &sampleRequest{}
	require.NoError(t, BindAndValidate(c, payload))
	assert.Equal(t, "Misty Canyon", payload.Title)
	assert.Equal(t, 12.5, *payload.Price)
}

func TestBindAndValidateAcceptsZeroPrice(t *testing.T) {
	// Price is a pointer so an explicit zero satisfies required.
	c := bindContext(t, `{"title": "Free Flats", "price": 0}`)

	payload := &sampleRequest{}
	require.NoError(t, BindAndValidate(c, payload))
	assert.Equal(t, 0.0, *payload.Price)
}

func TestBindAndValidateMissingFields(t *testing.T) {
	c := bindContext(t, `{}`)

	fields := fieldErrors(t, BindAndValidate(c, &sampleRequest{}))
	require.Len(t, fields, 2)
	assert.Equal(t, "title", fields[0].Field)
	assert.Equal(t, "is required", fields[0].Error)
	assert.Equal(t, "price", fields[1].Field)
	assert.Equal(t, "is required", fields[1].Error)
}

func TestBindAndValidateNegativePrice(t *testing.T) {
	c := bindContext(t, `{"title": "Misty Canyon", "price": -1}`)

	fields := fieldErrors(t, BindAndValidate(c, &sampleRequest{}))
	require.Len(t, fields, 1)
	assert.Equal(t, "price", fields[0].Field)
	assert.Equal(t, "must be at least 0", fields[0].Error)
}

func TestBindAndValidateMalformedBody(t *testing.T) {
	c := bindContext(t, `{"title": `)

	err := BindAndValidate(c, &sampleRequest{})
	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "Invalid request payload", httpErr.Message)
}

func TestBindAndValidateCustomErrors(t *testing.T) {
	custom := CustomValidationErrors{
		{Field: "rating", Message: "must be between 1 and 5"},
	}

	msg, fields := extractValidationError(custom)
	assert.Equal(t, "Validation failed", msg)
	require.Len(t, fields, 1)
	assert.Equal(t, "rating", fields[0].Field)
	assert.Equal(t, "must be between 1 and 5", fields[0].Error)
}

func TestIsValidUUID(t *testing.T) {
	assert.True(t, IsValidUUID("3e1f54f8-61dd-4c5f-8d29-51c0d09c8a4d"))
	assert.False(t, IsValidUUID("not-a-uuid"))
	assert.False(t, IsValidUUID(""))
	assert.False(t, IsValidUUID("3e1f54f8-61dd-4c5f-8d29-51c0d09c8a4g"))
}
