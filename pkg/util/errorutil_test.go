package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvalidCredentialsShape(t *testing.T) {
	err := NewInvalidCredentials()

	domainErr := ToDomainError(err)
	assert.Equal(t, CodeInvalidCredentials, domainErr.Code)
	assert.Equal(t, http.StatusUnauthorized, domainErr.HTTPStatus)
	assert.Empty(t, domainErr.Details)
}

func TestTokenErrorsAreDistinctCodes(t *testing.T) {
	missing := ToDomainError(NewMissingToken())
	invalid := ToDomainError(NewInvalidToken())

	assert.Equal(t, CodeMissingToken, missing.Code)
	assert.Equal(t, CodeInvalidOrExpiredToken, invalid.Code)
	assert.NotEqual(t, missing.Code, invalid.Code)
	assert.Equal(t, http.StatusUnauthorized, missing.HTTPStatus)
	assert.Equal(t, http.StatusUnauthorized, invalid.HTTPStatus)
}

func TestToDomainErrorPassesThrough(t *testing.T) {
	original := NewConflict("email already registered", map[string]any{"email": "a@b.c"})

	converted := ToDomainError(fmt.Errorf("creating student: %w", original))
	assert.Equal(t, CodeConflict, converted.Code)
	assert.Equal(t, "a@b.c", converted.Details["email"])
}

func TestToDomainErrorMapsNoRows(t *testing.T) {
	converted := ToDomainError(pgx.ErrNoRows)
	assert.Equal(t, CodeNotFound, converted.Code)
	assert.Equal(t, http.StatusNotFound, converted.HTTPStatus)
}

func TestToDomainErrorWrapsUnknown(t *testing.T) {
	cause := errors.New("boom")
	converted := ToDomainError(cause)

	assert.Equal(t, CodeInternalError, converted.Code)
	assert.Equal(t, http.StatusInternalServerError, converted.HTTPStatus)
	require.ErrorIs(t, converted, cause)
	// The outward message never leaks the cause.
	assert.Equal(t, "internal server error", converted.Message)
}
