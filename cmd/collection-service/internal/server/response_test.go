package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docuvault/cmd/collection-service/internal/domain"
)

func TestParseErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.ErrUnauthenticated, http.StatusUnauthorized},
		{domain.ErrPermissionDenied, http.StatusForbidden},
		{domain.ErrCollectionNotFound, http.StatusNotFound},
		{domain.ErrShardNotFound, http.StatusNotFound},
		{domain.ErrDocumentNotInCollection, http.StatusNotFound},
		{domain.ErrGrantNotFound, http.StatusNotFound},
		{domain.ErrSmartQueryRequired, http.StatusBadRequest},
		{domain.ErrEmptyDocumentIDs, http.StatusBadRequest},
		{domain.ErrOffsetTooLarge, http.StatusBadRequest},
		{domain.ErrInvalidVisibility, http.StatusBadRequest},
		{domain.ErrCollectionNameTaken, http.StatusConflict},
		{errors.New("pq: connection reset"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			status, _ := parseError(tc.err)
			assert.Equal(t, tc.want, status)
		})
	}
}

func TestParseErrorUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("execute smart query: %w", domain.ErrOffsetTooLarge)

	status, _ := parseError(wrapped)

	assert.Equal(t, http.StatusBadRequest, status)
}

func TestParseErrorHidesInternalDetail(t *testing.T) {
	_, message := parseError(errors.New("dial tcp 10.0.0.5:5432: connect refused"))

	assert.Equal(t, "internal server error", message)
}

func TestErrorWritesMemberAccessDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/collections/coll_1/documents", nil)

	Error(c, &domain.MemberAccessError{Failures: []domain.MemberFailure{
		{ID: "d2", Reason: domain.MemberFailureNoPermission},
		{ID: "d3", Reason: domain.MemberFailureNotFound},
	}})

	assert.Equal(t, http.StatusForbidden, rec.Code)

	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Details []struct {
			ID    string `json:"id"`
			Error string `json:"error"`
		} `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Cannot add some documents", body.Message)
	assert.Equal(t, "Cannot add some documents", body.Error)
	require.Len(t, body.Details, 2)
	assert.Equal(t, "d2", body.Details[0].ID)
	assert.Equal(t, "no_permission", body.Details[0].Error)
	assert.Equal(t, "d3", body.Details[1].ID)
	assert.Equal(t, "not_found", body.Details[1].Error)
}

func TestErrorWritesGenericInternalMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/collections/coll_1", nil)

	Error(c, errors.New("pq: out of shared memory"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "shared memory")
}
