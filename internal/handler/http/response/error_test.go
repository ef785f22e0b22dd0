package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/membership-backend-go/internal/domain/intent"
	"github.com/cmlabs-hris/membership-backend-go/internal/domain/invite"
	"github.com/cmlabs-hris/membership-backend-go/internal/domain/member"
	"github.com/cmlabs-hris/membership-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/membership-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", validator.ValidationErrors{{Field: "email", Message: "invalid email format"}}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"intent not found", intent.ErrIntentNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"wrapped not found", fmt.Errorf("lookup: %w", intent.ErrIntentNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"duplicate intent", intent.ErrIntentEmailExists, http.StatusConflict, "CONFLICT"},
		{"cannot approve", intent.ErrIntentCannotBeApproved, http.StatusBadRequest, "BAD_REQUEST"},
		{"cannot reject", intent.ErrIntentCannotBeRejected, http.StatusBadRequest, "BAD_REQUEST"},
		{"invite not found", invite.ErrInviteNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"invite expired", invite.ErrInviteExpired, http.StatusGone, "GONE"},
		{"invite used", invite.ErrInviteAlreadyUsed, http.StatusGone, "GONE"},
		{"invite exists", invite.ErrInviteAlreadyExists, http.StatusConflict, "CONFLICT"},
		{"email mismatch", invite.ErrEmailMismatch, http.StatusBadRequest, "BAD_REQUEST"},
		{"duplicate member", member.ErrMemberEmailExists, http.StatusConflict, "CONFLICT"},
		{"admin token", jwt.ErrInvalidAdminToken, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			HandleError(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}
}

func TestHandleError_ValidationDetails(t *testing.T) {
	rec := httptest.NewRecorder()

	HandleError(rec, validator.ValidationErrors{
		{Field: "full_name", Message: "full_name must be between 3 and 120 characters"},
		{Field: "email", Message: "invalid email format"},
	})

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]string{
		"full_name": "full_name must be between 3 and 120 characters",
		"email":     "invalid email format",
	}, body.Error.Details)
}

func TestHandleError_UnexpectedErrorIsNotLeaked(t *testing.T) {
	rec := httptest.NewRecorder()

	HandleError(rec, errors.New("pq: password authentication failed"))

	assert.NotContains(t, rec.Body.String(), "password authentication")
}
