package errors_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	uierrors "github.com/dalemusser/influencehub/internal/app/features/errors"
	billingstore "github.com/dalemusser/influencehub/internal/app/store/billing"
	"github.com/dalemusser/influencehub/internal/app/store/queries/billinglinks"
	userstore "github.com/dalemusser/influencehub/internal/app/store/users"
	"github.com/dalemusser/influencehub/internal/app/system/apperr"
	"github.com/dalemusser/influencehub/internal/app/system/metrics"
	"github.com/dalemusser/influencehub/internal/app/system/paging"
	"github.com/dalemusser/influencehub/internal/domain/models"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		err    error
		status int
		msg    string
	}{
		{models.ErrLastBankAccount, 400, "Cannot delete the only bank account. Add another account first."},
		{fmt.Errorf("update: %w", models.ErrGSTINWithoutGST), 400, "Cannot provide GSTIN when GST is not applicable"},
		{userstore.ErrLastAdmin, 400, "Cannot remove the last admin"},
		{models.ErrUnknownRole, 400, "Invalid role"},
		{models.ErrBankAccountNotFound, 404, "Bank account not found"},
		{billingstore.ErrNotFound, 404, "Billing details not found"},
		{billinglinks.ErrNoLink, 404, "No billing details associated"},
		{billinglinks.ErrDanglingLink, 404, "Associated billing details not found"},
		{userstore.ErrDuplicateEmail, 409, "Email already registered"},
		{models.ErrNotModified, 409, "no changes"},
		{fmt.Errorf("%w: limit", paging.ErrInvalidWindow), 422, "invalid paging parameters: limit"},
		{apperr.NotFound("Profile not found"), 404, "Profile not found"},
		{fmt.Errorf("boom"), 500, apperr.MsgInternal},
	}
	for _, tt := range tests {
		got := uierrors.Classify(tt.err)
		assert.Equal(t, tt.status, got.Kind.Status(), "%v", tt.err)
		assert.Equal(t, tt.msg, got.Msg, "%v", tt.err)
	}
}

func TestWrite_InternalIsLoggedNotEchoed(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	el := uierrors.NewErrorLogger(zap.New(core))

	rec := httptest.NewRecorder()
	el.Write(rec, httptest.NewRequest("GET", "/api/profiles", nil), fmt.Errorf("socket closed"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"detail":"internal server error"}`, rec.Body.String())
	assert.Equal(t, 1, logs.Len())
	assert.NotContains(t, rec.Body.String(), "socket")
}

func TestWrite_ConflictCounted(t *testing.T) {
	m := metrics.New("test")
	el := uierrors.NewErrorLogger(zap.NewNop()).WithMetrics(m)

	rec := httptest.NewRecorder()
	el.Write(rec, httptest.NewRequest("PUT", "/api/billing/x", nil), billingstore.ErrConcurrentUpdate)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UpdateConflicts))
}

func TestWrite_UnauthorizedChallenge(t *testing.T) {
	el := uierrors.NewErrorLogger(zap.NewNop())
	rec := httptest.NewRecorder()
	el.Write(rec, httptest.NewRequest("GET", "/", nil), apperr.Unauthorized("Incorrect email or password"))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
}
