package home_test

import (
	"net/http"
	"testing"

	"github.com/dalemusser/influencehub/internal/app/features/home"
	"github.com/dalemusser/influencehub/internal/testutil"
	"go.uber.org/zap"
)

func TestServeRoot(t *testing.T) {
	h := home.NewHandler("InfluenceHub", zap.NewNop())

	rec := testutil.NewRecorder()
	home.Routes(h).ServeHTTP(rec, testutil.NewRequest("GET", "/"))
	rec.AssertStatus(t, http.StatusOK)

	var body struct{ Message string }
	rec.Decode(t, &body)
	if body.Message != "Welcome to InfluenceHub API" {
		t.Errorf("message: got %q", body.Message)
	}
}
