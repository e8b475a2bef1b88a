package profiles_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	uierrors "github.com/dalemusser/influencehub/internal/app/features/errors"
	"github.com/dalemusser/influencehub/internal/app/features/profiles"
	profilestore "github.com/dalemusser/influencehub/internal/app/store/profiles"
	"github.com/dalemusser/influencehub/internal/app/system/auth"
	"github.com/dalemusser/influencehub/internal/app/system/metrics"
	"github.com/dalemusser/influencehub/internal/domain/models"
	"github.com/dalemusser/influencehub/internal/testutil"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*profiles.Handler, *testutil.Fixtures, *metrics.Metrics) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	m := metrics.New("test")
	h := profiles.NewHandler(db, uierrors.NewErrorLogger(logger), nil, m, logger)
	return h, testutil.NewFixtures(t, db), m
}

func withID(r *http.Request, id primitive.ObjectID) *http.Request {
	return testutil.WithChiURLParam(r, "id", id.Hex())
}

func TestHandleCreate(t *testing.T) {
	h, fx, m := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := testutil.DataOperatorUser()
	body := map[string]any{
		"platform":    "youtube",
		"username":    "<i>creator</i>",
		"profile_url": "https://youtube.com/@creator",
		"costing":     []map[string]any{{"content_type": "video", "price": 1000}},
	}
	rec := testutil.NewRecorder()
	h.HandleCreate(rec, testutil.WithUser(testutil.NewJSONRequest("POST", "/api/profiles", body), user))
	rec.AssertStatus(t, http.StatusCreated)
	rec.AssertContains(t, "Profile created successfully")

	var out struct{ ID string }
	rec.Decode(t, &out)
	id, err := primitive.ObjectIDFromHex(out.ID)
	if err != nil {
		t.Fatalf("bad id %q: %v", out.ID, err)
	}
	p, err := profilestore.New(fx.DB()).GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if p.Username != "creator" {
		t.Errorf("Username: got %q, want markup stripped", p.Username)
	}
	if p.CreatedBy.Hex() != user.ID {
		t.Errorf("CreatedBy: got %s, want %s", p.CreatedBy.Hex(), user.ID)
	}
	if len(p.Costing) != 1 || p.Costing[0].Currency != models.DefaultCurrency {
		t.Errorf("Costing: got %+v, want default currency", p.Costing)
	}
	if got := promtest.ToFloat64(m.RecordsCreated.WithLabelValues("profile")); got != 1 {
		t.Errorf("created counter: got %v", got)
	}
}

func TestHandleCreate_Invalid(t *testing.T) {
	h, _, _ := newTestHandler(t)
	missing := primitive.NewObjectID().Hex()

	tests := []struct {
		name   string
		body   map[string]any
		status int
		detail string
	}{
		{"unknown platform", map[string]any{"platform": "myspace", "username": "u", "profile_url": "https://x"}, 422, "Platform must be one of: youtube, instagram, linkedin, facebook, twitter."},
		{"missing username", map[string]any{"platform": "youtube", "profile_url": "https://x"}, 422, "Username is required."},
		{"negative followers", map[string]any{"platform": "youtube", "username": "u", "profile_url": "https://x", "followers": -1}, 422, "Followers must be at least 0."},
		{"missing billing", map[string]any{"platform": "youtube", "username": "u", "profile_url": "https://x", "billing_details_id": missing}, 404, "Billing details not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.NewRecorder()
			h.HandleCreate(rec, testutil.WithUser(testutil.NewJSONRequest("POST", "/api/profiles", tt.body), testutil.ManagerUser()))
			rec.AssertStatus(t, tt.status)
			rec.AssertDetail(t, tt.detail)
		})
	}
}

func TestServeList_DataOperatorSeesOwnOnly(t *testing.T) {
	h, fx, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	op := testutil.DataOperatorUser()
	opID, _ := primitive.ObjectIDFromHex(op.ID)
	fx.CreateProfile(ctx, "mine", opID)
	fx.CreateProfile(ctx, "theirs", primitive.NewObjectID())

	rec := testutil.NewRecorder()
	h.ServeList(rec, testutil.NewAuthenticatedRequest("GET", "/api/profiles", op))
	rec.AssertStatus(t, http.StatusOK)
	var page []map[string]any
	rec.Decode(t, &page)
	if len(page) != 1 || page[0]["username"] != "mine" {
		t.Fatalf("data operator list = %v", page)
	}
	if _, ok := page[0]["contact_details"]; !ok {
		t.Error("owner should see contact details")
	}

	rec = testutil.NewRecorder()
	h.ServeList(rec, testutil.NewAuthenticatedRequest("GET", "/api/profiles", testutil.InternUser()))
	rec.AssertStatus(t, http.StatusOK)
	page = nil
	rec.Decode(t, &page)
	if len(page) != 2 {
		t.Fatalf("intern list: got %d, want 2", len(page))
	}
	for _, p := range page {
		for _, field := range []string{"contact_details", "costing", "billing_details_id", "created_by"} {
			if _, leaked := p[field]; leaked {
				t.Errorf("intern sees %s", field)
			}
		}
	}
}

func TestServeList_Filters(t *testing.T) {
	h, fx, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateProfile(ctx, "alpha", primitive.NewObjectID())
	fx.CreateProfile(ctx, "beta", primitive.NewObjectID())

	tests := []struct {
		query  string
		status int
		want   int
	}{
		{"?platform=instagram", 200, 2},
		{"?platform=all", 200, 2},
		{"?platform=youtube", 200, 0},
		{"?search=ALP", 200, 1},
		{"?min_followers=20000", 200, 0},
		{"?max_followers=20000&region=Mumbai", 200, 2},
		{"?is_betting_allowed=true", 200, 0},
		{"?platform=myspace", 422, 0},
		{"?min_followers=many", 422, 0},
		{"?is_betting_allowed=maybe", 422, 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := testutil.NewRecorder()
			h.ServeList(rec, testutil.NewAuthenticatedRequest("GET", "/api/profiles"+tt.query, testutil.AdminUser()))
			rec.AssertStatus(t, tt.status)
			if tt.status != http.StatusOK {
				return
			}
			var page []map[string]any
			rec.Decode(t, &page)
			if len(page) != tt.want {
				t.Errorf("got %d profiles, want %d", len(page), tt.want)
			}
		})
	}
}

func TestServeView(t *testing.T) {
	h, fx, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p := fx.CreateProfile(ctx, "creator", primitive.NewObjectID())

	rec := testutil.NewRecorder()
	h.ServeView(rec, withID(testutil.NewAuthenticatedRequest("GET", "/", testutil.FinanceUser()), p.ID))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "contact_details")

	rec = testutil.NewRecorder()
	h.ServeView(rec, withID(testutil.NewAuthenticatedRequest("GET", "/", testutil.AdminUser()), primitive.NewObjectID()))
	rec.AssertStatus(t, http.StatusNotFound)
	rec.AssertDetail(t, "Profile not found")
}

func TestHandleUpdate_Ownership(t *testing.T) {
	h, fx, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	op := testutil.DataOperatorUser()
	opID, _ := primitive.ObjectIDFromHex(op.ID)
	mine := fx.CreateProfile(ctx, "mine", opID)
	theirs := fx.CreateProfile(ctx, "theirs", primitive.NewObjectID())
	body := map[string]any{"region": "Delhi"}

	rec := testutil.NewRecorder()
	h.HandleUpdate(rec, withID(testutil.WithUser(testutil.NewJSONRequest("PUT", "/", body), op), mine.ID))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Profile updated successfully")

	rec = testutil.NewRecorder()
	h.HandleUpdate(rec, withID(testutil.WithUser(testutil.NewJSONRequest("PUT", "/", body), op), theirs.ID))
	rec.AssertStatus(t, http.StatusForbidden)
	rec.AssertDetail(t, "not permitted")

	rec = testutil.NewRecorder()
	h.HandleUpdate(rec, withID(testutil.WithUser(testutil.NewJSONRequest("PUT", "/", body), testutil.InternUser()), mine.ID))
	rec.AssertStatus(t, http.StatusForbidden)

	rec = testutil.NewRecorder()
	h.HandleUpdate(rec, withID(testutil.WithUser(testutil.NewJSONRequest("PUT", "/", body), testutil.ManagerUser()), theirs.ID))
	rec.AssertStatus(t, http.StatusOK)

	got, err := profilestore.New(fx.DB()).GetByID(ctx, mine.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Region != "Delhi" || got.CreatedBy != opID {
		t.Errorf("after update: region=%q created_by=%s", got.Region, got.CreatedBy.Hex())
	}
}

func TestHandleUpdate_NoChangesAndMissingBilling(t *testing.T) {
	h, fx, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p := fx.CreateProfile(ctx, "creator", primitive.NewObjectID())

	rec := testutil.NewRecorder()
	h.HandleUpdate(rec, withID(testutil.WithUser(testutil.NewJSONRequest("PUT", "/", map[string]any{"region": "Mumbai"}), testutil.AdminUser()), p.ID))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "No changes were made to the profile")

	body := map[string]any{"billing_details_id": primitive.NewObjectID().Hex()}
	rec = testutil.NewRecorder()
	h.HandleUpdate(rec, withID(testutil.WithUser(testutil.NewJSONRequest("PUT", "/", body), testutil.AdminUser()), p.ID))
	rec.AssertStatus(t, http.StatusNotFound)
	rec.AssertDetail(t, "Billing details not found")

	b := fx.CreateBilling(ctx, "Acme Pvt Ltd", primitive.NewObjectID(), 1)
	rec = testutil.NewRecorder()
	h.HandleUpdate(rec, withID(testutil.WithUser(testutil.NewJSONRequest("PUT", "/", map[string]any{"billing_details_id": b.ID.Hex()}), testutil.AdminUser()), p.ID))
	rec.AssertStatus(t, http.StatusOK)
}

func TestHandleDelete(t *testing.T) {
	h, fx, m := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	b := fx.CreateBilling(ctx, "Acme Pvt Ltd", primitive.NewObjectID(), 1)
	p := fx.CreateProfile(ctx, "creator", primitive.NewObjectID())
	fx.LinkBilling(ctx, "profiles", p.ID, b.ID)

	rec := testutil.NewRecorder()
	h.HandleDelete(rec, withID(testutil.NewAuthenticatedRequest("DELETE", "/", testutil.AdminUser()), p.ID))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Profile deleted successfully")

	n, err := fx.DB().Collection("billing_details").CountDocuments(ctx, map[string]any{"_id": b.ID})
	if err != nil || n != 1 {
		t.Errorf("linked billing must survive: n=%d err=%v", n, err)
	}
	if got := promtest.ToFloat64(m.RecordsDeleted.WithLabelValues("profile")); got != 1 {
		t.Errorf("deleted counter: got %v", got)
	}

	rec = testutil.NewRecorder()
	h.HandleDelete(rec, withID(testutil.NewAuthenticatedRequest("DELETE", "/", testutil.AdminUser()), p.ID))
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestRoutes_RoleGates(t *testing.T) {
	h, fx, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	p := fx.CreateProfile(ctx, "creator", primitive.NewObjectID())
	router := profiles.Routes(h, auth.NewMiddleware(nil, nil, zap.NewNop()))

	tests := []struct {
		name   string
		req    *http.Request
		status int
	}{
		{"anonymous list", testutil.NewRequest("GET", "/"), http.StatusUnauthorized},
		{"finance create", testutil.WithUser(testutil.NewJSONRequest("POST", "/", map[string]any{}), testutil.FinanceUser()), http.StatusForbidden},
		{"manager delete", testutil.NewAuthenticatedRequest("DELETE", "/"+p.ID.Hex(), testutil.ManagerUser()), http.StatusForbidden},
		{"intern view", testutil.NewAuthenticatedRequest("GET", "/"+p.ID.Hex(), testutil.InternUser()), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, tt.req)
			if rec.Code != tt.status {
				t.Errorf("status: got %d, want %d (%s)", rec.Code, tt.status, rec.Body.String())
			}
		})
	}
}
