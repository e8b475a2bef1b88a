package bootstrap

import (
	"testing"

	"github.com/dalemusser/influencehub/internal/app/system/auth"
	"github.com/dalemusser/influencehub/internal/domain/models"
	"github.com/dalemusser/influencehub/internal/testutil"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func adminConfig() AppConfig {
	return AppConfig{
		BootstrapAdminEmail:    "admin@example.com",
		BootstrapAdminPassword: "admin123",
		BootstrapAdminName:     "Administrator",
	}
}

func TestEnsureAdmin_CreatesNew(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{MongoDatabase: db}
	if err := ensureAdmin(ctx, deps, adminConfig(), zap.NewNop()); err != nil {
		t.Fatalf("ensureAdmin failed: %v", err)
	}

	var user models.User
	if err := db.Collection("users").FindOne(ctx, bson.M{"email": "admin@example.com"}).Decode(&user); err != nil {
		t.Fatalf("failed to find created user: %v", err)
	}
	if user.Role != models.RoleAdmin {
		t.Errorf("role: got %q, want admin", user.Role)
	}
	if !user.IsActive {
		t.Error("expected bootstrap admin to be active")
	}
	if !auth.CheckPassword(user.HashedPassword, "admin123") {
		t.Error("stored hash does not match the configured password")
	}
}

func TestEnsureAdmin_LeavesExisting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{MongoDatabase: db}
	_, err := db.Collection("users").InsertOne(ctx, models.User{
		Email:    "admin@example.com",
		FullName: "Existing",
		Role:     models.RoleFinance,
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := ensureAdmin(ctx, deps, adminConfig(), zap.NewNop()); err != nil {
		t.Fatalf("ensureAdmin failed: %v", err)
	}

	n, err := db.Collection("users").CountDocuments(ctx, bson.M{"email": "admin@example.com"})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("got %d users, want 1", n)
	}
	var user models.User
	_ = db.Collection("users").FindOne(ctx, bson.M{"email": "admin@example.com"}).Decode(&user)
	if user.Role != models.RoleFinance || user.FullName != "Existing" {
		t.Errorf("existing account modified: %+v", user)
	}
}

func TestStartup_DisabledAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cfg := adminConfig()
	cfg.BootstrapAdminEmail = ""
	err := Startup(ctx, &config.CoreConfig{Env: "dev"}, cfg, DBDeps{MongoDatabase: db}, zap.NewNop())
	if err != nil {
		t.Fatalf("Startup failed: %v", err)
	}
	n, _ := db.Collection("users").CountDocuments(ctx, bson.M{})
	if n != 0 {
		t.Errorf("got %d users, want none", n)
	}
}

func TestValidateConfig(t *testing.T) {
	base := AppConfig{
		MongoURI:        "mongodb://localhost:27017",
		MongoDatabase:   "influencehub",
		JWTSecret:       devJWTSecret,
		LoginIPLimit:    20,
		LoginEmailLimit: 5,
	}

	tests := []struct {
		name    string
		env     string
		mutate  func(*AppConfig)
		wantErr bool
	}{
		{"dev defaults", "dev", func(*AppConfig) {}, false},
		{"prod with dev secret", "prod", func(*AppConfig) {}, true},
		{"prod short secret", "prod", func(c *AppConfig) { c.JWTSecret = "short" }, true},
		{"prod strong secret", "prod", func(c *AppConfig) { c.JWTSecret = "f3b1c9d04a7e4b2f9c8d7e6a5b4c3d2e1f0a9b8c" }, false},
		{"bad uri", "dev", func(c *AppConfig) { c.MongoURI = "http://nope" }, true},
		{"empty secret", "dev", func(c *AppConfig) { c.JWTSecret = "" }, true},
		{"zero login limit", "dev", func(c *AppConfig) { c.LoginIPLimit = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			err := ValidateConfig(&config.CoreConfig{Env: tt.env}, cfg, zap.NewNop())
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" https://a.example.com, ,https://b.example.com ")
	if len(got) != 2 || got[0] != "https://a.example.com" || got[1] != "https://b.example.com" {
		t.Errorf("splitList: %v", got)
	}
	if splitList("") != nil {
		t.Error("empty input should yield nil")
	}
}
