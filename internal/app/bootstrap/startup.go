// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"sync"
	"time"

	userstore "github.com/dalemusser/influencehub/internal/app/store/users"
	"github.com/dalemusser/influencehub/internal/app/system/auth"
	"github.com/dalemusser/influencehub/internal/app/system/timeouts"
	"github.com/dalemusser/influencehub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Long:   appCfg.TimeoutLong,
	})

	if appCfg.BootstrapAdminEmail == "" {
		logger.Info("bootstrap admin disabled")
		return nil
	}
	if coreCfg.Env != "dev" && appCfg.BootstrapAdminPassword == "admin123" {
		logger.Warn("bootstrap admin uses the default password; change it after first sign-in",
			zap.String("email", appCfg.BootstrapAdminEmail))
	}
	return ensureAdmin(ctx, deps, appCfg, logger)
}

// ensureAdmin creates the configured admin unless an account with that email
// already exists. An existing account is left untouched.
func ensureAdmin(ctx context.Context, deps DBDeps, appCfg AppConfig, logger *zap.Logger) error {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Short(), logger, "bootstrap_admin")
	defer cancel()

	hash, err := auth.HashPassword(appCfg.BootstrapAdminPassword)
	if err != nil {
		return err
	}
	created, err := userstore.New(deps.MongoDatabase).EnsureUser(ctx, models.User{
		Email:          appCfg.BootstrapAdminEmail,
		FullName:       appCfg.BootstrapAdminName,
		Role:           models.RoleAdmin,
		IsActive:       true,
		HashedPassword: hash,
	})
	if err != nil {
		logger.Error("bootstrap admin failed", zap.Error(err))
		return err
	}
	if created {
		logger.Info("created bootstrap admin", zap.String("email", appCfg.BootstrapAdminEmail))
	}
	return nil
}

var (
	bgMu     sync.Mutex
	bgCtx    context.Context
	bgCancel context.CancelFunc
	bgWG     sync.WaitGroup
)

// startBackground runs fn until Shutdown calls stopBackground.
func startBackground(fn func(ctx context.Context)) {
	bgMu.Lock()
	defer bgMu.Unlock()
	if bgCancel == nil {
		bgCtx, bgCancel = context.WithCancel(context.Background())
	}
	ctx := bgCtx
	bgWG.Add(1)
	go func() {
		defer bgWG.Done()
		fn(ctx)
	}()
}

func stopBackground() {
	bgMu.Lock()
	cancel := bgCancel
	bgCancel = nil
	bgMu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	done := make(chan struct{})
	go func() {
		bgWG.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
	}
}
