// Package app wires config, storage and transport into the engines the two
// binaries serve.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"salary-portal/internal/core/auth"
	"salary-portal/internal/core/cache"
	"salary-portal/internal/core/config"
	"salary-portal/internal/core/database"
	"salary-portal/internal/core/logger"
	"salary-portal/internal/core/validate"
	"salary-portal/internal/feature/salary"
	"salary-portal/internal/repo"
	"salary-portal/internal/transport/http/handler"
	"salary-portal/internal/transport/http/router"
	"salary-portal/internal/web"
)

// Setup loads config and builds the process logger. The returned func
// flushes the logger and restores the std log package.
func Setup(configPath string) (*config.Config, *zap.Logger, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	log, flush := logger.New(logger.FromConfig(cfg.Log))
	undo := logger.RedirectStdLog(log, zapcore.InfoLevel)

	if cfg.App.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DefaultWriter = logger.ToWriter(log.Named("gin"), zapcore.DebugLevel)
	gin.DefaultErrorWriter = logger.ToWriter(log.Named("gin"), zapcore.ErrorLevel)

	return cfg, log, func() { undo(); flush() }, nil
}

// OpenDB connects and, when configured, migrates.
func OpenDB(ctx context.Context, cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := database.NewGorm(database.OptsFromConfig(cfg.DB), log)
	if err != nil {
		return nil, err
	}
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))
	if cfg.DB.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			return nil, err
		}
		log.Info("automigrate done")
	}
	return db, nil
}

type App struct {
	Config *config.Config
	Log    *zap.Logger
	DB     *gorm.DB
	Cache  *cache.Cache // nil when redis.addr is empty or unreachable
	JWT    *auth.JWTer
	Salary salary.Service

	pages *web.Pages
}

func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	commission, err := decimal.NewFromString(cfg.Salary.DefaultCommission)
	if err != nil {
		return nil, fmt.Errorf("salary.defaultCommission %q: %w", cfg.Salary.DefaultCommission, err)
	}

	db, err := OpenDB(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	a := &App{Config: cfg, Log: log, DB: db, JWT: auth.NewJWTer(cfg.JWT)}

	opts := salary.Options{DefaultCommission: commission, Logger: log}
	if cfg.Redis.Addr != "" {
		c := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := c.Ping(pingCtx)
		cancel()
		if err != nil {
			log.Warn("redis unreachable, list cache disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
			_ = c.Close()
		} else {
			a.Cache = c
			opts.Cache = salary.NewRedisListCache(c, time.Duration(cfg.Redis.ListTTLSec)*time.Second)
			log.Info("list cache enabled", zap.String("addr", cfg.Redis.Addr))
		}
	}

	a.Salary = salary.NewService(repo.NewSalaryRepo(db), validate.New(), opts)

	if a.pages, err = web.New(cfg.App.Name, cfg.Currencies); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// Deps builds the router dependencies for either engine.
func (a *App) Deps() router.Deps {
	api := router.NewRegistry(
		handler.NewSalaryHandler(a.Salary),
		handler.NewCurrencyHandler(a.Config.Currencies),
		handler.NewUserHandler(a.JWT),
	)
	return router.Deps{
		Logger: a.Log,
		Config: a.Config,
		API:    api,
		Pages:  router.NewRegistry(a.pages),
		Assets: web.Assets(),
		Health: func(ctx context.Context) error { return database.Ping(ctx, a.DB) },
	}
}

func (a *App) Close() {
	if a.Cache != nil {
		_ = a.Cache.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
