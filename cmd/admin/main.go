package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"resume-backend/internal/core/auth"
	"resume-backend/internal/core/cache"
	"resume-backend/internal/core/config"
	"resume-backend/internal/core/database"
	"resume-backend/internal/core/logger"
	"resume-backend/internal/core/server"
	"resume-backend/internal/domain"
	"resume-backend/internal/repo"
	"resume-backend/internal/service"
	"resume-backend/internal/transport/http/handler"
	"resume-backend/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()

	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := db.AutoMigrate(&domain.User{}, &domain.NavItem{}); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
	}

	jwter, err := auth.NewJWTer(cfg.JWT.Secret, cfg.JWT.Issuer,
		time.Duration(cfg.JWT.TTLDays)*24*time.Hour)
	if err != nil {
		log.Fatal("jwt init", zap.Error(err))
	}
	policy := auth.NewPolicy(cfg.Auth.BootstrapAdminEmail)

	var rdb *cache.Cache
	if cfg.Redis.Addr != "" {
		rdb = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	}

	users := repo.NewUserRepo(db)
	navItems := repo.NewNavItemRepo(db)
	userSvc := service.NewUserService(users, jwter, policy)
	navSvc := service.NewNavigationService(navItems, rdb)

	r := router.NewAdminEngine(router.AdminDeps{
		Log:    log,
		JWTer:  jwter,
		Policy: policy,
		Users:  users,
		User:   handler.NewAdminUserHandler(userSvc, log),
		Nav:    handler.NewNavigationHandler(navSvc, log),
	})

	addr := server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port)
	srv := server.Build(addr, r, 5*time.Second, 10*time.Second, 60*time.Second)

	go func() {
		log.Info("admin api starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("admin api start failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("admin api stopped gracefully")
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.New(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
