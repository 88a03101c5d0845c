package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shop/internal/config"
	"shop/internal/handler"
	"shop/internal/infra/db"
	infraRepo "shop/internal/infra/repository"
	"shop/internal/infra/session"
	"shop/internal/infra/token"
	"shop/internal/logger"
	repo "shop/internal/repository"
	"shop/internal/server"
	"shop/internal/usecase"
	auth "shop/internal/usecase/auth_usecase"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// 期限切れセッションの掃除（dbバックエンドのみ）
type sessionPurger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	lg, err := logger.New(cfg.LogLevel, cfg.GoEnv)
	if err != nil {
		return err
	}
	defer func() { _ = lg.Sync() }()
	lg.Info("config loaded", zap.Stringer("config", cfg))

	//DB接続
	gormDB, err := db.Connect(ctx, cfg, lg)
	if err != nil {
		return err
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := db.Migrate(gormDB); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	//Repository（GORM実装）生成
	products := infraRepo.NewProductGormRepository(gormDB)
	users := infraRepo.NewUserGormRepository(gormDB)
	orders := infraRepo.NewOrderGormRepository(gormDB)

	productUC := usecase.NewProductUsecase(products)
	if cfg.SeedCatalog {
		n, err := productUC.SeedIfEmpty(ctx, usecase.DefaultCatalog)
		if err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
		if n > 0 {
			lg.Info("catalog seeded", zap.Int("products", n))
		}
	}

	//セッションストア
	checks := map[string]handler.Pinger{"db": db.NewChecker(gormDB)}
	var sessions repo.SessionStore
	var purger sessionPurger

	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}
		store := session.NewRedisStore(rdb)
		sessions = store
		checks["redis"] = store
	default:
		store := infraRepo.NewSessionGormStore(gormDB)
		sessions = store
		purger = store
	}

	//usecaseに渡す部品
	issuer := token.NewJWTIssuer(cfg.SessionSecret)
	clock := auth.SystemClock{}
	idGen := auth.UUIDGenerator{}

	//bcrypt（会員登録：Hash / ログイン：Verify）
	hasher := auth.NewBcryptPasswordHasher(cfg.BcryptCost)
	verifier := auth.NewBcryptPasswordVerifier()

	//Usecase生成
	registerUC := auth.NewRegisterUserUsecase(users, hasher, clock)
	loginUC := auth.NewLoginUsecase(users, sessions, verifier, issuer, idGen, clock, cfg.SessionTTL)
	logoutUC := auth.NewLogoutUsecase(sessions)
	guestUC := auth.NewStartGuestSessionUsecase(sessions, issuer, idGen, clock, cfg.SessionTTL)
	resolveUC := auth.NewResolveSessionUsecase(sessions, issuer)

	cartUC := usecase.NewCartUsecase(
		sessions,
		products,
		infraRepo.NewReposGorm(gormDB),
		infraRepo.NewTxManagerGorm(gormDB),
		usecase.CartPolicy{
			RequireLogin: cfg.RequireLogin,
			CheckoutMode: usecase.CheckoutMode(cfg.CheckoutMode),
		},
	)
	orderUC := usecase.NewOrderUsecase(orders)

	//Handler生成
	pages, err := handler.NewPages(productUC, lg)
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}

	srv := server.New(cfg, lg, resolveUC, guestUC, server.Handlers{
		Pages:    pages,
		Auth:     handler.NewAuthHandler(registerUC, loginUC, logoutUC, pages, cfg.CookieSecure, lg),
		Products: handler.NewProductHandler(productUC, lg),
		Cart:     handler.NewCartHandler(cartUC, lg),
		Orders:   handler.NewOrderHandler(orderUC, lg),
		Health:   handler.NewHealthHandler(checks, lg),
	})

	//Server起動とシャットダウン
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(srv.Start)

	g.Go(func() error {
		<-gCtx.Done()
		lg.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if purger != nil {
		g.Go(func() error {
			purgeLoop(gCtx, purger, cfg.SessionPurgeInterval, lg)
			return nil
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server error: %w", err)
	}
	lg.Info("server stopped")
	return nil
}

func purgeLoop(ctx context.Context, purger sessionPurger, interval time.Duration, lg *zap.Logger) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := purger.PurgeExpired(ctx)
			if err != nil {
				lg.Warn("purge expired sessions failed", zap.Error(err))
				continue
			}
			if n > 0 {
				lg.Info("expired sessions purged", zap.Int64("sessions", n))
			}
		}
	}
}
