package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"shop/internal/config"
	"shop/internal/middleware"
	"shop/internal/validator"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// Server はechoと設定をまとめる
type Server struct {
	echo *echo.Echo
	cfg  config.Config
	lg   *zap.Logger
}

// New は共通ミドルウェアとルートを登録したサーバーを返す。
func New(cfg config.Config, lg *zap.Logger, resolver middleware.SessionResolver, guest middleware.GuestStarter, h Handlers) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validator.New()

	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLogger(lg))
	e.Use(middleware.SessionAuth(resolver, lg))

	//ログイン不要なら、カートに書き込むときにゲストセッションを発行
	var cartWriteMws []echo.MiddlewareFunc
	if !cfg.RequireLogin {
		cartWriteMws = append(cartWriteMws, middleware.GuestSession(guest, cfg.CookieSecure, lg))
	}

	RegisterRoutes(e, h, cartWriteMws...)

	return &Server{echo: e, cfg: cfg, lg: lg}
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start はShutdownされるまでブロックする
func (s *Server) Start() error {
	s.lg.Info("server started", zap.String("port", s.cfg.Port))

	srv := &http.Server{
		Addr:              ":" + s.cfg.Port,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := s.echo.StartServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
