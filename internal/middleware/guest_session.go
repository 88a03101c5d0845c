package middleware

import (
	"context"
	"net/http"
	"time"

	auth "shop/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const SessionCookieName = "session"

// ゲストセッションを作る約束
type GuestStarter interface {
	Execute(ctx context.Context) (auth.SessionOutput, error)
}

// GuestSession はセッションの無いリクエストにゲストセッションを発行する。
// ログイン不要モードのカートAPIにだけ付ける。
func GuestSession(starter GuestStarter, cookieSecure bool, lg *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if SessionID(c) != "" {
				return next(c)
			}

			out, err := starter.Execute(c.Request().Context())
			if err != nil {
				lg.Error("start guest session failed", zap.Error(err))
				return c.JSON(http.StatusInternalServerError, errorJSON("internal error"))
			}

			SetSessionCookie(c, out.Token, out.Session.ExpiresAt, cookieSecure)
			setSession(c, out.Session)
			return next(c)
		}
	}
}

// セッショントークンをCookieにセット
func SetSessionCookie(c echo.Context, token string, expiresAt time.Time, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  expiresAt,
	})
}

// Cookieを消す
func ClearSessionCookie(c echo.Context, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
}
