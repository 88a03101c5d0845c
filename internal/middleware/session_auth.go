package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"shop/internal/domain/model"
	auth "shop/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	CtxSessionIDKey = "session_id" // string
	CtxUserIDKey    = "user_id"    // int64（ゲストは0）
	CtxUsernameKey  = "username"   // string
)

// トークンからセッションを引く約束
type SessionResolver interface {
	Execute(ctx context.Context, rawToken string) (model.Session, error)
}

// SessionAuth はセッションがあればcontextへ入れる。
// 無い・不正でも拒否はしない（拒否はRequireUserとusecaseの仕事）。
func SessionAuth(resolver SessionResolver, lg *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := tokenFromRequest(c)
			if raw == "" {
				return next(c)
			}

			sess, err := resolver.Execute(c.Request().Context(), raw)
			if err != nil {
				if !errors.Is(err, auth.ErrInvalidSession) {
					lg.Warn("session lookup failed", zap.Error(err))
				}
				return next(c)
			}

			setSession(c, sess)
			return next(c)
		}
	}
}

// Authorization: Bearer を優先、無ければcookie
func tokenFromRequest(c echo.Context) string {
	authz := c.Request().Header.Get(echo.HeaderAuthorization)
	if authz != "" {
		parts := strings.SplitN(authz, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	cookie, err := c.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func setSession(c echo.Context, sess model.Session) {
	c.Set(CtxSessionIDKey, sess.ID)
	c.Set(CtxUserIDKey, sess.UserID)
	c.Set(CtxUsernameKey, sess.Username)
}

// contextのセッションID。無ければ空
func SessionID(c echo.Context) string {
	v, _ := c.Get(CtxSessionIDKey).(string)
	return v
}

// contextのユーザーID。ゲストや未ログインは0
func UserID(c echo.Context) int64 {
	v, _ := c.Get(CtxUserIDKey).(int64)
	return v
}

func Username(c echo.Context) string {
	v, _ := c.Get(CtxUsernameKey).(string)
	return v
}

// ログイン済みユーザーだけ通す
func RequireUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if SessionID(c) == "" || UserID(c) <= 0 {
				return c.JSON(http.StatusUnauthorized, errorJSON("Please log in."))
			}
			return next(c)
		}
	}
}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Success: false, Message: msg}
}
