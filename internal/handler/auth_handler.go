package handler

import (
	"errors"
	"net/http"
	"strings"

	"shop/internal/middleware"
	auth "shop/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AuthHandler struct {
	registerUC   *auth.RegisterUserUsecase // 会員登録usecase
	loginUC      *auth.LoginUsecase        // ログインusecase
	logoutUC     *auth.LogoutUsecase
	pages        *Pages // フォーム送信の失敗時に画面を出し直す
	cookieSecure bool
	lg           *zap.Logger
}

// DIコンストラクタ
func NewAuthHandler(
	registerUC *auth.RegisterUserUsecase,
	loginUC *auth.LoginUsecase,
	logoutUC *auth.LogoutUsecase,
	pages *Pages,
	cookieSecure bool,
	lg *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		registerUC:   registerUC,
		loginUC:      loginUC,
		logoutUC:     logoutUC,
		pages:        pages,
		cookieSecure: cookieSecure,
		lg:           lg,
	}
}

// /register, /login のリクエストボディ。JSONでもformでもよい
type credentialsRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type loginUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type loginResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Token   string    `json:"token"`
	User    loginUser `json:"user"`
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/register", h.register)
	e.POST("/login", h.login)
	e.GET("/logout", h.logout)
}

// POST /register
func (h *AuthHandler) register(c echo.Context) error {
	form := isFormRequest(c)

	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return h.authFail(c, form, "register.html", http.StatusBadRequest, "Invalid request body.", "")
	}
	if err := c.Validate(&req); err != nil {
		return h.authFail(c, form, "register.html", http.StatusBadRequest, "Username and password are required.", req.Username)
	}

	_, err := h.registerUC.Execute(c.Request().Context(), auth.RegisterUserInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		status, msg := registerErrorStatus(err)
		if status == http.StatusInternalServerError {
			h.lg.Error("register failed", zap.Error(err))
		}
		return h.authFail(c, form, "register.html", status, msg, req.Username)
	}

	if form {
		return c.Redirect(http.StatusSeeOther, "/login")
	}
	return c.JSON(http.StatusCreated, MessageResponse{Success: true, Message: "Registration successful. Please log in."})
}

func registerErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, auth.ErrInvalidUsername):
		return http.StatusBadRequest, "Username must be 3-50 characters: letters, digits, '_', '.', '-'."
	case errors.Is(err, auth.ErrPasswordTooShort):
		return http.StatusBadRequest, "Password must be at least 8 characters."
	case errors.Is(err, auth.ErrPasswordTooLong):
		return http.StatusBadRequest, "Password must be at most 72 characters."
	case errors.Is(err, auth.ErrWeakPassword):
		return http.StatusBadRequest, "Password is too common."
	case errors.Is(err, auth.ErrUsernameTaken):
		return http.StatusConflict, "Username already taken."
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

// POST /login
func (h *AuthHandler) login(c echo.Context) error {
	form := isFormRequest(c)

	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return h.authFail(c, form, "login.html", http.StatusBadRequest, "Invalid request body.", "")
	}
	if err := c.Validate(&req); err != nil {
		return h.authFail(c, form, "login.html", http.StatusBadRequest, "Username and password are required.", req.Username)
	}

	//ゲストのカートを引き継ぐ
	var guestSessionID string
	if middleware.UserID(c) == 0 {
		guestSessionID = middleware.SessionID(c)
	}

	out, err := h.loginUC.Execute(c.Request().Context(), auth.LoginInput{
		Username:       req.Username,
		Password:       req.Password,
		GuestSessionID: guestSessionID,
	})
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return h.authFail(c, form, "login.html", http.StatusUnauthorized, "Invalid username or password.", req.Username)
		}
		h.lg.Error("login failed", zap.Error(err))
		return h.authFail(c, form, "login.html", http.StatusInternalServerError, "internal error", req.Username)
	}

	middleware.SetSessionCookie(c, out.Token, out.Session.ExpiresAt, h.cookieSecure)

	if form {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	return c.JSON(http.StatusOK, loginResponse{
		Success: true,
		Message: "Logged in successfully.",
		Token:   out.Token,
		User:    loginUser{ID: out.User.ID, Username: out.User.Username},
	})
}

// GET /logout
func (h *AuthHandler) logout(c echo.Context) error {
	if err := h.logoutUC.Execute(c.Request().Context(), middleware.SessionID(c)); err != nil {
		return writeError(c, h.lg, err)
	}

	middleware.ClearSessionCookie(c, h.cookieSecure)
	//画面のリンクから来たらトップへ戻す
	if wantsHTML(c) {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	return c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "Logged out."})
}

// formなら画面を出し直し、JSONなら{success:false}
func (h *AuthHandler) authFail(c echo.Context, form bool, page string, status int, msg, username string) error {
	if form {
		return h.pages.render(c, status, page, pageData{
			Title:        pageTitle(page),
			Error:        msg,
			FormUsername: username,
		})
	}
	return fail(c, status, msg)
}

func pageTitle(page string) string {
	if page == "register.html" {
		return "Register"
	}
	return "Log in"
}

func isFormRequest(c echo.Context) bool {
	ctype := c.Request().Header.Get(echo.HeaderContentType)
	return strings.HasPrefix(ctype, echo.MIMEApplicationForm) || strings.HasPrefix(ctype, echo.MIMEMultipartForm)
}

func wantsHTML(c echo.Context) bool {
	return strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMETextHTML)
}
