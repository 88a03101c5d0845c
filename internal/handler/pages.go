package handler

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"shop/internal/middleware"
	"shop/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

// テンプレートに渡すもの
type pageData struct {
	Title        string
	Username     string
	Error        string
	FormUsername string
	Products     []usecase.ProductOutput
}

// Pages はHTML画面（トップ、ログイン、会員登録）
type Pages struct {
	tmpl     *template.Template
	products *usecase.ProductUsecase
	lg       *zap.Logger
}

func NewPages(products *usecase.ProductUsecase, lg *zap.Logger) (*Pages, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Pages{tmpl: tmpl, products: products, lg: lg}, nil
}

func (p *Pages) RegisterRoutes(e *echo.Echo) {
	e.GET("/", p.index)
	e.GET("/login", p.login)
	e.GET("/register", p.register)
}

func (p *Pages) index(c echo.Context) error {
	items, err := p.products.ListProducts(c.Request().Context())
	if err != nil {
		p.lg.Error("list products failed", zap.Error(err))
		return p.render(c, http.StatusInternalServerError, "index.html", pageData{Title: "Shop", Error: "Could not load products."})
	}
	return p.render(c, http.StatusOK, "index.html", pageData{Title: "Shop", Products: items})
}

func (p *Pages) login(c echo.Context) error {
	return p.render(c, http.StatusOK, "login.html", pageData{Title: "Log in"})
}

func (p *Pages) register(c echo.Context) error {
	return p.render(c, http.StatusOK, "register.html", pageData{Title: "Register"})
}

// バッファに書いてから返す。途中で失敗しても半端なHTMLを出さない
func (p *Pages) render(c echo.Context, status int, name string, data pageData) error {
	data.Username = middleware.Username(c)

	var buf bytes.Buffer
	if err := p.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		p.lg.Error("render template failed", zap.String("template", name), zap.Error(err))
		return c.String(http.StatusInternalServerError, "internal error")
	}
	return c.HTMLBlob(status, buf.Bytes())
}
