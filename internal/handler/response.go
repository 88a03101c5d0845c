package handler

import (
	"errors"
	"net/http"

	"shop/internal/usecase"
	"shop/internal/validator"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// 失敗時は常にこの形
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, ErrorResponse{Success: false, Message: msg})
}

// HTTPErrorはそのステータスで返す。それ以外はログに出して500
func writeError(c echo.Context, lg *zap.Logger, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		if he.Status >= http.StatusInternalServerError {
			lg.Error("request failed",
				zap.String("path", c.Path()),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
				zap.Error(err),
			)
		}
		return fail(c, he.Status, he.Message)
	}

	lg.Error("unexpected error",
		zap.String("path", c.Path()),
		zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
		zap.Error(err),
	)
	return fail(c, http.StatusInternalServerError, "internal error")
}

// bindとvalidateをまとめる。失敗時は返すべきエラーレスポンスを書く
func bindAndValidate(c echo.Context, req interface{}) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, fail(c, http.StatusBadRequest, "Invalid request body.")
	}
	if err := c.Validate(req); err != nil {
		var verr *validator.Error
		if errors.As(err, &verr) {
			return false, fail(c, http.StatusBadRequest, verr.Error())
		}
		return false, fail(c, http.StatusBadRequest, "Invalid request body.")
	}
	return true, nil
}
