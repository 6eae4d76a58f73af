package handler

import (
	"net/http"

	"github.com/githubRahuld/TrendyCart/internal/middleware"
	"github.com/githubRahuld/TrendyCart/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 成功時のエンベロープ
type ApiResponse struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
}

// エラー時のエンベロープ（dataは持たない）
type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

func writeData(c echo.Context, status int, data interface{}, message string) error {
	return c.JSON(status, ApiResponse{
		StatusCode: status,
		Data:       data,
		Message:    message,
	})
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{StatusCode: he.Status, Message: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{
		StatusCode: http.StatusInternalServerError,
		Message:    "internal error",
	})
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{
		StatusCode: http.StatusBadRequest,
		Message:    message,
	})
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, ErrorResponse{
		StatusCode: http.StatusUnauthorized,
		Message:    "unauthorized",
	})
}

// AuthJWTがcontextに入れたuserIDを取り出す
func getUserIDFromContext(c echo.Context) (int64, bool) {
	raw := c.Get(middleware.CtxUserIDKey)
	userID, ok := raw.(int64)
	if !ok || userID <= 0 {
		return 0, false
	}
	return userID, true
}
