package handler

import (
	"net/http"
	"strconv"

	"github.com/githubRahuld/TrendyCart/internal/config"
	"github.com/githubRahuld/TrendyCart/internal/middleware"
	"github.com/githubRahuld/TrendyCart/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /cartのHTTP
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

// 数量未指定は1個として扱う
type AddItemRequest struct {
	Quantity *int64 `json:"quantity"`
}

// /cart配下を登録
func (h *CartHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/cart")
	g.Use(middleware.AuthJWT(cfg))

	g.GET("", h.getCart)
	g.POST("/item/:productId", h.addOrUpdateItem)
	g.DELETE("/item/:productId", h.removeItem)
	g.DELETE("/clear", h.clearCart)
}

func (h *CartHandler) getCart(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	out, err := h.uc.GetCart(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return writeData(c, http.StatusOK, out, "Cart fetched successfully")
}

func (h *CartHandler) addOrUpdateItem(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		return badRequest(c, "invalid product id")
	}

	var req AddItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	var quantity int64 = 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	out, err := h.uc.AddOrUpdateItem(c.Request().Context(), userID, usecase.AddOrUpdateItemInput{
		ProductID: productID,
		Quantity:  quantity,
	})
	if err != nil {
		return writeError(c, err)
	}

	return writeData(c, http.StatusOK, out, "Item added successfully")
}

func (h *CartHandler) removeItem(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		return badRequest(c, "invalid product id")
	}

	out, err := h.uc.RemoveItem(c.Request().Context(), userID, productID)
	if err != nil {
		return writeError(c, err)
	}

	return writeData(c, http.StatusOK, out, "Cart item removed successfully")
}

func (h *CartHandler) clearCart(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	out, err := h.uc.ClearCart(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return writeData(c, http.StatusOK, out, "Cart has been cleared")
}
