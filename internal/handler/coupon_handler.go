package handler

import (
	"net/http"
	"time"

	"github.com/githubRahuld/TrendyCart/internal/config"
	"github.com/githubRahuld/TrendyCart/internal/middleware"
	"github.com/githubRahuld/TrendyCart/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /couponsのHTTP
type CouponHandler struct {
	uc *usecase.CouponUsecase
}

// DI
func NewCouponHandler(uc *usecase.CouponUsecase) *CouponHandler {
	return &CouponHandler{uc: uc}
}

type ApplyCouponRequest struct {
	CouponCode string `json:"couponCode"`
}

type CreateCouponRequest struct {
	Name             string     `json:"name"`
	CouponCode       string     `json:"couponCode"`
	DiscountValue    int64      `json:"discountValue"`
	MinimumCartValue int64      `json:"minimumCartValue"`
	ExpiresAt        *time.Time `json:"expiresAt"`
}

// /coupons配下と管理者ルートを登録
func (h *CouponHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	g := e.Group("/coupons")
	g.Use(middleware.AuthJWT(cfg))

	g.POST("/apply", h.applyCoupon)
	g.DELETE("/remove", h.removeCoupon)

	admin := e.Group("/admin/coupons")
	admin.Use(middleware.AuthJWT(cfg))
	admin.Use(middleware.AdminRoleGuard())

	admin.POST("", h.createCoupon)
	admin.GET("", h.listCoupons)
}

func (h *CouponHandler) applyCoupon(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req ApplyCouponRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.ApplyCoupon(c.Request().Context(), userID, req.CouponCode)
	if err != nil {
		return writeError(c, err)
	}

	return writeData(c, http.StatusOK, out, "Coupon applied successfully")
}

func (h *CouponHandler) removeCoupon(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	out, err := h.uc.RemoveCoupon(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return writeData(c, http.StatusOK, out, "Coupon removed successfully")
}

func (h *CouponHandler) createCoupon(c echo.Context) error {
	var req CreateCouponRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.CreateCoupon(c.Request().Context(), usecase.CreateCouponInput{
		Name:             req.Name,
		CouponCode:       req.CouponCode,
		DiscountValue:    req.DiscountValue,
		MinimumCartValue: req.MinimumCartValue,
		ExpiresAt:        req.ExpiresAt,
	})
	if err != nil {
		return writeError(c, err)
	}

	return writeData(c, http.StatusCreated, out, "Coupon created successfully")
}

func (h *CouponHandler) listCoupons(c echo.Context) error {
	out, err := h.uc.ListCoupons(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return writeData(c, http.StatusOK, out, "Coupons fetched successfully")
}
