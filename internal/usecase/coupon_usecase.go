package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/githubRahuld/TrendyCart/internal/domain/model"
	"github.com/githubRahuld/TrendyCart/internal/pricing"
	repo "github.com/githubRahuld/TrendyCart/internal/repository"

	"github.com/google/uuid"
)

// CouponUsecase はクーポンの適用・解除と管理者向けのCRUDです。
// 適用はカートへの操作（carts.coupon_idの書き換え）として扱う。
type CouponUsecase struct {
	tx          repo.TransactionManager
	cartRepo    repo.CartRepository
	productRepo repo.ProductRepository
	couponRepo  repo.CouponRepository
}

func NewCouponUsecase(
	tx repo.TransactionManager,
	cartRepo repo.CartRepository,
	productRepo repo.ProductRepository,
	couponRepo repo.CouponRepository,
) *CouponUsecase {
	return &CouponUsecase{
		tx:          tx,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		couponRepo:  couponRepo,
	}
}

// POST /admin/coupons の入力
type CreateCouponInput struct {
	Name             string
	CouponCode       string
	DiscountValue    int64
	MinimumCartValue int64
	ExpiresAt        *time.Time
}

// ApplyCoupon はコードで指定されたクーポンをカートに適用する。
// 合計が最低額に届いていなければ適用しない。
func (u *CouponUsecase) ApplyCoupon(ctx context.Context, userID int64, code string) (pricing.PricedCart, error) {
	if userID <= 0 {
		return pricing.PricedCart{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(code) == "" {
		return pricing.PricedCart{}, NewHTTPError(http.StatusBadRequest, "invalid coupon code")
	}

	coupon, err := u.couponRepo.FindByCode(ctx, code)
	if errors.Is(err, repo.ErrNotFound) {
		return pricing.PricedCart{}, NewHTTPError(http.StatusNotFound, "Coupon does not exist")
	}
	if err != nil {
		return pricing.PricedCart{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if !coupon.IsActive {
		return pricing.PricedCart{}, NewHTTPError(http.StatusBadRequest, "Coupon is not active")
	}
	if coupon.ExpiresAt != nil && coupon.ExpiresAt.Before(time.Now()) {
		return pricing.PricedCart{}, NewHTTPError(http.StatusBadRequest, "Coupon has expired")
	}

	//合計の確認と適用は1トランザクション
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Carts().GetOrCreateByUserID(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		total, err := currentCartTotal(ctx, r.Carts(), r.Products(), cart.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if total < coupon.MinimumCartValue {
			return NewHTTPError(http.StatusBadRequest, fmt.Sprintf(
				"Add items worth %d more to apply this coupon", coupon.MinimumCartValue-total,
			))
		}

		if _, err := r.Carts().SetCoupon(ctx, userID, &coupon.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
	if err != nil {
		return pricing.PricedCart{}, err
	}

	return u.freshPricedCart(ctx, userID)
}

// RemoveCoupon は適用中のクーポンを外す。未適用なら何も変わらない。
func (u *CouponUsecase) RemoveCoupon(ctx context.Context, userID int64) (pricing.PricedCart, error) {
	if userID <= 0 {
		return pricing.PricedCart{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	cart, err := u.cartRepo.SetCoupon(ctx, userID, nil)
	if err != nil {
		return pricing.PricedCart{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return buildPricedCart(ctx, u.cartRepo, u.productRepo, u.couponRepo, cart)
}

// CreateCoupon は管理者向け。コード未指定なら自動発行する。
func (u *CouponUsecase) CreateCoupon(ctx context.Context, in CreateCouponInput) (model.Coupon, error) {
	if strings.TrimSpace(in.Name) == "" {
		return model.Coupon{}, NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if in.DiscountValue < 0 {
		return model.Coupon{}, NewHTTPError(http.StatusBadRequest, "discount_value must be >= 0")
	}
	if in.MinimumCartValue < 0 {
		return model.Coupon{}, NewHTTPError(http.StatusBadRequest, "minimum_cart_value must be >= 0")
	}

	code := strings.ToUpper(strings.TrimSpace(in.CouponCode))
	if code == "" {
		code = generateCouponCode()
	}
	if len(code) > 64 {
		return model.Coupon{}, NewHTTPError(http.StatusBadRequest, "coupon_code too long")
	}

	created, err := u.couponRepo.Create(ctx, model.Coupon{
		Name:             strings.TrimSpace(in.Name),
		CouponCode:       code,
		DiscountValue:    in.DiscountValue,
		MinimumCartValue: in.MinimumCartValue,
		IsActive:         true,
		ExpiresAt:        in.ExpiresAt,
	})
	if errors.Is(err, repo.ErrDuplicateCode) {
		return model.Coupon{}, NewHTTPError(http.StatusConflict, "coupon code already exists")
	}
	if err != nil {
		return model.Coupon{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return created, nil
}

// ListCoupons は管理者向けの一覧。
func (u *CouponUsecase) ListCoupons(ctx context.Context) ([]model.Coupon, error) {
	coupons, err := u.couponRepo.List(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return coupons, nil
}

func (u *CouponUsecase) freshPricedCart(ctx context.Context, userID int64) (pricing.PricedCart, error) {
	cart, err := u.cartRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return pricing.PricedCart{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return buildPricedCart(ctx, u.cartRepo, u.productRepo, u.couponRepo, cart)
}

// UUIDから読みやすい10桁コードを作る
func generateCouponCode() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return raw[:10]
}
