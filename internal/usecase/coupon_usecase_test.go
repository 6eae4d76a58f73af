package usecase_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/githubRahuld/TrendyCart/internal/domain/model"
	repo "github.com/githubRahuld/TrendyCart/internal/repository"
	"github.com/githubRahuld/TrendyCart/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type couponFixture struct {
	carts    *fakeCartRepo
	products *ProductRepoMock
	coupons  *CouponRepoMock
	uc       *usecase.CouponUsecase
}

func newCouponFixture() *couponFixture {
	carts := newFakeCartRepo(testUserID)
	products := new(ProductRepoMock)
	coupons := new(CouponRepoMock)
	tx := &fakeTxManager{repos: &fakeTxRepos{carts: carts, products: products, coupons: coupons}}

	return &couponFixture{
		carts:    carts,
		products: products,
		coupons:  coupons,
		uc:       usecase.NewCouponUsecase(tx, carts, products, coupons),
	}
}

// =====================
// ApplyCoupon
// =====================

func TestCouponUsecase_ApplyCoupon_NotFound(t *testing.T) {
	f := newCouponFixture()
	f.coupons.On("FindByCode", mock.Anything, "NOPE").Return(model.Coupon{}, repo.ErrNotFound)

	_, err := f.uc.ApplyCoupon(context.Background(), testUserID, "NOPE")

	assertStatus(t, err, http.StatusNotFound)
	assertErrContains(t, err, "Coupon does not exist")
}

func TestCouponUsecase_ApplyCoupon_Inactive(t *testing.T) {
	f := newCouponFixture()
	coupon := model.Coupon{ID: 10, CouponCode: "SAVE10", DiscountValue: 10, IsActive: false}
	f.coupons.On("FindByCode", mock.Anything, "SAVE10").Return(coupon, nil)

	_, err := f.uc.ApplyCoupon(context.Background(), testUserID, "SAVE10")

	assertStatus(t, err, http.StatusBadRequest)
	assertErrContains(t, err, "Coupon is not active")
}

func TestCouponUsecase_ApplyCoupon_Expired(t *testing.T) {
	f := newCouponFixture()
	past := time.Now().Add(-time.Hour)
	coupon := model.Coupon{ID: 10, CouponCode: "SAVE10", DiscountValue: 10, IsActive: true, ExpiresAt: &past}
	f.coupons.On("FindByCode", mock.Anything, "SAVE10").Return(coupon, nil)

	_, err := f.uc.ApplyCoupon(context.Background(), testUserID, "SAVE10")

	assertStatus(t, err, http.StatusBadRequest)
	assertErrContains(t, err, "Coupon has expired")
}

// 合計が最低額に届かない間は適用できない
func TestCouponUsecase_ApplyCoupon_BelowMinimum(t *testing.T) {
	f := newCouponFixture()
	coupon := model.Coupon{ID: 10, CouponCode: "SAVE10", DiscountValue: 10, MinimumCartValue: 100, IsActive: true}
	f.carts.items = []model.CartItem{{CartID: 1, ProductID: 1, Quantity: 1}}
	f.products.On("FindByID", mock.Anything, int64(1)).Return(activeProduct(1, 70, 10), nil)
	f.coupons.On("FindByCode", mock.Anything, "SAVE10").Return(coupon, nil)

	_, err := f.uc.ApplyCoupon(context.Background(), testUserID, "SAVE10")

	assertStatus(t, err, http.StatusBadRequest)
	assertErrContains(t, err, "Add items worth 30 more to apply this coupon")
	assert.Nil(t, f.carts.cart.CouponID)
}

func TestCouponUsecase_ApplyCoupon_Success(t *testing.T) {
	f := newCouponFixture()
	coupon := model.Coupon{ID: 10, CouponCode: "SAVE10", DiscountValue: 10, MinimumCartValue: 100, IsActive: true}
	f.carts.items = []model.CartItem{{CartID: 1, ProductID: 1, Quantity: 2}}
	f.products.On("FindByID", mock.Anything, int64(1)).Return(activeProduct(1, 75, 10), nil)
	f.coupons.On("FindByCode", mock.Anything, "SAVE10").Return(coupon, nil)
	f.coupons.On("FindByID", mock.Anything, int64(10)).Return(coupon, nil)

	out, err := f.uc.ApplyCoupon(context.Background(), testUserID, "SAVE10")

	assert.NoError(t, err)
	assert.NotNil(t, out.Coupon)
	assert.Equal(t, int64(150), out.CartTotal)
	assert.Equal(t, int64(140), out.DiscountedTotal)
	assert.NotNil(t, f.carts.cart.CouponID)
}

// =====================
// RemoveCoupon
// =====================

func TestCouponUsecase_RemoveCoupon(t *testing.T) {
	f := newCouponFixture()
	couponID := int64(10)
	f.carts.cart.CouponID = &couponID

	out, err := f.uc.RemoveCoupon(context.Background(), testUserID)

	assert.NoError(t, err)
	assert.Nil(t, out.Coupon)
	assert.Nil(t, f.carts.cart.CouponID)
}

func TestCouponUsecase_RemoveCoupon_NoCouponIsNoop(t *testing.T) {
	f := newCouponFixture()

	out, err := f.uc.RemoveCoupon(context.Background(), testUserID)

	assert.NoError(t, err)
	assert.Nil(t, out.Coupon)
}

// =====================
// Admin: Create / List
// =====================

func TestCouponUsecase_CreateCoupon_Success(t *testing.T) {
	f := newCouponFixture()
	f.coupons.On("Create", mock.Anything, mock.Anything).Return(
		model.Coupon{ID: 1, Name: "launch", CouponCode: "LAUNCH10", DiscountValue: 10}, nil,
	)

	out, err := f.uc.CreateCoupon(context.Background(), usecase.CreateCouponInput{
		Name:          "launch",
		CouponCode:    "launch10",
		DiscountValue: 10,
	})

	assert.NoError(t, err)
	assert.Equal(t, "LAUNCH10", out.CouponCode)

	//コードは大文字化して保存する
	created := f.coupons.Calls[0].Arguments.Get(1).(model.Coupon)
	assert.Equal(t, "LAUNCH10", created.CouponCode)
	assert.True(t, created.IsActive)
}

// コード未指定なら自動発行する
func TestCouponUsecase_CreateCoupon_GeneratesCode(t *testing.T) {
	f := newCouponFixture()
	f.coupons.On("Create", mock.Anything, mock.Anything).Return(model.Coupon{ID: 1}, nil)

	_, err := f.uc.CreateCoupon(context.Background(), usecase.CreateCouponInput{
		Name:          "auto",
		DiscountValue: 5,
	})

	assert.NoError(t, err)
	created := f.coupons.Calls[0].Arguments.Get(1).(model.Coupon)
	assert.Len(t, created.CouponCode, 10)
}

func TestCouponUsecase_CreateCoupon_DuplicateCode(t *testing.T) {
	f := newCouponFixture()
	f.coupons.On("Create", mock.Anything, mock.Anything).Return(model.Coupon{}, repo.ErrDuplicateCode)

	_, err := f.uc.CreateCoupon(context.Background(), usecase.CreateCouponInput{
		Name:          "dup",
		CouponCode:    "DUP",
		DiscountValue: 5,
	})

	assertStatus(t, err, http.StatusConflict)
}

func TestCouponUsecase_CreateCoupon_NegativeDiscount(t *testing.T) {
	f := newCouponFixture()

	_, err := f.uc.CreateCoupon(context.Background(), usecase.CreateCouponInput{
		Name:          "bad",
		DiscountValue: -1,
	})

	assertStatus(t, err, http.StatusBadRequest)
}

func TestCouponUsecase_ListCoupons(t *testing.T) {
	f := newCouponFixture()
	f.coupons.On("List", mock.Anything).Return([]model.Coupon{{ID: 1}, {ID: 2}}, nil)

	out, err := f.uc.ListCoupons(context.Background())

	assert.NoError(t, err)
	assert.Len(t, out, 2)
}
