package pricing_test

import (
	"testing"

	"github.com/githubRahuld/TrendyCart/internal/domain/model"
	"github.com/githubRahuld/TrendyCart/internal/pricing"

	"github.com/stretchr/testify/assert"
)

func product(id int64, price int64) *model.Product {
	return &model.Product{ID: id, Name: "p", Price: price, Stock: 100, IsActive: true}
}

func TestPrice_Additivity(t *testing.T) {
	items := []pricing.Item{
		{ProductID: 1, Product: product(1, 100), Quantity: 2},
		{ProductID: 2, Product: product(2, 50), Quantity: 3},
	}

	out := pricing.Price(1, items, nil)

	assert.Equal(t, int64(350), out.CartTotal)
	assert.Equal(t, int64(350), out.DiscountedTotal)
	assert.Len(t, out.Items, 2)
}

func TestPrice_CouponApplied(t *testing.T) {
	items := []pricing.Item{
		{ProductID: 1, Product: product(1, 100), Quantity: 2},
		{ProductID: 2, Product: product(2, 50), Quantity: 3},
	}
	coupon := &model.Coupon{ID: 10, DiscountValue: 50, MinimumCartValue: 100}

	out := pricing.Price(1, items, coupon)

	assert.Equal(t, int64(350), out.CartTotal)
	assert.Equal(t, int64(300), out.DiscountedTotal)
	assert.NotNil(t, out.Coupon)
}

func TestPrice_NoCoupon_TotalsMatch(t *testing.T) {
	items := []pricing.Item{
		{ProductID: 1, Product: product(1, 80), Quantity: 1},
	}

	out := pricing.Price(1, items, nil)

	assert.Equal(t, out.CartTotal, out.DiscountedTotal)
	assert.Nil(t, out.Coupon)
}

// 値引き額が合計を超えても0未満にはしない
func TestPrice_DiscountLargerThanTotal(t *testing.T) {
	items := []pricing.Item{
		{ProductID: 1, Product: product(1, 30), Quantity: 1},
	}
	coupon := &model.Coupon{ID: 10, DiscountValue: 100}

	out := pricing.Price(1, items, coupon)

	assert.Equal(t, int64(30), out.CartTotal)
	assert.Equal(t, int64(0), out.DiscountedTotal)
}

func TestPrice_EmptyItems(t *testing.T) {
	out := pricing.Price(1, []pricing.Item{}, &model.Coupon{ID: 10, DiscountValue: 50})

	assert.Equal(t, int64(0), out.CartTotal)
	assert.Equal(t, int64(0), out.DiscountedTotal)
	assert.Empty(t, out.Items)
}

// カタログから消えた商品は0円の行として残す
func TestPrice_MissingProductContributesZero(t *testing.T) {
	items := []pricing.Item{
		{ProductID: 1, Product: product(1, 100), Quantity: 1},
		{ProductID: 2, Product: nil, Quantity: 3},
	}

	out := pricing.Price(1, items, nil)

	assert.Equal(t, int64(100), out.CartTotal)
	assert.Len(t, out.Items, 2)
	assert.Nil(t, out.Items[1].Product)
	assert.Equal(t, int64(3), out.Items[1].Quantity)
}

func TestPrice_QuantityMultiplies(t *testing.T) {
	items := []pricing.Item{
		{ProductID: 1, Product: product(1, 7), Quantity: 6},
	}

	out := pricing.Price(1, items, nil)

	assert.Equal(t, int64(42), out.CartTotal)
}
