// Package pricing はカート合計の計算だけを行う純粋な関数を提供します。
// I/Oは一切せず、読み込み済みの明細・商品・クーポンから合計を決めます。
package pricing

import "github.com/githubRahuld/TrendyCart/internal/domain/model"

// 計算の入力1行。Product はカタログに無ければ nil。
type Item struct {
	ProductID int64
	Product   *model.Product
	Quantity  int64
}

// 計算後の明細。商品スナップショットは現在のカタログ行。
type PricedItem struct {
	ProductID int64          `json:"product_id"`
	Product   *model.Product `json:"product"`
	Quantity  int64          `json:"quantity"`
}

// 返却専用のカートビュー。保存はしない。
type PricedCart struct {
	ID              int64         `json:"id"`
	Items           []PricedItem  `json:"items"`
	CartTotal       int64         `json:"cart_total"`
	Coupon          *model.Coupon `json:"coupon,omitempty"`
	DiscountedTotal int64         `json:"discounted_total"`
}

// Price は明細と任意のクーポンから合計と値引き後合計を計算する。
//   - CartTotal = Σ price × quantity
//   - Product が nil の明細は0円として数え、行は残す
//   - DiscountedTotal はクーポンの値引き額を引いた値（0未満にはしない）
func Price(cartID int64, items []Item, coupon *model.Coupon) PricedCart {
	pricedItems := make([]PricedItem, 0, len(items))
	var total int64 = 0

	for _, it := range items {
		pricedItems = append(pricedItems, PricedItem{
			ProductID: it.ProductID,
			Product:   it.Product,
			Quantity:  it.Quantity,
		})

		if it.Product == nil {
			continue
		}
		total += it.Product.Price * it.Quantity
	}

	discounted := total
	if coupon != nil {
		discounted = total - coupon.DiscountValue
		if discounted < 0 {
			discounted = 0
		}
	}

	return PricedCart{
		ID:              cartID,
		Items:           pricedItems,
		CartTotal:       total,
		Coupon:          coupon,
		DiscountedTotal: discounted,
	}
}
