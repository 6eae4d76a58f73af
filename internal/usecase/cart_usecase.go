package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/githubRahuld/TrendyCart/internal/domain/model"
	"github.com/githubRahuld/TrendyCart/internal/pricing"
	repo "github.com/githubRahuld/TrendyCart/internal/repository"
)

// CartUsecase は /cart の業務ロジックです。
// クーポンの整合性（minimum_cart_value を下回るカートにクーポンを残さない）を
// すべてのカート更新で守るのがここの仕事。
type CartUsecase struct {
	tx          repo.TransactionManager
	cartRepo    repo.CartRepository
	productRepo repo.ProductRepository
	couponRepo  repo.CouponRepository
}

func NewCartUsecase(
	tx repo.TransactionManager,
	cartRepo repo.CartRepository,
	productRepo repo.ProductRepository,
	couponRepo repo.CouponRepository,
) *CartUsecase {
	return &CartUsecase{
		tx:          tx,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		couponRepo:  couponRepo,
	}
}

// POST /cart/item/:productId の入力。
// Quantityはハンドラ側で未指定なら1にする。
type AddOrUpdateItemInput struct {
	ProductID int64
	Quantity  int64
}

// GetCart はカート取得（無ければ作って空を返す）。
func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (pricing.PricedCart, error) {
	if userID <= 0 {
		return pricing.PricedCart{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	cart, err := u.cartRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return pricing.PricedCart{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return buildPricedCart(ctx, u.cartRepo, u.productRepo, u.couponRepo, cart)
}

// AddOrUpdateItem はカートに追加、または既存明細の数量を置き換える。
//   - 既存明細の数量変更は、値引きの悪用を避けるため常にクーポンを外す
//   - 新規追加は合計が増えるだけなのでクーポンはそのまま
func (u *CartUsecase) AddOrUpdateItem(ctx context.Context, userID int64, in AddOrUpdateItemInput) (pricing.PricedCart, error) {
	if userID <= 0 {
		return pricing.PricedCart{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ProductID <= 0 {
		return pricing.PricedCart{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if in.Quantity < 1 {
		return pricing.PricedCart{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	// 商品チェック（公開のみ）
	p, err := u.productRepo.FindByID(ctx, in.ProductID)
	if errors.Is(err, repo.ErrNotFound) {
		return pricing.PricedCart{}, NewHTTPError(http.StatusNotFound, "Product does not exist")
	}
	if err != nil {
		return pricing.PricedCart{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !p.IsActive {
		return pricing.PricedCart{}, NewHTTPError(http.StatusNotFound, "Product does not exist")
	}

	// 在庫チェック
	if in.Quantity > p.Stock {
		return pricing.PricedCart{}, NewHTTPError(http.StatusBadRequest, stockMessage(p.Stock, in.Quantity))
	}

	// 既存明細の置き換えとクーポン解除は1トランザクション
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Carts().GetOrCreateByUserID(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		items, err := r.Carts().ListItems(ctx, cart.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		exists := false
		for i := range items {
			if items[i].ProductID == in.ProductID {
				items[i].Quantity = in.Quantity
				exists = true
				break
			}
		}

		if !exists {
			//新規追加。クーポンには触らない。
			if _, err := r.Carts().UpsertItem(ctx, userID, in.ProductID, in.Quantity); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			return nil
		}

		//数量置き換え
		if _, err := r.Carts().ReplaceItems(ctx, userID, items); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//数量が変わると合計も変わるので、新しい合計に関わらずクーポンは外す
		if cart.CouponID != nil {
			if _, err := r.Carts().SetCoupon(ctx, userID, nil); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}
		return nil
	})
	if err != nil {
		return pricing.PricedCart{}, err
	}

	return u.freshPricedCart(ctx, userID)
}

// RemoveItem は明細を1行削除する。
// 削除後の合計がクーポンの最低額を下回ったら、同じトランザクションでクーポンも外す。
func (u *CartUsecase) RemoveItem(ctx context.Context, userID int64, productID int64) (pricing.PricedCart, error) {
	if userID <= 0 {
		return pricing.PricedCart{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return pricing.PricedCart{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	//商品の存在チェック
	if _, err := u.productRepo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return pricing.PricedCart{}, NewHTTPError(http.StatusNotFound, "Product does not exist")
		}
		return pricing.PricedCart{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Carts().RemoveItem(ctx, userID, productID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if cart.CouponID == nil {
			return nil
		}

		coupon, err := r.Coupons().FindByID(ctx, *cart.CouponID)
		if errors.Is(err, repo.ErrNotFound) {
			//消えたクーポンは残しても意味がないので外す
			if _, err := r.Carts().SetCoupon(ctx, userID, nil); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			return nil
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//新しい合計が最低額を下回ったらクーポンを外す
		total, err := currentCartTotal(ctx, r.Carts(), r.Products(), cart.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if total < coupon.MinimumCartValue {
			if _, err := r.Carts().SetCoupon(ctx, userID, nil); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}
		return nil
	})
	if err != nil {
		return pricing.PricedCart{}, err
	}

	return u.freshPricedCart(ctx, userID)
}

// ClearCart は明細とクーポンを1回で空にする。何度呼んでも同じ空カート。
func (u *CartUsecase) ClearCart(ctx context.Context, userID int64) (pricing.PricedCart, error) {
	if userID <= 0 {
		return pricing.PricedCart{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	cart, err := u.cartRepo.Clear(ctx, userID)
	if err != nil {
		return pricing.PricedCart{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return buildPricedCart(ctx, u.cartRepo, u.productRepo, u.couponRepo, cart)
}

// 最新のカートを読み直して計算する
func (u *CartUsecase) freshPricedCart(ctx context.Context, userID int64) (pricing.PricedCart, error) {
	cart, err := u.cartRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return pricing.PricedCart{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return buildPricedCart(ctx, u.cartRepo, u.productRepo, u.couponRepo, cart)
}

// 在庫エラーの文言。残数があるかどうかで分ける。
func stockMessage(stock int64, quantity int64) string {
	if stock > 0 {
		return fmt.Sprintf("Only %d products are remaining. But you are adding %d", stock, quantity)
	}
	return "Product is out of stock"
}

// カートの現在値から返却用のPricedCartを組み立てる。
// 商品はカタログの現在価格で解決する。消えた商品は0円の行として残す。
// クーポン参照が消えていたらクーポン無しとして計算する。
func buildPricedCart(
	ctx context.Context,
	carts repo.CartRepository,
	products repo.ProductRepository,
	coupons repo.CouponRepository,
	cart model.Cart,
) (pricing.PricedCart, error) {
	items, err := carts.ListItems(ctx, cart.ID)
	if err != nil {
		return pricing.PricedCart{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	priceItems, err := resolveItems(ctx, products, items)
	if err != nil {
		return pricing.PricedCart{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	var coupon *model.Coupon
	if cart.CouponID != nil {
		c, err := coupons.FindByID(ctx, *cart.CouponID)
		if err == nil {
			coupon = &c
		} else if !errors.Is(err, repo.ErrNotFound) {
			return pricing.PricedCart{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	return pricing.Price(cart.ID, priceItems, coupon), nil
}

// 明細をカタログの現在価格で解決する
func resolveItems(ctx context.Context, products repo.ProductRepository, items []model.CartItem) ([]pricing.Item, error) {
	resolved := make([]pricing.Item, 0, len(items))

	for _, it := range items {
		p, err := products.FindByID(ctx, it.ProductID)
		if errors.Is(err, repo.ErrNotFound) {
			resolved = append(resolved, pricing.Item{ProductID: it.ProductID, Product: nil, Quantity: it.Quantity})
			continue
		}
		if err != nil {
			return nil, err
		}
		product := p
		resolved = append(resolved, pricing.Item{ProductID: it.ProductID, Product: &product, Quantity: it.Quantity})
	}

	return resolved, nil
}

// 現在のカート合計だけが欲しい時用
func currentCartTotal(ctx context.Context, carts repo.CartRepository, products repo.ProductRepository, cartID int64) (int64, error) {
	items, err := carts.ListItems(ctx, cartID)
	if err != nil {
		return 0, err
	}
	resolved, err := resolveItems(ctx, products, items)
	if err != nil {
		return 0, err
	}
	return pricing.Price(cartID, resolved, nil).CartTotal, nil
}
