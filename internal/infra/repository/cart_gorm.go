package repository

import (
	"context"
	"errors"
	"time"

	"github.com/githubRahuld/TrendyCart/internal/domain/model"
	repo "github.com/githubRahuld/TrendyCart/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartGormRepository(db *gorm.DB) *CartGormRepository {
	return &CartGormRepository{db: db}
}

var _ repo.CartRepository = (*CartGormRepository)(nil)

// ユーザーのカートを取得し、無ければ作成
func (r *CartGormRepository) GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	var cart model.Cart

	//トランザクションで探す→無ければ作る
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := lockCart(tx, userID)
		if err != nil {
			return err
		}
		cart = c
		return nil
	})

	if err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

// カート行をFOR UPDATEで取得。無ければ作る。
// 同時アクセスでINSERTが競合したら、勝った側の行を取り直す。
func lockCart(tx *gorm.DB, userID int64) (model.Cart, error) {
	var cart model.Cart

	findErr := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&cart).Error

	if findErr == nil {
		return cart, nil
	}
	if !errors.Is(findErr, gorm.ErrRecordNotFound) {
		return model.Cart{}, findErr
	}

	// 無ければ作る。
	// INSERTはSAVEPOINTで囲む。Postgresでは一意制約違反が
	// トランザクション全体をabortするので、素のINSERTだと
	// 負けた側のリトライSELECTまで失敗してしまう。
	now := time.Now()
	newCart := model.Cart{
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	createErr := tx.Transaction(func(inner *gorm.DB) error {
		return inner.Create(&newCart).Error
	})
	if createErr == nil {
		return newCart, nil
	}

	//競合に負けた側は勝った側の行を取り直す
	retryErr := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&cart).Error
	if retryErr == nil {
		return cart, nil
	}
	return model.Cart{}, createErr
}

// カート明細を一覧取得
func (r *CartGormRepository) ListItems(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	var items []model.CartItem

	if err := r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("id asc").
		Find(&items).Error; err != nil {
		return []model.CartItem{}, err
	}

	return items, nil
}

// 明細リストをまるごと置き換え
func (r *CartGormRepository) ReplaceItems(ctx context.Context, userID int64, items []model.CartItem) (model.Cart, error) {
	var cart model.Cart

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := lockCart(tx, userID)
		if err != nil {
			return err
		}
		cart = c

		//既存明細を全削除して入れ直す
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}

		now := time.Now()
		for _, it := range items {
			// quantity < 1 の行は持ち込まない
			if it.Quantity < 1 {
				continue
			}
			newItem := model.CartItem{
				CartID:    cart.ID,
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := tx.Create(&newItem).Error; err != nil {
				return err
			}
		}

		return touchCart(tx, cart.ID)
	})

	if err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

// 既存なら数量を置き換え、無ければ追加
func (r *CartGormRepository) UpsertItem(ctx context.Context, userID int64, productID int64, quantity int64) (model.Cart, error) {
	var cart model.Cart

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := lockCart(tx, userID)
		if err != nil {
			return err
		}
		cart = c

		// 1未満にはできないので削除扱い
		if quantity < 1 {
			return tx.
				Where("cart_id = ? AND product_id = ?", cart.ID, productID).
				Delete(&model.CartItem{}).Error
		}

		var item model.CartItem
		findErr := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("cart_id = ? AND product_id = ?", cart.ID, productID).
			First(&item).Error

		if findErr == nil {
			//既存あり。数量は加算ではなく置き換え。
			res := tx.Model(&model.CartItem{}).
				Where("id = ?", item.ID).
				Update("quantity", quantity)
			if res.Error != nil {
				return res.Error
			}
			return touchCart(tx, cart.ID)
		}

		if !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return findErr
		}

		//無い場合は新規作成
		now := time.Now()
		newItem := model.CartItem{
			CartID:    cart.ID,
			ProductID: productID,
			Quantity:  quantity,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.Create(&newItem).Error; err != nil {
			return err
		}

		return touchCart(tx, cart.ID)
	})

	if err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

// 明細を削除。無ければ何もしない。
func (r *CartGormRepository) RemoveItem(ctx context.Context, userID int64, productID int64) (model.Cart, error) {
	var cart model.Cart

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := lockCart(tx, userID)
		if err != nil {
			return err
		}
		cart = c

		if err := tx.
			Where("cart_id = ? AND product_id = ?", cart.ID, productID).
			Delete(&model.CartItem{}).Error; err != nil {
			return err
		}

		return touchCart(tx, cart.ID)
	})

	if err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

// carts.coupon_idを更新。nilで解除。
func (r *CartGormRepository) SetCoupon(ctx context.Context, userID int64, couponID *int64) (model.Cart, error) {
	var cart model.Cart

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := lockCart(tx, userID)
		if err != nil {
			return err
		}
		cart = c

		res := tx.Model(&model.Cart{}).
			Where("id = ?", cart.ID).
			Update("coupon_id", couponID)
		if res.Error != nil {
			return res.Error
		}

		cart.CouponID = couponID
		return nil
	})

	if err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

// 明細とクーポンを1トランザクションで空にする
func (r *CartGormRepository) Clear(ctx context.Context, userID int64) (model.Cart, error) {
	var cart model.Cart

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := lockCart(tx, userID)
		if err != nil {
			return err
		}
		cart = c

		if err := tx.Where("cart_id = ?", cart.ID).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}

		res := tx.Model(&model.Cart{}).
			Where("id = ?", cart.ID).
			Update("coupon_id", nil)
		if res.Error != nil {
			return res.Error
		}

		cart.CouponID = nil
		return nil
	})

	if err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

// updated_atだけ進める
func touchCart(tx *gorm.DB, cartID int64) error {
	return tx.Model(&model.Cart{}).
		Where("id = ?", cartID).
		Update("updated_at", time.Now()).Error
}
