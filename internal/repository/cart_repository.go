package repository

import (
	"context"

	"github.com/githubRahuld/TrendyCart/internal/domain/model"
)

// カートの永続化の約束。owner(userID)ごとに必ず1カートを維持する。
// 各メソッドは単体でアトミック。複数をまとめたい時は TransactionManager を使う。
type CartRepository interface {
	// 無ければ作って返す
	GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error)
	ListItems(ctx context.Context, cartID int64) ([]model.CartItem, error)
	// 明細リストをまるごと置き換える
	ReplaceItems(ctx context.Context, userID int64, items []model.CartItem) (model.Cart, error)
	// 既存なら数量を置き換え、無ければ追加。quantity < 1 は削除扱い。
	UpsertItem(ctx context.Context, userID int64, productID int64, quantity int64) (model.Cart, error)
	// 無ければ何もしない
	RemoveItem(ctx context.Context, userID int64, productID int64) (model.Cart, error)
	// nil でクーポン解除
	SetCoupon(ctx context.Context, userID int64, couponID *int64) (model.Cart, error)
	// 明細とクーポンを1回で空にする
	Clear(ctx context.Context, userID int64) (model.Cart, error)
}
