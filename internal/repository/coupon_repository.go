package repository

import (
	"context"
	"errors"

	"github.com/githubRahuld/TrendyCart/internal/domain/model"
)

// クーポンコードの重複
var ErrDuplicateCode = errors.New("duplicate coupon code")

// クーポンの読み取りと管理者向けの作成・一覧。
type CouponRepository interface {
	FindByID(ctx context.Context, id int64) (model.Coupon, error)
	FindByCode(ctx context.Context, code string) (model.Coupon, error)

	Create(ctx context.Context, c model.Coupon) (model.Coupon, error)
	List(ctx context.Context) ([]model.Coupon, error)
}
