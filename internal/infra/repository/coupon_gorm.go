package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/githubRahuld/TrendyCart/internal/domain/model"
	repo "github.com/githubRahuld/TrendyCart/internal/repository"

	"gorm.io/gorm"
)

type CouponGormRepository struct {
	db *gorm.DB
}

// DI
func NewCouponGormRepository(db *gorm.DB) *CouponGormRepository {
	return &CouponGormRepository{db: db}
}

var _ repo.CouponRepository = (*CouponGormRepository)(nil)

// IDでクーポンを取得
func (r *CouponGormRepository) FindByID(ctx context.Context, id int64) (model.Coupon, error) {
	var c model.Coupon
	err := r.db.WithContext(ctx).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Coupon{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Coupon{}, err
	}
	return c, nil
}

// コードでクーポンを取得。大文字小文字は区別しない。
func (r *CouponGormRepository) FindByCode(ctx context.Context, code string) (model.Coupon, error) {
	var c model.Coupon
	err := r.db.WithContext(ctx).
		Where("coupon_code = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Coupon{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Coupon{}, err
	}
	return c, nil
}

// クーポンの作成。コード重複はErrDuplicateCodeに寄せる。
func (r *CouponGormRepository) Create(ctx context.Context, c model.Coupon) (model.Coupon, error) {
	c.CouponCode = strings.ToUpper(strings.TrimSpace(c.CouponCode))

	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return model.Coupon{}, repo.ErrDuplicateCode
		}
		return model.Coupon{}, err
	}
	return c, nil
}

// 全クーポンを新しい順に返す（管理者用）
func (r *CouponGormRepository) List(ctx context.Context) ([]model.Coupon, error) {
	var coupons []model.Coupon

	if err := r.db.WithContext(ctx).
		Order("created_at desc").Order("id desc").
		Find(&coupons).Error; err != nil {
		return []model.Coupon{}, err
	}

	return coupons, nil
}
