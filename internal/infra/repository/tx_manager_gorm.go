package repository

import (
	"context"

	repo "github.com/githubRahuld/TrendyCart/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	carts    repo.CartRepository
	products repo.ProductRepository
	coupons  repo.CouponRepository
}

func (r *txReposGorm) Carts() repo.CartRepository       { return r.carts }
func (r *txReposGorm) Products() repo.ProductRepository { return r.products }
func (r *txReposGorm) Coupons() repo.CouponRepository   { return r.coupons }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

var _ repo.TransactionManager = (*TxManagerGorm)(nil)

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			carts:    NewCartGormRepository(tx),
			products: NewProductGormRepository(tx),
			coupons:  NewCouponGormRepository(tx),
		}
		return fn(r)
	})
}
