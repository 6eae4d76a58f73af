package main

import (
	"github.com/githubRahuld/TrendyCart/internal/config"
	"github.com/githubRahuld/TrendyCart/internal/domain/model"
	"github.com/githubRahuld/TrendyCart/internal/handler"
	"github.com/githubRahuld/TrendyCart/internal/infra/db"
	infraRepo "github.com/githubRahuld/TrendyCart/internal/infra/repository"
	"github.com/githubRahuld/TrendyCart/internal/server"
	"github.com/githubRahuld/TrendyCart/internal/usecase"

	"github.com/joho/godotenv"
)

func main() {
	//.envは無くてもよい（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		panic(err)
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.Coupon{},
		&model.Cart{},
		&model.CartItem{},
	); err != nil {
		panic(err)
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	couponRepo := infraRepo.NewCouponGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//Usecase生成
	authUC := usecase.NewAuthUsecase(userRepo, cfg.JWTSecret, 12)
	productUC := usecase.NewProductUsecase(productRepo)
	cartUC := usecase.NewCartUsecase(txManager, cartRepo, productRepo, couponRepo)
	couponUC := usecase.NewCouponUsecase(txManager, cartRepo, productRepo, couponRepo)

	//Handler生成
	authH := handler.NewAuthHandler(authUC)
	productH := handler.NewProductHandler(productUC)
	cartH := handler.NewCartHandler(cartUC)
	couponH := handler.NewCouponHandler(couponUC)

	//Server起動
	e := server.New(cfg, authH, productH, cartH, couponH)
	if err := server.Start(e, cfg); err != nil {
		panic(err)
	}
}
