package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/githubRahuld/TrendyCart/internal/domain/model"
	repo "github.com/githubRahuld/TrendyCart/internal/repository"
	"github.com/githubRahuld/TrendyCart/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks（衝突回避の命名）
// =====================

type ProdProductRepoMock struct{ mock.Mock }

func (m *ProdProductRepoMock) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *ProdProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProdProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

func (m *ProdProductRepoMock) Update(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProdProductRepoMock) SoftDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// =====================
// Public: List / Detail
// =====================

func TestProductUsecase_ListPublicProducts_InvalidPage(t *testing.T) {
	uc := usecase.NewProductUsecase(new(ProdProductRepoMock))

	_, err := uc.ListPublicProducts(context.Background(), usecase.ListProductsInput{Page: 0, Limit: 20})
	assertErrContains(t, err, "invalid page")
}

func TestProductUsecase_ListPublicProducts_InvalidLimit(t *testing.T) {
	uc := usecase.NewProductUsecase(new(ProdProductRepoMock))

	_, err := uc.ListPublicProducts(context.Background(), usecase.ListProductsInput{Page: 1, Limit: 101})
	assertErrContains(t, err, "invalid limit")
}

func TestProductUsecase_ListPublicProducts_OK(t *testing.T) {
	m := new(ProdProductRepoMock)
	m.On("ListPublic", mock.Anything, mock.Anything).Return([]model.Product{{ID: 1}}, int64(1), nil)
	uc := usecase.NewProductUsecase(m)

	out, err := uc.ListPublicProducts(context.Background(), usecase.ListProductsInput{Page: 1, Limit: 20})

	assert.NoError(t, err)
	assert.Equal(t, int64(1), out.Total)
	assert.Len(t, out.Items, 1)
}

func TestProductUsecase_GetProductDetail_NotFound(t *testing.T) {
	m := new(ProdProductRepoMock)
	m.On("FindByID", mock.Anything, int64(1)).Return(model.Product{}, repo.ErrNotFound)
	uc := usecase.NewProductUsecase(m)

	_, err := uc.GetProductDetail(context.Background(), 1)
	assertStatus(t, err, http.StatusNotFound)
}

// 非公開商品は一般には404
func TestProductUsecase_GetProductDetail_InactiveHidden(t *testing.T) {
	m := new(ProdProductRepoMock)
	m.On("FindByID", mock.Anything, int64(1)).Return(model.Product{ID: 1, IsActive: false}, nil)
	uc := usecase.NewProductUsecase(m)

	_, err := uc.GetProductDetail(context.Background(), 1)
	assertStatus(t, err, http.StatusNotFound)
}

// =====================
// Admin: Create / Update / Delete
// =====================

func TestProductUsecase_CreateProduct_Validation(t *testing.T) {
	uc := usecase.NewProductUsecase(new(ProdProductRepoMock))

	_, err := uc.CreateProduct(context.Background(), usecase.CreateProductInput{Name: "", Price: 100})
	assertErrContains(t, err, "name is required")

	_, err = uc.CreateProduct(context.Background(), usecase.CreateProductInput{Name: "x", Price: -1})
	assertErrContains(t, err, "price must be >= 0")

	_, err = uc.CreateProduct(context.Background(), usecase.CreateProductInput{Name: "x", Stock: -1})
	assertErrContains(t, err, "stock must be >= 0")
}

func TestProductUsecase_UpdateProduct_PartialUpdate(t *testing.T) {
	m := new(ProdProductRepoMock)
	m.On("FindByID", mock.Anything, int64(1)).Return(model.Product{ID: 1, Name: "old", Price: 100, Stock: 5, IsActive: true}, nil)
	m.On("Update", mock.Anything, mock.Anything).Return(nil)
	uc := usecase.NewProductUsecase(m)

	newPrice := int64(200)
	out, err := uc.UpdateProduct(context.Background(), 1, usecase.UpdateProductInput{Price: &newPrice})

	assert.NoError(t, err)
	assert.Equal(t, int64(200), out.Price)
	assert.Equal(t, "old", out.Name)
	assert.Equal(t, int64(5), out.Stock)
}

func TestProductUsecase_DeleteProduct_NotFound(t *testing.T) {
	m := new(ProdProductRepoMock)
	m.On("SoftDelete", mock.Anything, int64(1)).Return(repo.ErrNotFound)
	uc := usecase.NewProductUsecase(m)

	err := uc.DeleteProduct(context.Background(), 1)
	assertStatus(t, err, http.StatusNotFound)
}
