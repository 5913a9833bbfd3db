package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FaysilAlshareef/TalabatProject/internal/domain"
	"github.com/FaysilAlshareef/TalabatProject/internal/specification"
	apperrors "github.com/FaysilAlshareef/TalabatProject/pkg/errors"
	"github.com/FaysilAlshareef/TalabatProject/pkg/pagination"
)

func newCatalog(uow *mockUnitOfWork) *CatalogService {
	return NewCatalogService(&mockStore{uow: uow}, newTestLogger())
}

func TestListProducts_FiltersAndPaginates(t *testing.T) {
	uow := newMockUnitOfWork()
	svc := newCatalog(uow)
	ctx := context.Background()

	brandID := int64(2)
	countQuery := mock.MatchedBy(func(q specification.Query) bool {
		conds := q.Conditions()
		return len(conds) == 2 &&
			conds[0].Column == "brand_id" && conds[0].Value == brandID &&
			conds[1].Column == "name" && conds[1].Value == "%chair%" &&
			q.Page() == nil
	})
	listQuery := mock.MatchedBy(func(q specification.Query) bool {
		return len(q.Conditions()) == 2 &&
			assert.ObjectsAreEqual([]string{"brand", "type"}, q.Includes()) &&
			q.Order() != nil && q.Order().Column == "price" && !q.Order().Descending &&
			q.Page() != nil && q.Page().Offset == 10 && q.Page().Limit == 10
	})

	uow.products.On("CountBySpec", ctx, countQuery).Return(int64(23), nil)
	uow.products.On("ListBySpec", ctx, listQuery).Return([]domain.Product{
		{ID: 11, Name: "Desk Chair"},
		{ID: 12, Name: "Lounge Chair"},
	}, nil)

	result, err := svc.ListProducts(ctx, ListProductsInput{
		BrandID: &brandID,
		Search:  "chair",
		Sort:    SortPriceAsc,
		Page:    pagination.Params{Page: 2, PerPage: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, 23, result.TotalCount)
	assert.Equal(t, 3, result.TotalPages)
	assert.Len(t, result.Data, 2)
	assert.True(t, result.HasNext)
	assert.True(t, result.HasPrev)
}

func TestListProducts_DefaultSortIsName(t *testing.T) {
	uow := newMockUnitOfWork()
	svc := newCatalog(uow)
	ctx := context.Background()

	uow.products.On("CountBySpec", ctx, mock.Anything).Return(int64(0), nil)
	uow.products.On("ListBySpec", ctx, mock.MatchedBy(func(q specification.Query) bool {
		return q.Order() != nil && q.Order().Column == "name" && !q.Order().Descending
	})).Return([]domain.Product{}, nil)

	result, err := svc.ListProducts(ctx, ListProductsInput{})
	require.NoError(t, err)
	assert.Zero(t, result.TotalCount)
	assert.Empty(t, result.Data)
}

func TestListProducts_UnknownSort(t *testing.T) {
	svc := newCatalog(newMockUnitOfWork())

	_, err := svc.ListProducts(context.Background(), ListProductsInput{Sort: "cheapest"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestGetProduct(t *testing.T) {
	uow := newMockUnitOfWork()
	svc := newCatalog(uow)
	ctx := context.Background()

	uow.products.On("FirstBySpec", ctx, mock.MatchedBy(func(q specification.Query) bool {
		conds := q.Conditions()
		return len(conds) == 1 && conds[0].Column == "id" && conds[0].Value == int64(4) &&
			assert.ObjectsAreEqual([]string{"brand", "type"}, q.Includes())
	})).Return(&domain.Product{ID: 4, Name: "Desk Chair", Brand: &domain.Brand{ID: 2, Name: "Acme"}}, nil)

	product, err := svc.GetProduct(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, "Acme", product.Brand.Name)
}

func TestGetProduct_NotFound(t *testing.T) {
	uow := newMockUnitOfWork()
	svc := newCatalog(uow)
	ctx := context.Background()

	uow.products.On("FirstBySpec", ctx, mock.Anything).
		Return(nil, apperrors.NotFound("product", "4"))

	_, err := svc.GetProduct(ctx, 4)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestListBrands(t *testing.T) {
	uow := newMockUnitOfWork()
	svc := newCatalog(uow)
	ctx := context.Background()

	uow.brands.On("ListBySpec", ctx, mock.MatchedBy(func(q specification.Query) bool {
		return q.Order() != nil && q.Order().Column == "name"
	})).Return([]domain.Brand{{ID: 1, Name: "Acme"}, {ID: 2, Name: "Globex"}}, nil)

	brands, err := svc.ListBrands(ctx)
	require.NoError(t, err)
	assert.Len(t, brands, 2)
}

func TestListTypes(t *testing.T) {
	uow := newMockUnitOfWork()
	svc := newCatalog(uow)
	ctx := context.Background()

	uow.types.On("ListBySpec", ctx, mock.MatchedBy(func(q specification.Query) bool {
		return q.Order() != nil && q.Order().Column == "name"
	})).Return([]domain.ProductType{{ID: 1, Name: "Chairs"}}, nil)

	types, err := svc.ListTypes(ctx)
	require.NoError(t, err)
	assert.Len(t, types, 1)
}
