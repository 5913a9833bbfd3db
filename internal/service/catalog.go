package service

import (
	"context"
	"log/slog"

	"github.com/FaysilAlshareef/TalabatProject/internal/domain"
	"github.com/FaysilAlshareef/TalabatProject/internal/repository"
	"github.com/FaysilAlshareef/TalabatProject/internal/specification"
	apperrors "github.com/FaysilAlshareef/TalabatProject/pkg/errors"
	"github.com/FaysilAlshareef/TalabatProject/pkg/pagination"
)

// Product sort keys accepted by ListProducts.
const (
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortName      = "name"
)

// ListProductsInput holds the catalog browse parameters.
type ListProductsInput struct {
	BrandID *int64
	TypeID  *int64
	Search  string
	Sort    string
	Page    pagination.Params
}

// CatalogService serves the read side of the catalog: products with their
// brand and type loaded, plus the brand and type lists themselves.
type CatalogService struct {
	store  repository.Store
	logger *slog.Logger
}

// NewCatalogService creates a catalog service.
func NewCatalogService(store repository.Store, logger *slog.Logger) *CatalogService {
	return &CatalogService{store: store, logger: logger}
}

// ListProducts returns one page of products matching the filter, with the
// total count of the filtered set.
func (s *CatalogService) ListProducts(ctx context.Context, input ListProductsInput) (pagination.Result[domain.Product], error) {
	params := input.Page.Normalize()

	query := specification.New()
	if input.BrandID != nil {
		query = query.Where("brand_id", specification.OpEq, *input.BrandID)
	}
	if input.TypeID != nil {
		query = query.Where("type_id", specification.OpEq, *input.TypeID)
	}
	if input.Search != "" {
		query = query.Where("name", specification.OpLike, "%"+input.Search+"%")
	}

	switch input.Sort {
	case SortPriceAsc:
		query = query.OrderBy("price")
	case SortPriceDesc:
		query = query.OrderByDescending("price")
	case SortName, "":
		query = query.OrderBy("name")
	default:
		return pagination.Result[domain.Product]{}, apperrors.InvalidInput("unknown sort " + input.Sort)
	}

	uow := s.store.NewUnitOfWork()
	count, err := uow.Products().CountBySpec(ctx, query)
	if err != nil {
		return pagination.Result[domain.Product]{}, err
	}

	query = query.
		Include("brand").
		Include("type").
		Paginate(params.Offset(), params.PerPage)

	products, err := uow.Products().ListBySpec(ctx, query)
	if err != nil {
		return pagination.Result[domain.Product]{}, err
	}

	return pagination.NewResult(products, int(count), params), nil
}

// GetProduct returns one product with its brand and type loaded.
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.store.NewUnitOfWork().Products().FirstBySpec(ctx,
		specification.New().
			Where("id", specification.OpEq, id).
			Include("brand").
			Include("type"))
}

// ListBrands returns all brands sorted by name.
func (s *CatalogService) ListBrands(ctx context.Context) ([]domain.Brand, error) {
	return s.store.NewUnitOfWork().Brands().ListBySpec(ctx,
		specification.New().OrderBy("name"))
}

// ListTypes returns all product types sorted by name.
func (s *CatalogService) ListTypes(ctx context.Context) ([]domain.ProductType, error) {
	return s.store.NewUnitOfWork().Types().ListBySpec(ctx,
		specification.New().OrderBy("name"))
}
