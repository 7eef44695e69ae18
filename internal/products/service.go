package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/pigeonhq/pigeon-backend/pkg/db/models"
	pkgerrors "github.com/pigeonhq/pigeon-backend/pkg/errors"
	"gorm.io/gorm"
)

// recommendedProductIDs drives the curated storefront carousel.
var recommendedProductIDs = []string{
	"prod-002", "prod-006", "prod-010", "prod-014",
	"prod-016", "prod-018", "prod-020", "prod-023",
	"prod-026", "prod-008", "prod-015", "prod-003",
}

// Service exposes catalog read operations.
type Service interface {
	GetProduct(ctx context.Context, id string) (*Product, error)
	ListProducts(ctx context.Context) ([]Product, error)
	GetProductsByIDs(ctx context.Context, ids []string) (map[string]Product, error)
	GetRecommendedProducts(ctx context.Context) ([]Product, error)
}

type catalogReader interface {
	FindByID(ctx context.Context, id string) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.Product, error)
	ListAll(ctx context.Context) ([]models.Product, error)
}

type service struct {
	repo catalogReader
}

// NewService builds the catalog service.
func NewService(repo catalogReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product service requires a repository")
	}
	return &service{repo: repo}, nil
}

// GetProduct returns the product with the given id.
func (s *service) GetProduct(ctx context.Context, id string) (*Product, error) {
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidArgument, "product id is required")
	}
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "product %s not found", id)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	p := fromModel(row)
	return &p, nil
}

// ListProducts returns the full catalog.
func (s *service) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	out := make([]Product, 0, len(rows))
	for i := range rows {
		out = append(out, fromModel(&rows[i]))
	}
	return out, nil
}

// GetProductsByIDs loads the requested products in a single round trip.
// The result only contains ids that exist.
func (s *service) GetProductsByIDs(ctx context.Context, ids []string) (map[string]Product, error) {
	rows, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load products")
	}
	out := make(map[string]Product, len(rows))
	for i := range rows {
		p := fromModel(&rows[i])
		out[p.ID] = p
	}
	return out, nil
}

// GetRecommendedProducts returns the curated recommendation list in its
// configured order, skipping ids missing from the catalog.
func (s *service) GetRecommendedProducts(ctx context.Context) ([]Product, error) {
	byID, err := s.GetProductsByIDs(ctx, recommendedProductIDs)
	if err != nil {
		return nil, err
	}
	out := make([]Product, 0, len(recommendedProductIDs))
	for _, id := range recommendedProductIDs {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}
