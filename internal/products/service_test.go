package product

import (
	"context"
	"fmt"
	"testing"

	"github.com/pigeonhq/pigeon-backend/pkg/db/models"
	pkgerrors "github.com/pigeonhq/pigeon-backend/pkg/errors"
	"gorm.io/gorm"
)

type stubCatalogReader struct {
	rows    map[string]models.Product
	listErr error
}

func (s *stubCatalogReader) FindByID(_ context.Context, id string) (*models.Product, error) {
	row, ok := s.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &row, nil
}

func (s *stubCatalogReader) FindByIDs(_ context.Context, ids []string) ([]models.Product, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []models.Product
	for _, id := range ids {
		if row, ok := s.rows[id]; ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func (s *stubCatalogReader) ListAll(_ context.Context) ([]models.Product, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []models.Product
	for _, row := range s.rows {
		out = append(out, row)
	}
	return out, nil
}

func stubRow(id string, priceCents int64, listPriceCents *int64) models.Product {
	return models.Product{
		ID:             id,
		SellerID:       "seller-001",
		SellerName:     "Electronics Plus",
		Title:          "Item " + id,
		PriceCents:     priceCents,
		ListPriceCents: listPriceCents,
		Currency:       "PLN",
		InStock:        true,
		MaxOrderable:   10,
	}
}

func TestNewServiceRequiresRepository(t *testing.T) {
	t.Parallel()

	if _, err := NewService(nil); err == nil {
		t.Fatal("expected error for nil repository")
	}
}

func TestGetProductMapsNotFound(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubCatalogReader{rows: map[string]models.Product{}})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.GetProduct(context.Background(), "prod-404")
	if err == nil {
		t.Fatal("expected not found error")
	}
	if code := pkgerrors.As(err).Code(); code != pkgerrors.CodeNotFound {
		t.Fatalf("expected %s, got %s", pkgerrors.CodeNotFound, code)
	}
}

func TestGetProductConvertsListPrice(t *testing.T) {
	t.Parallel()

	listPrice := int64(49900)
	svc, err := NewService(&stubCatalogReader{rows: map[string]models.Product{
		"prod-002": stubRow("prod-002", 39900, &listPrice),
	}})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	got, err := svc.GetProduct(context.Background(), "prod-002")
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if got.Price.Amount != 39900 || got.Price.Currency != "PLN" {
		t.Fatalf("unexpected price: %+v", got.Price)
	}
	if got.ListPrice == nil || got.ListPrice.Amount != 49900 {
		t.Fatalf("unexpected list price: %+v", got.ListPrice)
	}
}

func TestGetProductsByIDsOmitsUnknown(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubCatalogReader{rows: map[string]models.Product{
		"prod-001": stubRow("prod-001", 599900, nil),
		"prod-003": stubRow("prod-003", 12900, nil),
	}})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	got, err := svc.GetProductsByIDs(context.Background(), []string{"prod-001", "prod-003", "prod-999"})
	if err != nil {
		t.Fatalf("get products: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 products, got %d", len(got))
	}
	if _, ok := got["prod-999"]; ok {
		t.Fatal("unknown id should be absent from result")
	}
}

func TestGetRecommendedProductsKeepsCuratedOrder(t *testing.T) {
	t.Parallel()

	rows := make(map[string]models.Product)
	for _, id := range recommendedProductIDs {
		rows[id] = stubRow(id, 10000, nil)
	}
	delete(rows, "prod-020")

	svc, err := NewService(&stubCatalogReader{rows: rows})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	got, err := svc.GetRecommendedProducts(context.Background())
	if err != nil {
		t.Fatalf("get recommended: %v", err)
	}
	if len(got) != len(recommendedProductIDs)-1 {
		t.Fatalf("expected %d products, got %d", len(recommendedProductIDs)-1, len(got))
	}
	if got[0].ID != "prod-002" {
		t.Fatalf("expected first recommendation prod-002, got %s", got[0].ID)
	}
	for _, p := range got {
		if p.ID == "prod-020" {
			t.Fatal("missing catalog id should be skipped")
		}
	}
}

func TestListProductsWrapsRepoError(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubCatalogReader{listErr: fmt.Errorf("connection reset")})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.ListProducts(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if code := pkgerrors.As(err).Code(); code != pkgerrors.CodeInternal {
		t.Fatalf("expected %s, got %s", pkgerrors.CodeInternal, code)
	}
}
