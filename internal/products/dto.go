package product

import (
	"github.com/pigeonhq/pigeon-backend/pkg/db/models"
	"github.com/pigeonhq/pigeon-backend/pkg/money"
	"github.com/pigeonhq/pigeon-backend/pkg/types"
)

// Product is the catalog entry used by pricing and read paths.
type Product struct {
	ID           string
	SellerID     string
	SellerName   string
	Title        string
	ImageURL     string
	Attributes   types.ProductAttributes
	Price        money.Money
	ListPrice    *money.Money
	Availability types.Availability
	MinQty       *int
	MaxQty       *int
}

// ProductDTO represents the catalog payload returned to clients.
type ProductDTO struct {
	ID           string                  `json:"id"`
	SellerID     string                  `json:"sellerId"`
	SellerName   string                  `json:"sellerName"`
	Title        string                  `json:"title"`
	ImageURL     string                  `json:"imageUrl,omitempty"`
	Attributes   types.ProductAttributes `json:"attributes"`
	Price        MoneyDTO                `json:"price"`
	ListPrice    *MoneyDTO               `json:"listPrice,omitempty"`
	Availability types.Availability      `json:"availability"`
	MinQty       *int                    `json:"minQty,omitempty"`
	MaxQty       *int                    `json:"maxQty,omitempty"`
}

// MoneyDTO is the wire representation of a monetary amount.
type MoneyDTO struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

func fromModel(m *models.Product) Product {
	p := Product{
		ID:         m.ID,
		SellerID:   m.SellerID,
		SellerName: m.SellerName,
		Title:      m.Title,
		ImageURL:   m.ImageURL,
		Attributes: m.Attributes,
		Price:      money.Money{Amount: m.PriceCents, Currency: m.Currency},
		Availability: types.Availability{
			InStock:      m.InStock,
			MaxOrderable: m.MaxOrderable,
		},
		MinQty: m.MinQty,
		MaxQty: m.MaxQty,
	}
	if m.ListPriceCents != nil {
		lp := money.Money{Amount: *m.ListPriceCents, Currency: m.Currency}
		p.ListPrice = &lp
	}
	return p
}

// ToDTO converts a catalog product to its API payload.
func ToDTO(p Product) ProductDTO {
	dto := ProductDTO{
		ID:           p.ID,
		SellerID:     p.SellerID,
		SellerName:   p.SellerName,
		Title:        p.Title,
		ImageURL:     p.ImageURL,
		Attributes:   p.Attributes,
		Price:        MoneyDTO{Amount: p.Price.Amount, Currency: p.Price.Currency},
		Availability: p.Availability,
		MinQty:       p.MinQty,
		MaxQty:       p.MaxQty,
	}
	if p.ListPrice != nil {
		dto.ListPrice = &MoneyDTO{Amount: p.ListPrice.Amount, Currency: p.ListPrice.Currency}
	}
	if dto.Attributes == nil {
		dto.Attributes = types.ProductAttributes{}
	}
	return dto
}
