package cart

import (
	"github.com/pigeonhq/pigeon-backend/internal/quote"
)

// QuoteCartRequest is the explicit item list re-quote payload.
type QuoteCartRequest struct {
	CartID string             `json:"cartId" validate:"required"`
	Items  []QuoteItemRequest `json:"items" validate:"dive"`
}

// QuoteItemRequest describes a requested product/quantity tuple.
type QuoteItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// AddItemRequest adds one line to the running item set.
type AddItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// UpdateItemRequest changes one line's requested quantity.
type UpdateItemRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

func toQuoteItems(items []QuoteItemRequest) []quote.QuoteItem {
	out := make([]quote.QuoteItem, 0, len(items))
	for _, item := range items {
		out = append(out, quote.QuoteItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return out
}
