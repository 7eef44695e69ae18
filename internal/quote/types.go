package quote

import (
	"github.com/pigeonhq/pigeon-backend/pkg/money"
)

// QuoteItem is one requested line of a quote calculation.
type QuoteItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// QuoteRequest is the full input of a quote calculation. Items keep the
// caller's order and may repeat product ids.
type QuoteRequest struct {
	CartID string      `json:"cartId"`
	Items  []QuoteItem `json:"items"`
}

// CartItem is a computed quote line. The item id is generated fresh on
// every calculation and the prices always come from the catalog, never
// from the caller.
type CartItem struct {
	ItemID    string       `json:"itemId"`
	ProductID string       `json:"productId"`
	Quantity  int          `json:"quantity"`
	Price     money.Money  `json:"price"`
	ListPrice *money.Money `json:"listPrice,omitempty"`
}

// CartComputed holds the aggregate totals of a quote.
type CartComputed struct {
	Subtotal money.Money `json:"subtotal"`
	Delivery money.Money `json:"delivery"`
	Total    money.Money `json:"total"`
}

// QuoteResponse is the result of a quote calculation. The same shape,
// as CartSnapshot, is what a cart state store caches between requests.
type QuoteResponse struct {
	CartID   string       `json:"cartId"`
	Items    []CartItem   `json:"items"`
	Computed CartComputed `json:"computed"`
}

// CartSnapshot is the durable form of a QuoteResponse.
type CartSnapshot = QuoteResponse
