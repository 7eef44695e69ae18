package types

// Availability captures the current orderability ceiling of a product,
// independent of its configured min/max order quantities.
type Availability struct {
	InStock      bool `json:"inStock"`
	MaxOrderable int  `json:"maxOrderable"`
}
