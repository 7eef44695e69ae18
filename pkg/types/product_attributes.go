package types

// ProductAttribute is a single display attribute of a catalog product.
type ProductAttribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ProductAttributes is stored as a JSON document on the product row.
type ProductAttributes []ProductAttribute
