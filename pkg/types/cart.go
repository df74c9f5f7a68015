package types

import "github.com/shopspring/decimal"

// Cart is the server-owned aggregate returned by every cart endpoint. The
// client never recomputes totals; whatever the server sent is authoritative.
type Cart struct {
	ID             string          `json:"id"`
	Items          []CartItem      `json:"items"`
	SubtotalAmount decimal.Decimal `json:"subtotal_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	Currency       string          `json:"currency"`
}

// CartItem is one product or product-variant line. The item id is opaque and
// used for update/remove; the (product, variant) pair keys stock lookups.
type CartItem struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	VariantID string          `json:"variant_id,omitempty"`
	Title     string          `json:"title,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// Product carries the product detail payload a caller may attach when adding
// to cart. Stock numbers here opportunistically refresh the local stock cache.
type Product struct {
	ID       string           `json:"id"`
	Title    string           `json:"title"`
	Stock    int              `json:"stock"`
	Variants []ProductVariant `json:"variants,omitempty"`
}

// ProductVariant is a sellable variation with its own stock figure.
type ProductVariant struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
	Stock int    `json:"stock"`
}

// VariantByID returns the matching variant, or nil when absent.
func (p *Product) VariantByID(variantID string) *ProductVariant {
	if p == nil || variantID == "" {
		return nil
	}
	for i := range p.Variants {
		if p.Variants[i].ID == variantID {
			return &p.Variants[i]
		}
	}
	return nil
}
