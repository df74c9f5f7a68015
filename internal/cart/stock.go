package cart

// StockKey builds the composite stock-cache key, variant-qualified only when
// a variant id is present.
func StockKey(productID, variantID string) string {
	if variantID == "" {
		return productID
	}
	return productID + "-" + variantID
}

// CartItemQuantity returns the quantity of the exact (product, variant) line
// in the current cart, or 0 when absent. Lines without a variant only match
// lookups without a variant.
func (s State) CartItemQuantity(productID, variantID string) int {
	if s.Cart == nil {
		return 0
	}
	for _, item := range s.Cart.Items {
		if item.ProductID == productID && item.VariantID == variantID {
			return item.Quantity
		}
	}
	return 0
}

// ItemStockRemaining returns how many more units could be added given the
// cached stock, floored at zero. With no cache entry it reports 0, a
// conservative default for display, distinct from the fail-open add guard.
func (s State) ItemStockRemaining(productID, variantID string) int {
	cached := s.StockQuantities[StockKey(productID, variantID)]
	remaining := cached - s.CartItemQuantity(productID, variantID)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// CanAddToCart reports whether qty more units fit within the cached stock.
// Fail-open: with no cache entry there is no basis to deny, so it allows;
// the server remains the final authority.
func (s State) CanAddToCart(productID, variantID string, qty int) bool {
	cached, ok := s.StockQuantities[StockKey(productID, variantID)]
	if !ok {
		return true
	}
	return s.CartItemQuantity(productID, variantID)+qty <= cached
}
