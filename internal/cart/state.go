package cart

import "github.com/angelmondragon/storefront-core/pkg/types"

// State is the reducer-owned snapshot of the cart core. The cart itself is
// server-owned and replaced wholesale on every successful mutation; the stock
// cache and last-added marker are client-local annotations layered on top.
type State struct {
	Cart    *types.Cart
	Loading bool
	Err     string

	// Advisory in-flight flags for UI feedback. Not a mutex: nothing stops
	// two mutations from racing, the last response to land wins.
	ItemBeingAdded   bool
	ItemBeingUpdated string
	ItemBeingRemoved string

	// One-shot "item added" marker, cleared via ResetLastAdded.
	LastAddedProduct  *types.Product
	LastAddedQuantity int

	// Last-known available stock per productID[-variantID] key. A cache, not
	// a source of truth: populated only when product details pass through
	// AddToCart, never fetched independently.
	StockQuantities map[string]int
}

// NewState returns the rest state with an empty stock cache.
func NewState() State {
	return State{StockQuantities: map[string]int{}}
}

// ItemByID returns the cart line with the given opaque id, or nil.
func (s State) ItemByID(itemID string) *types.CartItem {
	if s.Cart == nil || itemID == "" {
		return nil
	}
	for i := range s.Cart.Items {
		if s.Cart.Items[i].ID == itemID {
			return &s.Cart.Items[i]
		}
	}
	return nil
}

func (s State) cloneStock() map[string]int {
	clone := make(map[string]int, len(s.StockQuantities))
	for key, qty := range s.StockQuantities {
		clone[key] = qty
	}
	return clone
}
