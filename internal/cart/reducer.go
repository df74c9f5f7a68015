package cart

import "github.com/angelmondragon/storefront-core/pkg/enums"

// Reduce maps the current state and an action to the next state. Pure: no
// I/O, no mutation of the input (the stock cache is copied on write).
func Reduce(s State, a Action) State {
	switch a.Type {
	case enums.FetchCartRequest:
		s.Loading = true
		s.Err = ""
	case enums.FetchCartSuccess:
		s.Loading = false
		s.Cart = a.Cart
	case enums.FetchCartFailure:
		s.Loading = false
		s.Err = a.Err

	case enums.AddToCartRequest:
		s.ItemBeingAdded = true
		s.Err = ""
	case enums.AddToCartSuccess:
		s.ItemBeingAdded = false
		s.Cart = a.Cart
		if a.Product != nil {
			s.LastAddedProduct = a.Product
			quantity := a.Quantity
			if quantity <= 0 {
				quantity = 1
			}
			s.LastAddedQuantity = quantity
		}
	case enums.AddToCartFailure:
		s.ItemBeingAdded = false
		s.Err = a.Err

	case enums.ResetLastAdded:
		s.LastAddedProduct = nil
		s.LastAddedQuantity = 0

	case enums.UpdateQuantityRequest:
		s.ItemBeingUpdated = a.ItemID
		s.Err = ""
	case enums.UpdateQuantitySuccess:
		s.ItemBeingUpdated = ""
		s.Cart = a.Cart
	case enums.UpdateQuantityFailure:
		s.ItemBeingUpdated = ""
		s.Err = a.Err

	case enums.RemoveItemRequest:
		s.ItemBeingRemoved = a.ItemID
		s.Err = ""
	case enums.RemoveItemSuccess:
		s.ItemBeingRemoved = ""
		s.Cart = a.Cart
	case enums.RemoveItemFailure:
		s.ItemBeingRemoved = ""
		s.Err = a.Err

	case enums.ClearCartRequest:
		s.Loading = true
		s.Err = ""
	case enums.ClearCartSuccess:
		s.Loading = false
		s.Cart = nil
	case enums.ClearCartFailure:
		s.Loading = false
		s.Err = a.Err

	case enums.MergeCartSuccess:
		s.Cart = a.Cart

	case enums.CheckStockQuantity:
		stock := s.cloneStock()
		stock[a.StockKey] = a.StockQuantity
		s.StockQuantities = stock
	}

	return s
}
