package enums

import "fmt"

// CartAction discriminates the transitions understood by the cart reducer.
type CartAction string

const (
	FetchCartRequest      CartAction = "FETCH_CART_REQUEST"
	FetchCartSuccess      CartAction = "FETCH_CART_SUCCESS"
	FetchCartFailure      CartAction = "FETCH_CART_FAILURE"
	AddToCartRequest      CartAction = "ADD_TO_CART_REQUEST"
	AddToCartSuccess      CartAction = "ADD_TO_CART_SUCCESS"
	AddToCartFailure      CartAction = "ADD_TO_CART_FAILURE"
	ResetLastAdded        CartAction = "RESET_LAST_ADDED"
	UpdateQuantityRequest CartAction = "UPDATE_QUANTITY_REQUEST"
	UpdateQuantitySuccess CartAction = "UPDATE_QUANTITY_SUCCESS"
	UpdateQuantityFailure CartAction = "UPDATE_QUANTITY_FAILURE"
	RemoveItemRequest     CartAction = "REMOVE_ITEM_REQUEST"
	RemoveItemSuccess     CartAction = "REMOVE_ITEM_SUCCESS"
	RemoveItemFailure     CartAction = "REMOVE_ITEM_FAILURE"
	ClearCartRequest      CartAction = "CLEAR_CART_REQUEST"
	ClearCartSuccess      CartAction = "CLEAR_CART_SUCCESS"
	ClearCartFailure      CartAction = "CLEAR_CART_FAILURE"
	MergeCartSuccess      CartAction = "MERGE_CART_SUCCESS"
	CheckStockQuantity    CartAction = "CHECK_STOCK_QUANTITY"
)

var validCartActions = []CartAction{
	FetchCartRequest,
	FetchCartSuccess,
	FetchCartFailure,
	AddToCartRequest,
	AddToCartSuccess,
	AddToCartFailure,
	ResetLastAdded,
	UpdateQuantityRequest,
	UpdateQuantitySuccess,
	UpdateQuantityFailure,
	RemoveItemRequest,
	RemoveItemSuccess,
	RemoveItemFailure,
	ClearCartRequest,
	ClearCartSuccess,
	ClearCartFailure,
	MergeCartSuccess,
	CheckStockQuantity,
}

// String implements fmt.Stringer.
func (c CartAction) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CartAction.
func (c CartAction) IsValid() bool {
	for _, candidate := range validCartActions {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCartAction converts raw input into a CartAction.
func ParseCartAction(value string) (CartAction, error) {
	for _, candidate := range validCartActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid cart action %q", value)
}
