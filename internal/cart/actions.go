package cart

import (
	"github.com/angelmondragon/storefront-core/pkg/enums"
	"github.com/angelmondragon/storefront-core/pkg/types"
)

// Action carries one reducer transition. Which payload fields are meaningful
// depends on the action type; unused fields stay zero.
type Action struct {
	Type enums.CartAction

	Cart          *types.Cart
	Err           string
	ItemID        string
	Product       *types.Product
	Quantity      int
	StockKey      string
	StockQuantity int
}
