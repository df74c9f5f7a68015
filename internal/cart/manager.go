package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/angelmondragon/storefront-core/internal/cartclient"
	"github.com/angelmondragon/storefront-core/internal/localstore"
	"github.com/angelmondragon/storefront-core/internal/notify"
	"github.com/angelmondragon/storefront-core/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-core/pkg/errors"
	"github.com/angelmondragon/storefront-core/pkg/logger"
	"github.com/angelmondragon/storefront-core/pkg/metrics"
	"github.com/angelmondragon/storefront-core/pkg/types"
)

const (
	opFetchCart      = "fetch_cart"
	opAddToCart      = "add_to_cart"
	opUpdateQuantity = "update_quantity"
	opRemoveItem     = "remove_item"
	opClearCart      = "clear_cart"
	opMergeCart      = "merge_guest_cart"
)

const (
	msgFetchFailed  = "could not load your cart"
	msgAddFailed    = "could not add the item to your cart"
	msgUpdateFailed = "could not update the item quantity"
	msgRemoveFailed = "could not remove the item"
	msgClearFailed  = "could not clear your cart"
	msgStockLimited = "not enough stock available"
)

// Remote is the cart API surface the manager depends on.
type Remote interface {
	GetCart(ctx context.Context) (*types.Cart, error)
	AddItem(ctx context.Context, input cartclient.AddItemInput) (*types.Cart, error)
	UpdateItemQuantity(ctx context.Context, itemID string, quantity int) (*types.Cart, error)
	RemoveItem(ctx context.Context, itemID string) (*types.Cart, error)
	Clear(ctx context.Context) error
	MergeGuestCart(ctx context.Context) (*types.Cart, error)
}

// AuthState is the authentication observable the manager reacts to.
type AuthState interface {
	IsAuthenticated() bool
	OnChange(fn func(authenticated bool)) func()
}

// ManagerParams wires the manager's dependencies.
type ManagerParams struct {
	Remote     Remote
	Auth       AuthState
	GuestStore localstore.Store
	Notifier   notify.Notifier
	Logger     *logger.Logger
	Metrics    *metrics.CartCallMetrics
}

// Manager owns the reducer instance and mediates every cart mutation through
// it. Dispatch is serialized behind a mutex; remote calls run outside the
// lock, so concurrent operations race and the last response to land wins;
// replace-only reductions make that safe.
type Manager struct {
	remote   Remote
	auth     AuthState
	guests   localstore.Store
	notifier notify.Notifier
	log      *logger.Logger
	metrics  *metrics.CartCallMetrics

	mu          sync.Mutex
	state       State
	subscribers map[int]func(State)
	nextSubID   int
	unwatch     func()
}

// NewManager validates dependencies and builds a manager at the rest state.
func NewManager(params ManagerParams) (*Manager, error) {
	if params.Remote == nil {
		return nil, fmt.Errorf("cart remote required")
	}
	if params.Auth == nil {
		return nil, fmt.Errorf("auth state required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Manager{
		remote:      params.Remote,
		auth:        params.Auth,
		guests:      params.GuestStore,
		notifier:    params.Notifier,
		log:         params.Logger,
		metrics:     params.Metrics,
		state:       NewState(),
		subscribers: map[int]func(State){},
	}, nil
}

// Start performs the initial fetch and registers the auth-change effects:
// refetch on every flip, merge when the session becomes authenticated.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	if m.unwatch == nil {
		// In-flight responses from a previous auth state still land; there
		// is no cancellation, consistent with last-write-wins semantics.
		m.unwatch = m.auth.OnChange(func(authenticated bool) {
			m.FetchCart(context.Background())
			if authenticated {
				m.MergeGuestCart(context.Background())
			}
		})
	}
	m.mu.Unlock()

	m.FetchCart(ctx)
}

// Stop unregisters the auth listener.
func (m *Manager) Stop() {
	m.mu.Lock()
	unwatch := m.unwatch
	m.unwatch = nil
	m.mu.Unlock()
	if unwatch != nil {
		unwatch()
	}
}

// Snapshot returns a copy of the current state. The stock cache is cloned so
// callers can hold snapshots across dispatches.
func (m *Manager) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot := m.state
	snapshot.StockQuantities = m.state.cloneStock()
	return snapshot
}

// Subscribe registers a callback invoked with the state after every dispatch.
// The returned func unsubscribes.
func (m *Manager) Subscribe(fn func(State)) func() {
	m.mu.Lock()
	id := m.nextSubID
	m.nextSubID++
	m.subscribers[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subscribers, id)
		m.mu.Unlock()
	}
}

// FetchCart unconditionally refetches the cart and replaces local state with
// the response.
func (m *Manager) FetchCart(ctx context.Context) {
	ctx = m.log.WithOperation(ctx, opFetchCart)
	m.dispatch(Action{Type: enums.FetchCartRequest})

	cart, err := m.timed(opFetchCart, func() (*types.Cart, error) {
		return m.remote.GetCart(ctx)
	})
	if err != nil {
		m.log.Error(ctx, "fetch cart failed", err)
		m.dispatch(Action{Type: enums.FetchCartFailure, Err: pkgerrors.Display(err, msgFetchFailed)})
		return
	}
	m.dispatch(Action{Type: enums.FetchCartSuccess, Cart: cart})
}

// AddToCart caches stock from the optional product details, pre-checks the
// requested quantity against it, and only then calls the remote add. A guard
// rejection is a silent no-op from the server's perspective: warning only,
// no error recorded.
func (m *Manager) AddToCart(ctx context.Context, input cartclient.AddItemInput, details *types.Product) {
	ctx = m.log.WithOperation(ctx, opAddToCart)

	if details != nil {
		stock := details.Stock
		if variant := details.VariantByID(input.VariantID); variant != nil {
			stock = variant.Stock
		}
		m.dispatch(Action{
			Type:          enums.CheckStockQuantity,
			StockKey:      StockKey(input.ProductID, input.VariantID),
			StockQuantity: stock,
		})

		if !m.Snapshot().CanAddToCart(input.ProductID, input.VariantID, input.Quantity) {
			m.metrics.IncGuardRejected(opAddToCart)
			m.warn(ctx, msgStockLimited)
			return
		}
	}

	m.dispatch(Action{Type: enums.AddToCartRequest})

	cart, err := m.timed(opAddToCart, func() (*types.Cart, error) {
		return m.remote.AddItem(ctx, input)
	})
	if err != nil {
		m.log.Error(ctx, "add to cart failed", err)
		display := pkgerrors.Display(err, msgAddFailed)
		m.dispatch(Action{Type: enums.AddToCartFailure, Err: display})
		m.failure(ctx, display)
		return
	}
	m.dispatch(Action{
		Type:     enums.AddToCartSuccess,
		Cart:     cart,
		Product:  details,
		Quantity: input.Quantity,
	})
}

// UpdateQuantity recovers the item's (product, variant) pair to consult the
// stock cache; with no cache entry the update proceeds unconditionally.
func (m *Manager) UpdateQuantity(ctx context.Context, itemID string, quantity int) {
	ctx = m.log.WithItemID(m.log.WithOperation(ctx, opUpdateQuantity), itemID)

	snapshot := m.Snapshot()
	if item := snapshot.ItemByID(itemID); item != nil {
		key := StockKey(item.ProductID, item.VariantID)
		if cached, ok := snapshot.StockQuantities[key]; ok && quantity > cached {
			m.metrics.IncGuardRejected(opUpdateQuantity)
			m.warn(ctx, msgStockLimited)
			return
		}
	}

	m.dispatch(Action{Type: enums.UpdateQuantityRequest, ItemID: itemID})

	cart, err := m.timed(opUpdateQuantity, func() (*types.Cart, error) {
		return m.remote.UpdateItemQuantity(ctx, itemID, quantity)
	})
	if err != nil {
		m.log.Error(ctx, "update quantity failed", err)
		display := pkgerrors.Display(err, msgUpdateFailed)
		m.dispatch(Action{Type: enums.UpdateQuantityFailure, ItemID: itemID, Err: display})
		m.failure(ctx, display)
		return
	}
	m.dispatch(Action{Type: enums.UpdateQuantitySuccess, Cart: cart})
}

// RemoveItem removes a cart line. Unconditional: no local pre-check applies.
func (m *Manager) RemoveItem(ctx context.Context, itemID string) {
	ctx = m.log.WithItemID(m.log.WithOperation(ctx, opRemoveItem), itemID)
	m.dispatch(Action{Type: enums.RemoveItemRequest, ItemID: itemID})

	cart, err := m.timed(opRemoveItem, func() (*types.Cart, error) {
		return m.remote.RemoveItem(ctx, itemID)
	})
	if err != nil {
		m.log.Error(ctx, "remove item failed", err)
		display := pkgerrors.Display(err, msgRemoveFailed)
		m.dispatch(Action{Type: enums.RemoveItemFailure, ItemID: itemID, Err: display})
		m.failure(ctx, display)
		return
	}
	m.dispatch(Action{Type: enums.RemoveItemSuccess, Cart: cart})
}

// ClearCart empties the cart on the server and drops the local copy.
func (m *Manager) ClearCart(ctx context.Context) {
	ctx = m.log.WithOperation(ctx, opClearCart)
	m.dispatch(Action{Type: enums.ClearCartRequest})

	_, err := m.timed(opClearCart, func() (*types.Cart, error) {
		return nil, m.remote.Clear(ctx)
	})
	if err != nil {
		m.log.Error(ctx, "clear cart failed", err)
		display := pkgerrors.Display(err, msgClearFailed)
		m.dispatch(Action{Type: enums.ClearCartFailure, Err: display})
		m.failure(ctx, display)
		return
	}
	m.dispatch(Action{Type: enums.ClearCartSuccess})
}

// MergeGuestCart folds a stored guest cart into the authenticated user's
// cart. No-op unless authenticated and a guest id exists. Failures are
// logged and swallowed: the user never sees a merge error.
func (m *Manager) MergeGuestCart(ctx context.Context) {
	ctx = m.log.WithOperation(ctx, opMergeCart)

	if !m.auth.IsAuthenticated() || m.guests == nil {
		return
	}
	guestID, err := m.guests.GetItem(ctx, localstore.GuestIDKey)
	if err != nil {
		if !errors.Is(err, localstore.ErrNotFound) {
			m.log.Error(ctx, "read guest id failed", err)
		}
		return
	}
	if guestID == "" {
		return
	}

	ctx = m.log.WithGuestID(ctx, guestID)
	cart, err := m.timed(opMergeCart, func() (*types.Cart, error) {
		return m.remote.MergeGuestCart(ctx)
	})
	if err != nil {
		m.log.Error(ctx, "merge guest cart failed", err)
		return
	}

	m.dispatch(Action{Type: enums.MergeCartSuccess, Cart: cart})
	if err := m.guests.RemoveItem(ctx, localstore.GuestIDKey); err != nil {
		m.log.Error(ctx, "discard guest id failed", err)
	}
}

// ResetLastAdded clears the one-shot "item added" marker after the UI has
// shown it.
func (m *Manager) ResetLastAdded() {
	m.dispatch(Action{Type: enums.ResetLastAdded})
}

// CanAddToCart consults the current snapshot's stock guard.
func (m *Manager) CanAddToCart(productID, variantID string, qty int) bool {
	return m.Snapshot().CanAddToCart(productID, variantID, qty)
}

// CartItemQuantity reports the quantity of the exact (product, variant) line.
func (m *Manager) CartItemQuantity(productID, variantID string) int {
	return m.Snapshot().CartItemQuantity(productID, variantID)
}

// ItemStockRemaining reports the remaining addable units for display.
func (m *Manager) ItemStockRemaining(productID, variantID string) int {
	return m.Snapshot().ItemStockRemaining(productID, variantID)
}

func (m *Manager) dispatch(action Action) {
	m.mu.Lock()
	m.state = Reduce(m.state, action)
	snapshot := m.state
	snapshot.StockQuantities = m.state.cloneStock()
	subscribers := make([]func(State), 0, len(m.subscribers))
	for _, fn := range m.subscribers {
		subscribers = append(subscribers, fn)
	}
	m.mu.Unlock()

	for _, fn := range subscribers {
		fn(snapshot)
	}
}

func (m *Manager) timed(operation string, call func() (*types.Cart, error)) (*types.Cart, error) {
	start := time.Now()
	cart, err := call()
	m.metrics.ObserveDuration(operation, time.Since(start))
	if err != nil {
		m.metrics.IncFailure(operation)
		return nil, err
	}
	m.metrics.IncSuccess(operation)
	return cart, nil
}

func (m *Manager) warn(ctx context.Context, msg string) {
	if m.notifier != nil {
		m.notifier.Warn(ctx, msg)
	}
}

func (m *Manager) failure(ctx context.Context, msg string) {
	if m.notifier != nil {
		m.notifier.Failure(ctx, msg)
	}
}
