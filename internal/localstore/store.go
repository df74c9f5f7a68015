package localstore

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// GuestIDKey is where the anonymous-session identifier is stored.
const GuestIDKey = "guest_id"

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("localstore: key not found")

// Store is the minimal key-value surface the cart core needs to carry the
// guest identifier across the anonymous-to-authenticated transition.
type Store interface {
	GetItem(ctx context.Context, key string) (string, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// EnsureGuestID returns the stored guest identifier, minting and persisting a
// new one when none exists yet.
func EnsureGuestID(ctx context.Context, store Store) (string, error) {
	if store == nil {
		return "", errors.New("localstore: store is required")
	}
	existing, err := store.GetItem(ctx, GuestIDKey)
	if err == nil && existing != "" {
		return existing, nil
	}
	if err != nil && !errors.Is(err, ErrNotFound) {
		return "", err
	}
	guestID := uuid.NewString()
	if err := store.SetItem(ctx, GuestIDKey, guestID); err != nil {
		return "", err
	}
	return guestID, nil
}
