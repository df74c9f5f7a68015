package auth

import (
	"strings"
	"sync"

	"github.com/angelmondragon/storefront-core/pkg/config"
)

// Watcher holds the current session token and reports whether the session is
// authenticated. Listeners are invoked whenever the authenticated flag flips,
// never for token refreshes that keep the flag unchanged.
type Watcher struct {
	mu        sync.Mutex
	cfg       config.JWTConfig
	token     string
	authed    bool
	listeners map[int]func(bool)
	nextID    int
}

// NewWatcher builds a watcher. When a JWT secret is configured the token is
// validated locally (signature, issuer, expiry); otherwise any non-empty
// token counts as an authenticated session and the server has the final say.
func NewWatcher(cfg config.JWTConfig) *Watcher {
	return &Watcher{
		cfg:       cfg,
		listeners: map[int]func(bool){},
	}
}

// IsAuthenticated reports the current session state.
func (w *Watcher) IsAuthenticated() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.authed
}

// Token returns the current session token, or empty.
func (w *Watcher) Token() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.token
}

// SetToken stores the session token and recomputes the authenticated flag.
func (w *Watcher) SetToken(token string) {
	w.swap(strings.TrimSpace(token))
}

// ClearToken drops the session token, transitioning to unauthenticated.
func (w *Watcher) ClearToken() {
	w.swap("")
}

// OnChange registers a listener for authenticated-flag flips and returns an
// unregister func.
func (w *Watcher) OnChange(fn func(authenticated bool)) func() {
	w.mu.Lock()
	id := w.nextID
	w.nextID++
	w.listeners[id] = fn
	w.mu.Unlock()

	return func() {
		w.mu.Lock()
		delete(w.listeners, id)
		w.mu.Unlock()
	}
}

func (w *Watcher) swap(token string) {
	authed := w.evaluate(token)

	w.mu.Lock()
	w.token = token
	flipped := authed != w.authed
	w.authed = authed
	var listeners []func(bool)
	if flipped {
		listeners = make([]func(bool), 0, len(w.listeners))
		for _, fn := range w.listeners {
			listeners = append(listeners, fn)
		}
	}
	w.mu.Unlock()

	for _, fn := range listeners {
		fn(authed)
	}
}

func (w *Watcher) evaluate(token string) bool {
	if token == "" {
		return false
	}
	if w.cfg.Secret == "" {
		return true
	}
	_, err := ParseAccessToken(w.cfg, token)
	return err == nil
}
