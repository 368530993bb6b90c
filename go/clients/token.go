package clients

import "sync"

// TokenSource supplies the bearer credential attached to outbound requests.
type TokenSource interface {
	Token() string
}

// TokenHolder is the shared mutable credential updated by the session layer.
// Writes are synchronous, so a request issued after a login or logout always
// sees the fresh credential.
type TokenHolder struct {
	mu    sync.RWMutex
	token string
}

func NewTokenHolder() *TokenHolder {
	return &TokenHolder{}
}

func (h *TokenHolder) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

func (h *TokenHolder) Set(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = token
}

func (h *TokenHolder) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = ""
}
