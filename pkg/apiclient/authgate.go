package apiclient

import (
	"context"
	"strings"
	"sync"
)

// AuthState is the admin session state as seen by the client
type AuthState int

const (
	// StateUnknown means no session check has completed yet
	StateUnknown AuthState = iota
	StateAuthenticated
	StateUnauthenticated
)

func (s AuthState) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// AdminInfo is the authenticated account returned by the session check
type AdminInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

const loginPath = "/admin/login"

// AuthGate resolves the admin session state once and caches the verdict.
// A rejected session is final; the gate never retries a 401 on its own,
// only Reset (after login or logout) allows a fresh check.
type AuthGate struct {
	client *Client

	mu    sync.Mutex
	state AuthState
	admin *AdminInfo
}

// NewAuthGate creates a gate in the unknown state
func NewAuthGate(client *Client) *AuthGate {
	return &AuthGate{client: client, state: StateUnknown}
}

// Check resolves the session state. The first authenticated or
// unauthenticated verdict sticks; transport errors leave the state
// unknown so a later Check can try again.
func (g *AuthGate) Check(ctx context.Context) AuthState {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateUnknown {
		return g.state
	}

	var info AdminInfo
	err := g.client.GetJSON(ctx, "/api/admin/auth/user", &info)
	switch {
	case err == nil && info.ID != "":
		g.state = StateAuthenticated
		g.admin = &info
	case err == nil, IsUnauthorized(err):
		// A 401 and a reply naming no account are both terminal rejections
		g.state = StateUnauthenticated
	}

	return g.state
}

// State returns the current verdict without triggering a check
func (g *AuthGate) State() AuthState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Admin returns the account from a successful check, or nil
func (g *AuthGate) Admin() *AdminInfo {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.admin
}

// Reset clears the cached verdict. Call after login or logout.
func (g *AuthGate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = StateUnknown
	g.admin = nil
	g.client.Cache().Invalidate("/api/admin/auth")
}

// Redirect returns the login path when an unauthenticated visitor requests
// a protected admin page. The login page itself is never redirected.
func (g *AuthGate) Redirect(path string) (string, bool) {
	if !strings.HasPrefix(path, "/admin") || path == loginPath {
		return "", false
	}
	if g.State() != StateUnauthenticated {
		return "", false
	}
	return loginPath, true
}
