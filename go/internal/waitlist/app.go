package waitlist

import (
	"context"
	"fmt"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/dropspot/dropspot/go/internal/models"
	"github.com/dropspot/dropspot/go/internal/window"
)

// DropAPI defines what the app layer needs from the remote drops endpoints.
type DropAPI interface {
	ListDrops(ctx context.Context) ([]models.Drop, error)
	JoinWaitlist(ctx context.Context, dropID int) (*models.WaitlistJoinResponse, error)
	LeaveWaitlist(ctx context.Context, dropID int) (*models.WaitlistLeaveResponse, error)
	ClaimDrop(ctx context.Context, dropID int) (*models.ClaimResponse, error)
}

// SessionState is the slice of the session store the app consults.
type SessionState interface {
	Authenticated() bool
}

// Cache is the slice of the drop cache the app reconciles into.
type Cache interface {
	Get(id int) (models.Drop, bool)
	ReplaceAll(drops []models.Drop)
	ApplyJoin(response *models.WaitlistJoinResponse)
	ApplyLeave(dropID int, response *models.WaitlistLeaveResponse)
	ApplyClaim(dropID int, response *models.ClaimResponse)
}

// Action identifies a waitlist intent.
type Action string

const (
	ActionJoin  Action = "join"
	ActionLeave Action = "leave"
	ActionClaim Action = "claim"
)

// ActionState tracks a pending intent so callers can disable the triggering
// control while a call is in flight.
type ActionState string

const (
	ActionIdle    ActionState = "idle"
	ActionPending ActionState = "pending"
	ActionSettled ActionState = "settled"
)

type actionKey struct {
	action Action
	dropID int
}

// App coordinates join/leave/claim intents: it checks local preconditions
// against the session and the drop's claim window, calls the remote API, and
// reconciles the response into the cache. Failed calls leave the cache
// untouched. The app does not serialize overlapping calls for the same drop;
// if two responses race, the later one wins in the cache. It performs no
// client-side dedup either: the server resolves a repeated join to the
// existing entry and answers created=false.
type App struct {
	api     DropAPI
	session SessionState
	cache   Cache
	clock   clockwork.Clock

	mu      sync.RWMutex
	pending map[actionKey]ActionState
}

func NewApp(api DropAPI, session SessionState, cache Cache, clock clockwork.Clock) *App {
	return &App{
		api:     api,
		session: session,
		cache:   cache,
		clock:   clock,
		pending: make(map[actionKey]ActionState),
	}
}

// Refresh pulls the full drop catalog and swaps it into the cache.
func (a *App) Refresh(ctx context.Context) ([]models.Drop, error) {
	drops, err := a.api.ListDrops(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh drops: %w", err)
	}
	a.cache.ReplaceAll(drops)
	return drops, nil
}

// Join adds the user to a drop's waitlist. Joining is allowed until the
// window closes, including before it opens.
func (a *App) Join(ctx context.Context, dropID int) (*models.WaitlistJoinResponse, error) {
	if !a.session.Authenticated() {
		return nil, ErrUnauthenticated
	}
	status, err := a.windowStatus(dropID)
	if err != nil {
		return nil, err
	}
	if status.Phase == window.PhaseClosed {
		return nil, ErrWindowClosed
	}

	defer a.settle(a.markPending(ActionJoin, dropID))
	response, err := a.api.JoinWaitlist(ctx, dropID)
	if err != nil {
		return nil, err
	}

	a.cache.ApplyJoin(response)
	log.Info().
		Int("drop_id", dropID).
		Bool("created", response.Created).
		Float64("priority_score", response.Entry.PriorityScore).
		Msg("joined waitlist")
	return response, nil
}

// Leave marks the user's entry as left. No window gate: leaving is allowed
// in any phase.
func (a *App) Leave(ctx context.Context, dropID int) (*models.WaitlistLeaveResponse, error) {
	if !a.session.Authenticated() {
		return nil, ErrUnauthenticated
	}

	defer a.settle(a.markPending(ActionLeave, dropID))
	response, err := a.api.LeaveWaitlist(ctx, dropID)
	if err != nil {
		return nil, err
	}

	a.cache.ApplyLeave(dropID, response)
	log.Info().Int("drop_id", dropID).Msg("left waitlist")
	return response, nil
}

// Claim converts waitlist membership into a claim code. Only allowed while
// the window is open.
func (a *App) Claim(ctx context.Context, dropID int) (*models.ClaimResponse, error) {
	if !a.session.Authenticated() {
		return nil, ErrUnauthenticated
	}
	status, err := a.windowStatus(dropID)
	if err != nil {
		return nil, err
	}
	if status.Phase != window.PhaseOpen {
		return nil, ErrWindowNotOpen
	}

	defer a.settle(a.markPending(ActionClaim, dropID))
	response, err := a.api.ClaimDrop(ctx, dropID)
	if err != nil {
		return nil, err
	}

	a.cache.ApplyClaim(dropID, response)
	log.Info().Int("drop_id", dropID).Int("position", response.Position).Msg("claimed drop")
	return response, nil
}

// State reports the pending tri-state for an action on a drop.
func (a *App) State(action Action, dropID int) ActionState {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if state, ok := a.pending[actionKey{action, dropID}]; ok {
		return state
	}
	return ActionIdle
}

// windowStatus evaluates the claim window of a cached drop at the current
// instant. The status is derived fresh on every call, never stored.
func (a *App) windowStatus(dropID int) (window.Status, error) {
	drop, ok := a.cache.Get(dropID)
	if !ok {
		return window.Status{}, ErrUnknownDrop
	}
	return window.ComputeStatus(a.clock.Now(), drop.ClaimWindowStart, drop.ClaimWindowEnd), nil
}

func (a *App) markPending(action Action, dropID int) actionKey {
	key := actionKey{action, dropID}
	a.mu.Lock()
	a.pending[key] = ActionPending
	a.mu.Unlock()
	return key
}

func (a *App) settle(key actionKey) {
	a.mu.Lock()
	a.pending[key] = ActionSettled
	a.mu.Unlock()
}
