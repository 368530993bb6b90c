package waitlist

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropspot/dropspot/go/clients"
	"github.com/dropspot/dropspot/go/internal/dropcache"
	"github.com/dropspot/dropspot/go/internal/models"
)

var windowStart = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fakeDropAPI struct {
	joinResponse  *models.WaitlistJoinResponse
	leaveResponse *models.WaitlistLeaveResponse
	claimResponse *models.ClaimResponse
	listResponse  []models.Drop
	err           error

	joinCalls  int
	leaveCalls int
	claimCalls int
	listCalls  int

	onJoin func()
}

func (f *fakeDropAPI) ListDrops(ctx context.Context) ([]models.Drop, error) {
	f.listCalls++
	return f.listResponse, f.err
}

func (f *fakeDropAPI) JoinWaitlist(ctx context.Context, dropID int) (*models.WaitlistJoinResponse, error) {
	f.joinCalls++
	if f.onJoin != nil {
		f.onJoin()
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.joinResponse, nil
}

func (f *fakeDropAPI) LeaveWaitlist(ctx context.Context, dropID int) (*models.WaitlistLeaveResponse, error) {
	f.leaveCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.leaveResponse, nil
}

func (f *fakeDropAPI) ClaimDrop(ctx context.Context, dropID int) (*models.ClaimResponse, error) {
	f.claimCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.claimResponse, nil
}

type fakeSession struct {
	authenticated bool
}

func (f *fakeSession) Authenticated() bool { return f.authenticated }

func testDrop() models.Drop {
	return models.Drop{
		ID:               1,
		Name:             "Sınırlı Seri",
		Capacity:         10,
		ClaimWindowStart: windowStart.Format(time.RFC3339),
		ClaimWindowEnd:   windowStart.Add(time.Hour).Format(time.RFC3339),
		IsActive:         true,
	}
}

func testJoinEntry(score float64) models.WaitlistEntry {
	return models.WaitlistEntry{
		ID:            101,
		UserID:        7,
		DropID:        1,
		PriorityScore: score,
		JoinedAt:      windowStart.Add(-time.Hour),
		State:         models.EntryStateWaiting,
	}
}

func newTestApp(api *fakeDropAPI, authenticated bool, now time.Time) (*App, *dropcache.Cache) {
	cache := dropcache.New()
	cache.ReplaceAll([]models.Drop{testDrop()})
	app := NewApp(api, &fakeSession{authenticated: authenticated}, cache, clockwork.NewFakeClockAt(now))
	return app, cache
}

func TestJoin_Unauthenticated(t *testing.T) {
	api := &fakeDropAPI{}
	app, _ := newTestApp(api, false, windowStart)

	_, err := app.Join(context.Background(), 1)

	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Zero(t, api.joinCalls, "precondition failures must not reach the network")
}

func TestJoin_BeforeWindowOpensIsAllowed(t *testing.T) {
	api := &fakeDropAPI{joinResponse: &models.WaitlistJoinResponse{Entry: testJoinEntry(10), Created: true}}
	app, cache := newTestApp(api, true, windowStart.Add(-24*time.Hour))

	response, err := app.Join(context.Background(), 1)

	require.NoError(t, err)
	assert.True(t, response.Created)
	assert.Equal(t, 1, api.joinCalls)

	entry, ok := cache.Entry(1)
	require.True(t, ok)
	assert.Equal(t, models.EntryStateWaiting, entry.State)
}

func TestJoin_AfterWindowCloses(t *testing.T) {
	api := &fakeDropAPI{}
	app, _ := newTestApp(api, true, windowStart.Add(61*time.Minute))

	_, err := app.Join(context.Background(), 1)

	assert.ErrorIs(t, err, ErrWindowClosed)
	assert.Zero(t, api.joinCalls)
}

func TestJoin_UnknownDrop(t *testing.T) {
	api := &fakeDropAPI{}
	app, _ := newTestApp(api, true, windowStart)

	_, err := app.Join(context.Background(), 99)

	assert.ErrorIs(t, err, ErrUnknownDrop)
	assert.Zero(t, api.joinCalls)
}

func TestJoin_RepeatIsResolvedByServer(t *testing.T) {
	api := &fakeDropAPI{joinResponse: &models.WaitlistJoinResponse{Entry: testJoinEntry(10), Created: true}}
	app, cache := newTestApp(api, true, windowStart)

	_, err := app.Join(context.Background(), 1)
	require.NoError(t, err)

	// The server deduplicates by (user, drop): the second call answers
	// created=false with a corrected score, and the cache must take it.
	api.joinResponse = &models.WaitlistJoinResponse{Entry: testJoinEntry(42.5), Created: false}
	response, err := app.Join(context.Background(), 1)

	require.NoError(t, err)
	assert.False(t, response.Created)
	assert.Equal(t, 2, api.joinCalls, "no client-side dedup")

	entry, _ := cache.Entry(1)
	assert.Equal(t, 42.5, entry.PriorityScore)
}

func TestJoin_RemoteFailureLeavesCacheUntouched(t *testing.T) {
	apiErr := &clients.APIError{StatusCode: 404, Detail: "Drop not found"}
	api := &fakeDropAPI{err: apiErr}
	app, cache := newTestApp(api, true, windowStart)

	_, err := app.Join(context.Background(), 1)

	assert.ErrorIs(t, err, error(apiErr), "remote error must surface unchanged")
	_, ok := cache.Entry(1)
	assert.False(t, ok)
}

func TestLeave_NoWindowGate(t *testing.T) {
	api := &fakeDropAPI{
		joinResponse:  &models.WaitlistJoinResponse{Entry: testJoinEntry(10), Created: true},
		leaveResponse: &models.WaitlistLeaveResponse{Success: true, State: models.EntryStateLeft},
	}
	app, cache := newTestApp(api, true, windowStart.Add(2*time.Hour))
	cache.ApplyJoin(api.joinResponse)

	// Window already closed; leaving must still work.
	_, err := app.Leave(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, api.leaveCalls)

	entry, ok := cache.Entry(1)
	require.True(t, ok, "entry history survives the leave")
	assert.Equal(t, models.EntryStateLeft, entry.State)
}

func TestLeave_Unauthenticated(t *testing.T) {
	api := &fakeDropAPI{}
	app, _ := newTestApp(api, false, windowStart)

	_, err := app.Leave(context.Background(), 1)

	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Zero(t, api.leaveCalls)
}

// Full lifecycle: capacity 10, window [T, T+1h). Claim at T-10m fails
// locally; claim at T+30m succeeds and the cache records the code; join at
// T+61m fails locally.
func TestClaim_WindowScenario(t *testing.T) {
	claimedAt := windowStart.Add(30 * time.Minute)
	api := &fakeDropAPI{
		joinResponse:  &models.WaitlistJoinResponse{Entry: testJoinEntry(10), Created: true},
		claimResponse: &models.ClaimResponse{ClaimCode: "KOD-123", ClaimedAt: claimedAt, Position: 3},
	}
	clock := clockwork.NewFakeClockAt(windowStart.Add(-10 * time.Minute))
	cache := dropcache.New()
	cache.ReplaceAll([]models.Drop{testDrop()})
	app := NewApp(api, &fakeSession{authenticated: true}, cache, clock)

	_, err := app.Claim(context.Background(), 1)
	assert.ErrorIs(t, err, ErrWindowNotOpen)
	assert.Zero(t, api.claimCalls, "no network call before the window opens")

	_, err = app.Join(context.Background(), 1)
	require.NoError(t, err)

	clock.Advance(40 * time.Minute) // now = T+30m
	response, err := app.Claim(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "KOD-123", response.ClaimCode)

	entry, ok := cache.Entry(1)
	require.True(t, ok)
	assert.Equal(t, models.EntryStateClaimed, entry.State)
	require.NotNil(t, entry.ClaimCode)
	assert.Equal(t, "KOD-123", *entry.ClaimCode)

	clock.Advance(31 * time.Minute) // now = T+61m
	_, err = app.Join(context.Background(), 1)
	assert.ErrorIs(t, err, ErrWindowClosed)
}

func TestClaim_ExactBoundaries(t *testing.T) {
	api := &fakeDropAPI{claimResponse: &models.ClaimResponse{ClaimCode: "KOD-123", ClaimedAt: windowStart}}

	// now == start counts as open.
	app, _ := newTestApp(api, true, windowStart)
	_, err := app.Claim(context.Background(), 1)
	assert.NoError(t, err)

	// now == end counts as closed.
	app, _ = newTestApp(api, true, windowStart.Add(time.Hour))
	_, err = app.Claim(context.Background(), 1)
	assert.ErrorIs(t, err, ErrWindowNotOpen)
}

func TestClaim_InvalidWindowDeniesClaim(t *testing.T) {
	drop := testDrop()
	drop.ClaimWindowEnd = "bozuk"
	api := &fakeDropAPI{}
	cache := dropcache.New()
	cache.ReplaceAll([]models.Drop{drop})
	app := NewApp(api, &fakeSession{authenticated: true}, cache, clockwork.NewFakeClockAt(windowStart))

	_, err := app.Claim(context.Background(), 1)

	assert.ErrorIs(t, err, ErrWindowNotOpen)
	assert.Zero(t, api.claimCalls)
}

func TestClaim_RemoteFailureLeavesCacheUntouched(t *testing.T) {
	apiErr := &clients.APIError{StatusCode: 409, Detail: "Capacity exhausted"}
	api := &fakeDropAPI{
		joinResponse: &models.WaitlistJoinResponse{Entry: testJoinEntry(10), Created: true},
	}
	app, cache := newTestApp(api, true, windowStart.Add(5*time.Minute))

	_, err := app.Join(context.Background(), 1)
	require.NoError(t, err)

	api.err = apiErr
	_, err = app.Claim(context.Background(), 1)

	var got *clients.APIError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, "Capacity exhausted", got.Detail)

	entry, _ := cache.Entry(1)
	assert.Equal(t, models.EntryStateWaiting, entry.State, "failed claim must not mutate the entry")
	assert.Nil(t, entry.ClaimCode)
}

func TestRefresh_ReplacesCatalog(t *testing.T) {
	fresh := testDrop()
	fresh.Name = "Güncellenmiş Seri"
	api := &fakeDropAPI{listResponse: []models.Drop{fresh}}
	app, cache := newTestApp(api, true, windowStart)

	drops, err := app.Refresh(context.Background())

	require.NoError(t, err)
	require.Len(t, drops, 1)
	cached, ok := cache.Get(1)
	require.True(t, ok)
	assert.Equal(t, "Güncellenmiş Seri", cached.Name)
}

func TestState_TriState(t *testing.T) {
	api := &fakeDropAPI{joinResponse: &models.WaitlistJoinResponse{Entry: testJoinEntry(10), Created: true}}
	app, _ := newTestApp(api, true, windowStart)

	assert.Equal(t, ActionIdle, app.State(ActionJoin, 1))

	api.onJoin = func() {
		assert.Equal(t, ActionPending, app.State(ActionJoin, 1))
	}
	_, err := app.Join(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, ActionSettled, app.State(ActionJoin, 1))
	assert.Equal(t, ActionIdle, app.State(ActionClaim, 1), "states are tracked per action and drop")
}
