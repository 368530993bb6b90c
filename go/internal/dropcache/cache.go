package dropcache

import (
	"sync"

	"github.com/dropspot/dropspot/go/internal/models"
)

// Cache mirrors the remote drop catalog and this user's waitlist state.
// Every write is last-writer-wins keyed by drop id: an authoritative snapshot
// or action response always replaces whatever is there, so late or repeated
// reconciliations are harmless. The cache never fences concurrent writers;
// serializing overlapping actions on one drop is the caller's concern.
type Cache struct {
	mu      sync.RWMutex
	drops   map[int]models.Drop
	order   []int
	entries map[int]models.WaitlistEntry
}

func New() *Cache {
	return &Cache{
		drops:   make(map[int]models.Drop),
		entries: make(map[int]models.WaitlistEntry),
	}
}

// List returns all cached drops in server order.
func (c *Cache) List() []models.Drop {
	c.mu.RLock()
	defer c.mu.RUnlock()

	drops := make([]models.Drop, 0, len(c.order))
	for _, id := range c.order {
		drops = append(drops, c.drops[id])
	}
	return drops
}

func (c *Cache) Get(id int) (models.Drop, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	drop, ok := c.drops[id]
	return drop, ok
}

// ReplaceAll swaps in a fresh authoritative snapshot of the drop catalog.
// Waitlist entries survive: they are reconciled from action responses, not
// from the catalog fetch.
func (c *Cache) ReplaceAll(drops []models.Drop) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.drops = make(map[int]models.Drop, len(drops))
	c.order = make([]int, 0, len(drops))
	for _, drop := range drops {
		if _, seen := c.drops[drop.ID]; !seen {
			c.order = append(c.order, drop.ID)
		}
		c.drops[drop.ID] = drop
	}
}

// Entry returns the cached waitlist entry for a drop, if any.
func (c *Cache) Entry(dropID int) (models.WaitlistEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[dropID]
	return entry, ok
}

// ApplyJoin records the entry from a join response. A created=false response
// still replaces the cached entry wholesale: the server may have corrected
// the priority score or revived a left entry.
func (c *Cache) ApplyJoin(response *models.WaitlistJoinResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[response.Entry.DropID] = response.Entry
}

// ApplyLeave flips the entry's lifecycle state. The entry itself is kept so
// the membership history stays displayable.
func (c *Cache) ApplyLeave(dropID int, response *models.WaitlistLeaveResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[dropID]
	if !ok {
		return
	}
	entry.State = response.State
	c.entries[dropID] = entry
}

// ApplyClaim records a successful claim. The claim code is whatever the
// server said last; a newer response overwrites an older code.
func (c *Cache) ApplyClaim(dropID int, response *models.ClaimResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := c.entries[dropID]
	entry.DropID = dropID
	entry.State = models.EntryStateClaimed
	code := response.ClaimCode
	claimedAt := response.ClaimedAt
	entry.ClaimCode = &code
	entry.ClaimedAt = &claimedAt
	c.entries[dropID] = entry
}

// Clear wipes everything; used when the session owner changes.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drops = make(map[int]models.Drop)
	c.order = nil
	c.entries = make(map[int]models.WaitlistEntry)
}
