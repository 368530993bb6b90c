package admindrops

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/dropspot/dropspot/go/internal/models"
)

// AdminAPI defines what the store needs from the admin CRUD endpoints.
type AdminAPI interface {
	ListAdminDrops(ctx context.Context) ([]models.Drop, error)
	CreateAdminDrop(ctx context.Context, values models.DropFormValues) (*models.Drop, error)
	UpdateAdminDrop(ctx context.Context, dropID int, values models.DropFormValues) (*models.Drop, error)
	DeleteAdminDrop(ctx context.Context, dropID int) error
}

// Store mirrors the admin drop list. Each mutation applies locally only on
// remote success: create prepends, update replaces by id, delete removes.
// There is no temporal gating here; admin privilege is the caller's concern.
type Store struct {
	api      AdminAPI
	validate *validator.Validate

	mu    sync.RWMutex
	drops []models.Drop
}

func NewStore(api AdminAPI) *Store {
	return &Store{
		api:      api,
		validate: validator.New(),
	}
}

// Refresh replaces the mirror with the authoritative admin list.
func (s *Store) Refresh(ctx context.Context) error {
	drops, err := s.api.ListAdminDrops(ctx)
	if err != nil {
		return fmt.Errorf("failed to list admin drops: %w", err)
	}

	s.mu.Lock()
	s.drops = drops
	s.mu.Unlock()
	return nil
}

// List returns the mirrored drops, newest first.
func (s *Store) List() []models.Drop {
	s.mu.RLock()
	defer s.mu.RUnlock()
	drops := make([]models.Drop, len(s.drops))
	copy(drops, s.drops)
	return drops
}

func (s *Store) Create(ctx context.Context, values models.DropFormValues) (*models.Drop, error) {
	if err := s.validate.Struct(values); err != nil {
		return nil, fmt.Errorf("invalid drop payload: %w", err)
	}

	created, err := s.api.CreateAdminDrop(ctx, values)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.drops = append([]models.Drop{*created}, s.drops...)
	s.mu.Unlock()

	log.Info().Int("drop_id", created.ID).Str("name", created.Name).Msg("created drop")
	return created, nil
}

func (s *Store) Update(ctx context.Context, dropID int, values models.DropFormValues) (*models.Drop, error) {
	if err := s.validate.Struct(values); err != nil {
		return nil, fmt.Errorf("invalid drop payload: %w", err)
	}

	updated, err := s.api.UpdateAdminDrop(ctx, dropID, values)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	for i, drop := range s.drops {
		if drop.ID == updated.ID {
			s.drops[i] = *updated
			break
		}
	}
	s.mu.Unlock()

	log.Info().Int("drop_id", updated.ID).Msg("updated drop")
	return updated, nil
}

func (s *Store) Delete(ctx context.Context, dropID int) error {
	if err := s.api.DeleteAdminDrop(ctx, dropID); err != nil {
		return err
	}

	s.mu.Lock()
	drops := s.drops[:0]
	for _, drop := range s.drops {
		if drop.ID != dropID {
			drops = append(drops, drop)
		}
	}
	s.drops = drops
	s.mu.Unlock()

	log.Info().Int("drop_id", dropID).Msg("deleted drop")
	return nil
}
