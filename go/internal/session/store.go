package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dropspot/dropspot/go/internal/models"
)

// AuthAPI defines what the store needs from the remote auth endpoints.
type AuthAPI interface {
	Login(ctx context.Context, credentials models.AuthCredentials) (*models.AuthResponse, error)
	Signup(ctx context.Context, credentials models.AuthCredentials) (*models.AuthResponse, error)
}

// TokenSink receives the current bearer credential for outbound requests.
// Updates happen synchronously inside every session transition, before the
// transition returns, so no dependent request can race ahead of a fresh token.
type TokenSink interface {
	Set(token string)
	Clear()
}

// Record is the persisted {credential, user} payload. One record under one
// storage key; read once at hydrate, overwritten on login/signup, deleted on
// logout.
type Record struct {
	Token string          `json:"token"`
	User  models.AuthUser `json:"user"`
}

// Store holds the current authenticated identity. Until Hydrate has run,
// Initialized reports false and the state means "unknown", not "anonymous".
type Store struct {
	api     AuthAPI
	storage Storage
	tokens  TokenSink

	mu          sync.RWMutex
	user        *models.AuthUser
	token       string
	initialized bool
	onClear     []func()
}

func NewStore(api AuthAPI, storage Storage, tokens TokenSink) *Store {
	return &Store{
		api:     api,
		storage: storage,
		tokens:  tokens,
	}
}

// OnClear registers a hook invoked after every transition to anonymous, so
// dependents can discard user-scoped cached data. Register before Hydrate.
func (s *Store) OnClear(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onClear = append(s.onClear, fn)
}

// Hydrate loads the persisted session, if any. A corrupt record is discarded
// and the store comes up anonymous. Either way the store ends initialized.
func (s *Store) Hydrate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	defer func() { s.initialized = true }()

	data, ok, err := s.storage.Load()
	if err != nil {
		log.Warn().Err(err).Msg("failed to load persisted session")
		return
	}
	if !ok {
		return
	}

	var record Record
	if err := json.Unmarshal(data, &record); err != nil || record.Token == "" {
		log.Warn().Err(err).Msg("discarding corrupt persisted session")
		if err := s.storage.Delete(); err != nil {
			log.Warn().Err(err).Msg("failed to delete corrupt session record")
		}
		return
	}

	s.user = &record.User
	s.token = record.Token
	s.tokens.Set(record.Token)
	log.Debug().Str("email", record.User.Email).Msg("session hydrated")
}

// Login authenticates against the remote endpoint. On failure the store is
// left untouched and the error propagates; nothing is persisted partially.
func (s *Store) Login(ctx context.Context, credentials models.AuthCredentials) (*models.AuthUser, error) {
	response, err := s.api.Login(ctx, credentials)
	if err != nil {
		return nil, err
	}
	return s.persist(response), nil
}

// Signup registers and authenticates in one step, with login semantics.
func (s *Store) Signup(ctx context.Context, credentials models.AuthCredentials) (*models.AuthUser, error) {
	response, err := s.api.Signup(ctx, credentials)
	if err != nil {
		return nil, err
	}
	return s.persist(response), nil
}

// Logout clears the persisted credential and signals dependents.
func (s *Store) Logout() {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.tokens.Clear()
	if err := s.storage.Delete(); err != nil {
		log.Warn().Err(err).Msg("failed to delete persisted session")
	}
	hooks := make([]func(), len(s.onClear))
	copy(hooks, s.onClear)
	s.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
	log.Info().Msg("logged out")
}

// User returns the authenticated user, or nil when anonymous.
func (s *Store) User() *models.AuthUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	user := *s.user
	return &user
}

// Token returns the current bearer credential, empty when anonymous.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

func (s *Store) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

func (s *Store) persist(response *models.AuthResponse) *models.AuthUser {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := response.User
	s.user = &user
	s.token = response.Token.AccessToken
	// Token sink first: a dependent request fired right after Login returns
	// must carry the new credential.
	s.tokens.Set(response.Token.AccessToken)

	record, err := json.Marshal(Record{Token: response.Token.AccessToken, User: user})
	if err == nil {
		err = s.storage.Save(record)
	}
	if err != nil {
		// The in-memory session stays valid; only persistence across
		// restarts is lost.
		log.Warn().Err(err).Msg("failed to persist session")
	}

	log.Info().Str("email", user.Email).Msg("session established")
	return &user
}
