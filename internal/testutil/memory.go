package testutil

import (
	"bytes"
	"context"
	"io"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/dtroode/pinmap-server/internal/model"
)

// MemoryUserStore is an in-memory model.UserStore.
type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[uuid.UUID]model.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[uuid.UUID]model.User)}
}

func (s *MemoryUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, model.ErrNotFound
}

func (s *MemoryUserStore) GetByID(_ context.Context, id uuid.UUID) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return u, nil
}

func (s *MemoryUserStore) Create(_ context.Context, user model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return model.User{}, model.ErrAlreadyExists
		}
	}
	s.users[user.ID] = user
	return user, nil
}

// MemoryPinStore is an in-memory model.PinStore that resolves owner emails
// through users.
type MemoryPinStore struct {
	mu    sync.RWMutex
	pins  map[uuid.UUID]model.Pin
	users model.UserStore
}

func NewMemoryPinStore(users model.UserStore) *MemoryPinStore {
	return &MemoryPinStore{pins: make(map[uuid.UUID]model.Pin), users: users}
}

func (s *MemoryPinStore) Create(ctx context.Context, pin model.Pin) (model.Pin, error) {
	s.mu.Lock()
	s.pins[pin.ID] = pin
	s.mu.Unlock()

	return s.GetByID(ctx, pin.ID)
}

func (s *MemoryPinStore) GetByID(ctx context.Context, id uuid.UUID) (model.Pin, error) {
	s.mu.RLock()
	pin, ok := s.pins[id]
	s.mu.RUnlock()
	if !ok {
		return model.Pin{}, model.ErrNotFound
	}
	return s.withOwner(ctx, pin)
}

func (s *MemoryPinStore) List(ctx context.Context) ([]model.Pin, error) {
	s.mu.RLock()
	pins := make([]model.Pin, 0, len(s.pins))
	for _, p := range s.pins {
		pins = append(pins, p)
	}
	s.mu.RUnlock()

	slices.SortFunc(pins, func(a, b model.Pin) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return bytes.Compare(b.ID[:], a.ID[:])
	})

	for i := range pins {
		p, err := s.withOwner(ctx, pins[i])
		if err != nil {
			return nil, err
		}
		pins[i] = p
	}
	return pins, nil
}

func (s *MemoryPinStore) Update(ctx context.Context, pin model.Pin) (model.Pin, error) {
	s.mu.Lock()
	stored, ok := s.pins[pin.ID]
	if !ok {
		s.mu.Unlock()
		return model.Pin{}, model.ErrNotFound
	}
	stored.Title = pin.Title
	stored.Description = pin.Description
	stored.ImageURL = pin.ImageURL
	stored.UpdatedAt = pin.UpdatedAt
	s.pins[pin.ID] = stored
	s.mu.Unlock()

	return s.GetByID(ctx, pin.ID)
}

func (s *MemoryPinStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pins[id]; !ok {
		return model.ErrNotFound
	}
	delete(s.pins, id)
	return nil
}

func (s *MemoryPinStore) withOwner(ctx context.Context, pin model.Pin) (model.Pin, error) {
	owner, err := s.users.GetByID(ctx, pin.OwnerID)
	if err != nil {
		return model.Pin{}, err
	}
	pin.OwnerEmail = owner.Email
	return pin, nil
}

// MemoryStorage is an in-memory model.Storage.
type MemoryStorage struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{objects: make(map[string][]byte)}
}

func (s *MemoryStorage) Upload(_ context.Context, key string, reader io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return nil
}

func (s *MemoryStorage) Download(_ context.Context, key string) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.objects[key]
	if !ok {
		return nil, model.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *MemoryStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.objects, key)
	return nil
}

// Keys returns the stored object keys.
func (s *MemoryStorage) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.objects))
	for k := range s.objects {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// MemoryPinCache is an in-memory model.PinCache with the same generation
// semantics as the Redis cache.
type MemoryPinCache struct {
	mu         sync.Mutex
	generation int64
	pins       []model.Pin
	cached     bool
}

func NewMemoryPinCache() *MemoryPinCache {
	return &MemoryPinCache{}
}

func (c *MemoryPinCache) GetPins(context.Context) ([]model.Pin, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.cached {
		return nil, false, nil
	}
	return slices.Clone(c.pins), true, nil
}

func (c *MemoryPinCache) Generation(context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.generation, nil
}

func (c *MemoryPinCache) SetPins(_ context.Context, generation int64, pins []model.Pin) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if generation != c.generation {
		return nil
	}
	c.pins = slices.Clone(pins)
	c.cached = true
	return nil
}

func (c *MemoryPinCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.pins = nil
	c.cached = false
	return nil
}
