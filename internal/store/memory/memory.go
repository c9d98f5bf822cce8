// Package memory provides an in-memory Store used by the memory backend and
// as a test double.
package memory

import (
	"context"
	"sort"
	"sync"

	"outgo/internal/core"
	"outgo/internal/store"
)

type Store struct {
	mu sync.RWMutex

	activities map[int64]core.Activity
	users      map[int64]core.User
	categories map[string]struct{}
	// method name -> owning user id, 0 for shared
	methods map[string]int64

	nextActivityID int64
	nextUserID     int64
}

func NewStore() *Store {
	return &Store{
		activities:     make(map[int64]core.Activity),
		users:          make(map[int64]core.User),
		categories:     make(map[string]struct{}),
		methods:        make(map[string]int64),
		nextActivityID: 1,
		nextUserID:     1,
	}
}

func (s *Store) ListActivities(_ context.Context, userID int64) ([]core.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []core.Activity
	for _, a := range s.activities {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.After(out[j].Date.Time)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) GetActivity(_ context.Context, id int64) (core.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.activities[id]
	if !ok {
		return core.Activity{}, store.ErrNotFound
	}
	return a, nil
}

func (s *Store) InsertActivity(_ context.Context, a core.Activity) (core.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a.ID = s.nextActivityID
	s.nextActivityID++
	s.activities[a.ID] = a
	return a, nil
}

func (s *Store) UpdateActivity(_ context.Context, a core.Activity) (core.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.activities[a.ID]
	if !ok || existing.UserID != a.UserID {
		return core.Activity{}, store.ErrNotFound
	}
	s.activities[a.ID] = a
	return a, nil
}

func (s *Store) DeleteActivity(_ context.Context, id, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.activities[id]
	if !ok || existing.UserID != userID {
		return store.ErrNotFound
	}
	delete(s.activities, id)
	return nil
}

func (s *Store) UserByEmail(_ context.Context, email string) (core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return core.User{}, store.ErrNotFound
}

func (s *Store) UserByName(_ context.Context, name string) (core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Name == name {
			return u, nil
		}
	}
	return core.User{}, store.ErrNotFound
}

func (s *Store) InsertUser(_ context.Context, u core.User) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u.ID = s.nextUserID
	s.nextUserID++
	s.users[u.ID] = u
	return u, nil
}

func (s *Store) ListCategories(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.categories))
	for name := range s.categories {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

func (s *Store) ListPaymentMethods(_ context.Context, userID int64) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []string
	for name, owner := range s.methods {
		if owner == 0 || owner == userID {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *Store) UpsertCategory(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.categories[name] = struct{}{}
	return nil
}

func (s *Store) UpsertPaymentMethod(_ context.Context, name string, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.methods[name]; !ok {
		s.methods[name] = userID
	}
	return nil
}
