package services

import (
	"context"
	"sync"

	"github.com/harentsoaR/contacts-api/internal/models"
	"github.com/harentsoaR/contacts-api/internal/storage"
)

type memStore struct {
	mu       sync.Mutex
	users    []models.User
	contacts []models.Contact
}

func (s *memStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			u2 := u
			return &u2, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *memStore) CreateUser(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.users))
	for _, existing := range s.users {
		if existing.Username == u.Username {
			return storage.ErrDuplicate
		}
		ids = append(ids, existing.ID)
	}
	u.ID = storage.NextID(ids)
	s.users = append(s.users, *u)
	return nil
}

func (s *memStore) ListContacts(ctx context.Context, userID string) ([]models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Contact
	for _, c := range s.contacts {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *memStore) GetContact(ctx context.Context, userID, id string) (*models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.contacts {
		if c.ID == id && c.UserID == userID {
			c2 := c
			return &c2, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *memStore) CreateContact(ctx context.Context, c *models.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.contacts))
	for _, existing := range s.contacts {
		ids = append(ids, existing.ID)
	}
	c.ID = storage.NextID(ids)
	s.contacts = append(s.contacts, *c)
	return nil
}

func (s *memStore) PutContact(ctx context.Context, c *models.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.contacts {
		if existing.ID == c.ID && existing.UserID == c.UserID {
			s.contacts[i] = *c
			return nil
		}
	}
	return storage.ErrNotFound
}

func (s *memStore) DeleteContact(ctx context.Context, userID, id string) (*models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.contacts {
		if c.ID == id && c.UserID == userID {
			s.contacts = append(s.contacts[:i], s.contacts[i+1:]...)
			return &c, nil
		}
	}
	return nil, storage.ErrNotFound
}

type recordingRemover struct {
	removed []string
	err     error
}

func (r *recordingRemover) Remove(name string) error {
	r.removed = append(r.removed, name)
	return r.err
}
