// Package jsonfile stores each collection as a single JSON array on disk.
// Every operation reads the whole file, mutates it in memory and writes the
// whole file back. A mutex per collection serialises writers in-process.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/harentsoaR/contacts-api/internal/models"
	"github.com/harentsoaR/contacts-api/internal/storage"
)

const (
	usersFile    = "users.json"
	contactsFile = "contacts.json"
)

type Store struct {
	dir        string
	usersMu    sync.Mutex
	contactsMu sync.Mutex
}

var _ storage.Store = (*Store)(nil)

// New returns a store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	users, err := readCollection[models.User](s.path(usersFile))
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Username == username {
			return &users[i], nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	users, err := readCollection[models.User](s.path(usersFile))
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(users))
	for _, existing := range users {
		if existing.Username == u.Username {
			return storage.ErrDuplicate
		}
		ids = append(ids, existing.ID)
	}
	u.ID = storage.NextID(ids)
	users = append(users, *u)
	return writeCollection(s.path(usersFile), users)
}

func (s *Store) ListContacts(ctx context.Context, userID string) ([]models.Contact, error) {
	s.contactsMu.Lock()
	defer s.contactsMu.Unlock()

	contacts, err := readCollection[models.Contact](s.path(contactsFile))
	if err != nil {
		return nil, err
	}
	owned := make([]models.Contact, 0)
	for _, c := range contacts {
		if c.UserID == userID {
			owned = append(owned, c)
		}
	}
	return owned, nil
}

func (s *Store) GetContact(ctx context.Context, userID, id string) (*models.Contact, error) {
	s.contactsMu.Lock()
	defer s.contactsMu.Unlock()

	contacts, err := readCollection[models.Contact](s.path(contactsFile))
	if err != nil {
		return nil, err
	}
	i := indexOf(contacts, userID, id)
	if i < 0 {
		return nil, storage.ErrNotFound
	}
	return &contacts[i], nil
}

func (s *Store) CreateContact(ctx context.Context, c *models.Contact) error {
	s.contactsMu.Lock()
	defer s.contactsMu.Unlock()

	contacts, err := readCollection[models.Contact](s.path(contactsFile))
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(contacts))
	for _, existing := range contacts {
		ids = append(ids, existing.ID)
	}
	c.ID = storage.NextID(ids)
	contacts = append(contacts, *c)
	return writeCollection(s.path(contactsFile), contacts)
}

func (s *Store) PutContact(ctx context.Context, c *models.Contact) error {
	s.contactsMu.Lock()
	defer s.contactsMu.Unlock()

	contacts, err := readCollection[models.Contact](s.path(contactsFile))
	if err != nil {
		return err
	}
	i := indexOf(contacts, c.UserID, c.ID)
	if i < 0 {
		return storage.ErrNotFound
	}
	contacts[i] = *c
	return writeCollection(s.path(contactsFile), contacts)
}

func (s *Store) DeleteContact(ctx context.Context, userID, id string) (*models.Contact, error) {
	s.contactsMu.Lock()
	defer s.contactsMu.Unlock()

	contacts, err := readCollection[models.Contact](s.path(contactsFile))
	if err != nil {
		return nil, err
	}
	i := indexOf(contacts, userID, id)
	if i < 0 {
		return nil, storage.ErrNotFound
	}
	removed := contacts[i]
	contacts = append(contacts[:i], contacts[i+1:]...)
	if err := writeCollection(s.path(contactsFile), contacts); err != nil {
		return nil, err
	}
	return &removed, nil
}

// Ping checks that the data directory is still reachable.
func (s *Store) Ping(ctx context.Context) error {
	if _, err := os.Stat(s.dir); err != nil {
		return fmt.Errorf("stat data dir: %w", err)
	}
	return nil
}

func (s *Store) Close(ctx context.Context) error { return nil }

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

func indexOf(contacts []models.Contact, userID, id string) int {
	for i, c := range contacts {
		if c.ID == id && c.UserID == userID {
			return i
		}
	}
	return -1
}

// readCollection treats a missing or empty file as an empty collection.
func readCollection[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if len(data) == 0 {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// writeCollection replaces the file atomically via a temp file and rename.
func writeCollection[T any](path string, items []T) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
