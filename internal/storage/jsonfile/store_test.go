package jsonfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/harentsoaR/contacts-api/internal/models"
	"github.com/harentsoaR/contacts-api/internal/storage"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "data"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestCreateContactSequentialIDs(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	for i, want := range []string{"1", "2", "3"} {
		c := &models.Contact{UserID: "1", Name: "c", Email: "c@x.com", Phone: "1234567890"}
		if err := s.CreateContact(ctx, c); err != nil {
			t.Fatalf("CreateContact #%d: %v", i, err)
		}
		if c.ID != want {
			t.Errorf("contact #%d id = %q, want %q", i, c.ID, want)
		}
	}
}

func TestCreateUserRejectsDuplicateUsername(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	if err := s.CreateUser(ctx, &models.User{Username: "alice", Email: "a@x.com", PasswordHash: "h"}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	err := s.CreateUser(ctx, &models.User{Username: "alice", Email: "b@x.com", PasswordHash: "h"})
	if !errors.Is(err, storage.ErrDuplicate) {
		t.Fatalf("second CreateUser err = %v, want ErrDuplicate", err)
	}

	u, err := s.GetUserByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if u.ID != "1" || u.Email != "a@x.com" {
		t.Errorf("got %+v", u)
	}
	if _, err := s.GetUserByUsername(ctx, "bob"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("unknown user err = %v, want ErrNotFound", err)
	}
}

func TestContactsAreOwnerScoped(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	a := &models.Contact{UserID: "1", Name: "mine"}
	b := &models.Contact{UserID: "2", Name: "theirs"}
	for _, c := range []*models.Contact{a, b} {
		if err := s.CreateContact(ctx, c); err != nil {
			t.Fatalf("CreateContact: %v", err)
		}
	}

	list, err := s.ListContacts(ctx, "1")
	if err != nil {
		t.Fatalf("ListContacts: %v", err)
	}
	if len(list) != 1 || list[0].Name != "mine" {
		t.Fatalf("ListContacts = %+v", list)
	}
	if _, err := s.GetContact(ctx, "1", b.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetContact other owner err = %v, want ErrNotFound", err)
	}
	if err := s.PutContact(ctx, &models.Contact{ID: b.ID, UserID: "1", Name: "stolen"}); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("PutContact other owner err = %v, want ErrNotFound", err)
	}
	if _, err := s.DeleteContact(ctx, "1", b.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("DeleteContact other owner err = %v, want ErrNotFound", err)
	}

	empty, err := s.ListContacts(ctx, "99")
	if err != nil {
		t.Fatalf("ListContacts: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("ListContacts for stranger = %#v, want empty non-nil slice", empty)
	}
}

func TestPutAndDeleteContact(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	c := &models.Contact{UserID: "1", Name: "before", Phone: "1234567890"}
	if err := s.CreateContact(ctx, c); err != nil {
		t.Fatalf("CreateContact: %v", err)
	}
	c.Name = "after"
	if err := s.PutContact(ctx, c); err != nil {
		t.Fatalf("PutContact: %v", err)
	}
	got, err := s.GetContact(ctx, "1", c.ID)
	if err != nil {
		t.Fatalf("GetContact: %v", err)
	}
	if got.Name != "after" {
		t.Errorf("name = %q, want after", got.Name)
	}

	removed, err := s.DeleteContact(ctx, "1", c.ID)
	if err != nil {
		t.Fatalf("DeleteContact: %v", err)
	}
	if removed.Name != "after" {
		t.Errorf("removed = %+v", removed)
	}
	if _, err := s.GetContact(ctx, "1", c.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetContact after delete err = %v, want ErrNotFound", err)
	}
}

func TestDataSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	photo := "123.png"
	if err := s.CreateContact(ctx, &models.Contact{UserID: "1", Name: "kept", Photo: &photo}); err != nil {
		t.Fatalf("CreateContact: %v", err)
	}

	reopened, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := reopened.GetContact(ctx, "1", "1")
	if err != nil {
		t.Fatalf("GetContact: %v", err)
	}
	if got.Name != "kept" || got.PhotoName() != "123.png" {
		t.Errorf("got %+v", got)
	}
}

func TestReadsLegacyFiles(t *testing.T) {
	dir := t.TempDir()
	legacy := `[{"id":"4","username":"old","password":"hash","email":"o@x.com"}]`
	if err := os.WriteFile(filepath.Join(dir, usersFile), []byte(legacy), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()

	u, err := s.GetUserByUsername(ctx, "old")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if u.PasswordHash != "hash" {
		t.Errorf("PasswordHash = %q", u.PasswordHash)
	}

	next := &models.User{Username: "new"}
	if err := s.CreateUser(ctx, next); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if next.ID != "5" {
		t.Errorf("next id = %q, want 5", next.ID)
	}
}

func TestConcurrentCreatesGetDistinctIDs(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.CreateContact(ctx, &models.Contact{UserID: "1"}); err != nil {
				t.Errorf("CreateContact: %v", err)
			}
		}()
	}
	wg.Wait()

	list, err := s.ListContacts(ctx, "1")
	if err != nil {
		t.Fatalf("ListContacts: %v", err)
	}
	if len(list) != n {
		t.Fatalf("len = %d, want %d", len(list), n)
	}
	seen := make(map[string]bool)
	for _, c := range list {
		if seen[c.ID] {
			t.Errorf("duplicate id %q", c.ID)
		}
		seen[c.ID] = true
	}
}
