// Package storage defines the persistence contract used by the services.
// Backends live in sub-packages and can be swapped without touching the
// service layer.
package storage

import (
	"context"
	"errors"
	"strconv"

	"github.com/harentsoaR/contacts-api/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// UserStore persists registered users.
type UserStore interface {
	// GetUserByUsername returns ErrNotFound when no user has that username.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	// CreateUser assigns the next sequential ID to u and stores it.
	// It returns ErrDuplicate if the username is already taken.
	CreateUser(ctx context.Context, u *models.User) error
}

// ContactStore persists contacts. Every lookup is scoped to an owner.
type ContactStore interface {
	ListContacts(ctx context.Context, userID string) ([]models.Contact, error)
	GetContact(ctx context.Context, userID, id string) (*models.Contact, error)
	// CreateContact assigns the next sequential ID to c and stores it.
	CreateContact(ctx context.Context, c *models.Contact) error
	// PutContact replaces the contact matching c.ID and c.UserID.
	PutContact(ctx context.Context, c *models.Contact) error
	// DeleteContact removes the matching contact and returns what was removed.
	DeleteContact(ctx context.Context, userID, id string) (*models.Contact, error)
}

// Store bundles both collections.
type Store interface {
	UserStore
	ContactStore
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// NextID returns the maximum numeric id plus one, formatted as a string.
// Ids that do not parse as integers are ignored.
func NextID(ids []string) string {
	var highest int64
	for _, id := range ids {
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return strconv.FormatInt(highest+1, 10)
}
