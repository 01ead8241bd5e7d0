package handlers

import (
	"context"

	"github.com/harentsoaR/contacts-api/internal/services"
	"github.com/harentsoaR/contacts-api/internal/uploads"
)

// Pinger reports whether the storage backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds the services the HTTP surface dispatches to.
type Handler struct {
	Identity *services.IdentityService
	Contacts *services.ContactService
	Uploads  *uploads.Store
	Storage  Pinger
}

func NewHandler(identity *services.IdentityService, contacts *services.ContactService, uploadStore *uploads.Store, storage Pinger) *Handler {
	return &Handler{
		Identity: identity,
		Contacts: contacts,
		Uploads:  uploadStore,
		Storage:  storage,
	}
}
