package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/harentsoaR/contacts-api/internal/models"
	"github.com/harentsoaR/contacts-api/internal/storage"
)

// ContactInput is the writable part of a contact. Photo is the stored
// filename of a newly uploaded photo, or nil when none was sent.
type ContactInput struct {
	Name  string  `json:"name" validate:"required"`
	Email string  `json:"email" validate:"required,email"`
	Phone string  `json:"phone" validate:"required,phone10"`
	Photo *string `json:"photo" validate:"-"`
}

// PhotoRemover deletes a stored photo by filename.
type PhotoRemover interface {
	Remove(name string) error
}

// ContactService is the owner-scoped CRUD over contacts.
type ContactService struct {
	contacts storage.ContactStore
	photos   PhotoRemover
}

func NewContactService(contacts storage.ContactStore, photos PhotoRemover) *ContactService {
	return &ContactService{contacts: contacts, photos: photos}
}

func (s *ContactService) Create(ctx context.Context, ownerID string, in ContactInput) (*models.Contact, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	contact := &models.Contact{
		UserID: ownerID,
		Name:   in.Name,
		Email:  in.Email,
		Phone:  in.Phone,
		Photo:  in.Photo,
	}
	if err := s.contacts.CreateContact(ctx, contact); err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}
	return contact, nil
}

func (s *ContactService) List(ctx context.Context, ownerID string) ([]models.Contact, error) {
	contacts, err := s.contacts.ListContacts(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	if contacts == nil {
		contacts = make([]models.Contact, 0)
	}
	return contacts, nil
}

// Get does not distinguish a foreign contact from a missing one.
func (s *ContactService) Get(ctx context.Context, ownerID, id string) (*models.Contact, error) {
	contact, err := s.contacts.GetContact(ctx, ownerID, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrContactNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return contact, nil
}

// Update replaces name, email and phone. The photo is only replaced when
// in.Photo is set; the previous file is then removed.
func (s *ContactService) Update(ctx context.Context, ownerID, id string, in ContactInput) (*models.Contact, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	contact, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	previousPhoto := contact.PhotoName()

	contact.Name = in.Name
	contact.Email = in.Email
	contact.Phone = in.Phone
	if in.Photo != nil {
		contact.Photo = in.Photo
	}

	if err := s.contacts.PutContact(ctx, contact); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("update contact: %w", err)
	}

	if in.Photo != nil && previousPhoto != "" && previousPhoto != *in.Photo {
		s.removePhoto(previousPhoto)
	}
	return contact, nil
}

// Delete removes the contact and then its photo. A failed file removal is
// logged and does not fail the call.
func (s *ContactService) Delete(ctx context.Context, ownerID, id string) error {
	removed, err := s.contacts.DeleteContact(ctx, ownerID, id)
	if errors.Is(err, storage.ErrNotFound) {
		log.Printf("Delete: contact %s not found or does not belong to user %s", id, ownerID)
		return ErrContactNotFound
	}
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}

	if name := removed.PhotoName(); name != "" {
		s.removePhoto(name)
	}
	return nil
}

func (s *ContactService) removePhoto(name string) {
	if s.photos == nil {
		return
	}
	if err := s.photos.Remove(name); err != nil {
		log.Printf("Error deleting photo file %s: %v", name, err)
	}
}
