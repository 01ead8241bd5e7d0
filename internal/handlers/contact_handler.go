package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/contacts-api/internal/middleware"
	"github.com/harentsoaR/contacts-api/internal/services"
	"github.com/harentsoaR/contacts-api/internal/uploads"
)

// --- CREATE CONTACT (multipart: name, email, phone, photo?) ---
func (h *Handler) CreateContact(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Access Denied"})
		return
	}

	photo, err := h.savePhoto(c)
	if err != nil {
		respondError(c, err)
		return
	}

	contact, err := h.Contacts.Create(c.Request.Context(), user.ID, contactInput(c, photo))
	if err != nil {
		h.discardPhoto(photo)
		respondError(c, err)
		return
	}
	log.Printf("CreateContact: contact %s created for user %s", contact.ID, user.ID)

	c.JSON(http.StatusCreated, gin.H{"message": "Contact created successfully!", "contact": contact})
}

// --- LIST CONTACTS (caller's own, storage order) ---
func (h *Handler) GetContacts(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Access Denied"})
		return
	}

	contacts, err := h.Contacts.List(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contacts)
}

func (h *Handler) GetContact(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Access Denied"})
		return
	}

	contact, err := h.Contacts.Get(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contact)
}

// --- UPDATE CONTACT (photo kept unless a new one is uploaded) ---
func (h *Handler) UpdateContact(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Access Denied"})
		return
	}

	photo, err := h.savePhoto(c)
	if err != nil {
		respondError(c, err)
		return
	}

	contact, err := h.Contacts.Update(c.Request.Context(), user.ID, c.Param("id"), contactInput(c, photo))
	if err != nil {
		h.discardPhoto(photo)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Contact updated successfully!", "contact": contact})
}

func (h *Handler) DeleteContact(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Access Denied"})
		return
	}

	id := c.Param("id")
	log.Printf("DeleteContact: request to delete contact %s", id)
	if err := h.Contacts.Delete(c.Request.Context(), user.ID, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Contact deleted successfully!"})
}

func contactInput(c *gin.Context, photo *string) services.ContactInput {
	return services.ContactInput{
		Name:  c.PostForm("name"),
		Email: c.PostForm("email"),
		Phone: c.PostForm("phone"),
		Photo: photo,
	}
}

// savePhoto stores the single optional file sent under the photo field.
// Non-multipart bodies simply carry no photo.
func (h *Handler) savePhoto(c *gin.Context) (*string, error) {
	form, err := c.MultipartForm()
	if errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, &services.ValidationError{Message: "Invalid multipart body"}
	}

	files := form.File[uploads.FieldName]
	switch len(files) {
	case 0:
		return nil, nil
	case 1:
	default:
		return nil, &services.ValidationError{Message: "Only one photo may be uploaded"}
	}

	name, err := h.Uploads.Save(files[0])
	if err != nil {
		return nil, err
	}
	return &name, nil
}

// discardPhoto removes a photo stored for a request that then failed.
func (h *Handler) discardPhoto(photo *string) {
	if photo == nil {
		return
	}
	if err := h.Uploads.Remove(*photo); err != nil {
		log.Printf("Error discarding photo file %s: %v", *photo, err)
	}
}
