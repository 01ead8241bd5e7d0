package handlers

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the public auth routes, the protected contact
// routes and the static photo directory.
func (h *Handler) RegisterRoutes(r *gin.Engine, auth gin.HandlerFunc) {
	r.GET("/healthz", h.Health)
	r.Static("/uploads", h.Uploads.Dir())

	authRoutes := r.Group("/api/auth")
	{
		authRoutes.POST("/signup", h.Signup)
		authRoutes.POST("/login", h.Login)
	}

	contactRoutes := r.Group("/api/contacts")
	contactRoutes.Use(auth)
	{
		contactRoutes.POST("", h.CreateContact)
		contactRoutes.GET("", h.GetContacts)
		contactRoutes.GET("/:id", h.GetContact)
		contactRoutes.PUT("/:id", h.UpdateContact)
		contactRoutes.DELETE("/:id", h.DeleteContact)
	}
}
