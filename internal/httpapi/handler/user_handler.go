package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookshare/internal/httpapi/dto"
	"bookshare/internal/httpapi/service"
)

type UserHandler struct {
	svc service.UserService
}

func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/users", h.Get)
	rg.POST("/users", h.Create)
}

// Get serves the profile aggregate for ?id=<user id>.
func (h *UserHandler) Get(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	aggregate, err := h.svc.Aggregate(ctx, id)
	if err != nil {
		if err == service.ErrUserNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": genericError})
		return
	}

	c.JSON(http.StatusOK, aggregate)
}

func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	user, err := h.svc.Register(ctx, req.Name, req.Email, req.Password, req.Avatar)
	if err != nil {
		if err == service.ErrEmailInUse {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": genericError})
		return
	}

	// The model excludes the password hash from JSON.
	c.JSON(http.StatusCreated, user)
}
