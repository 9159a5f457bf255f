package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bookshare/internal/httpapi/dto"
	"bookshare/internal/httpapi/models"
	"bookshare/internal/httpapi/service"
)

const requestTimeout = 5 * time.Second

// genericError is what callers see for unexpected store failures; internals
// are logged, never leaked.
const genericError = "error processing request"

type BookHandler struct {
	svc service.CatalogService
}

func NewBookHandler(svc service.CatalogService) *BookHandler {
	return &BookHandler{svc: svc}
}

func (h *BookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/books", h.List)
	rg.POST("/books", h.Create)
}

func (h *BookHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	search := c.Query("search")
	status := c.Query("status")

	list, err := h.svc.List(ctx, search, status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": genericError})
		return
	}

	resp := make([]dto.BookResponse, 0, len(list))
	for _, b := range list {
		resp = append(resp, dto.FromModelToBookResponse(b))
	}

	c.JSON(http.StatusOK, resp)
}

func (h *BookHandler) Create(c *gin.Context) {
	var req dto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Title == "" || req.Author == "" || req.OwnerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	book := &models.Book{
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		CoverImage:  req.CoverImage,
		OwnerID:     req.OwnerID,
	}

	created, err := h.svc.Donate(ctx, book)
	if err != nil {
		if err == service.ErrUserNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": service.ErrUserNotFound.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": genericError})
		return
	}

	c.JSON(http.StatusCreated, dto.FromModelToBookResponse(*created))
}
