package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookshare/internal/httpapi/dto"
	"bookshare/internal/httpapi/service"
)

type RatingHandler struct {
	svc service.RatingService
}

func NewRatingHandler(svc service.RatingService) *RatingHandler {
	return &RatingHandler{svc: svc}
}

func (h *RatingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/ratings", h.Create)
	rg.GET("/users/:user_id/ratings", h.ListForUser)
}

func (h *RatingHandler) Create(c *gin.Context) {
	var req dto.RateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.RaterID == "" || req.RatedID == "" || req.Score == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}
	if req.Score < 1 || req.Score > 5 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "score must be between 1 and 5"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	rating, err := h.svc.RateUser(ctx, req.RaterID, req.RatedID, req.Score, req.Comment)
	if err != nil {
		switch err {
		case service.ErrUserNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case service.ErrSelfRating:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": genericError})
		}
		return
	}

	c.JSON(http.StatusCreated, rating)
}

func (h *RatingHandler) ListForUser(c *gin.Context) {
	userID := c.Param("user_id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	list, err := h.svc.ListForUser(ctx, userID)
	if err != nil {
		if err == service.ErrUserNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": genericError})
		return
	}

	c.JSON(http.StatusOK, list)
}
