package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"bookshare/internal/httpapi/dto"
	"bookshare/internal/httpapi/service"
)

type BorrowHandler struct {
	svc service.LoanService
}

func NewBorrowHandler(svc service.LoanService) *BorrowHandler {
	return &BorrowHandler{svc: svc}
}

func (h *BorrowHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/borrow", h.Borrow)
	rg.POST("/borrowings/:borrowing_id/return", h.Return)
}

func (h *BorrowHandler) Borrow(c *gin.Context) {
	var req dto.BorrowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.BookID == "" || req.BorrowerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	borrowing, err := h.svc.Borrow(ctx, req.BookID, req.BorrowerID)
	if err != nil {
		switch err {
		case service.ErrBookNotFound, service.ErrUserNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case service.ErrBookNotAvailable, service.ErrInsufficientPoints, service.ErrOwnBook:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": genericError})
		}
		return
	}

	c.JSON(http.StatusCreated, borrowing)
}

func (h *BorrowHandler) Return(c *gin.Context) {
	borrowingID := c.Param("borrowing_id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	borrowing, err := h.svc.Return(ctx, borrowingID)
	if err != nil {
		switch err {
		case service.ErrBorrowingNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case service.ErrBorrowingNotActive:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": genericError})
		}
		return
	}

	c.JSON(http.StatusOK, borrowing)
}
