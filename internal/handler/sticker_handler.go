package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/EnrikeM/Miro/internal/authz"
	"github.com/EnrikeM/Miro/internal/middleware"
	"github.com/EnrikeM/Miro/internal/model"
	"github.com/EnrikeM/Miro/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// StickerRepo is the sticker store surface used by the handler.
type StickerRepo interface {
	Create(ctx context.Context, boardID, userID uuid.UUID, input repository.StickerInput) (*model.Sticker, error)
	GetByID(ctx context.Context, stickerID, userID uuid.UUID) (*model.Sticker, error)
	Update(ctx context.Context, stickerID, userID uuid.UUID, input repository.StickerInput) (*model.Sticker, error)
	Delete(ctx context.Context, stickerID, userID uuid.UUID) error
	ListByBoard(ctx context.Context, boardID, userID uuid.UUID) ([]model.Sticker, error)
}

type StickerHandler struct {
	stickerRepo StickerRepo
}

func NewStickerHandler(stickerRepo StickerRepo) *StickerHandler {
	return &StickerHandler{stickerRepo: stickerRepo}
}

type CreateStickerRequest struct {
	BoardID string `json:"board_id" binding:"required"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Width   int    `json:"width" binding:"required,gt=0"`
	Height  int    `json:"height" binding:"required,gt=0"`
	Text    string `json:"text"`
	Color   string `json:"color" binding:"required"`
}

// UpdateStickerRequest заменяет геометрию, текст и цвет целиком.
type UpdateStickerRequest struct {
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width" binding:"required,gt=0"`
	Height int    `json:"height" binding:"required,gt=0"`
	Text   string `json:"text"`
	Color  string `json:"color" binding:"required"`
}

type StickerResponse struct {
	ID      string `json:"id"`
	BoardID string `json:"board_id"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Text    string `json:"text"`
	Color   string `json:"color"`
}

func stickerResponse(s *model.Sticker) StickerResponse {
	return StickerResponse{
		ID:      s.ID.String(),
		BoardID: s.BoardID.String(),
		X:       s.X,
		Y:       s.Y,
		Width:   s.Width,
		Height:  s.Height,
		Text:    s.Text,
		Color:   s.Color,
	}
}

// Create adds a sticker to a board
// @Summary      Create a sticker
// @Tags         Stickers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateStickerRequest true "Sticker data"
// @Success      201 {object} StickerResponse
// @Failure      403 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /stickers [post]
func (h *StickerHandler) Create(c *gin.Context) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	authenticatedUserID, ok := userID.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
		return
	}

	var req CreateStickerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	boardID, err := uuid.Parse(req.BoardID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid board ID format"})
		return
	}

	sticker, err := h.stickerRepo.Create(c.Request.Context(), boardID, authenticatedUserID, repository.StickerInput{
		X:      req.X,
		Y:      req.Y,
		Width:  req.Width,
		Height: req.Height,
		Text:   req.Text,
		Color:  req.Color,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrBoardNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		case errors.Is(err, authz.ErrNotMember), errors.Is(err, authz.ErrInsufficientRole):
			c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to edit this board"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create sticker"})
		}
		return
	}

	c.JSON(http.StatusCreated, stickerResponse(sticker))
}

// GetByID returns a single sticker
// @Summary      Get a sticker
// @Tags         Stickers
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Sticker ID"
// @Success      200 {object} StickerResponse
// @Failure      403 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /stickers/{id} [get]
func (h *StickerHandler) GetByID(c *gin.Context) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	authenticatedUserID, ok := userID.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
		return
	}

	stickerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sticker ID format"})
		return
	}

	sticker, err := h.stickerRepo.GetByID(c.Request.Context(), stickerID, authenticatedUserID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrStickerNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Sticker not found"})
		case errors.Is(err, authz.ErrNotMember):
			c.JSON(http.StatusForbidden, gin.H{"error": "You don't have access to this board"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve sticker"})
		}
		return
	}

	c.JSON(http.StatusOK, stickerResponse(sticker))
}

// Update replaces a sticker's geometry, text and color
// @Summary      Update a sticker
// @Tags         Stickers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Sticker ID"
// @Param        request body UpdateStickerRequest true "New sticker state"
// @Success      200 {object} StickerResponse
// @Failure      403 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /stickers/{id} [put]
func (h *StickerHandler) Update(c *gin.Context) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	authenticatedUserID, ok := userID.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
		return
	}

	stickerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sticker ID format"})
		return
	}

	var req UpdateStickerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	sticker, err := h.stickerRepo.Update(c.Request.Context(), stickerID, authenticatedUserID, repository.StickerInput{
		X:      req.X,
		Y:      req.Y,
		Width:  req.Width,
		Height: req.Height,
		Text:   req.Text,
		Color:  req.Color,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrStickerNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Sticker not found"})
		case errors.Is(err, authz.ErrNotMember), errors.Is(err, authz.ErrInsufficientRole):
			c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to edit this sticker"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update sticker"})
		}
		return
	}

	c.JSON(http.StatusOK, stickerResponse(sticker))
}

// Delete removes a sticker
// @Summary      Delete a sticker
// @Tags         Stickers
// @Security     BearerAuth
// @Param        id path string true "Sticker ID"
// @Success      204
// @Failure      403 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /stickers/{id} [delete]
func (h *StickerHandler) Delete(c *gin.Context) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	authenticatedUserID, ok := userID.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
		return
	}

	stickerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sticker ID format"})
		return
	}

	if err := h.stickerRepo.Delete(c.Request.Context(), stickerID, authenticatedUserID); err != nil {
		switch {
		case errors.Is(err, repository.ErrStickerNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Sticker not found"})
		case errors.Is(err, authz.ErrNotMember), errors.Is(err, authz.ErrInsufficientRole):
			c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to delete this sticker"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete sticker"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// GetByBoard lists the stickers of a board; non-members get an empty list
// @Summary      List board stickers
// @Tags         Stickers
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Board ID"
// @Success      200 {array} StickerResponse
// @Router       /boards/{id}/stickers [get]
func (h *StickerHandler) GetByBoard(c *gin.Context) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	authenticatedUserID, ok := userID.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
		return
	}

	boardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid board ID format"})
		return
	}

	stickers, err := h.stickerRepo.ListByBoard(c.Request.Context(), boardID, authenticatedUserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve stickers"})
		return
	}

	response := make([]StickerResponse, len(stickers))
	for i := range stickers {
		response[i] = stickerResponse(&stickers[i])
	}

	c.JSON(http.StatusOK, response)
}
