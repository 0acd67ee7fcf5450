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

// BoardRepo is the board registry surface used by the handler.
type BoardRepo interface {
	Create(ctx context.Context, name string, creatorID uuid.UUID) (*model.Board, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]model.Membership, error)
	GetWithRole(ctx context.Context, boardID, userID uuid.UUID) (*model.Board, model.Role, error)
	Rename(ctx context.Context, boardID, userID uuid.UUID, newName string) (*model.Board, model.Role, error)
	Delete(ctx context.Context, boardID, userID uuid.UUID) error
}

// BoardStickers is the slice of the sticker store needed to build the detail view.
type BoardStickers interface {
	ListByBoard(ctx context.Context, boardID, userID uuid.UUID) ([]model.Sticker, error)
}

type BoardHandler struct {
	boardRepo   BoardRepo
	stickerRepo BoardStickers
}

func NewBoardHandler(boardRepo BoardRepo, stickerRepo BoardStickers) *BoardHandler {
	return &BoardHandler{
		boardRepo:   boardRepo,
		stickerRepo: stickerRepo,
	}
}

type CreateBoardRequest struct {
	Name string `json:"name" binding:"required"`
}

type UpdateBoardRequest struct {
	Name string `json:"name" binding:"required"`
}

type BoardResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

type BoardFullResponse struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Role     string            `json:"role"`
	Stickers []StickerResponse `json:"stickers"`
}

// Create creates a new board owned by the authenticated user
// @Summary      Create a board
// @Tags         Boards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateBoardRequest true "Board data"
// @Success      201 {object} BoardFullResponse
// @Router       /boards [post]
func (h *BoardHandler) Create(c *gin.Context) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	creatorID, ok := userID.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
		return
	}

	var req CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	board, err := h.boardRepo.Create(c.Request.Context(), req.Name, creatorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create board"})
		return
	}

	// Создатель — всегда creator, доска пока пустая
	c.JSON(http.StatusCreated, BoardFullResponse{
		ID:       board.ID.String(),
		Name:     board.Name,
		Role:     string(model.RoleCreator),
		Stickers: []StickerResponse{},
	})
}

// GetAll lists every board where the user holds a membership
// @Summary      List my boards
// @Tags         Boards
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} BoardResponse
// @Router       /boards [get]
func (h *BoardHandler) GetAll(c *gin.Context) {
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

	memberships, err := h.boardRepo.ListForUser(c.Request.Context(), authenticatedUserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve boards"})
		return
	}

	response := make([]BoardResponse, len(memberships))
	for i, m := range memberships {
		response[i] = BoardResponse{
			ID:        m.Board.ID.String(),
			Name:      m.Board.Name,
			Role:      string(m.Role),
			CreatedAt: m.Board.CreatedAt.Format(http.TimeFormat),
		}
	}

	c.JSON(http.StatusOK, response)
}

// GetByID returns a board with the caller's role and its stickers
// @Summary      Get a board
// @Tags         Boards
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Board ID"
// @Success      200 {object} BoardFullResponse
// @Failure      403 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /boards/{id} [get]
func (h *BoardHandler) GetByID(c *gin.Context) {
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

	board, role, err := h.boardRepo.GetWithRole(c.Request.Context(), boardID, authenticatedUserID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrBoardNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		case errors.Is(err, authz.ErrNotMember):
			c.JSON(http.StatusForbidden, gin.H{"error": "You don't have access to this board"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve board"})
		}
		return
	}

	stickers, err := h.stickerRepo.ListByBoard(c.Request.Context(), boardID, authenticatedUserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve stickers"})
		return
	}

	response := BoardFullResponse{
		ID:       board.ID.String(),
		Name:     board.Name,
		Role:     string(role),
		Stickers: make([]StickerResponse, len(stickers)),
	}
	for i := range stickers {
		response.Stickers[i] = stickerResponse(&stickers[i])
	}

	c.JSON(http.StatusOK, response)
}

// Update renames a board
// @Summary      Rename a board
// @Tags         Boards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Board ID"
// @Param        request body UpdateBoardRequest true "New name"
// @Success      200 {object} BoardResponse
// @Failure      403 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /boards/{id} [put]
func (h *BoardHandler) Update(c *gin.Context) {
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

	var req UpdateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	board, role, err := h.boardRepo.Rename(c.Request.Context(), boardID, authenticatedUserID, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrBoardNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		case errors.Is(err, authz.ErrNotMember), errors.Is(err, authz.ErrInsufficientRole):
			c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to update this board"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update board"})
		}
		return
	}

	c.JSON(http.StatusOK, BoardResponse{
		ID:        board.ID.String(),
		Name:      board.Name,
		Role:      string(role),
		CreatedAt: board.CreatedAt.Format(http.TimeFormat),
	})
}

// Delete removes a board together with its memberships and stickers
// @Summary      Delete a board
// @Tags         Boards
// @Security     BearerAuth
// @Param        id path string true "Board ID"
// @Success      204
// @Failure      403 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /boards/{id} [delete]
func (h *BoardHandler) Delete(c *gin.Context) {
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

	if err := h.boardRepo.Delete(c.Request.Context(), boardID, authenticatedUserID); err != nil {
		switch {
		case errors.Is(err, repository.ErrBoardNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		case errors.Is(err, authz.ErrNotMember), errors.Is(err, authz.ErrInsufficientRole):
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the board creator can delete the board"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete board"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
