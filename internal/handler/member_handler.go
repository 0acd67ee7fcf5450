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

// MembershipRepo is the membership ledger surface used by the handler.
type MembershipRepo interface {
	ListMembers(ctx context.Context, boardID, requesterID uuid.UUID, requireOwner bool) ([]model.Membership, error)
	Invite(ctx context.Context, boardID, inviterID, inviteeID uuid.UUID, role model.Role) (*model.Membership, error)
	UpdateRole(ctx context.Context, boardID, ownerID, targetUserID uuid.UUID, newRole model.Role) (*model.Membership, error)
	Remove(ctx context.Context, boardID, removerID, targetUserID uuid.UUID) error
}

// MemberUsers resolves invitee emails to users.
type MemberUsers interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

type MemberHandler struct {
	membershipRepo MembershipRepo
	userRepo       MemberUsers
}

func NewMemberHandler(membershipRepo MembershipRepo, userRepo MemberUsers) *MemberHandler {
	return &MemberHandler{
		membershipRepo: membershipRepo,
		userRepo:       userRepo,
	}
}

// InviteRequest приглашает пользователя по email. Роль creator выдать нельзя.
type InviteRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required,oneof=editor viewer"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=editor viewer"`
}

type MemberResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
	Role   string `json:"role"`
}

// GetMembers lists the members of a board; any member may look
// @Summary      List board members
// @Tags         Members
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Board ID"
// @Success      200 {array} MemberResponse
// @Failure      403 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /boards/{id}/members [get]
func (h *MemberHandler) GetMembers(c *gin.Context) {
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

	memberships, err := h.membershipRepo.ListMembers(c.Request.Context(), boardID, authenticatedUserID, false)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrBoardNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		case errors.Is(err, authz.ErrNotMember), errors.Is(err, authz.ErrInsufficientRole):
			c.JSON(http.StatusForbidden, gin.H{"error": "You don't have access to this board"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve members"})
		}
		return
	}

	response := make([]MemberResponse, len(memberships))
	for i, m := range memberships {
		response[i] = MemberResponse{
			UserID: m.UserID.String(),
			Email:  m.User.Email,
			Name:   m.User.Name,
			Role:   string(m.Role),
		}
	}

	c.JSON(http.StatusOK, response)
}

// Invite grants a user access to a board by email
// @Summary      Invite a user to a board
// @Tags         Members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Board ID"
// @Param        request body InviteRequest true "Invitee email and role"
// @Success      201 {object} MemberResponse
// @Failure      403 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Failure      409 {object} map[string]string
// @Router       /boards/{id}/invite [post]
func (h *MemberHandler) Invite(c *gin.Context) {
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

	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	invitee, err := h.userRepo.FindByEmail(c.Request.Context(), req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to find user"})
		return
	}
	if invitee == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User with this email not found"})
		return
	}

	// Пригласить самого себя нельзя — это ошибка входа, а не прав
	if invitee.ID == authenticatedUserID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot invite yourself"})
		return
	}

	membership, err := h.membershipRepo.Invite(c.Request.Context(), boardID, authenticatedUserID, invitee.ID, model.Role(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrBoardNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		case errors.Is(err, repository.ErrMemberExists):
			c.JSON(http.StatusConflict, gin.H{"error": "User is already a member of this board"})
		case errors.Is(err, authz.ErrNotMember), errors.Is(err, authz.ErrInsufficientRole):
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the board creator can invite users"})
		case errors.Is(err, repository.ErrRoleNotAssignable):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Role cannot be assigned"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to invite user"})
		}
		return
	}

	c.JSON(http.StatusCreated, MemberResponse{
		UserID: membership.UserID.String(),
		Email:  invitee.Email,
		Name:   invitee.Name,
		Role:   string(membership.Role),
	})
}

// UpdateRole changes a member's role to editor or viewer
// @Summary      Update a member's role
// @Tags         Members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Board ID"
// @Param        user_id path string true "Target user ID"
// @Param        request body UpdateRoleRequest true "New role"
// @Success      200 {object} MemberResponse
// @Failure      403 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /boards/{id}/members/{user_id} [patch]
func (h *MemberHandler) UpdateRole(c *gin.Context) {
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

	targetUserID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	membership, err := h.membershipRepo.UpdateRole(c.Request.Context(), boardID, authenticatedUserID, targetUserID, model.Role(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrBoardNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		case errors.Is(err, repository.ErrMemberNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		case errors.Is(err, authz.ErrNotMember), errors.Is(err, authz.ErrInsufficientRole):
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the board creator can change roles"})
		case errors.Is(err, repository.ErrRoleNotAssignable):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Role cannot be assigned"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update role"})
		}
		return
	}

	c.JSON(http.StatusOK, MemberResponse{
		UserID: membership.UserID.String(),
		Role:   string(membership.Role),
	})
}

// RemoveMember revokes a member's access to a board
// @Summary      Remove a board member
// @Tags         Members
// @Security     BearerAuth
// @Param        id path string true "Board ID"
// @Param        user_id path string true "Target user ID"
// @Success      204
// @Failure      403 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /boards/{id}/members/{user_id} [delete]
func (h *MemberHandler) RemoveMember(c *gin.Context) {
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

	targetUserID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	if err := h.membershipRepo.Remove(c.Request.Context(), boardID, authenticatedUserID, targetUserID); err != nil {
		switch {
		case errors.Is(err, repository.ErrBoardNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		case errors.Is(err, repository.ErrMemberNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		case errors.Is(err, authz.ErrNotMember), errors.Is(err, authz.ErrInsufficientRole):
			c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to remove this member"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove member"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
