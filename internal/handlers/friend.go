package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"social-service/internal/apperr"
	"social-service/internal/models"
	"social-service/internal/repositories"
	"social-service/internal/telemetry"
)

// FriendHandler implements the friend-request engine: the state machine per
// unordered user pair is None -> Pending(requester->receiver) -> Friends,
// where Pending is a row in the request store and Friends is an edge in the
// relationship store.
type FriendHandler struct {
	users   repositories.UserRepository
	friends repositories.FriendRepository
	audit   *telemetry.AuditEmitter
}

// NewFriendHandler builds a FriendHandler.
func NewFriendHandler(users repositories.UserRepository, friends repositories.FriendRepository, audit *telemetry.AuditEmitter) *FriendHandler {
	return &FriendHandler{users: users, friends: friends, audit: audit}
}

// RequestFriend toggles the caller's pending request towards the target:
// absent -> added, present -> removed. Cancel is the same operation as
// request. Fails when the pair is already friends. Responds with the
// resulting pending membership.
func (h *FriendHandler) RequestFriend(c *gin.Context) {
	var req struct {
		FriendID int `json:"friendId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validationf("missing friend id"))
		return
	}

	ctx := c.Request.Context()
	userID := c.GetInt("userID")

	if _, err := h.users.GetByID(ctx, req.FriendID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			respondError(c, apperr.NotFoundf("friend does not exist"))
			return
		}
		respondError(c, err)
		return
	}

	_, err := h.friends.FindEdge(ctx, userID, req.FriendID)
	if err == nil {
		respondError(c, apperr.Conflictf("you are already friends, please reload"))
		return
	}
	if !errors.Is(err, repositories.ErrEdgeNotFound) {
		respondError(c, err)
		return
	}

	pending, err := h.friends.HasRequest(ctx, userID, req.FriendID)
	if err != nil {
		respondError(c, err)
		return
	}

	if pending {
		err = h.friends.RemoveRequest(ctx, userID, req.FriendID)
	} else {
		err = h.friends.AddRequest(ctx, userID, req.FriendID)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	h.emitAudit(c, "INFO", "friend request toggled")
	c.JSON(http.StatusOK, gin.H{"status": !pending})
}

// ConfirmFriendRequest turns a pending request from the target into a
// confirmed edge. Pending rows in both directions are cleared first; the
// clean-up and the edge insert are separate store writes, not one
// transaction.
func (h *FriendHandler) ConfirmFriendRequest(c *gin.Context) {
	var req struct {
		FriendID int `json:"friendId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validationf("missing friend id"))
		return
	}

	ctx := c.Request.Context()
	userID := c.GetInt("userID")

	pending, err := h.friends.HasRequest(ctx, req.FriendID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !pending {
		respondError(c, apperr.Conflictf("something went wrong, please reload"))
		return
	}

	if err := h.friends.RemovePairRequests(ctx, userID, req.FriendID); err != nil {
		respondError(c, err)
		return
	}

	edge, err := h.friends.CreateEdge(ctx, req.FriendID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.emitAudit(c, "INFO", "friend request confirmed")
	c.JSON(http.StatusOK, edge)
}

// Unfriend deletes an edge the caller is part of. The response carries the
// entire remaining edge collection, matching the long-standing API shape.
func (h *FriendHandler) Unfriend(c *gin.Context) {
	var req struct {
		ID int `json:"_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validationf("missing friendship id"))
		return
	}

	ctx := c.Request.Context()
	userID := c.GetInt("userID")

	edge, err := h.friends.GetEdge(ctx, req.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrEdgeNotFound) {
			respondError(c, apperr.NotFoundf("friendship does not exist"))
			return
		}
		respondError(c, err)
		return
	}
	if !edge.HasEndpoint(userID) {
		respondError(c, apperr.Forbiddenf("you are not in this friendship"))
		return
	}

	if err := h.friends.DeleteEdge(ctx, edge.ID); err != nil {
		respondError(c, err)
		return
	}

	edges, err := h.friends.ListAllEdges(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	h.emitAudit(c, "INFO", "unfriended")
	c.JSON(http.StatusOK, edges)
}

// MyFriendRequests lists the profiles of users whose requests to the caller
// are still pending.
func (h *FriendHandler) MyFriendRequests(c *gin.Context) {
	userID := c.GetInt("userID")
	profiles, err := h.friends.ListRequestersFor(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if profiles == nil {
		profiles = []models.Profile{}
	}
	c.JSON(http.StatusOK, profiles)
}

// MyFriendList returns the caller's edges, each normalized to the other
// endpoint's profile.
func (h *FriendHandler) MyFriendList(c *gin.Context) {
	userID := c.GetInt("userID")
	edges, err := h.friends.ListEdgesForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	type friendEntry struct {
		ID   int            `json:"_id"`
		User models.Profile `json:"user"`
	}
	result := make([]friendEntry, 0, len(edges))
	for _, edge := range edges {
		other := edge.Requester
		if other.ID == userID {
			other = edge.Receiver
		}
		result = append(result, friendEntry{ID: edge.ID, User: other})
	}
	c.JSON(http.StatusOK, result)
}

// RequestStatus reports whether the caller has a pending request towards the
// target user. Clients use it to render request/cancel button state.
func (h *FriendHandler) RequestStatus(c *gin.Context) {
	targetID, err := pathID(c, "userId")
	if err != nil {
		respondError(c, err)
		return
	}

	userID := c.GetInt("userID")
	pending, err := h.friends.HasRequest(c.Request.Context(), userID, targetID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": pending})
}

// SaveMessage appends a chat message to an edge's log and returns the updated
// log. This is the persistence half of room chat, decoupled from real-time
// delivery.
func (h *FriendHandler) SaveMessage(c *gin.Context) {
	var req struct {
		ID       int    `json:"_id" binding:"required"`
		FromUser int    `json:"fromUser" binding:"required"`
		Content  string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validationf("invalid input"))
		return
	}

	msgs, err := h.friends.AppendMessage(c.Request.Context(), req.ID, req.FromUser, req.Content)
	if err != nil {
		if errors.Is(err, repositories.ErrEdgeNotFound) {
			respondError(c, apperr.NotFoundf("friendship does not exist"))
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

// RoomMessages returns the message log for the edge used as a chat room.
func (h *FriendHandler) RoomMessages(c *gin.Context) {
	edgeID, err := pathID(c, "roomId")
	if err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.friends.GetEdge(ctx, edgeID); err != nil {
		if errors.Is(err, repositories.ErrEdgeNotFound) {
			respondError(c, apperr.NotFoundf("friendship does not exist"))
			return
		}
		respondError(c, err)
		return
	}

	msgs, err := h.friends.ListMessages(ctx, edgeID)
	if err != nil {
		respondError(c, err)
		return
	}
	if msgs == nil {
		msgs = []models.FriendMessage{}
	}
	c.JSON(http.StatusOK, msgs)
}

func (h *FriendHandler) emitAudit(c *gin.Context, level, text string) {
	if h.audit == nil {
		return
	}
	h.audit.Emit(c.Request.Context(), level, text, requestIDFromContext(c), userIDFromContext(c))
}
