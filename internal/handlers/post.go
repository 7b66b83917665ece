package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"social-service/internal/apperr"
	"social-service/internal/models"
	"social-service/internal/repositories"
)

// PostHandler manages post and comment endpoints.
type PostHandler struct {
	posts    repositories.PostRepository
	comments repositories.CommentRepository
	users    repositories.UserRepository
}

// NewPostHandler builds a PostHandler.
func NewPostHandler(posts repositories.PostRepository, comments repositories.CommentRepository, users repositories.UserRepository) *PostHandler {
	return &PostHandler{posts: posts, comments: comments, users: users}
}

type postResponse struct {
	models.Post
	CreatorData models.Profile `json:"creatorData"`
}

type commentResponse struct {
	models.Comment
	UserData models.Profile `json:"userData"`
}

// List returns one page of posts, newest first.
func (h *PostHandler) List(c *gin.Context) {
	page, limit := pageParams(c)
	posts, total, err := h.posts.List(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	data, err := h.decoratePosts(c.Request.Context(), posts)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":        data,
		"currentPage": page,
		"totalPage":   totalPages(total, limit),
	})
}

// Search matches posts by title substring or exact tag.
func (h *PostHandler) Search(c *gin.Context) {
	query := c.Query("q")
	page, limit := pageParams(c)

	posts, total, err := h.posts.Search(c.Request.Context(), query, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	data, err := h.decoratePosts(c.Request.Context(), posts)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":        data,
		"currentPage": page,
		"totalPage":   totalPages(total, limit),
	})
}

// Show returns a single post with its creator profile.
func (h *PostHandler) Show(c *gin.Context) {
	postID, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	post, err := h.posts.GetByID(c.Request.Context(), postID)
	if err != nil {
		respondError(c, err)
		return
	}

	data, err := h.decoratePosts(c.Request.Context(), []models.Post{post})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, data[0])
}

// Create stores a new post owned by the caller. Blank tags are dropped.
func (h *PostHandler) Create(c *gin.Context) {
	var req struct {
		Title   string   `json:"title"`
		Content string   `json:"content"`
		Tags    []string `json:"tags"`
		File    string   `json:"file"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validationf("invalid input"))
		return
	}

	userID := c.GetInt("userID")
	post, err := h.posts.Create(c.Request.Context(), userID, req.Title, req.Content, cleanTags(req.Tags), req.File)
	if err != nil {
		respondError(c, err)
		return
	}

	data, err := h.decoratePosts(c.Request.Context(), []models.Post{post})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, data[0])
}

// Update rewrites a post. Ownership is enforced by middleware.
func (h *PostHandler) Update(c *gin.Context) {
	var req struct {
		ID      int      `json:"_id" binding:"required"`
		Title   string   `json:"title"`
		Content string   `json:"content"`
		Tags    []string `json:"tags"`
		File    string   `json:"file"`
	}
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		respondError(c, apperr.Validationf("invalid input"))
		return
	}

	post, err := h.posts.Update(c.Request.Context(), req.ID, req.Title, req.Content, cleanTags(req.Tags), req.File)
	if err != nil {
		respondError(c, err)
		return
	}

	data, err := h.decoratePosts(c.Request.Context(), []models.Post{post})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, data[0])
}

// Delete removes a post. Ownership is enforced by middleware.
func (h *PostHandler) Delete(c *gin.Context) {
	var req struct {
		ID int `json:"_id" binding:"required"`
	}
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		respondError(c, apperr.Validationf("invalid input"))
		return
	}

	post, err := h.posts.Delete(c.Request.Context(), req.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// Like toggles the caller's membership in the post's like set.
func (h *PostHandler) Like(c *gin.Context) {
	var req struct {
		ID int `json:"_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validationf("missing post id"))
		return
	}

	ctx := c.Request.Context()
	userID := c.GetInt("userID")

	post, err := h.posts.GetByID(ctx, req.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	likes := make([]int64, 0, len(post.Likes)+1)
	for _, id := range post.Likes {
		if int(id) != userID {
			likes = append(likes, id)
		}
	}
	if !post.Liked(userID) {
		likes = append(likes, int64(userID))
	}

	post, err = h.posts.SetLikes(ctx, req.ID, likes)
	if err != nil {
		respondError(c, err)
		return
	}

	data, err := h.decoratePosts(ctx, []models.Post{post})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, data[0])
}

// SavePost toggles the post in the caller's saved collection and returns the
// updated account.
func (h *PostHandler) SavePost(c *gin.Context) {
	var req struct {
		ID int `json:"id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validationf("missing post id"))
		return
	}

	userID := c.GetInt("userID")
	user, err := h.users.ToggleSavedPost(c.Request.Context(), userID, req.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Comments lists a post's comments, newest first, with commenter profiles.
func (h *PostHandler) Comments(c *gin.Context) {
	postID, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	data, err := h.commentList(c.Request.Context(), postID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

// CommentPost adds a comment and returns the post's refreshed comment list.
func (h *PostHandler) CommentPost(c *gin.Context) {
	var req struct {
		PostID  int    `json:"postId" binding:"required"`
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validationf("invalid input"))
		return
	}

	ctx := c.Request.Context()
	userID := c.GetInt("userID")
	if _, err := h.comments.Create(ctx, req.PostID, userID, req.Content); err != nil {
		respondError(c, err)
		return
	}

	data, err := h.commentList(ctx, req.PostID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

// UpdateComment rewrites a comment. Ownership is enforced by middleware.
func (h *PostHandler) UpdateComment(c *gin.Context) {
	var req struct {
		ID      int    `json:"_id" binding:"required"`
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		respondError(c, apperr.Validationf("invalid input"))
		return
	}

	comment, err := h.comments.Update(c.Request.Context(), req.ID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// DeleteComment removes a comment. Ownership is enforced by middleware.
func (h *PostHandler) DeleteComment(c *gin.Context) {
	var req struct {
		ID int `json:"_id" binding:"required"`
	}
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		respondError(c, apperr.Validationf("invalid input"))
		return
	}

	if err := h.comments.Delete(c.Request.Context(), req.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"_id": req.ID})
}

// MyPosts lists the caller's own posts.
func (h *PostHandler) MyPosts(c *gin.Context) {
	userID := c.GetInt("userID")
	h.creatorPosts(c, userID)
}

// UserPosts lists another user's posts.
func (h *PostHandler) UserPosts(c *gin.Context) {
	targetID, err := pathID(c, "userId")
	if err != nil {
		respondError(c, err)
		return
	}
	h.creatorPosts(c, targetID)
}

func (h *PostHandler) creatorPosts(c *gin.Context, creatorID int) {
	posts, total, err := h.posts.ListByCreator(c.Request.Context(), creatorID)
	if err != nil {
		respondError(c, err)
		return
	}

	data, err := h.decoratePosts(c.Request.Context(), posts)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":        data,
		"currentPage": 1,
		"totalPage":   totalPages(total, 6),
		"totalPosts":  total,
	})
}

// MyCollection lists the posts the caller has saved.
func (h *PostHandler) MyCollection(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.GetInt("userID")

	user, err := h.users.GetByID(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	ids := make([]int, 0, len(user.SavedPosts))
	for _, id := range user.SavedPosts {
		ids = append(ids, int(id))
	}

	posts, total, err := h.posts.ListByIDs(ctx, ids)
	if err != nil {
		respondError(c, err)
		return
	}

	data, err := h.decoratePosts(ctx, posts)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":        data,
		"currentPage": 1,
		"totalPage":   totalPages(total, 6),
		"totalPosts":  total,
	})
}

func (h *PostHandler) decoratePosts(ctx context.Context, posts []models.Post) ([]postResponse, error) {
	creatorIDs := make([]int, 0, len(posts))
	seen := map[int]struct{}{}
	for _, p := range posts {
		if _, ok := seen[p.CreatorID]; !ok {
			seen[p.CreatorID] = struct{}{}
			creatorIDs = append(creatorIDs, p.CreatorID)
		}
	}

	profileByID := map[int]models.Profile{}
	if len(creatorIDs) > 0 {
		profiles, err := h.users.BulkProfiles(ctx, creatorIDs)
		if err != nil {
			return nil, err
		}
		for _, p := range profiles {
			profileByID[p.ID] = p
		}
	}

	result := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		result = append(result, postResponse{Post: p, CreatorData: profileByID[p.CreatorID]})
	}
	return result, nil
}

func (h *PostHandler) commentList(ctx context.Context, postID int) ([]commentResponse, error) {
	comments, err := h.comments.ListForPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	userIDs := make([]int, 0, len(comments))
	seen := map[int]struct{}{}
	for _, cm := range comments {
		if _, ok := seen[cm.UserID]; !ok {
			seen[cm.UserID] = struct{}{}
			userIDs = append(userIDs, cm.UserID)
		}
	}

	profileByID := map[int]models.Profile{}
	if len(userIDs) > 0 {
		profiles, err := h.users.BulkProfiles(ctx, userIDs)
		if err != nil {
			return nil, err
		}
		for _, p := range profiles {
			profileByID[p.ID] = p
		}
	}

	result := make([]commentResponse, 0, len(comments))
	for _, cm := range comments {
		result = append(result, commentResponse{Comment: cm, UserData: profileByID[cm.UserID]})
	}
	return result, nil
}

func cleanTags(tags []string) []string {
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		if strings.TrimSpace(tag) != "" {
			result = append(result, tag)
		}
	}
	return result
}
