package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"social-service/internal/models"
)

var ErrCommentNotFound = errors.New("comment not found")

const commentColumns = `id, post_id, user_id, content, created_at, updated_at`

// CommentRepository abstracts comment persistence.
type CommentRepository interface {
	Create(ctx context.Context, postID, userID int, content string) (models.Comment, error)
	ListForPost(ctx context.Context, postID int) ([]models.Comment, error)
	GetByIDAndUser(ctx context.Context, commentID, userID int) (models.Comment, error)
	Update(ctx context.Context, commentID int, content string) (models.Comment, error)
	Delete(ctx context.Context, commentID int) error
}

// CommentRepo is a sqlx implementation of CommentRepository.
type CommentRepo struct {
	db *sqlx.DB
}

// NewCommentRepo constructs a CommentRepo.
func NewCommentRepo(db *sqlx.DB) *CommentRepo {
	return &CommentRepo{db: db}
}

// Create inserts a comment on a post.
func (r *CommentRepo) Create(ctx context.Context, postID, userID int, content string) (models.Comment, error) {
	var comment models.Comment
	err := r.db.GetContext(ctx, &comment,
		`INSERT INTO comments (post_id, user_id, content) VALUES ($1, $2, $3) RETURNING `+commentColumns,
		postID, userID, content)
	return comment, err
}

// ListForPost returns a post's comments, newest first.
func (r *CommentRepo) ListForPost(ctx context.Context, postID int) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.SelectContext(ctx, &comments,
		`SELECT `+commentColumns+` FROM comments WHERE post_id=$1 ORDER BY created_at DESC`, postID)
	return comments, err
}

// GetByIDAndUser fetches a comment only when authored by userID.
func (r *CommentRepo) GetByIDAndUser(ctx context.Context, commentID, userID int) (models.Comment, error) {
	var comment models.Comment
	err := r.db.GetContext(ctx, &comment,
		`SELECT `+commentColumns+` FROM comments WHERE id=$1 AND user_id=$2`, commentID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Comment{}, ErrCommentNotFound
	}
	return comment, err
}

// Update rewrites the comment content.
func (r *CommentRepo) Update(ctx context.Context, commentID int, content string) (models.Comment, error) {
	var comment models.Comment
	err := r.db.GetContext(ctx, &comment,
		`UPDATE comments SET content=$2, updated_at=NOW() WHERE id=$1 RETURNING `+commentColumns,
		commentID, content)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Comment{}, ErrCommentNotFound
	}
	return comment, err
}

// Delete removes a comment.
func (r *CommentRepo) Delete(ctx context.Context, commentID int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id=$1`, commentID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrCommentNotFound
	}
	return nil
}
