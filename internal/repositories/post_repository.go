package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"social-service/internal/models"
)

var ErrPostNotFound = errors.New("post not found")

const postColumns = `id, title, content, creator_id, tags, file, likes, created_at, updated_at`

// PostRepository abstracts post persistence.
type PostRepository interface {
	Create(ctx context.Context, creatorID int, title, content string, tags []string, file string) (models.Post, error)
	GetByID(ctx context.Context, postID int) (models.Post, error)
	GetByIDAndCreator(ctx context.Context, postID, creatorID int) (models.Post, error)
	List(ctx context.Context, page, limit int) ([]models.Post, int, error)
	ListByCreator(ctx context.Context, creatorID int) ([]models.Post, int, error)
	ListByIDs(ctx context.Context, ids []int) ([]models.Post, int, error)
	Search(ctx context.Context, query string, page, limit int) ([]models.Post, int, error)
	Update(ctx context.Context, postID int, title, content string, tags []string, file string) (models.Post, error)
	Delete(ctx context.Context, postID int) (models.Post, error)
	SetLikes(ctx context.Context, postID int, likes []int64) (models.Post, error)
}

// PostRepo is a sqlx implementation of PostRepository.
type PostRepo struct {
	db *sqlx.DB
}

// NewPostRepo constructs a PostRepo.
func NewPostRepo(db *sqlx.DB) *PostRepo {
	return &PostRepo{db: db}
}

// Create inserts a new post.
func (r *PostRepo) Create(ctx context.Context, creatorID int, title, content string, tags []string, file string) (models.Post, error) {
	var post models.Post
	err := r.db.GetContext(ctx, &post,
		`INSERT INTO posts (title, content, creator_id, tags, file)
         VALUES ($1, $2, $3, $4, $5) RETURNING `+postColumns,
		title, content, creatorID, pq.StringArray(tags), file)
	return post, err
}

// GetByID fetches a post.
func (r *PostRepo) GetByID(ctx context.Context, postID int) (models.Post, error) {
	var post models.Post
	err := r.db.GetContext(ctx, &post, `SELECT `+postColumns+` FROM posts WHERE id=$1`, postID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Post{}, ErrPostNotFound
	}
	return post, err
}

// GetByIDAndCreator fetches a post only when owned by creatorID.
func (r *PostRepo) GetByIDAndCreator(ctx context.Context, postID, creatorID int) (models.Post, error) {
	var post models.Post
	err := r.db.GetContext(ctx, &post,
		`SELECT `+postColumns+` FROM posts WHERE id=$1 AND creator_id=$2`, postID, creatorID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Post{}, ErrPostNotFound
	}
	return post, err
}

// List returns one page of posts, newest first, plus the total count.
func (r *PostRepo) List(ctx context.Context, page, limit int) ([]models.Post, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM posts`); err != nil {
		return nil, 0, err
	}

	var posts []models.Post
	err := r.db.SelectContext(ctx, &posts,
		`SELECT `+postColumns+` FROM posts ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, (page-1)*limit)
	return posts, total, err
}

// ListByCreator returns all posts by one user.
func (r *PostRepo) ListByCreator(ctx context.Context, creatorID int) ([]models.Post, int, error) {
	var posts []models.Post
	err := r.db.SelectContext(ctx, &posts,
		`SELECT `+postColumns+` FROM posts WHERE creator_id=$1 ORDER BY created_at DESC`, creatorID)
	return posts, len(posts), err
}

// ListByIDs returns the posts with the given ids, newest first.
func (r *PostRepo) ListByIDs(ctx context.Context, ids []int) ([]models.Post, int, error) {
	if len(ids) == 0 {
		return []models.Post{}, 0, nil
	}
	var posts []models.Post
	err := r.db.SelectContext(ctx, &posts,
		`SELECT `+postColumns+` FROM posts WHERE id = ANY($1) ORDER BY created_at DESC`, pq.Array(ids))
	return posts, len(posts), err
}

// Search matches posts whose title contains the query (case-insensitive) or
// whose tags contain it exactly, one page at a time.
func (r *PostRepo) Search(ctx context.Context, query string, page, limit int) ([]models.Post, int, error) {
	where := `WHERE title ILIKE '%' || $1 || '%' OR $1 = ANY(tags)`

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM posts `+where, query); err != nil {
		return nil, 0, err
	}

	var posts []models.Post
	err := r.db.SelectContext(ctx, &posts,
		`SELECT `+postColumns+` FROM posts `+where+` ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		query, limit, (page-1)*limit)
	return posts, total, err
}

// Update rewrites the mutable post fields.
func (r *PostRepo) Update(ctx context.Context, postID int, title, content string, tags []string, file string) (models.Post, error) {
	var post models.Post
	err := r.db.GetContext(ctx, &post,
		`UPDATE posts SET title=$2, content=$3, tags=$4, file=$5, updated_at=NOW()
         WHERE id=$1 RETURNING `+postColumns,
		postID, title, content, pq.StringArray(tags), file)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Post{}, ErrPostNotFound
	}
	return post, err
}

// Delete removes a post and returns the removed record.
func (r *PostRepo) Delete(ctx context.Context, postID int) (models.Post, error) {
	var post models.Post
	err := r.db.GetContext(ctx, &post,
		`DELETE FROM posts WHERE id=$1 RETURNING `+postColumns, postID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Post{}, ErrPostNotFound
	}
	return post, err
}

// SetLikes replaces the post's like set.
func (r *PostRepo) SetLikes(ctx context.Context, postID int, likes []int64) (models.Post, error) {
	var post models.Post
	err := r.db.GetContext(ctx, &post,
		`UPDATE posts SET likes=$2 WHERE id=$1 RETURNING `+postColumns,
		postID, pq.Int64Array(likes))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Post{}, ErrPostNotFound
	}
	return post, err
}
