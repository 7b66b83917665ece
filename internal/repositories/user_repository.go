package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"social-service/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

const userColumns = `id, name, email, password_hash, description, avatar, role, saved_posts, created_at`

// UserRepository abstracts user persistence.
type UserRepository interface {
	Create(ctx context.Context, name, email, passwordHash, description, avatar string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, userID int) (models.User, error)
	UpdateProfile(ctx context.Context, userID int, name, description, avatar string) (models.User, error)
	UpdatePassword(ctx context.Context, userID int, passwordHash string) error
	ToggleSavedPost(ctx context.Context, userID int, postID int) (models.User, error)
	BulkProfiles(ctx context.Context, ids []int) ([]models.Profile, error)
}

// UserRepo is a sqlx implementation of UserRepository.
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo constructs a UserRepo.
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create inserts a new user. Email uniqueness is enforced by the store.
func (r *UserRepo) Create(ctx context.Context, name, email, passwordHash, description, avatar string) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user,
		`INSERT INTO users (name, email, password_hash, description, avatar)
         VALUES ($1, $2, $3, $4, $5)
         RETURNING `+userColumns, name, email, passwordHash, description, avatar)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return models.User{}, ErrEmailTaken
	}
	return user, err
}

// GetByEmail fetches a user by email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE email=$1`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, userID int) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id=$1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// UpdateProfile changes the mutable profile fields.
func (r *UserRepo) UpdateProfile(ctx context.Context, userID int, name, description, avatar string) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user,
		`UPDATE users SET name=$2, description=$3, avatar=$4 WHERE id=$1 RETURNING `+userColumns,
		userID, name, description, avatar)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// UpdatePassword replaces the stored credential hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, userID int, passwordHash string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET password_hash=$2 WHERE id=$1`, userID, passwordHash)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ToggleSavedPost adds the post to the user's saved set, or removes it if
// already present, and returns the updated user.
func (r *UserRepo) ToggleSavedPost(ctx context.Context, userID int, postID int) (models.User, error) {
	user, err := r.GetByID(ctx, userID)
	if err != nil {
		return models.User{}, err
	}

	saved := false
	updated := make(pq.Int64Array, 0, len(user.SavedPosts)+1)
	for _, id := range user.SavedPosts {
		if int(id) == postID {
			saved = true
			continue
		}
		updated = append(updated, id)
	}
	if !saved {
		updated = append(updated, int64(postID))
	}

	err = r.db.GetContext(ctx, &user,
		`UPDATE users SET saved_posts=$2 WHERE id=$1 RETURNING `+userColumns, userID, updated)
	return user, err
}

// BulkProfiles fetches lightweight projections for the given ids.
func (r *UserRepo) BulkProfiles(ctx context.Context, ids []int) ([]models.Profile, error) {
	if len(ids) == 0 {
		return []models.Profile{}, nil
	}
	var profiles []models.Profile
	err := r.db.SelectContext(ctx, &profiles,
		`SELECT id, name, avatar FROM users WHERE id = ANY($1)`, pq.Array(ids))
	return profiles, err
}
