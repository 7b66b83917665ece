package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"social-service/internal/models"
)

var ErrEdgeNotFound = errors.New("friendship not found")

const edgeColumns = `id, requester_id, receiver_id, created_at`

// FriendRepository is the relationship store: confirmed edges with their
// message logs, plus the pending-request rows consumed by the request engine.
// A pending row (requester, receiver) means requester asked receiver and the
// receiver has not confirmed yet.
type FriendRepository interface {
	FindEdge(ctx context.Context, userA, userB int) (models.Friendship, error)
	GetEdge(ctx context.Context, edgeID int) (models.Friendship, error)
	CreateEdge(ctx context.Context, requesterID, receiverID int) (models.Friendship, error)
	DeleteEdge(ctx context.Context, edgeID int) error
	ListEdgesForUser(ctx context.Context, userID int) ([]models.FriendshipView, error)
	ListAllEdges(ctx context.Context) ([]models.Friendship, error)

	AppendMessage(ctx context.Context, edgeID, senderID int, content string) ([]models.FriendMessage, error)
	ListMessages(ctx context.Context, edgeID int) ([]models.FriendMessage, error)

	HasRequest(ctx context.Context, requesterID, receiverID int) (bool, error)
	AddRequest(ctx context.Context, requesterID, receiverID int) error
	RemoveRequest(ctx context.Context, requesterID, receiverID int) error
	RemovePairRequests(ctx context.Context, userA, userB int) error
	ListRequestersFor(ctx context.Context, receiverID int) ([]models.Profile, error)
}

// FriendRepo is a sqlx implementation of FriendRepository.
type FriendRepo struct {
	db *sqlx.DB
}

// NewFriendRepo constructs a FriendRepo.
func NewFriendRepo(db *sqlx.DB) *FriendRepo {
	return &FriendRepo{db: db}
}

// FindEdge looks up the edge between two users regardless of which side
// requested the friendship.
func (r *FriendRepo) FindEdge(ctx context.Context, userA, userB int) (models.Friendship, error) {
	var edge models.Friendship
	err := r.db.GetContext(ctx, &edge,
		`SELECT `+edgeColumns+` FROM friendships
         WHERE (requester_id=$1 AND receiver_id=$2) OR (requester_id=$2 AND receiver_id=$1)`,
		userA, userB)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Friendship{}, ErrEdgeNotFound
	}
	return edge, err
}

// GetEdge fetches an edge by id.
func (r *FriendRepo) GetEdge(ctx context.Context, edgeID int) (models.Friendship, error) {
	var edge models.Friendship
	err := r.db.GetContext(ctx, &edge, `SELECT `+edgeColumns+` FROM friendships WHERE id=$1`, edgeID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Friendship{}, ErrEdgeNotFound
	}
	return edge, err
}

// CreateEdge records a confirmed friendship.
func (r *FriendRepo) CreateEdge(ctx context.Context, requesterID, receiverID int) (models.Friendship, error) {
	var edge models.Friendship
	err := r.db.GetContext(ctx, &edge,
		`INSERT INTO friendships (requester_id, receiver_id) VALUES ($1, $2) RETURNING `+edgeColumns,
		requesterID, receiverID)
	return edge, err
}

// DeleteEdge removes an edge and, via cascade, its message log.
func (r *FriendRepo) DeleteEdge(ctx context.Context, edgeID int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM friendships WHERE id=$1`, edgeID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrEdgeNotFound
	}
	return nil
}

// ListEdgesForUser returns every edge the user is part of, with both
// endpoints resolved to lightweight profiles.
func (r *FriendRepo) ListEdgesForUser(ctx context.Context, userID int) ([]models.FriendshipView, error) {
	rows, err := r.db.QueryxContext(ctx,
		`SELECT f.id,
                req.id, req.name, req.avatar,
                rec.id, rec.name, rec.avatar
         FROM friendships f
         JOIN users req ON req.id = f.requester_id
         JOIN users rec ON rec.id = f.receiver_id
         WHERE f.requester_id=$1 OR f.receiver_id=$1
         ORDER BY f.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.FriendshipView
	for rows.Next() {
		var view models.FriendshipView
		if err := rows.Scan(&view.ID,
			&view.Requester.ID, &view.Requester.Name, &view.Requester.Avatar,
			&view.Receiver.ID, &view.Receiver.Name, &view.Receiver.Avatar); err != nil {
			return nil, err
		}
		result = append(result, view)
	}
	return result, rows.Err()
}

// ListAllEdges returns every edge in the store.
func (r *FriendRepo) ListAllEdges(ctx context.Context) ([]models.Friendship, error) {
	var edges []models.Friendship
	err := r.db.SelectContext(ctx, &edges, `SELECT `+edgeColumns+` FROM friendships ORDER BY created_at DESC`)
	return edges, err
}

// AppendMessage adds one entry to the edge's message log and returns the
// updated log. The log is append-only while the edge exists.
func (r *FriendRepo) AppendMessage(ctx context.Context, edgeID, senderID int, content string) ([]models.FriendMessage, error) {
	if _, err := r.GetEdge(ctx, edgeID); err != nil {
		return nil, err
	}
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO friend_messages (friendship_id, sender_id, content) VALUES ($1, $2, $3)`,
		edgeID, senderID, content); err != nil {
		return nil, err
	}
	return r.ListMessages(ctx, edgeID)
}

// ListMessages returns the edge's message log in append order.
func (r *FriendRepo) ListMessages(ctx context.Context, edgeID int) ([]models.FriendMessage, error) {
	var msgs []models.FriendMessage
	err := r.db.SelectContext(ctx, &msgs,
		`SELECT id, friendship_id, sender_id, content, sent_at
         FROM friend_messages WHERE friendship_id=$1 ORDER BY id ASC`, edgeID)
	return msgs, err
}

// HasRequest reports whether a pending request from requester to receiver exists.
func (r *FriendRepo) HasRequest(ctx context.Context, requesterID, receiverID int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM friend_requests WHERE requester_id=$1 AND receiver_id=$2)`,
		requesterID, receiverID)
	return exists, err
}

// AddRequest records a pending request; idempotent.
func (r *FriendRepo) AddRequest(ctx context.Context, requesterID, receiverID int) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO friend_requests (requester_id, receiver_id) VALUES ($1, $2)
         ON CONFLICT (requester_id, receiver_id) DO NOTHING`, requesterID, receiverID)
	return err
}

// RemoveRequest deletes a pending request; no-op when absent.
func (r *FriendRepo) RemoveRequest(ctx context.Context, requesterID, receiverID int) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM friend_requests WHERE requester_id=$1 AND receiver_id=$2`, requesterID, receiverID)
	return err
}

// RemovePairRequests deletes pending requests in both directions between two
// users. Used by confirmation to also clear stale reverse entries.
func (r *FriendRepo) RemovePairRequests(ctx context.Context, userA, userB int) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM friend_requests
         WHERE (requester_id=$1 AND receiver_id=$2) OR (requester_id=$2 AND receiver_id=$1)`,
		userA, userB)
	return err
}

// ListRequestersFor returns the profiles of users who asked receiverID for
// friendship and are still pending.
func (r *FriendRepo) ListRequestersFor(ctx context.Context, receiverID int) ([]models.Profile, error) {
	var profiles []models.Profile
	err := r.db.SelectContext(ctx, &profiles,
		`SELECT u.id, u.name, u.avatar
         FROM friend_requests fr
         JOIN users u ON u.id = fr.requester_id
         WHERE fr.receiver_id=$1
         ORDER BY fr.created_at ASC`, receiverID)
	return profiles, err
}
