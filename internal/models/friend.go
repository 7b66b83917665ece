package models

import "time"

// Friendship is a confirmed edge between two users. At most one edge exists
// for any unordered pair of users.
type Friendship struct {
	ID          int       `db:"id" json:"_id"`
	RequesterID int       `db:"requester_id" json:"requester"`
	ReceiverID  int       `db:"receiver_id" json:"receiver"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// HasEndpoint reports whether userID is one of the edge's two endpoints.
func (f Friendship) HasEndpoint(userID int) bool {
	return f.RequesterID == userID || f.ReceiverID == userID
}

// FriendshipView is an edge with both endpoints resolved to profiles.
type FriendshipView struct {
	ID        int     `json:"_id"`
	Requester Profile `json:"requester"`
	Receiver  Profile `json:"receiver"`
}

// FriendMessage is one entry of an edge's append-only message log.
type FriendMessage struct {
	ID           int       `db:"id" json:"-"`
	FriendshipID int       `db:"friendship_id" json:"-"`
	SenderID     int       `db:"sender_id" json:"from"`
	Content      string    `db:"content" json:"content"`
	SentAt       time.Time `db:"sent_at" json:"sentAt"`
}
