package models

import (
	"time"

	"github.com/lib/pq"
)

// User is the full account record. PasswordHash never leaves the process.
type User struct {
	ID           int           `db:"id" json:"_id"`
	Name         string        `db:"name" json:"name"`
	Email        string        `db:"email" json:"email"`
	PasswordHash string        `db:"password_hash" json:"-"`
	Description  string        `db:"description" json:"description"`
	Avatar       string        `db:"avatar" json:"avatar"`
	Role         string        `db:"role" json:"role"`
	SavedPosts   pq.Int64Array `db:"saved_posts" json:"savedPosts"`
	CreatedAt    time.Time     `db:"created_at" json:"createdAt"`
}

// Profile is the lightweight projection exposed to other users.
type Profile struct {
	ID     int    `db:"id" json:"_id"`
	Name   string `db:"name" json:"name"`
	Avatar string `db:"avatar" json:"avatar"`
}

// Profile returns the lightweight view of the user.
func (u User) Profile() Profile {
	return Profile{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
}

// RoleAdmin grants the elevated capability accepted by ownership checks.
const RoleAdmin = "admin"
