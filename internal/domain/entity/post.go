package entity

import (
	"time"
)

// Post is authored by an account. Name and Avatar are snapshots of the
// author at creation time and are never refreshed afterwards.
type Post struct {
	ID       string    `json:"id"`
	User     string    `json:"user"`
	Text     string    `json:"text"`
	Name     string    `json:"name"`
	Avatar   string    `json:"avatar"`
	Likes    []Like    `json:"likes"`
	Comments []Comment `json:"comments"`
	Date     time.Time `json:"date"`
}

// Like records one account's like. A post never holds two likes for the
// same account.
type Like struct {
	User string `json:"user"`
}

// Comment carries its own identity and an author snapshot, like its parent
// post. Only the commenting account may delete it.
type Comment struct {
	ID     string    `json:"id"`
	User   string    `json:"user"`
	Text   string    `json:"text"`
	Name   string    `json:"name"`
	Avatar string    `json:"avatar"`
	Date   time.Time `json:"date"`
}
