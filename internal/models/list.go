package models

import (
	"time"
)

type List struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	IsPublic  bool      `json:"is_public"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateListRequest struct {
	Slug     string `json:"slug"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	IsPublic bool   `json:"is_public"`
}

type UpdateListRequest struct {
	Title    *string `json:"title,omitempty"`
	Content  *string `json:"content,omitempty"`
	IsPublic *bool   `json:"is_public,omitempty"`
}

// TrendingList is one row of the trending ranking: a public list and its
// distinct-visitor view count within the rolling window.
type TrendingList struct {
	Username  string `json:"username"`
	Slug      string `json:"slug"`
	Title     string `json:"title"`
	ViewCount int    `json:"view_count"`
}
