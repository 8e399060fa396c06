package models

import "time"

// Blog is an article as served by the backend.
type Blog struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Slug      string     `json:"slug,omitempty"`
	Summary   string     `json:"summary,omitempty"`
	Content   string     `json:"content"`
	Author    string     `json:"author,omitempty"`
	Category  string     `json:"category,omitempty"`
	Tags      []string   `json:"tags,omitempty"`
	Featured  bool       `json:"featured,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// BlogPage is a page of blog results.
type BlogPage struct {
	Content       []Blog `json:"content"`
	TotalElements int64  `json:"totalElements"`
	TotalPages    int    `json:"totalPages"`
	Number        int    `json:"number"`
	Size          int    `json:"size"`
}
