// Package models defines the record types stored in PostgreSQL and
// the populated view shapes returned to clients.
package models

import "time"

// User is a registered account. PasswordHash is the bcrypt digest and
// never leaves the server.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Campground is a listed site record. AuthorID is the owning user,
// compared against session identity for authorization.
type Campground struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	AuthorID    string    `json:"author_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Image is one uploaded campground photo. Filename is the storage
// public id used to destroy the object later; URL is the delivery URL.
type Image struct {
	ID           string `json:"id"`
	CampgroundID string `json:"-"`
	URL          string `json:"url"`
	Filename     string `json:"filename"`
	Position     int    `json:"position"`
}

// Review is a rated comment attached to a campground, owned by its
// author. Rating is constrained to 1..5.
type Review struct {
	ID           string    `json:"id"`
	CampgroundID string    `json:"campground_id"`
	AuthorID     string    `json:"author_id"`
	Body         string    `json:"body"`
	Rating       int       `json:"rating"`
	CreatedAt    time.Time `json:"created_at"`
}

// Author is the populated public view of a user reference.
type Author struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// CampgroundSummary is the list-view shape: the record plus its author
// and a cover image, without reviews.
type CampgroundSummary struct {
	Campground
	Author Author  `json:"author"`
	Images []Image `json:"images"`
}

// ReviewWithAuthor is a review populated with its owning user.
type ReviewWithAuthor struct {
	Review
	Author Author `json:"author"`
}

// CampgroundDetail is the detail-view shape: the record populated with
// its images, its owning author, and its reviews (each with author).
type CampgroundDetail struct {
	Campground
	Author  Author             `json:"author"`
	Images  []Image            `json:"images"`
	Reviews []ReviewWithAuthor `json:"reviews"`
}
