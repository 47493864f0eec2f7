package domain

import "time"

// Book represents a catalog entry whose price history is tracked.
type Book struct {
	ID          string
	Title       string
	Author      string
	ISBN        string
	PublishedAt time.Time
	CreatedAt   time.Time
}
