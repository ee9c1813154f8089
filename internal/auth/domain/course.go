package domain

import "time"

type Course struct {
	ID          string
	Title       string
	Description string
	OwnerID     string // teacher who created the course and may invite to it
	CreatedAt   time.Time
}
